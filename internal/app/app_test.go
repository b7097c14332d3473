package app

import (
	"context"
	"errors"
	"testing"

	"github.com/glabrego/reviews-cli/internal/review"
	"github.com/rs/zerolog"
)

type fakeRemote struct {
	page review.Page
	err  error
}

func (f fakeRemote) GetPage(context.Context, int, int) (review.Page, error) {
	if f.err != nil {
		return review.Page{}, f.err
	}
	return f.page, nil
}

type fakeRepo struct {
	saved   map[int]review.Page
	cached  review.Page
	hit     bool
	saveErr error
	loadErr error
}

func (f *fakeRepo) SavePage(_ context.Context, offset int, page review.Page) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.saved == nil {
		f.saved = make(map[int]review.Page)
	}
	f.saved[offset] = page
	return nil
}

func (f *fakeRepo) LoadPage(context.Context, int, int) (review.Page, bool, error) {
	if f.loadErr != nil {
		return review.Page{}, false, f.loadErr
	}
	return f.cached, f.hit, nil
}

func TestService_GetPage_SavesRemotePage(t *testing.T) {
	page := review.Page{Items: []review.Record{{FirstName: "Ann"}}, Count: 1}
	repo := &fakeRepo{}
	svc := NewService(fakeRemote{page: page}, repo, zerolog.Nop())

	got, err := svc.GetPage(context.Background(), 20, 10)
	if err != nil {
		t.Fatalf("GetPage returned error: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].FirstName != "Ann" {
		t.Fatalf("unexpected page: %+v", got)
	}
	if saved, ok := repo.saved[20]; !ok || saved.Count != 1 {
		t.Fatalf("page was not saved at offset 20: %+v", repo.saved)
	}
	if svc.Offline() {
		t.Fatal("expected online after remote success")
	}
}

func TestService_GetPage_SaveFailureIsNotFatal(t *testing.T) {
	svc := NewService(fakeRemote{page: review.Page{Count: 0}}, &fakeRepo{saveErr: errors.New("disk full")}, zerolog.Nop())
	if _, err := svc.GetPage(context.Background(), 0, 20); err != nil {
		t.Fatalf("GetPage returned error: %v", err)
	}
}

func TestService_GetPage_FallsBackToSnapshot(t *testing.T) {
	cached := review.Page{Items: []review.Record{{FirstName: "Cached"}}, Count: 1}
	remoteErr := review.ErrSourceUnavailable
	svc := NewService(fakeRemote{err: remoteErr}, &fakeRepo{cached: cached, hit: true}, zerolog.Nop())

	got, err := svc.GetPage(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("GetPage returned error: %v", err)
	}
	if got.Items[0].FirstName != "Cached" {
		t.Fatalf("unexpected page: %+v", got)
	}
	if !svc.Offline() {
		t.Fatal("expected offline after snapshot fallback")
	}
}

func TestService_GetPage_PropagatesErrorOnSnapshotMiss(t *testing.T) {
	svc := NewService(fakeRemote{err: review.ErrSourceUnavailable}, &fakeRepo{}, zerolog.Nop())

	_, err := svc.GetPage(context.Background(), 0, 20)
	if !errors.Is(err, review.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}

	svc = NewService(fakeRemote{err: review.ErrDecode}, &fakeRepo{loadErr: errors.New("locked")}, zerolog.Nop())
	_, err = svc.GetPage(context.Background(), 0, 20)
	if !errors.Is(err, review.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestService_GetPage_NoRepository(t *testing.T) {
	svc := NewService(fakeRemote{err: review.ErrSourceUnavailable}, nil, zerolog.Nop())
	if _, err := svc.GetPage(context.Background(), 0, 20); !errors.Is(err, review.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
