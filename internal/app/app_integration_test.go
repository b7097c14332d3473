package app

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/glabrego/reviews-cli/internal/fixture"
	"github.com/glabrego/reviews-cli/internal/review"
	"github.com/glabrego/reviews-cli/internal/reviewapi"
	"github.com/glabrego/reviews-cli/internal/storage"
	"github.com/rs/zerolog"
)

func TestIntegration_SnapshotServesPagesWhileBackendIsDown(t *testing.T) {
	src, err := fixture.NewSource(fixture.SourceOptions{})
	if err != nil {
		t.Fatalf("NewSource returned error: %v", err)
	}
	ts := httptest.NewServer(fixture.NewServer(src, nil, zerolog.Nop()))

	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "reviews.db"))
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	ctx := context.Background()
	if err := repo.Init(ctx); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	client, err := reviewapi.NewClient(ts.URL, ts.Client())
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	svc := NewService(client, repo, zerolog.Nop())

	online, err := svc.GetPage(ctx, 0, 20)
	if err != nil {
		t.Fatalf("GetPage returned error: %v", err)
	}
	if len(online.Items) != 20 || online.Count != 45 {
		t.Fatalf("unexpected online page: items=%d count=%d", len(online.Items), online.Count)
	}

	ts.Close()

	offline, err := svc.GetPage(ctx, 0, 20)
	if err != nil {
		t.Fatalf("expected snapshot page, got error: %v", err)
	}
	if !svc.Offline() {
		t.Fatal("expected service to report offline")
	}
	if offline.Items[3].FullName() != online.Items[3].FullName() || offline.Items[3].AvatarURL != online.Items[3].AvatarURL {
		t.Fatalf("snapshot differs: %+v vs %+v", offline.Items[3], online.Items[3])
	}

	_, err = svc.GetPage(ctx, 20, 20)
	if !errors.Is(err, review.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable for unseen page, got %v", err)
	}
}
