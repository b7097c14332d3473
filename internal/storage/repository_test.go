package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glabrego/reviews-cli/internal/review"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "reviews.db"))
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	return repo
}

func records(from, n int) []review.Record {
	out := make([]review.Record, n)
	for i := range out {
		out[i] = review.Record{
			FirstName: "User",
			LastName:  string(rune('A' + from + i)),
			Rating:    (from+i)%5 + 1,
			Text:      "text",
			Created:   "1 May 2024",
		}
	}
	out[0].AvatarURL = "https://img.example.com/a.png"
	out[0].PhotoURLs = []string{"https://img.example.com/p1.png", "https://img.example.com/p2.png"}
	return out
}

func TestRepository_SaveAndLoadPage(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if _, ok, err := repo.LoadPage(ctx, 0, 10); err != nil || ok {
		t.Fatalf("expected empty snapshot, got ok=%v err=%v", ok, err)
	}

	if err := repo.SavePage(ctx, 0, review.Page{Items: records(0, 3), Count: 5}); err != nil {
		t.Fatalf("SavePage returned error: %v", err)
	}

	page, ok, err := repo.LoadPage(ctx, 0, 3)
	if err != nil || !ok {
		t.Fatalf("LoadPage returned ok=%v err=%v", ok, err)
	}
	if page.Count != 5 || len(page.Items) != 3 {
		t.Fatalf("unexpected page: count=%d items=%d", page.Count, len(page.Items))
	}
	if page.Items[0].AvatarURL != "https://img.example.com/a.png" || len(page.Items[0].PhotoURLs) != 2 {
		t.Fatalf("unexpected first record: %+v", page.Items[0])
	}
	if page.Items[1].PhotoURLs != nil {
		t.Fatalf("expected nil photos, got %v", page.Items[1].PhotoURLs)
	}

	if _, ok, _ := repo.LoadPage(ctx, 0, 5); ok {
		t.Fatal("expected incomplete range to miss")
	}

	if err := repo.SavePage(ctx, 3, review.Page{Items: records(3, 2), Count: 5}); err != nil {
		t.Fatalf("SavePage returned error: %v", err)
	}
	page, ok, err = repo.LoadPage(ctx, 3, 20)
	if err != nil || !ok {
		t.Fatalf("LoadPage returned ok=%v err=%v", ok, err)
	}
	if len(page.Items) != 2 || page.Items[0].LastName != "D" {
		t.Fatalf("unexpected tail page: %+v", page.Items)
	}
}

func TestRepository_SavePage_UpsertsAndTrims(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if err := repo.SavePage(ctx, 0, review.Page{Items: records(0, 4), Count: 4}); err != nil {
		t.Fatalf("SavePage returned error: %v", err)
	}
	updated := records(0, 2)
	updated[0].Text = "edited"
	if err := repo.SavePage(ctx, 0, review.Page{Items: updated, Count: 2}); err != nil {
		t.Fatalf("SavePage returned error: %v", err)
	}

	count, ok, err := repo.Count(ctx)
	if err != nil || !ok || count != 2 {
		t.Fatalf("unexpected count=%d ok=%v err=%v", count, ok, err)
	}
	page, ok, err := repo.LoadPage(ctx, 0, 10)
	if err != nil || !ok {
		t.Fatalf("LoadPage returned ok=%v err=%v", ok, err)
	}
	if len(page.Items) != 2 || page.Items[0].Text != "edited" {
		t.Fatalf("unexpected page after upsert: %+v", page.Items)
	}
}

func TestRepository_LoadPage_PastEnd(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	if err := repo.SavePage(ctx, 0, review.Page{Items: records(0, 2), Count: 2}); err != nil {
		t.Fatalf("SavePage returned error: %v", err)
	}
	page, ok, err := repo.LoadPage(ctx, 2, 20)
	if err != nil || !ok {
		t.Fatalf("LoadPage returned ok=%v err=%v", ok, err)
	}
	if len(page.Items) != 0 || page.Count != 2 {
		t.Fatalf("expected empty terminal page, got %+v", page)
	}
}
