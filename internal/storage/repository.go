package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glabrego/reviews-cli/internal/review"
)

// Repository keeps a positional snapshot of the review list so pages seen
// once can be served again while the backend is unreachable.
type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS reviews (
  position INTEGER PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  rating INTEGER NOT NULL,
  text TEXT NOT NULL,
  created TEXT NOT NULL,
  avatar_url TEXT,
  photo_urls TEXT NOT NULL,
  fetched_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SavePage stores page at offset and records its total count. Positions at
// or beyond the new total are dropped.
func (r *Repository) SavePage(ctx context.Context, offset int, page review.Page) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO reviews (position, first_name, last_name, rating, text, created, avatar_url, photo_urls, fetched_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(position) DO UPDATE SET
  first_name=excluded.first_name,
  last_name=excluded.last_name,
  rating=excluded.rating,
  text=excluded.text,
  created=excluded.created,
  avatar_url=excluded.avatar_url,
  photo_urls=excluded.photo_urls,
  fetched_at=excluded.fetched_at
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for i, rec := range page.Items {
		photos, err := json.Marshal(nonNil(rec.PhotoURLs))
		if err != nil {
			return fmt.Errorf("encode photos of review %d: %w", offset+i, err)
		}
		_, err = stmt.ExecContext(
			ctx,
			offset+i,
			rec.FirstName,
			rec.LastName,
			rec.Rating,
			rec.Text,
			rec.Created,
			rec.AvatarURL,
			string(photos),
			now,
		)
		if err != nil {
			return fmt.Errorf("save review %d: %w", offset+i, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE position >= ?`, page.Count); err != nil {
		return fmt.Errorf("trim reviews: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO meta (key, value) VALUES ('count', ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`, strconv.Itoa(page.Count)); err != nil {
		return fmt.Errorf("save review count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// LoadPage returns the snapshot of [offset, offset+limit) clipped to the
// stored total. ok is false unless every position in that range is stored.
func (r *Repository) LoadPage(ctx context.Context, offset, limit int) (review.Page, bool, error) {
	if limit < 1 {
		limit = 20
	}
	total, ok, err := r.Count(ctx)
	if err != nil || !ok {
		return review.Page{}, false, err
	}
	end := min(offset+limit, total)

	rows, err := r.db.QueryContext(ctx, `
SELECT position, first_name, last_name, rating, text, created, avatar_url, photo_urls
FROM reviews
WHERE position >= ? AND position < ?
ORDER BY position ASC
`, offset, end)
	if err != nil {
		return review.Page{}, false, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	page := review.Page{Count: total, Items: make([]review.Record, 0, max(0, end-offset))}
	next := offset
	for rows.Next() {
		var (
			position int
			rec      review.Record
			avatar   sql.NullString
			photos   string
		)
		if err := rows.Scan(&position, &rec.FirstName, &rec.LastName, &rec.Rating, &rec.Text, &rec.Created, &avatar, &photos); err != nil {
			return review.Page{}, false, fmt.Errorf("scan review: %w", err)
		}
		if position != next {
			return review.Page{}, false, nil
		}
		rec.AvatarURL = avatar.String
		if err := json.Unmarshal([]byte(photos), &rec.PhotoURLs); err != nil {
			return review.Page{}, false, fmt.Errorf("decode photos of review %d: %w", position, err)
		}
		if len(rec.PhotoURLs) == 0 {
			rec.PhotoURLs = nil
		}
		page.Items = append(page.Items, rec)
		next++
	}
	if err := rows.Err(); err != nil {
		return review.Page{}, false, fmt.Errorf("iterate reviews: %w", err)
	}
	if next < end {
		return review.Page{}, false, nil
	}
	return page, true, nil
}

// Count returns the last total reported by the backend.
func (r *Repository) Count(ctx context.Context) (int, bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'count'`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query review count: %w", err)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("parse review count %q: %w", raw, err)
	}
	return n, true, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
