package app

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/glabrego/reviews-cli/internal/review"
	"github.com/rs/zerolog"
)

type ReviewSource interface {
	GetPage(ctx context.Context, offset, limit int) (review.Page, error)
}

type Repository interface {
	SavePage(ctx context.Context, offset int, page review.Page) error
	LoadPage(ctx context.Context, offset, limit int) (review.Page, bool, error)
}

// Service is the data source the review list pages through. Pages fetched
// from the remote source are written to the snapshot, and the snapshot
// answers when the remote source fails.
type Service struct {
	remote  ReviewSource
	repo    Repository
	logger  zerolog.Logger
	offline atomic.Bool
}

func NewService(remote ReviewSource, repo Repository, logger zerolog.Logger) *Service {
	return &Service{remote: remote, repo: repo, logger: logger}
}

func (s *Service) GetPage(ctx context.Context, offset, limit int) (review.Page, error) {
	page, err := s.remote.GetPage(ctx, offset, limit)
	if err == nil {
		s.offline.Store(false)
		if s.repo != nil {
			if saveErr := s.repo.SavePage(ctx, offset, page); saveErr != nil {
				s.logger.Warn().Err(saveErr).Int("offset", offset).Msg("save review snapshot failed")
			}
		}
		return page, nil
	}

	if s.repo == nil {
		return review.Page{}, fmt.Errorf("fetch reviews: %w", err)
	}
	cached, ok, cacheErr := s.repo.LoadPage(ctx, offset, limit)
	if cacheErr != nil {
		s.logger.Warn().Err(cacheErr).Int("offset", offset).Msg("load review snapshot failed")
	}
	if !ok {
		return review.Page{}, fmt.Errorf("fetch reviews: %w", err)
	}
	s.offline.Store(true)
	s.logger.Info().Err(err).Int("offset", offset).Int("items", len(cached.Items)).Msg("serving reviews from snapshot")
	return cached, nil
}

// Offline reports whether the last page came from the snapshot.
func (s *Service) Offline() bool {
	return s.offline.Load()
}
