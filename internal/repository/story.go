package repository

import (
	"context"
	"time"

	"travel-story/internal/domain"
)

// StoryRepository exposes persistence operations for Story aggregates.
// Every single-story operation is keyed on both the story id and the
// owning user id; a miss on either is reported as not-found.
type StoryRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, story *domain.Story) (int64, error)
	GetOwned(ctx context.Context, id, userID int64) (*domain.Story, error)
	Update(ctx context.Context, story *domain.Story) error
	Delete(ctx context.Context, id, userID int64) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Story, error)
	Search(ctx context.Context, userID int64, query string) ([]domain.Story, error)
	FilterByVisitedDate(ctx context.Context, userID int64, start, end time.Time) ([]domain.Story, error)
}
