package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travel-story/internal/domain"
	"travel-story/internal/repository"
)

// StoryInput carries the client-supplied fields of a story. VisitedDateMS
// is epoch milliseconds, as submitted on the wire.
type StoryInput struct {
	Title           string
	Story           string
	VisitedLocation []string
	ImageURL        string
	VisitedDateMS   int64
}

// StoryService coordinates story operations. Every lookup of an existing
// story is scoped to the calling user; a story owned by someone else is
// reported as ErrStoryNotFound.
type StoryService interface {
	Create(ctx context.Context, userID int64, in StoryInput) (*domain.Story, error)
	Get(ctx context.Context, id, userID int64) (*domain.Story, error)
	Edit(ctx context.Context, id, userID int64, in StoryInput) (*domain.Story, error)
	SetFavourite(ctx context.Context, id, userID int64, favourite bool) (*domain.Story, error)
	Delete(ctx context.Context, id, userID int64) error
	List(ctx context.Context, userID int64) ([]domain.Story, error)
	Search(ctx context.Context, userID int64, query string) ([]domain.Story, error)
	FilterByVisitedDate(ctx context.Context, userID int64, startMS, endMS int64) ([]domain.Story, error)
}

type storyService struct {
	stories repository.StoryRepository
}

func NewStoryService(stories repository.StoryRepository) StoryService {
	return &storyService{stories: stories}
}

func (s *storyService) Create(ctx context.Context, userID int64, in StoryInput) (*domain.Story, error) {
	if in.Title == "" || in.Story == "" || len(in.VisitedLocation) == 0 || in.ImageURL == "" || in.VisitedDateMS == 0 {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}

	story := &domain.Story{
		UserID:          userID,
		Title:           in.Title,
		Story:           in.Story,
		VisitedLocation: in.VisitedLocation,
		ImageURL:        in.ImageURL,
		VisitedDate:     time.UnixMilli(in.VisitedDateMS).UTC(),
	}

	if _, err := s.stories.Create(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// Get is the load-owned-or-not-found helper behind every single-story
// operation.
func (s *storyService) Get(ctx context.Context, id, userID int64) (*domain.Story, error) {
	story, err := s.stories.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	return story, nil
}

func (s *storyService) Edit(ctx context.Context, id, userID int64, in StoryInput) (*domain.Story, error) {
	// image url is optional on edit and falls back to the placeholder
	if in.Title == "" || in.Story == "" || len(in.VisitedLocation) == 0 || in.VisitedDateMS == 0 {
		return nil, fmt.Errorf("%w: all fields are required", ErrValidation)
	}

	story, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	story.Title = in.Title
	story.Story = in.Story
	story.VisitedLocation = in.VisitedLocation
	story.VisitedDate = time.UnixMilli(in.VisitedDateMS).UTC()
	if in.ImageURL != "" {
		story.ImageURL = in.ImageURL
	} else {
		story.ImageURL = domain.PlaceholderImageURL
	}

	if err := s.update(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

func (s *storyService) SetFavourite(ctx context.Context, id, userID int64, favourite bool) (*domain.Story, error) {
	story, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	story.IsFavourite = favourite
	if err := s.update(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

func (s *storyService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.stories.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStoryNotFound
		}
		return err
	}
	return nil
}

func (s *storyService) List(ctx context.Context, userID int64) ([]domain.Story, error) {
	return s.stories.ListByUser(ctx, userID)
}

func (s *storyService) Search(ctx context.Context, userID int64, query string) ([]domain.Story, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrValidation)
	}
	return s.stories.Search(ctx, userID, query)
}

// FilterByVisitedDate matches visited dates inside the closed interval
// [startMS, endMS]. An inverted interval yields no matches rather than an
// error.
func (s *storyService) FilterByVisitedDate(ctx context.Context, userID int64, startMS, endMS int64) ([]domain.Story, error) {
	start := time.UnixMilli(startMS).UTC()
	end := time.UnixMilli(endMS).UTC()
	return s.stories.FilterByVisitedDate(ctx, userID, start, end)
}

func (s *storyService) update(ctx context.Context, story *domain.Story) error {
	if err := s.stories.Update(ctx, story); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStoryNotFound
		}
		return err
	}
	return nil
}
