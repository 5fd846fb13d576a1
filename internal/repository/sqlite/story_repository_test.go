package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"travel-story/internal/domain"
	"travel-story/internal/repository"
)

func setupRepos(t *testing.T) (repository.UserRepository, repository.StoryRepository) {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := NewUserRepository(db)
	stories := NewStoryRepository(db)
	require.NoError(t, users.Init(context.Background()))
	require.NoError(t, stories.Init(context.Background()))
	return users, stories
}

func createUser(t *testing.T, users repository.UserRepository, email string) int64 {
	t.Helper()
	id, err := users.Create(context.Background(), &domain.User{
		FullName:     "Test User",
		Email:        email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return id
}

func createStory(t *testing.T, stories repository.StoryRepository, userID int64, title string, visited time.Time, favourite bool) int64 {
	t.Helper()
	id, err := stories.Create(context.Background(), &domain.Story{
		UserID:          userID,
		Title:           title,
		Story:           "a long journey",
		VisitedLocation: []string{"Hanoi", "Da Nang"},
		ImageURL:        domain.PlaceholderImageURL,
		VisitedDate:     visited,
		IsFavourite:     favourite,
	})
	require.NoError(t, err)
	return id
}

func TestGetOwnedScopesByUser(t *testing.T) {
	users, stories := setupRepos(t)
	ctx := context.Background()

	owner := createUser(t, users, "owner@example.com")
	other := createUser(t, users, "other@example.com")
	id := createStory(t, stories, owner, "Hidden beach", time.Now(), false)

	story, err := stories.GetOwned(ctx, id, owner)
	require.NoError(t, err)
	require.Equal(t, "Hidden beach", story.Title)
	require.Equal(t, []string{"Hanoi", "Da Nang"}, story.VisitedLocation)

	// someone else's story looks exactly like a missing one
	_, err = stories.GetOwned(ctx, id, other)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateAndDeleteRequireOwnership(t *testing.T) {
	users, stories := setupRepos(t)
	ctx := context.Background()

	owner := createUser(t, users, "owner@example.com")
	other := createUser(t, users, "other@example.com")
	id := createStory(t, stories, owner, "Old title", time.Now(), false)

	stolen := &domain.Story{
		ID:              id,
		UserID:          other,
		Title:           "Hijacked",
		Story:           "x",
		VisitedLocation: []string{"Nowhere"},
		ImageURL:        domain.PlaceholderImageURL,
		VisitedDate:     time.Now(),
	}
	require.ErrorIs(t, stories.Update(ctx, stolen), repository.ErrNotFound)
	require.ErrorIs(t, stories.Delete(ctx, id, other), repository.ErrNotFound)

	// still intact for the owner
	story, err := stories.GetOwned(ctx, id, owner)
	require.NoError(t, err)
	require.Equal(t, "Old title", story.Title)

	require.NoError(t, stories.Delete(ctx, id, owner))
	require.ErrorIs(t, stories.Delete(ctx, id, owner), repository.ErrNotFound)
}

func TestListFavouritesFirst(t *testing.T) {
	users, stories := setupRepos(t)
	ctx := context.Background()

	owner := createUser(t, users, "owner@example.com")
	createStory(t, stories, owner, "Plain one", time.Now(), false)
	favID := createStory(t, stories, owner, "Favourite one", time.Now(), true)
	createStory(t, stories, owner, "Plain two", time.Now(), false)

	listed, err := stories.ListByUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	require.Equal(t, favID, listed[0].ID)
	require.True(t, listed[0].IsFavourite)
}

func TestSearchCaseInsensitiveAcrossFields(t *testing.T) {
	users, stories := setupRepos(t)
	ctx := context.Background()

	owner := createUser(t, users, "owner@example.com")
	stranger := createUser(t, users, "stranger@example.com")

	id, err := stories.Create(ctx, &domain.Story{
		UserID:          owner,
		Title:           "Mountain trip",
		Story:           "We hiked for days",
		VisitedLocation: []string{"Sapa Valley"},
		ImageURL:        domain.PlaceholderImageURL,
		VisitedDate:     time.Now(),
	})
	require.NoError(t, err)
	createStory(t, stories, stranger, "Mountain trip", time.Now(), false)

	// substring present only in visited_location, differing case
	found, err := stories.Search(ctx, owner, "sAPA")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, id, found[0].ID)

	found, err = stories.Search(ctx, owner, "HIKED")
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = stories.Search(ctx, owner, "no such thing")
	require.NoError(t, err)
	require.Empty(t, found)
}

func TestSearchTreatsWildcardsAsLiterals(t *testing.T) {
	users, stories := setupRepos(t)
	ctx := context.Background()

	owner := createUser(t, users, "owner@example.com")
	createStory(t, stories, owner, "Ordinary trip", time.Now(), false)
	discountID, err := stories.Create(ctx, &domain.Story{
		UserID:          owner,
		Title:           "50% off cruise",
		Story:           "booked via snake_case travel",
		VisitedLocation: []string{"Halong Bay"},
		ImageURL:        domain.PlaceholderImageURL,
		VisitedDate:     time.Now(),
	})
	require.NoError(t, err)

	// "%" must only match stories containing a literal percent sign
	found, err := stories.Search(ctx, owner, "%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, discountID, found[0].ID)

	// "_" is not a single-character wildcard
	found, err = stories.Search(ctx, owner, "snake_case")
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = stories.Search(ctx, owner, "_")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, discountID, found[0].ID)
}

func TestFilterByVisitedDate(t *testing.T) {
	users, stories := setupRepos(t)
	ctx := context.Background()

	owner := createUser(t, users, "owner@example.com")
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	createStory(t, stories, owner, "January", jan, false)
	juneID := createStory(t, stories, owner, "June", jun, false)

	found, err := stories.FilterByVisitedDate(ctx, owner,
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, juneID, found[0].ID)

	// inverted interval matches nothing and is not an error
	found, err = stories.FilterByVisitedDate(ctx, owner,
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.Empty(t, found)
}

func TestUserUniqueEmail(t *testing.T) {
	users, _ := setupRepos(t)
	ctx := context.Background()

	createUser(t, users, "dup@example.com")
	_, err := users.Create(ctx, &domain.User{
		FullName:     "Second",
		Email:        "dup@example.com",
		PasswordHash: "hash",
	})
	require.ErrorIs(t, err, repository.ErrEmailExists)
}
