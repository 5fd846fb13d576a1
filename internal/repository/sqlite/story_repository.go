package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel-story/internal/domain"
	"travel-story/internal/repository"
)

const createStoriesTable = `
CREATE TABLE IF NOT EXISTS stories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	story TEXT NOT NULL,
	visited_location TEXT NOT NULL DEFAULT '[]',
	image_url TEXT NOT NULL DEFAULT '',
	visited_date DATETIME NOT NULL,
	is_favourite INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(user_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_stories_user_id ON stories(user_id);
`

type StoryRepository struct {
	db *sql.DB
}

func NewStoryRepository(db *sql.DB) repository.StoryRepository {
	return &StoryRepository{db: db}
}

func (r *StoryRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createStoriesTable); err != nil {
		return fmt.Errorf("create stories table: %w", err)
	}
	return nil
}

func (r *StoryRepository) Create(ctx context.Context, story *domain.Story) (int64, error) {
	now := time.Now().UTC()
	story.CreatedAt = now
	story.UpdatedAt = now

	locations, err := marshalLocations(story.VisitedLocation)
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO stories (user_id, title, story, visited_location, image_url, visited_date, is_favourite, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		story.UserID,
		story.Title,
		story.Story,
		locations,
		story.ImageURL,
		story.VisitedDate.UTC(),
		story.IsFavourite,
		story.CreatedAt,
		story.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert story: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("story last insert id: %w", err)
	}
	story.ID = id
	return id, nil
}

// GetOwned returns the story only when it belongs to userID. A story owned
// by someone else is indistinguishable from one that does not exist.
func (r *StoryRepository) GetOwned(ctx context.Context, id, userID int64) (*domain.Story, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, title, story, visited_location, image_url, visited_date, is_favourite, created_at, updated_at
FROM stories
WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	return scanStory(row)
}

func (r *StoryRepository) Update(ctx context.Context, story *domain.Story) error {
	story.UpdatedAt = time.Now().UTC()

	locations, err := marshalLocations(story.VisitedLocation)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE stories
SET title = ?, story = ?, visited_location = ?, image_url = ?, visited_date = ?, is_favourite = ?, updated_at = ?
WHERE id = ? AND user_id = ?`,
		story.Title,
		story.Story,
		locations,
		story.ImageURL,
		story.VisitedDate.UTC(),
		story.IsFavourite,
		story.UpdatedAt,
		story.ID,
		story.UserID,
	)
	if err != nil {
		return fmt.Errorf("update story: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update story rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *StoryRepository) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM stories
WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete story: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete story rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *StoryRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Story, error) {
	return r.queryStories(ctx, `
SELECT id, user_id, title, story, visited_location, image_url, visited_date, is_favourite, created_at, updated_at
FROM stories
WHERE user_id = ?
ORDER BY is_favourite DESC`,
		userID,
	)
}

// likeEscaper neutralizes LIKE metacharacters so the user's query is
// matched as a literal substring.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *StoryRepository) Search(ctx context.Context, userID int64, query string) ([]domain.Story, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	return r.queryStories(ctx, `
SELECT id, user_id, title, story, visited_location, image_url, visited_date, is_favourite, created_at, updated_at
FROM stories
WHERE user_id = ?
  AND (LOWER(title) LIKE ? ESCAPE '\' OR LOWER(story) LIKE ? ESCAPE '\' OR LOWER(visited_location) LIKE ? ESCAPE '\')
ORDER BY is_favourite DESC`,
		userID, pattern, pattern, pattern,
	)
}

// FilterByVisitedDate bounds a closed interval on visited_date. An inverted
// range is not rejected; it simply matches nothing.
func (r *StoryRepository) FilterByVisitedDate(ctx context.Context, userID int64, start, end time.Time) ([]domain.Story, error) {
	return r.queryStories(ctx, `
SELECT id, user_id, title, story, visited_location, image_url, visited_date, is_favourite, created_at, updated_at
FROM stories
WHERE user_id = ? AND visited_date >= ? AND visited_date <= ?
ORDER BY is_favourite DESC`,
		userID, start.UTC(), end.UTC(),
	)
}

func (r *StoryRepository) queryStories(ctx context.Context, query string, args ...any) ([]domain.Story, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stories: %w", err)
	}
	defer rows.Close()

	var stories []domain.Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, *story)
	}
	return stories, rows.Err()
}

func scanStory(row interface {
	Scan(dest ...any) error
}) (*domain.Story, error) {
	var (
		story     domain.Story
		locations string
	)
	if err := row.Scan(
		&story.ID,
		&story.UserID,
		&story.Title,
		&story.Story,
		&locations,
		&story.ImageURL,
		&story.VisitedDate,
		&story.IsFavourite,
		&story.CreatedAt,
		&story.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan story: %w", err)
	}
	if err := json.Unmarshal([]byte(locations), &story.VisitedLocation); err != nil {
		return nil, fmt.Errorf("decode visited locations: %w", err)
	}
	return &story, nil
}

func marshalLocations(locations []string) (string, error) {
	if locations == nil {
		locations = []string{}
	}
	encoded, err := json.Marshal(locations)
	if err != nil {
		return "", fmt.Errorf("encode visited locations: %w", err)
	}
	return string(encoded), nil
}
