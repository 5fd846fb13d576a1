package domain

import "time"

// PlaceholderImageURL is served from the local assets passthrough and is
// used whenever a story has no hosted image. It must never be forwarded
// to the media host's delete operation.
const PlaceholderImageURL = "/assets/placeholder.png"

// Story is a single travel journal entry owned by one user. Ownership is
// enforced at query time: every lookup carries the owner id alongside the
// story id.
type Story struct {
	ID              int64
	UserID          int64
	Title           string
	Story           string
	VisitedLocation []string
	ImageURL        string
	VisitedDate     time.Time
	IsFavourite     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
