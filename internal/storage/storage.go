package storage

import (
	"context"
	"io"
)

// Options conveys the media host destination, configured once at startup.
type Options struct {
	Bucket    string
	KeyPrefix string
	Region    string
	Endpoint  string
	// PublicBaseURL overrides the generated object URL prefix, for
	// buckets fronted by a CDN or custom domain.
	PublicBaseURL string
}

// Service is the media delegate: it hosts story images on remote object
// storage and hands back stable, publicly retrievable URLs.
type Service interface {
	UploadImage(ctx context.Context, body io.Reader, contentType string) (string, error)
	DeleteImage(ctx context.Context, imageURL string) error
}
