package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3Service hosts story images on Amazon S3 (or compatible APIs).
//
// Objects are keyed <prefix>/<uuid> with no file extension; the content
// type carries the image format instead. That keeps the delete path
// simple: the object id is always the final URL segment with any
// extension stripped.
type S3Service struct {
	client   *s3.Client
	uploader *manager.Uploader
	opts     Options
}

func NewS3Service(client *s3.Client, opts Options) *S3Service {
	return &S3Service{
		client:   client,
		uploader: manager.NewUploader(client),
		opts:     opts,
	}
}

func (s *S3Service) UploadImage(ctx context.Context, body io.Reader, contentType string) (string, error) {
	if s.opts.Bucket == "" {
		return "", fmt.Errorf("storage bucket is required")
	}

	key := s.objectKey(uuid.NewString())
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
		Body:   body,
		ACL:    types.ObjectCannedACLPublicRead,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	return s.objectURL(key), nil
}

// DeleteImage removes the hosted object behind a previously issued URL.
// Deleting an object that is already gone succeeds; S3 DeleteObject is
// idempotent.
func (s *S3Service) DeleteImage(ctx context.Context, imageURL string) error {
	if s.opts.Bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}

	id, err := objectIDFromURL(imageURL)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(s.objectKey(id)),
	})
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

func (s *S3Service) objectKey(id string) string {
	prefix := strings.Trim(s.opts.KeyPrefix, "/")
	if prefix == "" {
		return id
	}
	return prefix + "/" + id
}

func (s *S3Service) objectURL(key string) string {
	if base := strings.TrimRight(s.opts.PublicBaseURL, "/"); base != "" {
		return base + "/" + key
	}
	if endpoint := strings.TrimRight(s.opts.Endpoint, "/"); endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", endpoint, s.opts.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.opts.Bucket, s.opts.Region, key)
}

// objectIDFromURL derives the remote object id from the final path
// segment of a hosted URL, stripping any file extension.
func objectIDFromURL(imageURL string) (string, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("parse image url: %w", err)
	}

	segment := path.Base(parsed.Path)
	if segment == "" || segment == "." || segment == "/" {
		return "", fmt.Errorf("image url has no object segment")
	}

	id := strings.TrimSuffix(segment, path.Ext(segment))
	if id == "" {
		return "", fmt.Errorf("image url has no object id")
	}
	return id, nil
}

var _ Service = (*S3Service)(nil)
