package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectIDFromURL(t *testing.T) {
	cases := []struct {
		url  string
		id   string
		fail bool
	}{
		{url: "https://bucket.s3.us-east-1.amazonaws.com/travel-stories/abc123", id: "abc123"},
		{url: "https://cdn.example.com/travel-stories/abc123.png", id: "abc123"},
		{url: "http://localhost:9000/bucket/travel-stories/abc123.jpeg", id: "abc123"},
		{url: "https://cdn.example.com/", fail: true},
		{url: "https://cdn.example.com/.png", fail: true},
	}

	for _, tc := range cases {
		id, err := objectIDFromURL(tc.url)
		if tc.fail {
			require.Error(t, err, tc.url)
			continue
		}
		require.NoError(t, err, tc.url)
		require.Equal(t, tc.id, id)
	}
}

func TestObjectURL(t *testing.T) {
	svc := &S3Service{opts: Options{
		Bucket:    "stories",
		KeyPrefix: "travel-stories",
		Region:    "us-east-1",
	}}
	require.Equal(t,
		"https://stories.s3.us-east-1.amazonaws.com/travel-stories/abc",
		svc.objectURL(svc.objectKey("abc")),
	)

	svc.opts.Endpoint = "http://localhost:9000"
	require.Equal(t,
		"http://localhost:9000/stories/travel-stories/abc",
		svc.objectURL(svc.objectKey("abc")),
	)

	svc.opts.PublicBaseURL = "https://cdn.example.com"
	require.Equal(t,
		"https://cdn.example.com/travel-stories/abc",
		svc.objectURL(svc.objectKey("abc")),
	)
}
