package interfaces

import (
	"context"
	"io"
)

// StoredObject describes a file written to a storage bucket.
type StoredObject struct {
	Bucket      string
	Path        string
	URL         string
	ContentType string
	Size        int64
}

// ObjectStorage is the file storage contract used by uploads, audio files and
// contact attachments.
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, name string, body io.Reader) (StoredObject, error)
	PublicURL(bucket, path string) string
	Remove(ctx context.Context, bucket, path string) error
}
