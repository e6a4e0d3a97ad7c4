package storage

import (
	"context"
	"io"
)

// FileStorage defines the interface for object storage operations used by the
// catalog importer to mirror provider-hosted exercise media into our bucket.
type FileStorage interface {
	// Upload writes an object under the given key, overwriting any previous
	// version. Mirrored media is keyed by provider external id, so re-imports
	// refresh the object in place.
	Upload(ctx context.Context, objectKey string, contentType string, body io.Reader) error

	// PublicURL returns the URL clients fetch the object from (CDN or the
	// bucket's public endpoint).
	PublicURL(objectKey string) string
}
