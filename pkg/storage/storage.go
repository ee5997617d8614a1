// Package storage abstracts profile-image persistence. The service layer only
// sees the stable reference string that ends up in profile_image.
package storage

import (
	"context"
	"io"
)

// FileStorage saves an uploaded blob and returns a stable URL for it.
type FileStorage interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}
