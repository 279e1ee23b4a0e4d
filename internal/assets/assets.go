package assets

import (
	"context"
	"io"
)

// Store persists uploaded blobs under asset paths issued by the credential
// service. Paths are storage-relative; callers render them by prefixing the
// public asset base URL.
type Store interface {
	Save(ctx context.Context, assetPath string, r io.Reader) error
	Open(ctx context.Context, assetPath string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, assetPath string) error
}
