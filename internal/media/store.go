package media

import (
	"context"
	"errors"
	"io"
)

// ErrUploadRejected is returned when the external store refused or
// failed the upload. The wrapped message is the provider's own and is
// safe to surface to the caller.
var ErrUploadRejected = errors.New("media store rejected upload")

// UploadOptions control server-side processing of the stored image.
type UploadOptions struct {
	// Folder groups assets inside the store.
	Folder string
	// Transformation is a store-side processing chain applied on
	// ingest, e.g. downscaling to a bounding box.
	Transformation string
	// Overwrite replaces an existing asset with the same ID.
	Overwrite bool
}

// Asset describes a stored image.
type Asset struct {
	// URL is the permanent, publicly fetchable location.
	URL string
	// PublicID is the store-assigned identifier.
	PublicID string
}

// Store is the narrow capability the upload gateway needs from an
// external image host: put bytes under a key, get a public URL back.
// Implementations make exactly one attempt per call; idempotency and
// retries are the caller's responsibility.
type Store interface {
	Upload(ctx context.Context, publicID string, contents io.Reader, opts UploadOptions) (*Asset, error)
}
