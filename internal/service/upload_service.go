package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"mypage-shop/internal/config"
	"mypage-shop/internal/media"
)

const (
	// MaxUploadBytes is the upload size ceiling (5 MiB).
	MaxUploadBytes = 5 * 1024 * 1024

	// uploadFolder groups product images inside the media store.
	uploadFolder = "crm-system"

	// uploadTransformation downscales to a 1000x1000 bounding box and
	// lets the store pick quality/compression.
	uploadTransformation = "c_limit,h_1000,w_1000/q_auto"
)

var (
	ErrMissingFile     = errors.New("no file uploaded")
	ErrInvalidFileType = errors.New("invalid file type, only images are allowed")
	ErrFileTooLarge    = errors.New("file size too large, maximum 5MB allowed")
	ErrNotConfigured   = errors.New("image upload service not configured")
	ErrUploadFailed    = errors.New("image upload failed")
)

// allowedImageTypes is the fixed MIME allow-list for uploads.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadResult is what the gateway hands back to catalog management.
// It is transient; the caller stores the URL against a product.
type UploadResult struct {
	URL          string `json:"url"`
	FileName     string `json:"fileName"`
	CloudinaryID string `json:"cloudinaryId"`
}

// UploadService validates an image and forwards it to the media store.
type UploadService interface {
	Upload(ctx context.Context, fileName, contentType string, size int64, contents io.Reader) (*UploadResult, error)
}

type uploadService struct {
	store media.Store
	cfg   config.CloudinaryConfig
	now   func() time.Time
}

// NewUploadService creates a new instance of UploadService. store may
// be nil when credentials are absent; every call then fails with
// ErrNotConfigured before touching the network.
func NewUploadService(store media.Store, cfg config.CloudinaryConfig) UploadService {
	return &uploadService{
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

// Upload validates the file and streams it to the external store.
// Validation runs strictly before any network call: type, then size,
// then configuration. The destination key embeds the call timestamp and
// the original filename's stem, so repeated calls create distinct
// assets.
func (s *uploadService) Upload(ctx context.Context, fileName, contentType string, size int64, contents io.Reader) (*UploadResult, error) {
	if !allowedImageTypes[strings.ToLower(contentType)] {
		return nil, ErrInvalidFileType
	}

	if size > MaxUploadBytes {
		return nil, ErrFileTooLarge
	}

	if s.store == nil || !s.cfg.Configured() {
		return nil, ErrNotConfigured
	}

	publicID := fmt.Sprintf("%d-%s", s.now().UnixMilli(), fileStem(fileName))

	asset, err := s.store.Upload(ctx, publicID, contents, media.UploadOptions{
		Folder:         uploadFolder,
		Transformation: uploadTransformation,
		Overwrite:      true,
	})
	if err != nil {
		if errors.Is(err, media.ErrUploadRejected) {
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	return &UploadResult{
		URL:          asset.URL,
		FileName:     asset.PublicID,
		CloudinaryID: asset.PublicID,
	}, nil
}

// fileStem returns the filename up to the first dot.
func fileStem(fileName string) string {
	if idx := strings.IndexByte(fileName, '.'); idx >= 0 {
		return fileName[:idx]
	}
	return fileName
}
