package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"mypage-shop/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const uploadTimeout = 30 * time.Second

// CloudinaryStore uploads images through Cloudinary's REST upload API
// using signed requests.
type CloudinaryStore struct {
	client    *resty.Client
	apiKey    string
	apiSecret string
	logger    *zap.Logger
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewCloudinaryStore creates a Store backed by the given Cloudinary
// account. Credentials are assumed present; callers gate on
// cfg.Configured() before constructing.
func NewCloudinaryStore(cfg config.CloudinaryConfig, logger *zap.Logger) *CloudinaryStore {
	client := resty.New().
		SetBaseURL(fmt.Sprintf("https://api.cloudinary.com/v1_1/%s", cfg.CloudName)).
		SetTimeout(uploadTimeout)

	return &CloudinaryStore{
		client:    client,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		logger:    logger,
	}
}

// Upload streams contents to Cloudinary under publicID. One network
// attempt is made; on provider failure the provider's message is
// wrapped in ErrUploadRejected.
func (s *CloudinaryStore) Upload(ctx context.Context, publicID string, contents io.Reader, opts UploadOptions) (*Asset, error) {
	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}
	if opts.Folder != "" {
		params["folder"] = opts.Folder
	}
	if opts.Transformation != "" {
		params["transformation"] = opts.Transformation
	}
	if opts.Overwrite {
		params["overwrite"] = "true"
	}

	formData := map[string]string{
		"api_key":   s.apiKey,
		"signature": signParams(params, s.apiSecret),
	}
	for k, v := range params {
		formData[k] = v
	}

	var result uploadResponse
	var apiErr errorResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetFileReader("file", publicID, contents).
		SetFormData(formData).
		SetResult(&result).
		SetError(&apiErr).
		Post("/image/upload")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadRejected, err)
	}

	if resp.IsError() {
		message := apiErr.Error.Message
		if message == "" {
			message = resp.Status()
		}
		s.logger.Warn("Cloudinary upload failed",
			zap.Int("status", resp.StatusCode()),
			zap.String("message", message),
		)
		return nil, fmt.Errorf("%w: %s", ErrUploadRejected, message)
	}

	s.logger.Info("Cloudinary upload successful", zap.String("public_id", result.PublicID))

	return &Asset{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
	}, nil
}

// signParams produces Cloudinary's request signature: the SHA-1 hex of
// the alphabetically sorted params serialized as a query string, with
// the API secret appended.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
