package transport

import (
	"errors"
	"net/http"

	"mypage-shop/internal/middleware"
	"mypage-shop/internal/service"
	"mypage-shop/internal/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// multipartOverhead is headroom on top of the file ceiling for the
// multipart framing itself.
const multipartOverhead = 1 << 20

// UploadResponse is the success envelope for the upload endpoint.
type UploadResponse struct {
	Success      bool   `json:"success"`
	URL          string `json:"url"`
	FileName     string `json:"fileName"`
	CloudinaryID string `json:"cloudinaryId"`
}

// UploadHandler handles HTTP requests for the media upload gateway.
type UploadHandler struct {
	uploadService service.UploadService
	logger        *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadService service.UploadService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		logger:        logger,
	}
}

// RegisterRoutes registers the upload route. Only staff roles may
// upload; the role check runs before any of the file is read.
func (h *UploadHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler, extra ...func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireRole([]string{session.RoleOwner, session.RoleAdmin, session.RoleOperator}, h.logger))
		for _, mw := range extra {
			r.Use(mw)
		}
		r.Post("/api/upload", h.Upload)
	})
}

// Upload accepts one multipart file field named "file", validates it,
// and forwards it to the external image store.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			middleware.RespondWithError(w, http.StatusBadRequest, "no file uploaded")
			return
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			middleware.RespondWithError(w, http.StatusBadRequest, "file size too large, maximum 5MB allowed")
			return
		}
		h.logger.Debug("Malformed multipart request", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	defer file.Close()

	result, err := h.uploadService.Upload(
		r.Context(),
		header.Filename,
		header.Header.Get("Content-Type"),
		header.Size,
		file,
	)
	if err != nil {
		h.respondUploadError(w, err)
		return
	}

	h.logger.Info("Image uploaded",
		zap.String("file_name", result.FileName),
	)

	middleware.RespondWithJSON(w, http.StatusOK, UploadResponse{
		Success:      true,
		URL:          result.URL,
		FileName:     result.FileName,
		CloudinaryID: result.CloudinaryID,
	})
}

func (h *UploadHandler) respondUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidFileType):
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid file type, only images are allowed")
	case errors.Is(err, service.ErrFileTooLarge):
		middleware.RespondWithError(w, http.StatusBadRequest, "file size too large, maximum 5MB allowed")
	case errors.Is(err, service.ErrNotConfigured):
		middleware.RespondWithError(w, http.StatusServiceUnavailable, "image upload service not configured")
	case errors.Is(err, service.ErrUploadFailed):
		h.logger.Error("Image upload failed", zap.Error(err))
		middleware.RespondWithErrorDetails(w, http.StatusInternalServerError, "image upload failed",
			map[string]interface{}{"details": err.Error()})
	default:
		h.logger.Error("Unexpected upload error", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
