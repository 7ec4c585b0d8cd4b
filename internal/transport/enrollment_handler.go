package transport

import (
	"net/http"

	"mypage-shop/internal/domain"
	"mypage-shop/internal/middleware"
	"mypage-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EnrollmentsResponse wraps the customer's enrollment listing.
type EnrollmentsResponse struct {
	Enrollments []*domain.Enrollment `json:"enrollments"`
}

// EnrollmentHandler handles HTTP requests for enrollment reads.
type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
	logger            *zap.Logger
}

// NewEnrollmentHandler creates a new EnrollmentHandler
func NewEnrollmentHandler(enrollmentService service.EnrollmentService, logger *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
		logger:            logger,
	}
}

// RegisterRoutes registers the enrollment route, customer-only.
func (h *EnrollmentHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireCustomer(h.logger))
		r.Get("/api/customer-enrollments", h.ListEnrollments)
	})
}

// ListEnrollments returns the authenticated customer's active
// enrollments. An empty list is a normal response, not an error.
func (h *EnrollmentHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	enrollments, err := h.enrollmentService.ListEnrollments(r.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("Failed to list enrollments", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list enrollments")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, EnrollmentsResponse{Enrollments: enrollments})
}
