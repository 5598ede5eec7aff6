package profile

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skyhire/skyhire-api/internal/middleware"
	"github.com/skyhire/skyhire-api/internal/pkg/errorhandler"
	"github.com/skyhire/skyhire-api/internal/pkg/response"
	"github.com/skyhire/skyhire-api/internal/pkg/storage"
	"github.com/skyhire/skyhire-api/internal/pkg/validator"
)

const maxCaptionLength = 300

// AvailabilityLister returns the open dates of a profile in ascending order
type AvailabilityLister interface {
	ListAvailable(ctx context.Context, profileID uuid.UUID) ([]time.Time, error)
}

// Handler handles profile HTTP requests
type Handler struct {
	service      *Service
	availability AvailabilityLister
}

// NewHandler creates profile handler
func NewHandler(service *Service, availability AvailabilityLister) *Handler {
	return &Handler{service: service, availability: availability}
}

// List handles GET /pilots
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.List(r.Context())
	if err != nil {
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	items := make([]SummaryResponse, 0, len(profiles))
	for _, p := range profiles {
		items = append(items, SummaryResponseFromEntity(p))
	}
	response.OK(w, items)
}

// GetByID handles GET /pilots/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid profile ID")
		return
	}

	detail, err := h.service.GetDetail(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	dates, err := h.availableDates(r.Context(), id)
	if err != nil {
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	response.OK(w, DetailResponseFromEntity(detail, dates))
}

// GetAvailability handles GET /pilots/{id}/availability
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid profile ID")
		return
	}

	if _, err := h.service.GetByID(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	dates, err := h.availableDates(r.Context(), id)
	if err != nil {
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	response.OK(w, AvailabilityResponse{ProfileID: id, AvailableDates: dates})
}

// Update handles POST /profile
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	p, err := h.service.Update(r.Context(), userID, &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.OK(w, ProfileResponseFromEntity(p))
}

// AddService handles POST /profile/services
func (h *Handler) AddService(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	svc, err := h.service.AddService(r.Context(), userID, &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.Created(w, ServiceResponseFromEntity(svc))
}

// UploadPortfolio handles POST /profile/portfolio (multipart: file, caption)
func (h *Handler) UploadPortfolio(w http.ResponseWriter, r *http.Request) {
	maxSize := storage.MaxFileSizes[storage.CategoryPortfolio]
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		response.BadRequest(w, "Invalid multipart form or file too large")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.ValidationError(w, map[string]string{"file": "This field is required"})
		return
	}
	defer file.Close()

	caption := r.FormValue("caption")
	if len([]rune(caption)) > maxCaptionLength {
		response.ValidationError(w, map[string]string{"caption": "Must be at most 300 characters"})
		return
	}

	userID := middleware.GetUserID(r.Context())
	item, err := h.service.AddPortfolioItem(r.Context(), userID, file, caption)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.Created(w, PortfolioItemResponseFromEntity(item))
}

func (h *Handler) availableDates(ctx context.Context, profileID uuid.UUID) ([]string, error) {
	dates, err := h.availability.ListAvailable(ctx, profileID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(validator.DateLayout))
	}
	return out, nil
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		response.NotFound(w, "Profile not found")
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(w, "User not found")
	case errors.Is(err, ErrNotPilot):
		response.Forbidden(w, "Only pilots can manage a profile")
	case errors.Is(err, ErrInvalidUpload):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrStorageUnavailable):
		response.DependencyError(w, "File storage is not configured")
	default:
		errorhandler.Internal(r.Context(), w, err)
	}
}
