package booking

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skyhire/skyhire-api/internal/middleware"
	"github.com/skyhire/skyhire-api/internal/pkg/errorhandler"
	"github.com/skyhire/skyhire-api/internal/pkg/response"
	"github.com/skyhire/skyhire-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Book handles POST /book
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	clientID := middleware.GetUserID(r.Context())
	v, err := h.service.Book(r.Context(), clientID, &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.Created(w, ResponseFromView(v))
}

// CreateRequest handles POST /bookings/requests
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req CreateRequestRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	clientID := middleware.GetUserID(r.Context())
	v, err := h.service.Request(r.Context(), clientID, &req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.Created(w, ResponseFromView(v))
}

// List handles GET /bookings
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	views, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.OK(w, ResponsesFromViews(views))
}

// Respond handles POST /bookings/{id}/respond
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	var req RespondRequest
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
	v, err := h.service.Respond(r.Context(), userID, id, Status(req.Status))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.OK(w, ResponseFromView(v))
}

// Release handles POST /bookings/{id}/release
func (h *Handler) Release(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return
	}

	if err := h.service.Release(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	response.NoContent(w)
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidDate):
		response.Error(w, http.StatusBadRequest, "INVALID_DATE", "Invalid date, expected YYYY-MM-DD")
	case errors.Is(err, ErrDateUnavailable):
		response.Error(w, http.StatusConflict, "DATE_UNAVAILABLE", "Date is not available")
	case errors.Is(err, ErrClientNotFound):
		response.Error(w, http.StatusNotFound, "CLIENT_NOT_FOUND", "Client not found")
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(w, "User not found")
	case errors.Is(err, ErrProfileNotFound):
		response.Error(w, http.StatusNotFound, "PROFILE_NOT_FOUND", "Pilot profile not found")
	case errors.Is(err, ErrServiceNotFound):
		response.Error(w, http.StatusNotFound, "SERVICE_NOT_FOUND", "Service not found for this pilot")
	case errors.Is(err, ErrBookingNotFound):
		response.Error(w, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrNotClient):
		response.Forbidden(w, "Only clients can book")
	case errors.Is(err, ErrNotBookingPilot):
		response.Forbidden(w, "Only the booked pilot can respond")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(w, http.StatusConflict, "INVALID_STATUS_TRANSITION", "Booking can no longer change status")
	case errors.Is(err, ErrReleaseUnsupported):
		response.Unimplemented(w, "Releasing a booked date is not supported")
	default:
		errorhandler.Internal(r.Context(), w, err)
	}
}
