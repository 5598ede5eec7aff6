package availability

import (
	"errors"
	"net/http"
	"strings"

	"github.com/skyhire/skyhire-api/internal/domain/profile"
	"github.com/skyhire/skyhire-api/internal/middleware"
	"github.com/skyhire/skyhire-api/internal/pkg/errorhandler"
	"github.com/skyhire/skyhire-api/internal/pkg/response"
	"github.com/skyhire/skyhire-api/internal/pkg/validator"
)

// Handler handles availability HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates availability handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Publish handles POST /profile/availability
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	var req PublishRequest
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
	result, err := h.service.Publish(r.Context(), userID, req.Dates)
	if err != nil {
		var invalid *InvalidDateError
		var removal *BookedDateRemovalError
		switch {
		case errors.As(err, &invalid):
			response.ErrorWithDetails(w, http.StatusBadRequest, "INVALID_DATE", "Invalid date, expected YYYY-MM-DD",
				map[string]string{"date": invalid.Value})
		case errors.As(err, &removal):
			response.ErrorWithDetails(w, http.StatusConflict, "BOOKED_DATE_REMOVAL", "Booked dates cannot be removed from availability",
				map[string]string{"dates": strings.Join(removal.Dates, ",")})
		case errors.Is(err, profile.ErrNotPilot):
			response.Forbidden(w, "Only pilots can publish availability")
		case errors.Is(err, profile.ErrUserNotFound):
			response.NotFound(w, "User not found")
		default:
			errorhandler.Internal(r.Context(), w, err)
		}
		return
	}

	response.OK(w, PublishResponseFromResult(result))
}
