package search

import (
	"errors"
	"net/http"

	"github.com/skyhire/skyhire-api/internal/pkg/errorhandler"
	"github.com/skyhire/skyhire-api/internal/pkg/response"
	"github.com/skyhire/skyhire-api/internal/pkg/validator"
)

// Handler handles search HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates search handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Search handles POST /search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.Search(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, ErrDependency) {
			errorhandler.LogExternalServiceError(r.Context(), "recommender", "chat/completions", err)
			response.DependencyError(w, dependencyMessage(err))
			return
		}
		errorhandler.Internal(r.Context(), w, err)
		return
	}

	response.OK(w, Response{
		Recommendation: result.Answer,
		Profiles:       result.Profiles,
		Cached:         result.Cached,
	})
}

// dependencyMessage names the failure class only; upstream details stay in the log
func dependencyMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "Recommendation service is not configured"
	case errors.Is(err, ErrTimeout):
		return "Recommendation service timed out"
	default:
		return "Recommendation service is unavailable"
	}
}
