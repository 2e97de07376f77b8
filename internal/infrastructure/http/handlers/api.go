// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/alchemorsel/nutrimatch/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/nutrimatch/internal/ports/inbound"
	"github.com/alchemorsel/nutrimatch/pkg/errors"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// APIHandlers handles REST API requests
type APIHandlers struct {
	service inbound.MatchingService
	logger  *zap.Logger
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(service inbound.MatchingService, logger *zap.Logger) *APIHandlers {
	return &APIHandlers{
		service: service,
		logger:  logger.Named("api"),
	}
}

// fallbackEnvelope wraps results that came from a relaxed search tier
type fallbackEnvelope struct {
	Recipes  []inbound.RecipeSummary `json:"recipes"`
	Fallback *inbound.FallbackInfo   `json:"fallback"`
}

// SearchRecipe handles POST /searchRecipe. The body is a bare array unless a
// fallback tier produced the results.
func (h *APIHandlers) SearchRecipe(w http.ResponseWriter, r *http.Request) {
	var req inbound.SearchRecipesRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.service.SearchRecipes(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	recipes := resp.Recipes
	if recipes == nil {
		recipes = []inbound.RecipeSummary{}
	}

	if resp.FallbackApplied() {
		h.writeJSON(w, http.StatusOK, fallbackEnvelope{Recipes: recipes, Fallback: resp.Fallback})
		return
	}
	h.writeJSON(w, http.StatusOK, recipes)
}

// NutritionProfile handles POST /nutrition-profile
func (h *APIHandlers) NutritionProfile(w http.ResponseWriter, r *http.Request) {
	var req inbound.NutritionProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.service.BuildNutritionProfile(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// GetRecipe handles GET /recipes/{id}
func (h *APIHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		h.writeError(w, r, errors.NewValidationError("recipe id must be a positive integer"))
		return
	}

	detail, err := h.service.GetRecipeDetail(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, detail)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return errors.NewBadRequestError("Request body is required")
		}
		return errors.NewAppError(errors.CodeBadRequest, "Invalid JSON body", err.Error()).WithCause(err)
	}
	return nil
}

// writeJSON writes a JSON response
func (h *APIHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError maps err to a status code and the {error, message} body.
// Upstream status and payload are logged, never forwarded.
func (h *APIHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := errors.Wrap(err, "Internal server error")
	requestID := middleware.GetRequestID(r.Context())

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("code", string(appErr.Code)),
		zap.Error(err),
	}
	for key, value := range appErr.Metadata {
		if key == "validation_errors" {
			continue
		}
		fields = append(fields, zap.Any(key, value))
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", fields...)
	} else {
		h.logger.Debug("Request rejected", fields...)
	}

	h.writeJSON(w, status, errors.ToErrorResponse(appErr, requestID))
}
