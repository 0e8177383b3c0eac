package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventscout/internal/delivery/http/helpers"
	"eventscout/internal/delivery/http/middleware"
	"eventscout/internal/domain"
)

// SetInteractionRequest is the request body for PUT /events/{eventID}/interaction.
type SetInteractionRequest struct {
	Kind string `json:"kind"`
}

// Validate implements Validator.
func (s SetInteractionRequest) Validate() []string {
	if _, ok := domain.ParseInteractionKind(s.Kind); !ok {
		return []string{"kind must be going, like, or pass"}
	}
	return nil
}

// SetInteractionSuccessResponse is the success response envelope for PUT /events/{eventID}/interaction (200).
type SetInteractionSuccessResponse struct {
	Data  *domain.Interaction `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ClearInteractionResponse is the data payload for DELETE /events/{eventID}/interaction (200).
type ClearInteractionResponse struct {
	Status string `json:"status"`
}

// ClearInteractionSuccessResponse is the success response envelope for DELETE /events/{eventID}/interaction (200).
type ClearInteractionSuccessResponse struct {
	Data  ClearInteractionResponse `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// ListMyInteractionsSuccessResponse is the success response envelope for GET /interactions/mine (200).
type ListMyInteractionsSuccessResponse struct {
	Data  []*domain.Interaction `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type InteractionController struct {
	Logger  *slog.Logger
	Service domain.InteractionService
}

func NewInteractionController(logger *slog.Logger, svc domain.InteractionService) *InteractionController {
	return &InteractionController{
		Logger:  logger,
		Service: svc,
	}
}

// SetInteraction godoc
// @Summary Set the caller's interaction with an event
// @Description Records going, like, or pass for the authenticated user. A later write replaces the earlier kind. Cancelled events reject interactions. Requires authentication.
// @Tags interactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body SetInteractionRequest true "Interaction kind"
// @Success 200 {object} controllers.SetInteractionSuccessResponse "data contains the stored interaction"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/interaction [put]
func (c *InteractionController) SetInteraction(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req SetInteractionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	in, err := c.Service.SetInteraction(r.Context(), eventID, userID, domain.InteractionKind(req.Kind))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, in)
}

// ClearInteraction godoc
// @Summary Clear the caller's interaction with an event
// @Description Removes the authenticated user's stored interaction, if any. Requires authentication.
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ClearInteractionSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/interaction [delete]
func (c *InteractionController) ClearInteraction(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.ClearInteraction(r.Context(), eventID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no interaction to clear")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ClearInteractionResponse{Status: "cleared"})
}

// ListMyInteractions godoc
// @Summary List the caller's interactions
// @Description Returns all of the authenticated user's stored interactions. Requires authentication.
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListMyInteractionsSuccessResponse "data is an array of interactions"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /interactions/mine [get]
func (c *InteractionController) ListMyInteractions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	interactions, err := c.Service.ListMyInteractions(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, interactions)
}
