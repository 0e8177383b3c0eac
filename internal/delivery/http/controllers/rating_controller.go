package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventscout/internal/delivery/http/helpers"
	"eventscout/internal/delivery/http/middleware"
	"eventscout/internal/domain"
)

// RateOrganizerRequest is the request body for PUT /organizers/{organizerID}/rating.
type RateOrganizerRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// Validate implements Validator.
func (r RateOrganizerRequest) Validate() []string {
	if r.Score < 1 || r.Score > 5 {
		return []string{"score must be between 1 and 5"}
	}
	return nil
}

// RateOrganizerSuccessResponse is the success response envelope for PUT /organizers/{organizerID}/rating (200).
type RateOrganizerSuccessResponse struct {
	Data  *domain.Rating    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetOrganizerRatingSuccessResponse is the success response envelope for GET /organizers/{organizerID}/rating (200).
type GetOrganizerRatingSuccessResponse struct {
	Data  *domain.OrganizerRating `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// ListOrganizerRatingsResponse is the data payload for GET /organizers/{organizerID}/ratings (200).
type ListOrganizerRatingsResponse struct {
	Items      []*domain.Rating       `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListOrganizerRatingsSuccessResponse is the success response envelope for GET /organizers/{organizerID}/ratings (200).
type ListOrganizerRatingsSuccessResponse struct {
	Data  ListOrganizerRatingsResponse `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

type RatingController struct {
	Logger  *slog.Logger
	Service domain.RatingService
}

func NewRatingController(logger *slog.Logger, svc domain.RatingService) *RatingController {
	return &RatingController{
		Logger:  logger,
		Service: svc,
	}
}

// RateOrganizer godoc
// @Summary Rate an organizer
// @Description Records the authenticated user's 1-5 rating of an organizer, replacing any earlier rating by the same user. Organizers cannot rate themselves. Requires authentication.
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param organizerID path string true "Organizer user ID (UUID)"
// @Param body body RateOrganizerRequest true "Score (1-5) and optional comment"
// @Success 200 {object} controllers.RateOrganizerSuccessResponse "data contains the stored rating"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no such organizer)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (self rating)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizers/{organizerID}/rating [put]
func (c *RatingController) RateOrganizer(w http.ResponseWriter, r *http.Request) {
	organizerID := r.PathValue("organizerID")
	if organizerID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing organizerID")
		return
	}
	var req RateOrganizerRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	raterID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	rating, err := c.Service.RateOrganizer(r.Context(), organizerID, raterID, req.Score, req.Comment)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no such organizer")
			return
		}
		if errors.Is(err, domain.ErrSelfRating) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
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
	helpers.WriteJSONSuccess(w, http.StatusOK, rating)
}

// GetOrganizerRating godoc
// @Summary Get an organizer's rating aggregate
// @Description Returns the organizer's average rating (one decimal) and rating count. An unrated organizer yields a zero aggregate. No authentication required.
// @Tags ratings
// @Produce json
// @Param organizerID path string true "Organizer user ID (UUID)"
// @Success 200 {object} controllers.GetOrganizerRatingSuccessResponse "data contains average and count"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizers/{organizerID}/rating [get]
func (c *RatingController) GetOrganizerRating(w http.ResponseWriter, r *http.Request) {
	organizerID := r.PathValue("organizerID")
	if organizerID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing organizerID")
		return
	}
	agg, err := c.Service.GetOrganizerRating(r.Context(), organizerID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, agg)
}

// ListOrganizerRatings godoc
// @Summary List an organizer's ratings
// @Description Returns a paginated list of individual ratings for the organizer, newest first. Use page and page_size query params. No authentication required.
// @Tags ratings
// @Produce json
// @Param organizerID path string true "Organizer user ID (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListOrganizerRatingsSuccessResponse "data contains items and pagination"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizers/{organizerID}/ratings [get]
func (c *RatingController) ListOrganizerRatings(w http.ResponseWriter, r *http.Request) {
	organizerID := r.PathValue("organizerID")
	if organizerID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing organizerID")
		return
	}
	params := helpers.ParsePagination(r)
	ratings, total, err := c.Service.ListOrganizerRatings(r.Context(), organizerID, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListOrganizerRatingsResponse{Items: ratings, Pagination: meta})
}
