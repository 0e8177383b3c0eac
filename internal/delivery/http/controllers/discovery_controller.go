package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventscout/internal/delivery/http/helpers"
	"eventscout/internal/delivery/http/middleware"
	"eventscout/internal/domain"
)

// dateLayout is the calendar-date format accepted by date_from and date_to.
const dateLayout = "2006-01-02"

// maxRadiusKm bounds the radius_km query parameter.
const maxRadiusKm = 100.0

type DiscoveryController struct {
	Logger  *slog.Logger
	Service domain.DiscoveryService

	// DefaultRadiusKm is applied when the request carries coordinates but no
	// radius_km parameter. Zero leaves the radius filter off.
	DefaultRadiusKm float64
}

func NewDiscoveryController(logger *slog.Logger, svc domain.DiscoveryService, defaultRadiusKm float64) *DiscoveryController {
	return &DiscoveryController{
		Logger:          logger,
		Service:         svc,
		DefaultRadiusKm: defaultRadiusKm,
	}
}

// DiscoverSuccessResponse is the success response envelope for GET /discovery (200).
type DiscoverSuccessResponse struct {
	Data  *domain.DiscoveryResult `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// Discover godoc
// @Summary Discover events
// @Description Returns active events filtered and ordered per the query parameters. Anonymous access is allowed; with a Bearer token the response includes the caller's own interaction per event. lat and lng must be provided together; radius_km requires both. Unknown sort keys fall back to date order and set degraded_sort.
// @Tags discovery
// @Produce json
// @Param lat query number false "Requester latitude (-90..90, requires lng)"
// @Param lng query number false "Requester longitude (-180..180, requires lat)"
// @Param radius_km query number false "Radius filter in kilometers (0..100, 0 disables; requires lat and lng)"
// @Param category query string false "Category filter (arts, community, culture, sports, workshops, or all)"
// @Param q query string false "Case-insensitive substring match on title and description"
// @Param date_from query string false "Earliest event date, inclusive (YYYY-MM-DD)"
// @Param date_to query string false "Latest event date, inclusive (YYYY-MM-DD)"
// @Param hide_past query bool false "Exclude events that already started (default true)"
// @Param sort query string false "Ordering: date (default), distance, or popularity"
// @Success 200 {object} controllers.DiscoverSuccessResponse "data contains the ordered events and the degraded_sort flag"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /discovery [get]
func (c *DiscoveryController) Discover(w http.ResponseWriter, r *http.Request) {
	req, sortKnown, errMsg := parseDiscoveryRequest(r)
	if errMsg != "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, errMsg)
		return
	}
	if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
		req.UserID = userID
	}
	if req.HasCoords && r.URL.Query().Get("radius_km") == "" {
		req.RadiusKm = c.DefaultRadiusKm
	}

	result, err := c.Service.Discover(r.Context(), req)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if !sortKnown {
		result.DegradedSort = true
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// parseDiscoveryRequest builds a DiscoveryRequest from the query string.
// sortKnown is false when the sort parameter was unrecognized and date order
// was substituted; the last return value is a non-empty message when a
// parameter is invalid.
func parseDiscoveryRequest(r *http.Request) (req domain.DiscoveryRequest, sortKnown bool, errMsg string) {
	q := r.URL.Query()

	latStr, lngStr := q.Get("lat"), q.Get("lng")
	if (latStr == "") != (lngStr == "") {
		return req, false, "lat and lng must be provided together"
	}
	if latStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil || lat < -90 || lat > 90 {
			return req, false, "lat must be a number between -90 and 90"
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil || lng < -180 || lng > 180 {
			return req, false, "lng must be a number between -180 and 180"
		}
		req.HasCoords = true
		req.Lat = lat
		req.Lng = lng
	}

	if s := q.Get("radius_km"); s != "" {
		radius, err := strconv.ParseFloat(s, 64)
		if err != nil || radius < 0 || radius > maxRadiusKm {
			return req, false, "radius_km must be a number between 0 and 100"
		}
		if radius > 0 && !req.HasCoords {
			return req, false, "radius_km requires lat and lng"
		}
		req.RadiusKm = radius
	}

	if s := q.Get("category"); s != "" && s != domain.CategoryAll {
		if _, ok := domain.ParseCategory(s); !ok {
			return req, false, "unknown category"
		}
		req.Category = s
	}

	req.Query = strings.TrimSpace(q.Get("q"))

	if s := q.Get("date_from"); s != "" {
		from, err := time.Parse(dateLayout, s)
		if err != nil {
			return req, false, "date_from must be a date in YYYY-MM-DD format"
		}
		req.DateFrom = from
	}
	if s := q.Get("date_to"); s != "" {
		to, err := time.Parse(dateLayout, s)
		if err != nil {
			return req, false, "date_to must be a date in YYYY-MM-DD format"
		}
		req.DateTo = to
	}
	if !req.DateFrom.IsZero() && !req.DateTo.IsZero() && req.DateTo.Before(req.DateFrom) {
		return req, false, "date_to must not be before date_from"
	}

	// Past events are hidden unless the caller opts in with hide_past=false.
	req.HidePast = true
	if s := q.Get("hide_past"); s != "" {
		hide, err := strconv.ParseBool(s)
		if err != nil {
			return req, false, "hide_past must be a boolean"
		}
		req.HidePast = hide
	}

	// An unknown sort key falls back to date order rather than failing the
	// request; the response flags the degradation.
	req.Sort, sortKnown = domain.ParseSortKey(q.Get("sort"))

	return req, sortKnown, ""
}
