package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventscout/internal/delivery/http/helpers"
	"eventscout/internal/delivery/http/middleware"
	"eventscout/internal/domain"
)

// fakeDiscoveryService implements domain.DiscoveryService for handler tests.
type fakeDiscoveryService struct {
	lastReq domain.DiscoveryRequest
	result  *domain.DiscoveryResult
	err     error
}

func (f *fakeDiscoveryService) Discover(_ context.Context, req domain.DiscoveryRequest) (*domain.DiscoveryResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &domain.DiscoveryResult{Events: []domain.EventView{}}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestDiscoveryController_Discover_ParamValidation(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{name: "no params", query: "", wantStatus: http.StatusOK},
		{name: "full coords and radius", query: "lat=50.06&lng=19.93&radius_km=10", wantStatus: http.StatusOK},
		{name: "lat without lng", query: "lat=50.06", wantStatus: http.StatusBadRequest},
		{name: "lng without lat", query: "lng=19.93", wantStatus: http.StatusBadRequest},
		{name: "lat out of range", query: "lat=91&lng=19.93", wantStatus: http.StatusBadRequest},
		{name: "lng out of range", query: "lat=50.06&lng=181", wantStatus: http.StatusBadRequest},
		{name: "lat not a number", query: "lat=north&lng=19.93", wantStatus: http.StatusBadRequest},
		{name: "radius without coords", query: "radius_km=10", wantStatus: http.StatusBadRequest},
		{name: "radius zero without coords is a no-op", query: "radius_km=0", wantStatus: http.StatusOK},
		{name: "radius above cap", query: "lat=50.06&lng=19.93&radius_km=101", wantStatus: http.StatusBadRequest},
		{name: "negative radius", query: "lat=50.06&lng=19.93&radius_km=-5", wantStatus: http.StatusBadRequest},
		{name: "known category", query: "category=sports", wantStatus: http.StatusOK},
		{name: "wildcard category", query: "category=all", wantStatus: http.StatusOK},
		{name: "unknown category", query: "category=karaoke", wantStatus: http.StatusBadRequest},
		{name: "valid date window", query: "date_from=2025-07-01&date_to=2025-07-31", wantStatus: http.StatusOK},
		{name: "malformed date_from", query: "date_from=01.07.2025", wantStatus: http.StatusBadRequest},
		{name: "inverted date window", query: "date_from=2025-07-31&date_to=2025-07-01", wantStatus: http.StatusBadRequest},
		{name: "hide_past false", query: "hide_past=false", wantStatus: http.StatusOK},
		{name: "hide_past garbage", query: "hide_past=maybe", wantStatus: http.StatusBadRequest},
		{name: "sort popularity", query: "sort=popularity", wantStatus: http.StatusOK},
		{name: "unknown sort falls back", query: "sort=alphabetical", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeDiscoveryService{}
			ctrl := NewDiscoveryController(testLogger(), fake, 0)

			req := httptest.NewRequest(http.MethodGet, "http://test/discovery?"+tt.query, nil)
			rr := httptest.NewRecorder()

			ctrl.Discover(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusBadRequest {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, helpers.ErrCodeBadRequest, envelope.Error.Code)
			} else {
				require.Nil(t, envelope.Error)
			}
		})
	}
}

func TestDiscoveryController_Discover_RequestMapping(t *testing.T) {
	fake := &fakeDiscoveryService{}
	ctrl := NewDiscoveryController(testLogger(), fake, 0)

	url := "http://test/discovery?lat=50.0614&lng=19.9366&radius_km=25&category=arts&q=jazz&date_from=2025-07-01&hide_past=true&sort=distance"
	req := httptest.NewRequest(http.MethodGet, url, nil)
	req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
	rr := httptest.NewRecorder()

	ctrl.Discover(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	got := fake.lastReq
	assert.Equal(t, "user-123", got.UserID)
	assert.True(t, got.HasCoords)
	assert.Equal(t, 50.0614, got.Lat)
	assert.Equal(t, 19.9366, got.Lng)
	assert.Equal(t, 25.0, got.RadiusKm)
	assert.Equal(t, "arts", got.Category)
	assert.Equal(t, "jazz", got.Query)
	assert.Equal(t, "2025-07-01", got.DateFrom.Format("2006-01-02"))
	assert.True(t, got.HidePast)
	assert.Equal(t, domain.SortByDistance, got.Sort)
}

func TestDiscoveryController_Discover_HidePastDefault(t *testing.T) {
	t.Run("defaults to true", func(t *testing.T) {
		fake := &fakeDiscoveryService{}
		ctrl := NewDiscoveryController(testLogger(), fake, 0)

		req := httptest.NewRequest(http.MethodGet, "http://test/discovery", nil)
		rr := httptest.NewRecorder()

		ctrl.Discover(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, fake.lastReq.HidePast)
	})

	t.Run("explicit false shows past events", func(t *testing.T) {
		fake := &fakeDiscoveryService{}
		ctrl := NewDiscoveryController(testLogger(), fake, 0)

		req := httptest.NewRequest(http.MethodGet, "http://test/discovery?hide_past=false", nil)
		rr := httptest.NewRecorder()

		ctrl.Discover(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.False(t, fake.lastReq.HidePast)
	})
}

func TestDiscoveryController_Discover_DefaultRadius(t *testing.T) {
	fake := &fakeDiscoveryService{}
	ctrl := NewDiscoveryController(testLogger(), fake, 15)

	t.Run("applied when coords present and radius omitted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://test/discovery?lat=50.06&lng=19.93", nil)
		rr := httptest.NewRecorder()

		ctrl.Discover(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 15.0, fake.lastReq.RadiusKm)
	})

	t.Run("explicit zero disables the filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://test/discovery?lat=50.06&lng=19.93&radius_km=0", nil)
		rr := httptest.NewRecorder()

		ctrl.Discover(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 0.0, fake.lastReq.RadiusKm)
	})

	t.Run("not applied without coords", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "http://test/discovery", nil)
		rr := httptest.NewRecorder()

		ctrl.Discover(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 0.0, fake.lastReq.RadiusKm)
	})
}

func TestDiscoveryController_Discover_UnknownSortDegrades(t *testing.T) {
	fake := &fakeDiscoveryService{}
	ctrl := NewDiscoveryController(testLogger(), fake, 0)

	req := httptest.NewRequest(http.MethodGet, "http://test/discovery?sort=alphabetical", nil)
	rr := httptest.NewRecorder()

	ctrl.Discover(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.SortByDate, fake.lastReq.Sort)

	var envelope struct {
		Data  domain.DiscoveryResult `json:"data"`
		Error *helpers.APIError      `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	assert.True(t, envelope.Data.DegradedSort)
}

func TestDiscoveryController_Discover_ServiceError(t *testing.T) {
	fake := &fakeDiscoveryService{err: assert.AnError}
	ctrl := NewDiscoveryController(testLogger(), fake, 0)

	req := httptest.NewRequest(http.MethodGet, "http://test/discovery", nil)
	rr := httptest.NewRecorder()

	ctrl.Discover(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, helpers.ErrCodeInternalError, envelope.Error.Code)
}
