package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventscout/internal/delivery/http/helpers"
	"eventscout/internal/delivery/http/middleware"
	"eventscout/internal/domain"
)

// fakeRatingService implements domain.RatingService for handler tests.
type fakeRatingService struct {
	rating  *domain.Rating
	rateErr error
	agg     *domain.OrganizerRating
	list    []*domain.Rating
	total   int
	listErr error
}

func (f *fakeRatingService) RateOrganizer(_ context.Context, _, _ string, _ int, _ string) (*domain.Rating, error) {
	if f.rateErr != nil {
		return nil, f.rateErr
	}
	return f.rating, nil
}

func (f *fakeRatingService) GetOrganizerRating(_ context.Context, _ string) (*domain.OrganizerRating, error) {
	return f.agg, nil
}

func (f *fakeRatingService) AggregatesFor(_ context.Context, _ []string) (map[string]domain.OrganizerRating, error) {
	return map[string]domain.OrganizerRating{}, nil
}

func (f *fakeRatingService) ListOrganizerRatings(_ context.Context, _ string, _ domain.PaginationParams) ([]*domain.Rating, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.list, f.total, nil
}

func TestRatingController_RateOrganizer(t *testing.T) {
	tests := []struct {
		name          string
		contextUserID string
		body          string
		rateErr       error
		wantStatus    int
		wantBodyCode  string
	}{
		{
			name:          "success",
			contextUserID: "user-123",
			body:          `{"score":4,"comment":"great host"}`,
			wantStatus:    http.StatusOK,
		},
		{
			name:          "score out of range",
			contextUserID: "user-123",
			body:          `{"score":6}`,
			wantStatus:    http.StatusBadRequest,
			wantBodyCode:  helpers.ErrCodeBadRequest,
		},
		{
			name:         "no user in context",
			body:         `{"score":4}`,
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:          "self rating",
			contextUserID: "org-1",
			body:          `{"score":5}`,
			rateErr:       domain.ErrSelfRating,
			wantStatus:    http.StatusConflict,
			wantBodyCode:  helpers.ErrCodeConflict,
		},
		{
			name:          "unknown organizer",
			contextUserID: "user-123",
			body:          `{"score":4}`,
			rateErr:       domain.ErrUserNotFound,
			wantStatus:    http.StatusNotFound,
			wantBodyCode:  helpers.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRatingService{rating: &domain.Rating{ID: "rt-1", Score: 4}, rateErr: tt.rateErr}
			ctrl := NewRatingController(testLogger(), fake)

			req := httptest.NewRequest(http.MethodPut, "http://test/organizers/org-1/rating", bytes.NewBufferString(tt.body))
			req.SetPathValue("organizerID", "org-1")
			if tt.contextUserID != "" {
				req = req.WithContext(middleware.SetUserID(req.Context(), tt.contextUserID))
			}
			rr := httptest.NewRecorder()

			ctrl.RateOrganizer(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantBodyCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}

func TestRatingController_GetOrganizerRating(t *testing.T) {
	fake := &fakeRatingService{agg: &domain.OrganizerRating{Average: 4.5, Count: 12}}
	ctrl := NewRatingController(testLogger(), fake)

	req := httptest.NewRequest(http.MethodGet, "http://test/organizers/org-1/rating", nil)
	req.SetPathValue("organizerID", "org-1")
	rr := httptest.NewRecorder()

	ctrl.GetOrganizerRating(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var envelope struct {
		Data  domain.OrganizerRating `json:"data"`
		Error *helpers.APIError      `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	assert.Equal(t, 4.5, envelope.Data.Average)
	assert.Equal(t, 12, envelope.Data.Count)
}

func TestRatingController_ListOrganizerRatings(t *testing.T) {
	fake := &fakeRatingService{
		list:  []*domain.Rating{{ID: "rt-1", Score: 5}, {ID: "rt-2", Score: 3}},
		total: 42,
	}
	ctrl := NewRatingController(testLogger(), fake)

	req := httptest.NewRequest(http.MethodGet, "http://test/organizers/org-1/ratings?page=2&page_size=2", nil)
	req.SetPathValue("organizerID", "org-1")
	rr := httptest.NewRecorder()

	ctrl.ListOrganizerRatings(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var envelope struct {
		Data  ListOrganizerRatingsResponse `json:"data"`
		Error *helpers.APIError            `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	assert.Len(t, envelope.Data.Items, 2)
	assert.Equal(t, 2, envelope.Data.Pagination.Page)
	assert.Equal(t, 42, envelope.Data.Pagination.Total)
	assert.Equal(t, 21, envelope.Data.Pagination.TotalPages)
}
