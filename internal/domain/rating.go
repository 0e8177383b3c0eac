package domain

import (
	"context"
	"errors"
	"time"
)

// ErrSelfRating is returned when an organizer tries to rate themselves.
var ErrSelfRating = errors.New("organizers cannot rate themselves")

// Rating is one user's rating of an organizer. A rater has at most one rating
// per organizer; a new write replaces the previous score.
type Rating struct {
	ID          string    `json:"id"`
	OrganizerID string    `json:"organizer_id"`
	RaterID     string    `json:"rater_id"`
	Score       int       `json:"score"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrganizerRating is the aggregate view attached to discovery results.
// Average is rounded to one decimal.
type OrganizerRating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// PaginationParams select a page of a listing. Page is 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// RatingRepository defines storage operations for organizer ratings.
type RatingRepository interface {
	// Upsert inserts or replaces the rater's rating of the organizer.
	Upsert(ctx context.Context, rating *Rating) error
	// AggregateByOrganizerIDs returns the rating aggregate for each organizer
	// that has at least one rating.
	AggregateByOrganizerIDs(ctx context.Context, organizerIDs []string) (map[string]OrganizerRating, error)
	// ListByOrganizerID returns one page of an organizer's ratings, newest
	// first, plus the total count.
	ListByOrganizerID(ctx context.Context, organizerID string, params PaginationParams) ([]*Rating, int, error)
}

// RatingCache is an optional read-through cache for rating aggregates.
// Implementations must treat failures as misses.
type RatingCache interface {
	Get(ctx context.Context, organizerID string) (*OrganizerRating, bool)
	Set(ctx context.Context, organizerID string, agg OrganizerRating)
}

// RatingService defines rating operations.
type RatingService interface {
	RateOrganizer(ctx context.Context, organizerID, raterID string, score int, comment string) (*Rating, error)
	GetOrganizerRating(ctx context.Context, organizerID string) (*OrganizerRating, error)
	// AggregatesFor returns cached-or-stored aggregates for a set of
	// organizers; organizers without ratings are absent from the map.
	AggregatesFor(ctx context.Context, organizerIDs []string) (map[string]OrganizerRating, error)
	ListOrganizerRatings(ctx context.Context, organizerID string, params PaginationParams) ([]*Rating, int, error)
}
