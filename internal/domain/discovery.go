package domain

import (
	"context"
	"time"
)

// SortKey selects the ordering of discovery results.
type SortKey string

const (
	SortByDate       SortKey = "date"
	SortByDistance   SortKey = "distance"
	SortByPopularity SortKey = "popularity"
)

// ParseSortKey validates a sort key string. Unknown keys fall back to date;
// the second return value reports whether the input was recognized so callers
// can flag degraded ordering.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortByDate, SortByDistance, SortByPopularity:
		return SortKey(s), true
	case "":
		return SortByDate, true
	}
	return SortByDate, false
}

// DiscoveryRequest describes one discovery query. It is an immutable value;
// the engine never mutates it.
type DiscoveryRequest struct {
	// UserID is empty for anonymous browsing.
	UserID string

	// HasCoords gates Lat/Lng; zero coordinates are a valid position.
	HasCoords bool
	Lat       float64
	Lng       float64

	// RadiusKm limits results to events within this distance of the
	// requester. Zero disables the radius filter. Bounded to [0, 100] at the
	// delivery boundary.
	RadiusKm float64

	// Category is a concrete category or the wildcard CategoryAll.
	Category string

	// Query is matched case-insensitively against title and description.
	Query string

	// DateFrom and DateTo bound the event's calendar date, inclusive, at
	// local midnight in the engine's timezone. Zero values leave that side
	// open.
	DateFrom time.Time
	DateTo   time.Time

	HidePast bool
	Sort     SortKey
}

// EventSnapshot is one event with its per-query aggregates attached, as read
// from storage. The discovery engine treats it as read-only.
type EventSnapshot struct {
	Event           *Event
	Going           int
	Likes           int
	Rating          *OrganizerRating
	UserInteraction InteractionKind // empty when none or anonymous
}

// EventView is one discovery result. DistanceKm is nil when either side of
// the distance computation lacks usable coordinates.
type EventView struct {
	Event           *Event           `json:"event"`
	DistanceKm      *float64         `json:"distance_km,omitempty"`
	Going           int              `json:"going"`
	Likes           int              `json:"likes"`
	Rating          *OrganizerRating `json:"organizer_rating,omitempty"`
	UserInteraction InteractionKind  `json:"user_interaction,omitempty"`
}

// DiscoveryResult is the ordered, filtered view produced for one request.
type DiscoveryResult struct {
	Events []EventView `json:"events"`
	// DegradedSort is set when the requested ordering could not be honored
	// (distance sort without coordinates, or an unknown sort key) and date
	// ordering was used instead.
	DegradedSort bool `json:"degraded_sort"`
}

// DiscoveryService runs discovery queries against a fresh storage snapshot.
type DiscoveryService interface {
	Discover(ctx context.Context, req DiscoveryRequest) (*DiscoveryResult, error)
}
