// Package discovery implements the event discovery engine: distance
// computation, recurrence expansion, filtering, and ranking. Everything in
// this package is a pure function over an in-memory snapshot; there is no
// I/O, no shared state, and inputs are never mutated, so an Engine may be
// used concurrently from any number of requests.
package discovery

import (
	"time"

	"eventscout/internal/domain"
)

// Engine runs discovery queries. The location anchors calendar-date window
// boundaries at local midnight.
type Engine struct {
	loc *time.Location
}

// NewEngine returns an Engine using loc for date-window anchoring. A nil
// location means UTC.
func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{loc: loc}
}

// Run computes the ordered, filtered view for one request over a consistent
// snapshot. Distance to the requester is computed once per event, before
// filtering, because both the radius predicate and the distance sort need it.
func (e *Engine) Run(snapshot []domain.EventSnapshot, req domain.DiscoveryRequest, now time.Time) domain.DiscoveryResult {
	views := make([]domain.EventView, 0, len(snapshot))
	for _, s := range snapshot {
		v := domain.EventView{
			Event:           s.Event,
			Going:           s.Going,
			Likes:           s.Likes,
			Rating:          s.Rating,
			UserInteraction: s.UserInteraction,
		}
		if req.HasCoords {
			if lat, lng, ok := ParseLatLng(s.Event.Lat, s.Event.Lng); ok {
				d := DistanceKm(req.Lat, req.Lng, lat, lng)
				v.DistanceKm = &d
			}
		}
		views = append(views, v)
	}

	views = Filter(views, req, now, e.loc)
	degraded := Rank(views, req)

	return domain.DiscoveryResult{Events: views, DegradedSort: degraded}
}
