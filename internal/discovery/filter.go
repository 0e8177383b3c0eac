package discovery

import (
	"strings"
	"time"

	"eventscout/internal/domain"
)

// Filter applies the discovery predicates conjunctively and returns the
// surviving views in input order. Views must already carry their computed
// distance (see Engine.Run); the radius predicate relies on it.
//
// An active radius filter excludes events whose position is unknown: a
// radius query promises results within the given distance, and an unplaced
// event cannot honor that promise. Without a radius filter such events pass.
func Filter(views []domain.EventView, req domain.DiscoveryRequest, now time.Time, loc *time.Location) []domain.EventView {
	query := strings.ToLower(strings.TrimSpace(req.Query))
	radiusActive := req.HasCoords && req.RadiusKm > 0

	out := make([]domain.EventView, 0, len(views))
	for _, v := range views {
		e := v.Event
		if e.Status != domain.StatusActive {
			continue
		}
		if req.Category != "" && req.Category != domain.CategoryAll && string(e.Category) != req.Category {
			continue
		}
		if query != "" && !matchesQuery(e, query) {
			continue
		}
		if !withinDateWindow(e.StartsAt, req.DateFrom, req.DateTo, loc) {
			continue
		}
		if req.HidePast && e.StartsAt.Before(now) {
			continue
		}
		if radiusActive {
			if v.DistanceKm == nil || *v.DistanceKm > req.RadiusKm {
				continue
			}
		}
		out = append(out, v)
	}
	return out
}

func matchesQuery(e *domain.Event, loweredQuery string) bool {
	return strings.Contains(strings.ToLower(e.Title), loweredQuery) ||
		strings.Contains(strings.ToLower(e.Description), loweredQuery)
}

// withinDateWindow checks the event's calendar date against an inclusive
// [from, to] window. Both bounds are anchored at local midnight in loc, so
// the window never shifts by a day across timezone offsets.
func withinDateWindow(startsAt, from, to time.Time, loc *time.Location) bool {
	day := localMidnight(startsAt.In(loc), loc)
	if !from.IsZero() && day.Before(localMidnight(from, loc)) {
		return false
	}
	if !to.IsZero() && day.After(localMidnight(to, loc)) {
		return false
	}
	return true
}

func localMidnight(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
