package discovery

import (
	"sort"

	"eventscout/internal/domain"
)

// Rank orders views in place according to the request's sort key. All sorts
// are stable: ties preserve input order. It reports whether the ordering was
// degraded, which happens when a distance sort is requested without requester
// coordinates; the views are then date-ordered instead.
func Rank(views []domain.EventView, req domain.DiscoveryRequest) (degraded bool) {
	switch req.Sort {
	case domain.SortByDistance:
		if !req.HasCoords {
			sortByDate(views)
			return true
		}
		sort.SliceStable(views, func(i, j int) bool {
			di, dj := views[i].DistanceKm, views[j].DistanceKm
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return *di < *dj
		})
	case domain.SortByPopularity:
		sort.SliceStable(views, func(i, j int) bool {
			si, sj := popularityScore(views[i]), popularityScore(views[j])
			if si != sj {
				return si > sj
			}
			return views[i].Event.StartsAt.Before(views[j].Event.StartsAt)
		})
	default:
		sortByDate(views)
	}
	return false
}

func sortByDate(views []domain.EventView) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Event.StartsAt.Before(views[j].Event.StartsAt)
	})
}

// popularityScore weighs a committed "going" twice as heavily as a like.
func popularityScore(v domain.EventView) int {
	return v.Going*2 + v.Likes
}
