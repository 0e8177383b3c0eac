package discovery

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"eventscout/internal/domain"
)

// ValidateRule checks a recurrence rule against its event's start time.
// A nil rule (non-recurring event) is valid. Violations are validation
// errors wrapping domain.ErrInvalidRecurrence; nothing is ever clamped.
func ValidateRule(rule *domain.RecurrenceRule, startsAt time.Time) error {
	if rule == nil {
		return nil
	}
	if _, ok := domain.ParseRecurrencePattern(string(rule.Pattern)); !ok {
		return fmt.Errorf("%w: unknown pattern %q", domain.ErrInvalidRecurrence, rule.Pattern)
	}
	if rule.EndDate.IsZero() {
		return fmt.Errorf("%w: end date is required", domain.ErrInvalidRecurrence)
	}
	if endOfDay(rule.EndDate, startsAt.Location()).Before(startsAt) {
		return fmt.Errorf("%w: end date is before the event start", domain.ErrInvalidRecurrence)
	}
	// Two calendar months, not 60 days: March 31 caps a January 31 start.
	if rule.EndDate.After(startsAt.AddDate(0, 2, 0)) {
		return fmt.Errorf("%w: end date exceeds two months past the event start", domain.ErrInvalidRecurrence)
	}
	return nil
}

// Expand materializes the occurrence instants of an event, inclusive of the
// base start, stopping at the rule's end date. Non-recurring events yield
// exactly the base start. The two-month cap bounds the result (at most ten
// occurrences for weekly rules).
//
// Monthly rules follow RFC 5545 day-of-month semantics: a rule starting on
// the 31st produces occurrences only in months that have a 31st; shorter
// months are skipped, not clamped.
func Expand(startsAt time.Time, rule *domain.RecurrenceRule) []time.Time {
	if rule == nil {
		return []time.Time{startsAt}
	}

	opt := rrule.ROption{
		Freq:     rrule.WEEKLY,
		Interval: 1,
		Dtstart:  startsAt,
		Until:    endOfDay(rule.EndDate, startsAt.Location()),
	}
	switch rule.Pattern {
	case domain.RecurBiweekly:
		opt.Interval = 2
	case domain.RecurMonthly:
		opt.Freq = rrule.MONTHLY
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		// Only reachable with a rule that bypassed ValidateRule; degrade to
		// the single base occurrence.
		return []time.Time{startsAt}
	}
	occurrences := r.All()
	if len(occurrences) == 0 {
		return []time.Time{startsAt}
	}
	return occurrences
}

// endOfDay returns the last second of the calendar day of t in loc, so an
// inclusive end date admits an occurrence at any time that day.
func endOfDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, loc)
}
