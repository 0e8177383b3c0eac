package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventscout/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateRule(t *testing.T) {
	start := time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		rule    *domain.RecurrenceRule
		wantErr bool
	}{
		{name: "nil rule is valid", rule: nil, wantErr: false},
		{
			name:    "weekly within cap",
			rule:    &domain.RecurrenceRule{Pattern: domain.RecurWeekly, EndDate: date(2025, 2, 28)},
			wantErr: false,
		},
		{
			name:    "end exactly two months out",
			rule:    &domain.RecurrenceRule{Pattern: domain.RecurMonthly, EndDate: date(2025, 3, 1)},
			wantErr: false,
		},
		{
			name:    "end one day past two months",
			rule:    &domain.RecurrenceRule{Pattern: domain.RecurWeekly, EndDate: date(2025, 3, 2)},
			wantErr: true,
		},
		{
			name:    "missing pattern",
			rule:    &domain.RecurrenceRule{EndDate: date(2025, 2, 1)},
			wantErr: true,
		},
		{
			name:    "unknown pattern",
			rule:    &domain.RecurrenceRule{Pattern: "daily", EndDate: date(2025, 2, 1)},
			wantErr: true,
		},
		{
			name:    "missing end date",
			rule:    &domain.RecurrenceRule{Pattern: domain.RecurWeekly},
			wantErr: true,
		},
		{
			name:    "end before start",
			rule:    &domain.RecurrenceRule{Pattern: domain.RecurWeekly, EndDate: date(2024, 12, 31)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRule(tt.rule, start)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidRecurrence)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestExpand_Weekly(t *testing.T) {
	start := date(2025, 1, 1)
	rule := &domain.RecurrenceRule{Pattern: domain.RecurWeekly, EndDate: date(2025, 2, 28)}
	require.NoError(t, ValidateRule(rule, start))

	got := Expand(start, rule)

	want := []time.Time{
		date(2025, 1, 1), date(2025, 1, 8), date(2025, 1, 15), date(2025, 1, 22),
		date(2025, 1, 29), date(2025, 2, 5), date(2025, 2, 12), date(2025, 2, 19),
		date(2025, 2, 26),
	}
	require.Equal(t, want, got)
	for _, occ := range got {
		assert.False(t, occ.After(date(2025, 2, 28).Add(24*time.Hour)))
	}
}

func TestExpand_Biweekly(t *testing.T) {
	start := date(2025, 1, 1)
	rule := &domain.RecurrenceRule{Pattern: domain.RecurBiweekly, EndDate: date(2025, 2, 28)}

	got := Expand(start, rule)

	want := []time.Time{
		date(2025, 1, 1), date(2025, 1, 15), date(2025, 1, 29),
		date(2025, 2, 12), date(2025, 2, 26),
	}
	assert.Equal(t, want, got)
}

func TestExpand_MonthlySkipsShortMonths(t *testing.T) {
	// A rule starting on the 31st has no valid day in February; that month
	// is skipped entirely, not clamped to the 28th.
	start := date(2025, 1, 31)
	rule := &domain.RecurrenceRule{Pattern: domain.RecurMonthly, EndDate: date(2025, 3, 31)}
	require.NoError(t, ValidateRule(rule, start))

	got := Expand(start, rule)

	assert.Equal(t, []time.Time{date(2025, 1, 31), date(2025, 3, 31)}, got)
}

func TestExpand_Monthly(t *testing.T) {
	start := date(2025, 1, 15)
	rule := &domain.RecurrenceRule{Pattern: domain.RecurMonthly, EndDate: date(2025, 3, 15)}

	got := Expand(start, rule)

	assert.Equal(t, []time.Time{date(2025, 1, 15), date(2025, 2, 15), date(2025, 3, 15)}, got)
}

func TestExpand_NonRecurring(t *testing.T) {
	start := time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC)
	got := Expand(start, nil)
	assert.Equal(t, []time.Time{start}, got)
}

func TestExpand_PreservesTimeOfDay(t *testing.T) {
	start := time.Date(2025, 1, 1, 18, 30, 0, 0, time.UTC)
	rule := &domain.RecurrenceRule{Pattern: domain.RecurWeekly, EndDate: date(2025, 1, 15)}

	got := Expand(start, rule)

	require.Len(t, got, 3)
	for _, occ := range got {
		assert.Equal(t, 18, occ.Hour())
		assert.Equal(t, 30, occ.Minute())
	}
}
