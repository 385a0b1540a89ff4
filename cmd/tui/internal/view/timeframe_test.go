package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/finboard/internal/finance"
)

func TestTimeframeToDateRange(t *testing.T) {
	// Wednesday.
	now := time.Date(2025, time.January, 15, 18, 30, 0, 0, time.UTC)

	type testCase struct {
		name      string
		tf        Timeframe
		wantStart finance.Date
		wantEnd   finance.Date
	}

	tests := []testCase{
		{name: "this week", tf: TimeframeThisWeek, wantStart: finance.NewDate(2025, time.January, 13), wantEnd: finance.NewDate(2025, time.January, 15)},
		{name: "last week", tf: TimeframeLastWeek, wantStart: finance.NewDate(2025, time.January, 6), wantEnd: finance.NewDate(2025, time.January, 12)},
		{name: "this month", tf: TimeframeThisMonth, wantStart: finance.NewDate(2025, time.January, 1), wantEnd: finance.NewDate(2025, time.January, 15)},
		{name: "last month crosses year", tf: TimeframeLastMonth, wantStart: finance.NewDate(2024, time.December, 1), wantEnd: finance.NewDate(2024, time.December, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := timeframeToDateRange(tt.tf, now)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestTimeframeToDateRange_Sunday(t *testing.T) {
	sunday := time.Date(2025, time.January, 19, 9, 0, 0, 0, time.UTC)

	start, end := timeframeToDateRange(TimeframeThisWeek, sunday)
	assert.Equal(t, finance.NewDate(2025, time.January, 13), start)
	assert.Equal(t, finance.NewDate(2025, time.January, 19), end)
}

func TestParseRange(t *testing.T) {
	type testCase struct {
		name    string
		start   string
		end     string
		wantErr string
	}

	tests := []testCase{
		{name: "valid", start: "2025-01-01", end: " 2025-01-31 "},
		{name: "single day", start: "2025-01-01", end: "2025-01-01"},
		{name: "bad start", start: "01/01/2025", end: "2025-01-31", wantErr: "invalid start date"},
		{name: "bad end", start: "2025-01-01", end: "", wantErr: "invalid end date"},
		{name: "reversed", start: "2025-02-01", end: "2025-01-01", wantErr: "end date is before start date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := parseRange(tt.start, tt.end)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
			assert.False(t, end.Before(start.Time))
		})
	}
}
