package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-club/table-scheduler/internal/meridiem"
)

func TestNextRunAt(t *testing.T) {
	// Saturday, September 23rd 2023, noon.
	now := time.Date(2023, time.September, 23, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   string
		day  string
		want time.Time
	}{
		{
			name: "later the same day",
			at:   "11:30pm",
			want: time.Date(2023, time.September, 23, 23, 30, 0, 0, time.UTC),
		},
		{
			name: "already passed rolls to tomorrow",
			at:   "3:00am",
			want: time.Date(2023, time.September, 24, 3, 0, 0, 0, time.UTC),
		},
		{
			name: "exactly now rolls to tomorrow",
			at:   "12:00pm",
			want: time.Date(2023, time.September, 24, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "weekday later this week",
			at:   "9:00am",
			day:  "monday",
			want: time.Date(2023, time.September, 25, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "today's weekday with a passed time waits a week",
			at:   "9:00am",
			day:  "saturday",
			want: time.Date(2023, time.September, 30, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "midnight run",
			at:   "12:00am",
			want: time.Date(2023, time.September, 24, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			at, err := meridiem.ParseTime(tt.at)
			require.NoError(t, err)

			assert.Equal(t, tt.want, nextRunAt(now, at, tt.day))
		})
	}
}
