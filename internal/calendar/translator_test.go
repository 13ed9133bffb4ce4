package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestTranslator pins "now" to Saturday 09/23/2023 noon Pacific.
func newTestTranslator(t *testing.T) *Translator {
	t.Helper()

	zone, err := time.LoadLocation(BusinessZone)
	require.NoError(t, err)

	clock := FixedClock{Instant: time.Date(2023, time.September, 23, 12, 0, 0, 0, zone)}
	tr, err := NewTranslator(clock, DefaultDateFormat)
	require.NoError(t, err)
	return tr
}

func TestToday(t *testing.T) {
	tr := newTestTranslator(t)

	today := tr.Today()
	assert.Equal(t, "09/23/2023", today.String())
	assert.Equal(t, "Saturday", today.DayName())
}

func TestTodayCrossesDateLineIntoBusinessZone(t *testing.T) {
	// 2023-09-24 04:00 UTC is still 2023-09-23 in the Pacific zone.
	clock := FixedClock{Instant: time.Date(2023, time.September, 24, 4, 0, 0, 0, time.UTC)}
	tr, err := NewTranslator(clock, DefaultDateFormat)
	require.NoError(t, err)

	assert.Equal(t, "09/23/2023", tr.Today().String())
}

func TestValidityChecks(t *testing.T) {
	tr := newTestTranslator(t)

	assert.True(t, tr.IsValidDay("monday"))
	assert.True(t, tr.IsValidDay("SATURDAY"))
	assert.False(t, tr.IsValidDay("caturday"))

	assert.True(t, tr.IsValidShortcut("Today"))
	assert.True(t, tr.IsValidShortcut("tomorrow"))
	assert.False(t, tr.IsValidShortcut("yesterday"))

	assert.True(t, tr.IsValidDate("09/23/2023"))
	assert.False(t, tr.IsValidDate("2023-09-23"))
}

func TestDateFromDay(t *testing.T) {
	tr := newTestTranslator(t)

	tests := []struct {
		day  string
		want string
	}{
		{day: "saturday", want: "09/23/2023"}, // today, never a week out
		{day: "sunday", want: "09/24/2023"},
		{day: "monday", want: "09/25/2023"}, // wraps past the list boundary
		{day: "friday", want: "09/29/2023"},
	}

	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			date, err := tr.DateFromDay(tt.day)
			require.NoError(t, err)
			assert.Equal(t, tt.want, date.String())
		})
	}

	_, err := tr.DateFromDay("noday")
	assert.Error(t, err)
}

func TestDateFromShortcut(t *testing.T) {
	tr := newTestTranslator(t)

	today, err := tr.DateFromShortcut("today")
	require.NoError(t, err)
	assert.Equal(t, "09/23/2023", today.String())

	tomorrow, err := tr.DateFromShortcut("TOMORROW")
	require.NoError(t, err)
	assert.Equal(t, "09/24/2023", tomorrow.String())

	_, err = tr.DateFromShortcut("later")
	assert.Error(t, err)
}

func TestDeserializeDate(t *testing.T) {
	tr := newTestTranslator(t)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "shortcut", raw: "tomorrow", want: "09/24/2023"},
		{name: "day name", raw: "Wednesday", want: "09/27/2023"},
		{name: "explicit date", raw: "10/14/2023", want: "10/14/2023"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := tr.DeserializeDate(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, date.String())
		})
	}

	for _, raw := range []string{"", "someday", "13/45/2023"} {
		_, err := tr.DeserializeDate(raw)
		assert.Error(t, err, "raw %q", raw)
	}
}

func TestDateArithmeticAndComparison(t *testing.T) {
	date := NewDate(2023, time.September, 23, DefaultDateFormat)

	next := date.AddDays(1)
	assert.Equal(t, "09/24/2023", next.String())
	assert.True(t, date.Before(next))
	assert.True(t, next.After(date))
	assert.True(t, date.Equal(NewDate(2023, time.September, 23, "")))

	prev := date.AddDays(-30)
	assert.Equal(t, "08/24/2023", prev.String())
}

func TestMatchesDay(t *testing.T) {
	date := NewDate(2023, time.September, 23, DefaultDateFormat)
	assert.True(t, date.MatchesDay("saturday"))
	assert.False(t, date.MatchesDay("sunday"))
}
