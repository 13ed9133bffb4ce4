package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-club/table-scheduler/internal/meridiem"
)

func TestParseSlotRange(t *testing.T) {
	bounded, err := ParseSlotRange("1:00pm-3:00pm")
	require.NoError(t, err)
	assert.False(t, bounded.IsIndeterminate())
	assert.Equal(t, "1:00pm-3:00pm", bounded.Serialize())

	open, err := ParseSlotRange("1:00pm")
	require.NoError(t, err)
	assert.True(t, open.IsIndeterminate())
	assert.Equal(t, "1:00pm", open.Serialize())

	spaced, err := ParseSlotRange("1:00pm - 3:00pm")
	require.NoError(t, err)
	assert.Equal(t, "1:00pm-3:00pm", spaced.Serialize())
}

func TestParseSlotRangeRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "soon", "1:00pm-", "1:00pm - "} {
		_, err := ParseSlotRange(raw)
		assert.ErrorIs(t, err, ErrFormat, "raw %q", raw)
	}
}

func TestSlotRangeMustBePositive(t *testing.T) {
	_, err := ParseSlotRange("3:00pm-1:00pm")
	assert.ErrorIs(t, err, ErrRange)

	_, err = ParseSlotRange("1:00pm-1:00pm")
	assert.ErrorIs(t, err, ErrRange)
}

func TestSlotRangeQualify(t *testing.T) {
	r, err := ParseSlotRange("1:00pm")
	require.NoError(t, err)

	require.NoError(t, r.Qualify(meridiem.MustParseTime("3:00pm")))
	assert.False(t, r.IsIndeterminate())
	assert.Equal(t, "1:00pm-3:00pm", r.Serialize())

	err = r.Qualify(meridiem.MustParseTime("5:00pm"))
	assert.ErrorIs(t, err, ErrState)
}

func TestSlotRangeQualifyRejectsNonPositiveEnd(t *testing.T) {
	r, err := ParseSlotRange("1:00pm")
	require.NoError(t, err)

	err = r.Qualify(meridiem.MustParseTime("11:00am"))
	assert.ErrorIs(t, err, ErrRange)
	assert.True(t, r.IsIndeterminate())
}

func TestDeserializeSlotRangeDefaults(t *testing.T) {
	withInterval, err := DeserializeSlotRange(
		"1:00pm", meridiem.MeridiemTime{}, false, meridiem.MustParseTick("2hr"))
	require.NoError(t, err)
	assert.Equal(t, "1:00pm-3:00pm", withInterval.Serialize())

	withEnd, err := DeserializeSlotRange(
		"1:00pm", meridiem.MustParseTime("6:00pm"), true, meridiem.TimeTick{})
	require.NoError(t, err)
	assert.Equal(t, "1:00pm-6:00pm", withEnd.Serialize())

	// An explicit end always wins over defaults.
	explicit, err := DeserializeSlotRange(
		"1:00pm-2:00pm", meridiem.MustParseTime("6:00pm"), true, meridiem.TimeTick{})
	require.NoError(t, err)
	assert.Equal(t, "1:00pm-2:00pm", explicit.Serialize())

	_, err = DeserializeSlotRange(
		"1:00pm", meridiem.MustParseTime("6:00pm"), true, meridiem.MustParseTick("2hr"))
	assert.ErrorIs(t, err, ErrState)
}

func TestSlotRangeEndPanicsWhenIndeterminate(t *testing.T) {
	r := NewSlotRange(meridiem.MustParseTime("1:00pm"))
	assert.Panics(t, func() { r.End() })
}
