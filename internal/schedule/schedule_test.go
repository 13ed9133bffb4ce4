package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-club/table-scheduler/internal/calendar"
	"github.com/tabletop-club/table-scheduler/internal/meridiem"
)

// newTestCodec pins "now" to Saturday 09/23/2023 and configures Saturday and
// Sunday as operating days: two tables, noon to 6pm, 2-hour slots.
func newTestCodec(t *testing.T) *Codec {
	t.Helper()

	zone, err := time.LoadLocation(calendar.BusinessZone)
	require.NoError(t, err)

	clock := calendar.FixedClock{Instant: time.Date(2023, time.September, 23, 12, 0, 0, 0, zone)}
	translator, err := calendar.NewTranslator(clock, calendar.DefaultDateFormat)
	require.NoError(t, err)

	weekend := DayPlan{
		Tables:   2,
		Start:    meridiem.MustParseTime("12:00pm"),
		End:      meridiem.MustParseTime("6:00pm"),
		SlotSize: meridiem.MustParseTick("2hr"),
	}
	plan := WeekPlan{"saturday": weekend, "sunday": weekend}

	return NewCodec(translator, plan, DefaultEscapeToken)
}

func testDate(t *testing.T, c *Codec, raw string) calendar.Date {
	t.Helper()
	date, err := c.Translator().DeserializeDate(raw)
	require.NoError(t, err)
	return date
}

func TestGenerateSchedule(t *testing.T) {
	c := newTestCodec(t)

	sched, err := c.Generate(testDate(t, c, "09/23/2023"))
	require.NoError(t, err)

	assert.True(t, sched.Open)
	assert.Equal(t, "Saturday", sched.Day)
	require.Len(t, sched.Tables(), 2)

	want := strings.Join([]string{
		"### Schedule Saturday - 09/23/2023",
		"**Table 1 (until 6:00pm)**",
		"- 12:00pm:",
		"- 2:00pm:",
		"- 4:00pm:",
		"",
		"**Table 2 (until 6:00pm)**",
		"- 12:00pm:",
		"- 2:00pm:",
		"- 4:00pm:",
	}, "\n")
	assert.Equal(t, want, sched.Serialize())
}

func TestGenerateRejectsUnconfiguredDay(t *testing.T) {
	c := newTestCodec(t)

	// 09/25/2023 is a Monday, which the plan does not cover.
	_, err := c.Generate(testDate(t, c, "09/25/2023"))
	assert.ErrorIs(t, err, ErrConfig)
}

func TestScheduleRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	sched, err := c.Generate(testDate(t, c, "09/23/2023"))
	require.NoError(t, err)

	table, ok := sched.TableByNumber(2)
	require.True(t, ok)
	rng, err := NewBoundedSlotRange(
		meridiem.MustParseTime("2:00pm"), meridiem.MustParseTime("6:00pm"))
	require.NoError(t, err)
	applied, err := table.Exec(rng, MarkOwned{IDs: []string{"alice", "bob"}, Info: "chess"})
	require.NoError(t, err)
	require.True(t, applied)

	text := sched.Serialize()
	parsed, err := c.Deserialize(text)
	require.NoError(t, err)
	assert.Equal(t, text, parsed.Serialize())

	again, err := c.Deserialize(parsed.Serialize())
	require.NoError(t, err)
	assert.Equal(t, text, again.Serialize())
}

func TestClosedScheduleRoundTrip(t *testing.T) {
	c := newTestCodec(t)
	raw := "### Schedule Saturday - 09/23/2023 - CLOSED"

	sched, err := c.Deserialize(raw)
	require.NoError(t, err)
	assert.False(t, sched.Open)
	assert.Empty(t, sched.Tables())
	assert.Equal(t, raw, sched.Serialize())
}

func TestCloseDropsTables(t *testing.T) {
	c := newTestCodec(t)

	sched, err := c.Generate(testDate(t, c, "09/23/2023"))
	require.NoError(t, err)

	sched.Close()
	assert.False(t, sched.Open)
	assert.Empty(t, sched.Tables())
	assert.Equal(t, "### Schedule Saturday - 09/23/2023 - CLOSED", sched.Serialize())
}

func TestDeserializeRejectsMalformedHeader(t *testing.T) {
	c := newTestCodec(t)

	for _, raw := range []string{
		"",
		"Schedule Saturday 09/23/2023",
		"### Timetable",
	} {
		_, err := c.Deserialize(raw)
		assert.ErrorIs(t, err, ErrFormat, "raw %q", raw)
	}
}

func TestQualifySlotRange(t *testing.T) {
	c := newTestCodec(t)

	sched, err := c.Generate(testDate(t, c, "09/23/2023"))
	require.NoError(t, err)

	// An indeterminate range picks up one slot's worth of duration.
	rng, err := ParseSlotRange("2:00pm")
	require.NoError(t, err)
	require.NoError(t, sched.QualifySlotRange(rng))
	assert.Equal(t, "2:00pm-4:00pm", rng.Serialize())

	// The closing boundary is a valid end.
	last, err := ParseSlotRange("4:00pm")
	require.NoError(t, err)
	require.NoError(t, sched.QualifySlotRange(last))
	assert.Equal(t, "4:00pm-6:00pm", last.Serialize())

	offGrid, err := ParseSlotRange("1:00pm-3:00pm")
	require.NoError(t, err)
	assert.ErrorIs(t, sched.QualifySlotRange(offGrid), ErrRange)

	past, err := ParseSlotRange("4:00pm-8:00pm")
	require.NoError(t, err)
	assert.ErrorIs(t, sched.QualifySlotRange(past), ErrRange)
}

func TestFirstTableWhere(t *testing.T) {
	c := newTestCodec(t)

	sched, err := c.Generate(testDate(t, c, "09/23/2023"))
	require.NoError(t, err)

	rng, err := ParseSlotRange("12:00pm-4:00pm")
	require.NoError(t, err)

	// Occupy part of the range on table 1; the whole range stays free only
	// on table 2.
	first, ok := sched.TableByNumber(1)
	require.True(t, ok)
	partial, err := ParseSlotRange("2:00pm-4:00pm")
	require.NoError(t, err)
	applied, err := first.Exec(partial, MarkOwned{IDs: []string{"alice"}})
	require.NoError(t, err)
	require.True(t, applied)

	table, err := sched.FirstTableWhere(rng, IsFree{})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Number)

	// Owned lookups find the table holding the booking.
	owned, err := sched.FirstTableWhere(partial, IsOwnedBy{IDs: []string{"alice"}})
	require.NoError(t, err)
	assert.Equal(t, 1, owned.Number)

	// Partial coverage never combines across tables.
	second, ok := sched.TableByNumber(2)
	require.True(t, ok)
	late, err := ParseSlotRange("2:00pm-6:00pm")
	require.NoError(t, err)
	applied, err = second.Exec(late, MarkOwned{IDs: []string{"bob"}})
	require.NoError(t, err)
	require.True(t, applied)

	whole, err := ParseSlotRange("12:00pm-6:00pm")
	require.NoError(t, err)
	_, err = sched.FirstTableWhere(whole, IsFree{})
	assert.ErrorIs(t, err, ErrDomain)
}
