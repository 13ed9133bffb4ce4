package schedule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-club/table-scheduler/internal/meridiem"
)

func newTestTable(t *testing.T, times []string, closing string) *Table {
	t.Helper()

	slots := make([]*Slot, 0, len(times))
	for _, raw := range times {
		slots = append(slots, NewFreeSlot(meridiem.MustParseTime(raw), DefaultEscapeToken))
	}
	table, err := NewTable(1, slots, meridiem.MustParseTime(closing))
	require.NoError(t, err)
	return table
}

func TestDeserializeTable(t *testing.T) {
	raw := strings.Join([]string{
		"**Table 2 (until 6:00pm)**",
		"- 12:00pm: %alice%",
		"- 2:00pm:",
		"- 4:00pm: %bob%, %carol% (chess)",
	}, "\n")

	table, err := DeserializeTable(raw, DefaultEscapeToken)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Number)
	assert.Equal(t, "6:00pm", table.Closing.String())
	require.Len(t, table.Slots(), 3)

	assert.Equal(t, raw, table.Serialize())
}

func TestDeserializeTableRejectsBadHeader(t *testing.T) {
	_, err := DeserializeTable("Chairs 2 (until 6:00pm)\n- 12:00pm:", DefaultEscapeToken)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestTableRequiresSlots(t *testing.T) {
	_, err := NewTable(1, nil, meridiem.MustParseTime("6:00pm"))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestTableHasTime(t *testing.T) {
	table := newTestTable(t, []string{"12:00pm", "2:00pm", "4:00pm"}, "6:00pm")

	assert.True(t, table.HasTime(meridiem.MustParseTime("12:00pm")))
	assert.True(t, table.HasTime(meridiem.MustParseTime("6:00pm"))) // closing counts
	assert.False(t, table.HasTime(meridiem.MustParseTime("1:00pm")))
	assert.False(t, table.HasTime(meridiem.MustParseTime("7:00pm")))
}

func TestTableInferInterval(t *testing.T) {
	twoHour := newTestTable(t, []string{"1:00pm", "3:00pm", "5:00pm"}, "6:00pm")
	assert.Equal(t, "2hr00m", twoHour.InferInterval().String())

	soleSlot := newTestTable(t, []string{"1:00pm"}, "6:00pm")
	assert.Equal(t, "5hr00m", soleSlot.InferInterval().String())
}

func TestTableCheck(t *testing.T) {
	table := newTestTable(t, []string{"12:00pm", "2:00pm", "4:00pm"}, "6:00pm")
	taken, ok := table.SlotAt(meridiem.MustParseTime("2:00pm"))
	require.True(t, ok)
	require.NoError(t, taken.SetParticipants("alice", nil))

	whole, err := NewBoundedSlotRange(
		meridiem.MustParseTime("12:00pm"), meridiem.MustParseTime("6:00pm"))
	require.NoError(t, err)

	free, err := table.Check(whole, IsFree{})
	require.NoError(t, err)
	assert.False(t, free)

	firstOnly, err := NewBoundedSlotRange(
		meridiem.MustParseTime("12:00pm"), meridiem.MustParseTime("2:00pm"))
	require.NoError(t, err)

	free, err = table.Check(firstOnly, IsFree{})
	require.NoError(t, err)
	assert.True(t, free)

	owned, err := NewBoundedSlotRange(
		meridiem.MustParseTime("2:00pm"), meridiem.MustParseTime("4:00pm"))
	require.NoError(t, err)

	held, err := table.Check(owned, IsOwnedBy{IDs: []string{"alice"}})
	require.NoError(t, err)
	assert.True(t, held)

	held, err = table.Check(owned, IsOwnedBy{IDs: []string{"alice", "bob"}})
	require.NoError(t, err)
	assert.False(t, held, "every required id must be present")
}

func TestTableExec(t *testing.T) {
	table := newTestTable(t, []string{"12:00pm", "2:00pm", "4:00pm"}, "6:00pm")

	rng, err := NewBoundedSlotRange(
		meridiem.MustParseTime("12:00pm"), meridiem.MustParseTime("4:00pm"))
	require.NoError(t, err)

	ok, err := table.Exec(rng, MarkOwned{IDs: []string{"alice", "bob"}, Info: "chess"})
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, strings.Join([]string{
		"**Table 1 (until 6:00pm)**",
		"- 12:00pm: %alice%, %bob% (chess)",
		"- 2:00pm: %alice%, %bob% (chess)",
		"- 4:00pm:",
	}, "\n"), table.Serialize())

	ok, err = table.Exec(rng, MarkFree{})
	require.NoError(t, err)
	assert.True(t, ok)

	free, err := table.Check(rng, IsFree{})
	require.NoError(t, err)
	assert.True(t, free)
}

func TestTableWalkRejectsOffGridRange(t *testing.T) {
	table := newTestTable(t, []string{"12:00pm", "2:00pm", "4:00pm"}, "6:00pm")

	rng, err := NewBoundedSlotRange(
		meridiem.MustParseTime("1:00pm"), meridiem.MustParseTime("3:00pm"))
	require.NoError(t, err)

	_, err = table.Check(rng, IsFree{})
	assert.ErrorIs(t, err, ErrRange)
}

func TestTableWalkRejectsIndeterminateRange(t *testing.T) {
	table := newTestTable(t, []string{"12:00pm", "2:00pm"}, "4:00pm")

	_, err := table.Check(NewSlotRange(meridiem.MustParseTime("12:00pm")), IsFree{})
	assert.ErrorIs(t, err, ErrState)
}
