package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tabletop-club/table-scheduler/internal/meridiem"
)

// tableHeaderPattern matches the table block header line:
// "**Table <N> (until <Time>)**".
var tableHeaderPattern = regexp.MustCompile(
	`(?i)^(?:\*\*[ \t]*)?Table[ \t]+(\d+)[ \t]+\(until[ \t]+(\d{1,2}:\d{1,2}[a-z]{2})\)[ \t]*(?:\*\*)?[ \t]*$`)

// Table is one independently bookable resource: a number, a closing time,
// and an ordered slot sequence covering its operating window. The slot
// granularity is not stored; it is inferred from the spacing of the first two
// slots (or the gap to closing when only one slot exists).
type Table struct {
	Number  int
	Closing meridiem.MeridiemTime

	keys  []string
	slots map[string]*Slot
}

// NewTable builds a table from an ordered slot sequence.
func NewTable(number int, slots []*Slot, closing meridiem.MeridiemTime) (*Table, error) {
	if len(slots) == 0 {
		return nil, fmt.Errorf("%w: table %d requires slots", ErrFormat, number)
	}

	t := &Table{
		Number:  number,
		Closing: closing,
		slots:   make(map[string]*Slot, len(slots)),
	}
	for _, slot := range slots {
		key := slot.Time.String()
		if _, dup := t.slots[key]; dup {
			continue
		}
		t.keys = append(t.keys, key)
		t.slots[key] = slot
	}
	return t, nil
}

// DeserializeTable parses a table block: the header line followed by one slot
// line per row.
func DeserializeTable(raw, escapeToken string) (*Table, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")

	match := tableHeaderPattern.FindStringSubmatch(strings.TrimSpace(lines[0]))
	if match == nil {
		return nil, fmt.Errorf("%w: not a table header: %q", ErrFormat, lines[0])
	}

	number, err := strconv.Atoi(match[1])
	if err != nil {
		return nil, fmt.Errorf("%w: table number: %v", ErrFormat, err)
	}
	closing, err := meridiem.ParseTime(match[2])
	if err != nil {
		return nil, fmt.Errorf("%w: closing time: %v", ErrFormat, err)
	}

	var slots []*Slot
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		slot, err := DeserializeSlot(line, escapeToken)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return NewTable(number, slots, closing)
}

// Slots returns the slots in time order.
func (t *Table) Slots() []*Slot {
	out := make([]*Slot, 0, len(t.keys))
	for _, key := range t.keys {
		out = append(out, t.slots[key])
	}
	return out
}

// SlotAt looks a slot up by its canonical time string.
func (t *Table) SlotAt(time meridiem.MeridiemTime) (*Slot, bool) {
	slot, ok := t.slots[time.String()]
	return slot, ok
}

// HasTime reports whether the time is an exact slot boundary or the closing
// boundary.
func (t *Table) HasTime(time meridiem.MeridiemTime) bool {
	key := time.String()
	if _, ok := t.slots[key]; ok {
		return true
	}
	return key == t.Closing.String()
}

// InferInterval derives the slot granularity from the first two slots, or
// from the gap between the sole slot and closing time.
func (t *Table) InferInterval() meridiem.TimeTick {
	slots := t.Slots()
	if len(slots) == 1 {
		return meridiem.InferTick(slots[0].Time, t.Closing)
	}
	return meridiem.InferTick(slots[0].Time, slots[1].Time)
}

// Check evaluates the predicate over every slot the range covers (start
// inclusive, end exclusive, stepping by the inferred granularity) and reports
// whether it held for all of them. The range must be qualified.
func (t *Table) Check(r *SlotRange, predicate Predicate) (bool, error) {
	return t.walk(r, func(s *Slot) bool { return predicate.Evaluate(s) })
}

// Exec applies the action to every covered slot, reporting whether every
// application succeeded. There is no rollback: callers confirm with Check
// first.
func (t *Table) Exec(r *SlotRange, action Action) (bool, error) {
	return t.walk(r, func(s *Slot) bool { return action.Apply(s) })
}

func (t *Table) walk(r *SlotRange, visit func(*Slot) bool) (bool, error) {
	if r.IsIndeterminate() {
		return false, fmt.Errorf("%w: range %s is unqualified", ErrState, r)
	}

	all := true
	it := meridiem.NewIterator(r.Start(), r.End(), t.InferInterval())
	for {
		time, ok := it.Next()
		if !ok {
			break
		}
		slot, found := t.slots[time.String()]
		if !found {
			return false, fmt.Errorf("%w: no slot at %s on table %d", ErrRange, time, t.Number)
		}
		if !visit(slot) {
			all = false
		}
	}
	return all, nil
}

// Serialize renders the table block: header plus one dashed slot line per
// slot.
func (t *Table) Serialize() string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Table %d (until %s)**\n", t.Number, t.Closing)
	for _, key := range t.keys {
		fmt.Fprintf(&b, "- %s\n", t.slots[key].Serialize())
	}
	return strings.TrimRight(b.String(), "\n")
}

func (t *Table) String() string { return t.Serialize() }
