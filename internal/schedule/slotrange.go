package schedule

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tabletop-club/table-scheduler/internal/meridiem"
)

// rangePattern matches "start[-end]" where both boundaries are 12-hour times.
var rangePattern = regexp.MustCompile(
	`^(\d{1,2}:\d{1,2}[a-zA-Z]{2})[\t ]*(-[\t ]*)?(\d{1,2}:\d{1,2}[a-zA-Z]{2})?$`)

// SlotRange is a contiguous span of slots: a start time and an optional end.
// A range without an end is indeterminate until qualified exactly once with
// an end that strictly follows the start.
type SlotRange struct {
	start  meridiem.MeridiemTime
	end    meridiem.MeridiemTime
	hasEnd bool
}

// NewSlotRange builds an indeterminate range.
func NewSlotRange(start meridiem.MeridiemTime) *SlotRange {
	return &SlotRange{start: start}
}

// NewBoundedSlotRange builds a determinate range; end must strictly follow
// start.
func NewBoundedSlotRange(start, end meridiem.MeridiemTime) (*SlotRange, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: must be a positive range (%s-%s)", ErrRange, start, end)
	}
	return &SlotRange{start: start, end: end, hasEnd: true}, nil
}

// DeserializeSlotRange parses "start[-end]". When the end is absent,
// defaultInterval (if non-zero) fixes the end at start+interval; otherwise a
// non-zero defaultEnd is used; otherwise the range stays indeterminate.
// Supplying both defaults is a caller bug. A dangling separator without an
// end time is rejected.
func DeserializeSlotRange(raw string, defaultEnd meridiem.MeridiemTime, hasDefaultEnd bool, defaultInterval meridiem.TimeTick) (*SlotRange, error) {
	if hasDefaultEnd && !defaultInterval.IsZero() {
		return nil, fmt.Errorf("%w: cannot supply both a default end and a default interval", ErrState)
	}

	match := rangePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return nil, fmt.Errorf("%w: not a slot range: %q", ErrFormat, raw)
	}

	if (match[2] == "") != (match[3] == "") {
		return nil, fmt.Errorf("%w: separator without end time: %q", ErrFormat, raw)
	}

	start, err := meridiem.ParseTime(match[1])
	if err != nil {
		return nil, fmt.Errorf("%w: range start: %v", ErrFormat, err)
	}

	if match[3] != "" {
		end, err := meridiem.ParseTime(match[3])
		if err != nil {
			return nil, fmt.Errorf("%w: range end: %v", ErrFormat, err)
		}
		return NewBoundedSlotRange(start, end)
	}

	switch {
	case !defaultInterval.IsZero():
		return NewBoundedSlotRange(start, start.Add(defaultInterval))
	case hasDefaultEnd:
		return NewBoundedSlotRange(start, defaultEnd)
	default:
		return NewSlotRange(start), nil
	}
}

// ParseSlotRange is the common user-input form: "start[-end]" with no
// defaults applied.
func ParseSlotRange(raw string) (*SlotRange, error) {
	return DeserializeSlotRange(raw, meridiem.MeridiemTime{}, false, meridiem.TimeTick{})
}

func (r *SlotRange) Start() meridiem.MeridiemTime { return r.start }

// End panics on an indeterminate range; qualify first.
func (r *SlotRange) End() meridiem.MeridiemTime {
	if !r.hasEnd {
		panic("schedule: end of indeterminate slot range")
	}
	return r.end
}

// IsIndeterminate reports whether the range still lacks an end time.
func (r *SlotRange) IsIndeterminate() bool { return !r.hasEnd }

// Qualify fixes the end of an indeterminate range. Re-qualifying is a
// contract violation; an end at or before the start is a range error.
func (r *SlotRange) Qualify(end meridiem.MeridiemTime) error {
	if r.hasEnd {
		return fmt.Errorf("%w: cannot re-qualify slot range", ErrState)
	}
	if !end.After(r.start) {
		return fmt.Errorf("%w: must be a positive range (%s-%s)", ErrRange, r.start, end)
	}
	r.end = end
	r.hasEnd = true
	return nil
}

// Serialize renders "start" or "start-end".
func (r *SlotRange) Serialize() string {
	if !r.hasEnd {
		return r.start.String()
	}
	return fmt.Sprintf("%s-%s", r.start, r.end)
}

func (r *SlotRange) String() string { return r.Serialize() }
