package meridiem

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// timePattern accepts "H:MM" with an optional two-letter meridiem suffix.
// Without the suffix the input is treated as a 24-hour clock value.
var timePattern = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})\s*([a-zA-Z][a-zA-Z])?$`)

const (
	meridiemAM = "am"
	meridiemPM = "pm"

	hoursPerDay = 24
)

// MeridiemTime is an immutable 12-hour wall-clock value plus an integer phase
// counting day rollovers relative to a reference day (phase 0). Ordering is
// phase-first: a time in a later phase sorts after every time in an earlier
// phase regardless of clock value.
type MeridiemTime struct {
	// hour24 is the internal 24-hour representation (0-23).
	hour24 int
	minute int
	phase  int
}

// NewTime builds a time from 24-hour clock components.
func NewTime(hour24, minute, phase int) (MeridiemTime, error) {
	if hour24 < 0 || hour24 >= hoursPerDay {
		return MeridiemTime{}, fmt.Errorf("hour %d out of range", hour24)
	}
	if minute < 0 || minute >= minutesPerHour {
		return MeridiemTime{}, fmt.Errorf("minute %d out of range", minute)
	}
	return MeridiemTime{hour24: hour24, minute: minute, phase: phase}, nil
}

// ParseTime parses "h:mm[am|pm]" or 24-hour "HH:mm" into a phase-0 time.
// Hour 12 is the boundary value: "12:00am" is midnight (internal hour 0) and
// "12:00pm" is noon.
func ParseTime(raw string) (MeridiemTime, error) {
	match := timePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return MeridiemTime{}, fmt.Errorf("cannot parse time from %q", raw)
	}

	hour, err := strconv.Atoi(match[1])
	if err != nil {
		return MeridiemTime{}, fmt.Errorf("invalid hour %q", match[1])
	}
	minute, err := strconv.Atoi(match[2])
	if err != nil {
		return MeridiemTime{}, fmt.Errorf("invalid minute %q", match[2])
	}

	if match[3] != "" {
		switch strings.ToLower(match[3]) {
		case meridiemAM:
			if hour == 12 {
				hour = 0
			}
		case meridiemPM:
			if hour != 12 {
				hour += 12
			}
		default:
			return MeridiemTime{}, fmt.Errorf("unsupported meridiem %q", match[3])
		}
	}

	return NewTime(hour, minute, 0)
}

// MustParseTime is ParseTime for literals known to be valid.
func MustParseTime(raw string) MeridiemTime {
	t, err := ParseTime(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// WithPhase returns a copy on the given phase.
func (t MeridiemTime) WithPhase(phase int) MeridiemTime {
	t.phase = phase
	return t
}

// Hour returns the 12-hour clock hour (1-12).
func (t MeridiemTime) Hour() int {
	h := t.hour24 % 12
	if h == 0 {
		return 12
	}
	return h
}

func (t MeridiemTime) Minute() int { return t.minute }
func (t MeridiemTime) Phase() int  { return t.phase }

// Meridiem returns "am" or "pm".
func (t MeridiemTime) Meridiem() string {
	if t.hour24 < 12 {
		return meridiemAM
	}
	return meridiemPM
}

// String renders the canonical protocol form, e.g. "1:30pm". The phase is not
// part of the textual form; it only exists in memory.
func (t MeridiemTime) String() string {
	return fmt.Sprintf("%d:%02d%s", t.Hour(), t.minute, t.Meridiem())
}

// Equal requires matching phase and clock value.
func (t MeridiemTime) Equal(other MeridiemTime) bool {
	return t == other
}

// Before orders phase-first, then by clock value.
func (t MeridiemTime) Before(other MeridiemTime) bool {
	if t.phase != other.phase {
		return t.phase < other.phase
	}
	if t.hour24 != other.hour24 {
		return t.hour24 < other.hour24
	}
	return t.minute < other.minute
}

func (t MeridiemTime) After(other MeridiemTime) bool {
	return other.Before(t)
}

// Add advances the time by the tick, rolling minutes into hours and hours into
// the phase. A negative tick subtracts.
func (t MeridiemTime) Add(tick TimeTick) MeridiemTime {
	total := t.phase*hoursPerDay*minutesPerHour + t.hour24*minutesPerHour + t.minute + tick.TotalMinutes()

	phase := total / (hoursPerDay * minutesPerHour)
	rem := total % (hoursPerDay * minutesPerHour)
	if rem < 0 {
		rem += hoursPerDay * minutesPerHour
		phase--
	}

	return MeridiemTime{hour24: rem / minutesPerHour, minute: rem % minutesPerHour, phase: phase}
}

// Sub retreats the time by the tick; subtracting a negative tick advances.
func (t MeridiemTime) Sub(tick TimeTick) MeridiemTime {
	return t.Add(tick.Negate())
}

// Diff returns the signed tick between two times. Phases are shifted to a
// common non-negative origin first so differences spanning a day boundary
// resolve correctly.
func (t MeridiemTime) Diff(other MeridiemTime) TimeTick {
	tp, op := t.phase, other.phase
	if tp < 0 || op < 0 {
		shift := -min(tp, op)
		tp += shift
		op += shift
	}

	tm := (tp*hoursPerDay+t.hour24)*minutesPerHour + t.minute
	om := (op*hoursPerDay+other.hour24)*minutesPerHour + other.minute

	delta := tm - om
	negative := delta < 0
	if negative {
		delta = -delta
	}

	tick, _ := NewTimeTick(0, delta, negative)
	return tick
}

// InferTick returns the signed duration from earlier to later.
func InferTick(earlier, later MeridiemTime) TimeTick {
	return later.Diff(earlier)
}
