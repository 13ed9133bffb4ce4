// Package meridiem implements the 12-hour clock arithmetic the schedule text
// protocol is written in: a wall-clock value with an explicit day-rollover
// phase, and a signed hour/minute duration ("tick") used to step between
// slots and to validate range boundaries.
package meridiem

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// tickPattern accepts an optional sign followed by one or two number+unit
// pairs, e.g. "2hr", "90m", "-1hr30m", "+0m".
var tickPattern = regexp.MustCompile(`^([-+])?(\d+)([a-zA-Z]+)\s*(?:(\d+)([a-zA-Z]+))?$`)

const (
	unitHours   = "hr"
	unitMinutes = "m"

	minutesPerHour = 60
)

// TimeTick is a signed duration in hours and minutes. The magnitude is stored
// canonically (minutes 0-59, overflow rolled into hours) with the sign kept
// separately so that "-0m" style zero-length negative ticks stay expressible.
type TimeTick struct {
	hours    int
	minutes  int
	negative bool
}

// NewTimeTick builds a tick from raw hour/minute magnitudes, normalizing
// minute overflow into hours.
func NewTimeTick(hours, minutes int, negative bool) (TimeTick, error) {
	if hours < 0 || minutes < 0 {
		return TimeTick{}, fmt.Errorf("tick magnitudes must be non-negative, got %dhr %dm", hours, minutes)
	}

	hours += minutes / minutesPerHour
	minutes %= minutesPerHour

	return TimeTick{hours: hours, minutes: minutes, negative: negative}, nil
}

// ParseTick parses the textual duration form: [sign]N<unit>[M<unit>] where the
// units are "hr" and "m" in either order, each appearing at most once.
func ParseTick(raw string) (TimeTick, error) {
	match := tickPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return TimeTick{}, fmt.Errorf("cannot parse tick from %q", raw)
	}

	negative := match[1] == "-"

	parts := map[string]int{}
	for _, pair := range [][2]string{{match[2], match[3]}, {match[4], match[5]}} {
		if pair[0] == "" {
			continue
		}
		unit := strings.ToLower(strings.TrimSpace(pair[1]))
		if unit != unitHours && unit != unitMinutes {
			return TimeTick{}, fmt.Errorf("unsupported granularity %q", unit)
		}
		if _, dup := parts[unit]; dup {
			return TimeTick{}, fmt.Errorf("duplicate granularity %q", unit)
		}
		value, err := strconv.Atoi(pair[0])
		if err != nil {
			return TimeTick{}, fmt.Errorf("invalid %s value %q", unit, pair[0])
		}
		parts[unit] = value
	}

	return NewTimeTick(parts[unitHours], parts[unitMinutes], negative)
}

// MustParseTick is ParseTick for literals known to be valid.
func MustParseTick(raw string) TimeTick {
	tick, err := ParseTick(raw)
	if err != nil {
		panic(err)
	}
	return tick
}

func (t TimeTick) Hours() int   { return t.hours }
func (t TimeTick) Minutes() int { return t.minutes }

// IsNegative reports the sign flag. A zero-magnitude tick may carry either sign.
func (t TimeTick) IsNegative() bool { return t.negative }

func (t TimeTick) IsZero() bool { return t.hours == 0 && t.minutes == 0 }

// TotalMinutes returns the signed length of the tick in minutes.
func (t TimeTick) TotalMinutes() int {
	total := t.hours*minutesPerHour + t.minutes
	if t.negative {
		return -total
	}
	return total
}

// Negate flips the sign, keeping the magnitude.
func (t TimeTick) Negate() TimeTick {
	return TimeTick{hours: t.hours, minutes: t.minutes, negative: !t.negative}
}

// String renders the canonical textual form: the hour part is omitted when
// zero and minutes always print zero-padded, so "2hr" round-trips as "2hr00m"
// and "90m" as "1hr30m".
func (t TimeTick) String() string {
	var b strings.Builder
	if t.negative {
		b.WriteByte('-')
	}
	if t.hours != 0 {
		fmt.Fprintf(&b, "%dhr", t.hours)
	}
	fmt.Fprintf(&b, "%02dm", t.minutes)
	return b.String()
}
