// Package schedule implements the schedule text protocol and the
// slot-ownership engine behind it: the parser/serializer for the canonical
// text block persisted as the system's only database, and the range algebra
// used to validate and mutate slot ownership.
package schedule

import "errors"

var (
	// ErrFormat is returned when text does not match the protocol grammar at
	// any level (slot, table, schedule, slot range). Callers skip the record
	// or report usage; it is never fatal.
	ErrFormat = errors.New("schedule: malformed text")
	// ErrRange is returned when a slot range does not line up with a table's
	// slot grid or is zero/negative length.
	ErrRange = errors.New("schedule: invalid slot range")
	// ErrDomain is returned for rule violations such as acting on a closed
	// schedule or an occupied slot.
	ErrDomain = errors.New("schedule: domain rule violated")
	// ErrState marks programming-contract violations (re-qualifying a range,
	// secondaries without a primary). These are bugs, not recoverable input.
	ErrState = errors.New("schedule: state contract violated")
	// ErrConfig is returned when a schedule is requested for a day that has
	// no configuration entry.
	ErrConfig = errors.New("schedule: day not configured")
)
