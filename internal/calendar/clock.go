// Package calendar resolves the textual date forms the command surface
// accepts (explicit date, weekday name, relative shortcut) against "today" in
// the store's business timezone.
package calendar

import "time"

// Clock supplies the current instant. Injecting it keeps every date
// resolution testable against a fixed point in time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time { return c.Instant }
