package calendar

import (
	"strings"
	"time"
)

// DefaultDateFormat is the protocol's date form, mm/dd/YYYY.
const DefaultDateFormat = "01/02/2006"

// Date is a calendar date bound to the display format it serializes with.
type Date struct {
	year   int
	month  time.Month
	day    int
	format string
}

func NewDate(year int, month time.Month, day int, format string) Date {
	if format == "" {
		format = DefaultDateFormat
	}
	return Date{year: year, month: month, day: day, format: format}
}

// DateOf truncates a time.Time to its calendar date in that value's location.
func DateOf(t time.Time, format string) Date {
	return NewDate(t.Year(), t.Month(), t.Day(), format)
}

func (d Date) Year() int         { return d.year }
func (d Date) Month() time.Month { return d.month }
func (d Date) Day() int          { return d.day }
func (d Date) Format() string    { return d.format }

func (d Date) time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// DayName returns the capitalized English weekday name, the form used in
// schedule headers.
func (d Date) DayName() string { return d.Weekday().String() }

// String renders the date in its bound format.
func (d Date) String() string { return d.time().Format(d.format) }

// AddDays returns the date n days later (earlier for negative n), keeping the
// bound format.
func (d Date) AddDays(n int) Date {
	return DateOf(d.time().AddDate(0, 0, n), d.format)
}

// Equal ignores the bound format; two dates are the same calendar day or not.
func (d Date) Equal(other Date) bool {
	return d.year == other.year && d.month == other.month && d.day == other.day
}

func (d Date) Before(other Date) bool { return d.time().Before(other.time()) }
func (d Date) After(other Date) bool  { return other.Before(d) }

// MatchesDay reports whether the date falls on the named weekday,
// case-insensitively.
func (d Date) MatchesDay(day string) bool {
	return strings.EqualFold(d.DayName(), day)
}
