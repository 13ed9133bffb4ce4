package calendar

import (
	"fmt"
	"strings"
	"time"
)

// BusinessZone is the store's timezone. "Today" is always resolved here, no
// matter where the process runs.
const BusinessZone = "US/Pacific"

// DaysOfTheWeek lists the canonical weekday names, Monday first, lowercase.
var DaysOfTheWeek = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// DayShortcuts maps the relative date terms to their day offset from today.
var DayShortcuts = []string{"today", "tomorrow"}

// Translator converts between the textual date forms (explicit date, weekday
// name, shortcut) and Date values, anchored to the injected clock.
type Translator struct {
	clock  Clock
	zone   *time.Location
	format string
}

func NewTranslator(clock Clock, format string) (*Translator, error) {
	zone, err := time.LoadLocation(BusinessZone)
	if err != nil {
		return nil, fmt.Errorf("load business timezone: %w", err)
	}
	if format == "" {
		format = DefaultDateFormat
	}
	return &Translator{clock: clock, zone: zone, format: format}, nil
}

func (tr *Translator) DateFormat() string { return tr.format }

// Today returns the current date in the business timezone.
func (tr *Translator) Today() Date {
	return DateOf(tr.clock.Now().In(tr.zone), tr.format)
}

// IsValidDay reports whether raw names a weekday, case-insensitively.
func (tr *Translator) IsValidDay(raw string) bool {
	return dayIndex(raw) >= 0
}

// IsValidShortcut reports whether raw is a relative date term.
func (tr *Translator) IsValidShortcut(raw string) bool {
	return shortcutOffset(raw) >= 0
}

// IsValidDate reports whether raw parses as an explicit date in the
// configured format.
func (tr *Translator) IsValidDate(raw string) bool {
	_, err := time.Parse(tr.format, raw)
	return err == nil
}

// DateFromDay returns the next occurrence of the named day that is today or
// later, never more than six days out. Today's own weekday resolves to today.
func (tr *Translator) DateFromDay(day string) (Date, error) {
	target := dayIndex(day)
	if target < 0 {
		return Date{}, fmt.Errorf("%q is not a day of the week", day)
	}

	today := tr.Today()
	current := dayIndex(today.DayName())

	add := target - current
	if add < 0 {
		add += len(DaysOfTheWeek)
	}

	return today.AddDays(add), nil
}

// DateFromShortcut resolves "today"/"tomorrow" to a date.
func (tr *Translator) DateFromShortcut(short string) (Date, error) {
	offset := shortcutOffset(short)
	if offset < 0 {
		return Date{}, fmt.Errorf("%q is not a date shortcut", short)
	}
	return tr.Today().AddDays(offset), nil
}

// DayFromDate returns the capitalized weekday name of the date.
func (tr *Translator) DayFromDate(date Date) string { return date.DayName() }

// DeserializeDate accepts any of the three textual forms: a shortcut, a
// weekday name, or an explicit date in the configured format.
func (tr *Translator) DeserializeDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, fmt.Errorf("date requires input")
	}

	switch {
	case tr.IsValidShortcut(raw):
		return tr.DateFromShortcut(raw)
	case tr.IsValidDay(raw):
		return tr.DateFromDay(raw)
	default:
		parsed, err := time.Parse(tr.format, raw)
		if err != nil {
			return Date{}, fmt.Errorf("unable to deserialize date from %q", raw)
		}
		return DateOf(parsed, tr.format), nil
	}
}

func dayIndex(raw string) int {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for i, day := range DaysOfTheWeek {
		if day == raw {
			return i
		}
	}
	return -1
}

func shortcutOffset(raw string) int {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for i, short := range DayShortcuts {
		if short == raw {
			return i
		}
	}
	return -1
}
