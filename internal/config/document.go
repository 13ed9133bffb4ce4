package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tabletop-club/table-scheduler/internal/calendar"
	"github.com/tabletop-club/table-scheduler/internal/meridiem"
	"github.com/tabletop-club/table-scheduler/internal/schedule"
)

// Document is the parsed schedule document: the per-day operating plans plus
// the optional maintenance schedules and activity list. Loading validates
// everything up front; a process must not start on a partial document.
type Document struct {
	Week       schedule.WeekPlan
	Nightly    NightlyPlan
	Weekly     WeeklyPlan
	Activities []string
}

// NightlyPlan drives the nightly maintenance run: open schedules ahead, close
// and clean them behind, all relative to "today" in the business zone.
type NightlyPlan struct {
	Enabled     bool
	RunTime     meridiem.MeridiemTime
	OpenAhead   int
	CloseBehind int
	CleanBehind int
	Verbose     bool
}

// WeeklyPlan drives the weekly reminder notification.
type WeeklyPlan struct {
	Enabled bool
	RunDay  string
	RunTime meridiem.MeridiemTime
	Verbose bool
}

type rawDocument struct {
	Schedule struct {
		Days map[string]struct {
			Tables       int    `json:"tables"`
			StartTime    string `json:"start_time"`
			EndTime      string `json:"end_time"`
			SlotDuration string `json:"slot_duration"`
		} `json:"days"`
		Nightly *struct {
			RunTime     string `json:"run_time"`
			OpenAhead   int    `json:"open_ahead"`
			CloseBehind int    `json:"close_behind"`
			CleanBehind int    `json:"clean_behind"`
			Verbose     bool   `json:"verbose"`
		} `json:"nightly"`
		Weekly *struct {
			RunDay  string `json:"run_day"`
			RunTime string `json:"run_time"`
			Verbose bool   `json:"verbose"`
		} `json:"weekly"`
		Activities []string `json:"activities"`
	} `json:"schedule"`
}

// LoadDocument reads and validates the schedule document at path. Any
// invalid piece is an error; callers treat it as fatal.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule document: %w", err)
	}
	return ParseDocument(data)
}

// ParseDocument validates the raw JSON document.
func ParseDocument(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse schedule document: %w", err)
	}

	if len(raw.Schedule.Days) == 0 {
		return nil, fmt.Errorf("schedule document: no days configured")
	}

	doc := &Document{
		Week:       make(schedule.WeekPlan, len(raw.Schedule.Days)),
		Activities: raw.Schedule.Activities,
	}

	for day, entry := range raw.Schedule.Days {
		key := strings.ToLower(strings.TrimSpace(day))
		if !isWeekday(key) {
			return nil, fmt.Errorf("schedule document: invalid day %q", day)
		}

		start, err := meridiem.ParseTime(entry.StartTime)
		if err != nil {
			return nil, fmt.Errorf("schedule document: %s start_time: %w", key, err)
		}
		end, err := meridiem.ParseTime(entry.EndTime)
		if err != nil {
			return nil, fmt.Errorf("schedule document: %s end_time: %w", key, err)
		}
		size, err := meridiem.ParseTick(entry.SlotDuration)
		if err != nil {
			return nil, fmt.Errorf("schedule document: %s slot_duration: %w", key, err)
		}
		if entry.Tables < 1 {
			return nil, fmt.Errorf("schedule document: %s needs at least one table", key)
		}
		if !end.After(start) {
			return nil, fmt.Errorf("schedule document: %s end_time must follow start_time", key)
		}
		if size.IsZero() || size.IsNegative() {
			return nil, fmt.Errorf("schedule document: %s slot_duration must be positive", key)
		}

		doc.Week[key] = schedule.DayPlan{
			Tables:   entry.Tables,
			Start:    start,
			End:      end,
			SlotSize: size,
		}
	}

	if raw.Schedule.Nightly != nil {
		runTime, err := meridiem.ParseTime(raw.Schedule.Nightly.RunTime)
		if err != nil {
			return nil, fmt.Errorf("schedule document: nightly run_time: %w", err)
		}
		doc.Nightly = NightlyPlan{
			Enabled:     true,
			RunTime:     runTime,
			OpenAhead:   raw.Schedule.Nightly.OpenAhead,
			CloseBehind: raw.Schedule.Nightly.CloseBehind,
			CleanBehind: raw.Schedule.Nightly.CleanBehind,
			Verbose:     raw.Schedule.Nightly.Verbose,
		}
	}

	if raw.Schedule.Weekly != nil {
		runDay := strings.ToLower(strings.TrimSpace(raw.Schedule.Weekly.RunDay))
		if !isWeekday(runDay) {
			return nil, fmt.Errorf("schedule document: weekly run_day %q", raw.Schedule.Weekly.RunDay)
		}
		runTime, err := meridiem.ParseTime(raw.Schedule.Weekly.RunTime)
		if err != nil {
			return nil, fmt.Errorf("schedule document: weekly run_time: %w", err)
		}
		doc.Weekly = WeeklyPlan{
			Enabled: true,
			RunDay:  runDay,
			RunTime: runTime,
			Verbose: raw.Schedule.Weekly.Verbose,
		}
	}

	return doc, nil
}

// HasActivity reports whether name is one of the configured activities,
// case-insensitively. An empty activity list accepts nothing.
func (d *Document) HasActivity(name string) bool {
	for _, activity := range d.Activities {
		if strings.EqualFold(activity, name) {
			return true
		}
	}
	return false
}

func isWeekday(day string) bool {
	for _, name := range calendar.DaysOfTheWeek {
		if name == day {
			return true
		}
	}
	return false
}
