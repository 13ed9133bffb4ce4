package schedule

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tabletop-club/table-scheduler/internal/calendar"
	"github.com/tabletop-club/table-scheduler/internal/meridiem"
)

// headerPattern matches the schedule header line. Only the date portion is
// captured; the day name is re-derived from the date so a mislabeled header
// cannot drift out of sync.
var headerPattern = regexp.MustCompile(
	`(?i)^###[^\n-]*-[ \t]*([^-\n]+?)[ \t]*(-[ \t]*CLOSED)?[ \t]*$`)

// DayPlan is one operating day's layout: how many tables, the operating
// window, and the slot granularity.
type DayPlan struct {
	Tables   int
	Start    meridiem.MeridiemTime
	End      meridiem.MeridiemTime
	SlotSize meridiem.TimeTick
}

// WeekPlan maps lowercase weekday names to their plans. A day absent from the
// plan cannot host a schedule.
type WeekPlan map[string]DayPlan

// Day looks a plan up by day name, case-insensitively.
func (p WeekPlan) Day(day string) (DayPlan, error) {
	plan, ok := p[strings.ToLower(strings.TrimSpace(day))]
	if !ok {
		return DayPlan{}, fmt.Errorf("%w: %s", ErrConfig, day)
	}
	return plan, nil
}

// Schedule is one day's full record: date, resolved day name, open flag and,
// when open, the tables in ascending number order. A closed schedule carries
// no tables.
type Schedule struct {
	Date calendar.Date
	Day  string
	Open bool

	numbers []int
	tables  map[int]*Table
}

// NewSchedule builds a schedule from explicit tables. Closed schedules drop
// any tables supplied.
func NewSchedule(date calendar.Date, open bool, tables []*Table) *Schedule {
	s := &Schedule{
		Date:   date,
		Day:    date.DayName(),
		Open:   open,
		tables: make(map[int]*Table),
	}
	if !open {
		return s
	}
	for _, table := range tables {
		if _, dup := s.tables[table.Number]; dup {
			continue
		}
		s.numbers = append(s.numbers, table.Number)
		s.tables[table.Number] = table
	}
	sort.Ints(s.numbers)
	return s
}

// Tables returns the tables in ascending number order.
func (s *Schedule) Tables() []*Table {
	out := make([]*Table, 0, len(s.numbers))
	for _, n := range s.numbers {
		out = append(out, s.tables[n])
	}
	return out
}

// TableByNumber looks a table up by its number.
func (s *Schedule) TableByNumber(n int) (*Table, bool) {
	table, ok := s.tables[n]
	return table, ok
}

// Close marks the schedule closed and drops its tables.
func (s *Schedule) Close() {
	s.Open = false
	s.numbers = nil
	s.tables = make(map[int]*Table)
}

// QualifySlotRange fixes an indeterminate range's end at start plus the first
// table's granularity, then validates that both boundaries land on exact slot
// (or closing) times of every table.
func (s *Schedule) QualifySlotRange(r *SlotRange) error {
	if len(s.numbers) == 0 {
		return fmt.Errorf("%w: schedule for %s has no tables", ErrDomain, s.Date)
	}

	if r.IsIndeterminate() {
		interval := s.tables[s.numbers[0]].InferInterval()
		if err := r.Qualify(r.Start().Add(interval)); err != nil {
			return err
		}
	}

	for _, n := range s.numbers {
		table := s.tables[n]
		if !table.HasTime(r.Start()) || !table.HasTime(r.End()) {
			return fmt.Errorf("%w: %s does not align with the slots of %s", ErrRange, r, s.Date)
		}
	}
	return nil
}

// FirstTableWhere returns the lowest-numbered table on which the predicate
// holds for the entire range. Partial coverage across tables never combines:
// either one table satisfies the whole range or the operation fails.
func (s *Schedule) FirstTableWhere(r *SlotRange, predicate Predicate) (*Table, error) {
	for _, n := range s.numbers {
		ok, err := s.tables[n].Check(r, predicate)
		if err != nil {
			return nil, err
		}
		if ok {
			return s.tables[n], nil
		}
	}
	return nil, fmt.Errorf("%w: no table satisfies %s on %s", ErrDomain, r, s.Date)
}

// Serialize renders the canonical text block: the header line followed, when
// open, by the table blocks separated by blank lines.
func (s *Schedule) Serialize() string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Schedule %s - %s", s.Day, s.Date)
	if !s.Open {
		b.WriteString(" - CLOSED")
	}
	b.WriteByte('\n')
	if s.Open {
		for _, n := range s.numbers {
			b.WriteString(s.tables[n].Serialize())
			b.WriteString("\n\n")
		}
	}
	return strings.TrimRight(b.String(), "\n ")
}

func (s *Schedule) String() string { return s.Serialize() }

// Codec binds the text protocol to its collaborators: the date translator,
// the week plan driving generation, and the participant escape token. One
// codec is built at startup and shared; it holds no per-schedule state.
type Codec struct {
	translator *calendar.Translator
	plan       WeekPlan
	token      string
}

func NewCodec(translator *calendar.Translator, plan WeekPlan, escapeToken string) *Codec {
	if escapeToken == "" {
		escapeToken = DefaultEscapeToken
	}
	return &Codec{translator: translator, plan: plan, token: escapeToken}
}

func (c *Codec) Translator() *calendar.Translator { return c.translator }

func (c *Codec) EscapeToken() string { return c.token }

// GenerateSlots builds the fresh slot sequence for a plan: one free slot per
// granularity step from opening up to (not including) closing.
func (c *Codec) GenerateSlots(plan DayPlan) []*Slot {
	var slots []*Slot
	it := meridiem.NewIterator(plan.Start, plan.End, plan.SlotSize)
	for {
		time, ok := it.Next()
		if !ok {
			break
		}
		slots = append(slots, NewFreeSlot(time, c.token))
	}
	return slots
}

// Generate builds a fresh open schedule for the date from the day's plan:
// one table per configured index (1-based), each with an identical empty slot
// sequence and the plan's closing time.
func (c *Codec) Generate(date calendar.Date) (*Schedule, error) {
	plan, err := c.plan.Day(date.DayName())
	if err != nil {
		return nil, err
	}

	tables := make([]*Table, 0, plan.Tables)
	for i := 0; i < plan.Tables; i++ {
		table, err := NewTable(i+1, c.GenerateSlots(plan), plan.End)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return NewSchedule(date, true, tables), nil
}

// Deserialize parses a full schedule text block. Header first, then one table
// block per table header line; closed schedules parse no table text.
func (c *Codec) Deserialize(raw string) (*Schedule, error) {
	lines := strings.Split(strings.TrimRight(raw, "\n \t"), "\n")
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty schedule text", ErrFormat)
	}

	match := headerPattern.FindStringSubmatch(strings.TrimSpace(lines[0]))
	if match == nil {
		return nil, fmt.Errorf("%w: not a schedule header: %q", ErrFormat, lines[0])
	}

	date, err := c.translator.DeserializeDate(match[1])
	if err != nil {
		return nil, fmt.Errorf("%w: schedule date: %v", ErrFormat, err)
	}
	open := match[2] == ""

	var tables []*Table
	if open {
		for _, block := range splitTableBlocks(lines[1:]) {
			table, err := DeserializeTable(block, c.token)
			if err != nil {
				return nil, err
			}
			tables = append(tables, table)
		}
	}

	return NewSchedule(date, open, tables), nil
}

// splitTableBlocks groups the body lines into one string per table block:
// each table header line starts a new block, and lines before the first
// header are dropped.
func splitTableBlocks(lines []string) []string {
	var blocks []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if tableHeaderPattern.MatchString(trimmed) {
			flush()
			current = []string{trimmed}
			continue
		}
		if len(current) > 0 {
			current = append(current, trimmed)
		}
	}
	flush()
	return blocks
}
