package schedule

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tabletop-club/table-scheduler/internal/meridiem"
)

// DefaultEscapeToken wraps participant identifiers in serialized slot lines
// so the chat-boundary mention transform can find them. The token must not
// appear inside an identifier.
const DefaultEscapeToken = "%"

// slotPattern matches one slot line: an optional list-dash prefix, the slot
// time, an optional primary participant, optional secondaries introduced by a
// comma or "vs.", and an optional parenthesized info field.
var slotPattern = regexp.MustCompile(
	`(?i)^(?:-[ \t]*)?(\d{1,2}:\d{1,2}(?:[a-z]{2})?):(?:[ \t]*([^\t ,(]+))?(?:[ \t]*(?:vs\.|,)[ \t]*([^(\n]*?))?[ \t]*(?:\((.*)\))?[ \t]*$`)

// Slot is one bookable unit at a single time on one table. The participant
// list is ordered: the first entry is the primary owner, and secondaries can
// only exist behind a primary.
type Slot struct {
	Time meridiem.MeridiemTime

	participants []string
	info         string
	token        string
}

// NewSlot builds a slot at the given time. primary may be empty for a free
// slot; secondaries without a primary violate the ownership contract.
func NewSlot(t meridiem.MeridiemTime, primary string, secondaries []string, info, escapeToken string) (*Slot, error) {
	s := &Slot{
		Time:  t,
		info:  strings.TrimSpace(info),
		token: escapeToken,
	}
	if err := s.SetParticipants(primary, secondaries); err != nil {
		return nil, err
	}
	return s, nil
}

// NewFreeSlot builds an empty slot at the given time.
func NewFreeSlot(t meridiem.MeridiemTime, escapeToken string) *Slot {
	return &Slot{Time: t, token: escapeToken}
}

// DeserializeSlot parses one slot line. Participants not wrapped in the
// escape token are dropped, matching the persisted-form contract that every
// identifier is tokenized.
func DeserializeSlot(raw, escapeToken string) (*Slot, error) {
	match := slotPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if match == nil {
		return nil, fmt.Errorf("%w: not a slot line: %q", ErrFormat, raw)
	}

	t, err := meridiem.ParseTime(match[1])
	if err != nil {
		return nil, fmt.Errorf("%w: slot time: %v", ErrFormat, err)
	}

	primary, _ := detokenize(match[2], escapeToken)

	var secondaries []string
	if match[3] != "" {
		for _, part := range strings.Split(match[3], ",") {
			if id, ok := detokenize(strings.TrimSpace(part), escapeToken); ok && id != "" {
				secondaries = append(secondaries, id)
			}
		}
	}

	return NewSlot(t, primary, secondaries, match[4], escapeToken)
}

// SetParticipants replaces the participant list. A primary is required
// whenever secondaries are supplied.
func (s *Slot) SetParticipants(primary string, secondaries []string) error {
	if primary == "" && len(secondaries) > 0 {
		return fmt.Errorf("%w: cannot set secondary participants without a primary", ErrState)
	}

	s.participants = nil
	if primary != "" {
		s.participants = append(s.participants, primary)
	}
	for _, secondary := range secondaries {
		if secondary != "" {
			s.participants = append(s.participants, secondary)
		}
	}
	return nil
}

// Participants returns the ordered participant list, primary first.
func (s *Slot) Participants() []string { return s.participants }

// HasParticipant reports whether the identifier is booked into this slot.
func (s *Slot) HasParticipant(id string) bool {
	for _, p := range s.participants {
		if p == id {
			return true
		}
	}
	return false
}

func (s *Slot) Info() string { return s.info }

func (s *Slot) SetInfo(info string) { s.info = strings.TrimSpace(info) }

// Free clears participants and info.
func (s *Slot) Free() {
	s.participants = nil
	s.info = ""
}

// IsFree holds exactly when the slot has no participants and no info.
func (s *Slot) IsFree() bool {
	return len(s.participants) == 0 && s.info == ""
}

// Serialize renders the canonical slot line without the table's list dash:
// "<time>: [p[, p...]] [(info)]", collapsing to "<time>:" when free.
func (s *Slot) Serialize() string {
	var b strings.Builder
	b.WriteString(s.Time.String())
	b.WriteByte(':')

	if len(s.participants) > 0 {
		tokenized := make([]string, len(s.participants))
		for i, p := range s.participants {
			tokenized[i] = s.token + p + s.token
		}
		b.WriteByte(' ')
		b.WriteString(strings.Join(tokenized, ", "))
	}

	if s.info != "" {
		fmt.Fprintf(&b, " (%s)", s.info)
	}

	return b.String()
}

func (s *Slot) String() string { return s.Serialize() }

// detokenize strips the escape token pair from an identifier. Values that are
// not wrapped (or tokens longer than one character) do not detokenize.
func detokenize(val, token string) (string, bool) {
	if token == "" || len(token) > 1 {
		return val, true
	}
	if len(val) < 2 {
		return "", false
	}
	if strings.HasPrefix(val, token) && strings.HasSuffix(val, token) {
		return val[1 : len(val)-1], true
	}
	return "", false
}
