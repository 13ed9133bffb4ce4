package schedule

// Predicate is a read-only test evaluated against every slot a range covers.
// The set of predicates is closed: handlers pick one of the variants below
// rather than injecting arbitrary functions.
type Predicate interface {
	Evaluate(*Slot) bool
}

// Action mutates a slot and reports success. As with Predicate the set is
// closed; callers must have confirmed validity with a Check first, since Exec
// does not roll back partial application.
type Action interface {
	Apply(*Slot) bool
}

// IsFree holds when the slot has no participants and no info.
type IsFree struct{}

func (IsFree) Evaluate(s *Slot) bool { return s.IsFree() }

// IsOwnedBy holds only when every required identifier is present among the
// slot's participants; there is no partial match.
type IsOwnedBy struct {
	IDs []string
}

func (p IsOwnedBy) Evaluate(s *Slot) bool {
	if len(p.IDs) == 0 {
		return false
	}
	for _, id := range p.IDs {
		if !s.HasParticipant(id) {
			return false
		}
	}
	return true
}

// MarkFree clears the slot. Freeing an already-free slot is a no-op.
type MarkFree struct{}

func (MarkFree) Apply(s *Slot) bool {
	s.Free()
	return true
}

// MarkOwned assigns the identifiers (first entry primary) and the optional
// info text to the slot.
type MarkOwned struct {
	IDs  []string
	Info string
}

func (a MarkOwned) Apply(s *Slot) bool {
	if len(a.IDs) == 0 {
		return false
	}
	if err := s.SetParticipants(a.IDs[0], a.IDs[1:]); err != nil {
		return false
	}
	s.SetInfo(a.Info)
	return true
}
