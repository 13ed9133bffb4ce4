package domain

import "time"

type RequestKind string

const (
	RequestKindBook   RequestKind = "book"
	RequestKindCancel RequestKind = "cancel"
)

// PendingRequest is a member's booking or cancellation awaiting staff review.
// Co-participants and the activity are optional; the slot range is kept in
// its textual form so staff see exactly what was asked for.
type PendingRequest struct {
	ID             int64       `json:"id"`
	Kind           RequestKind `json:"kind"`
	RequesterID    int64       `json:"requesterID"`
	RequesterName  string      `json:"requesterName"`
	CoParticipants []string    `json:"coParticipants"`
	Date           string      `json:"date"`
	SlotRange      string      `json:"slotRange"`
	Activity       string      `json:"activity"`
	Resolved       bool        `json:"resolved"`
	CreatedAt      time.Time   `json:"createdAt"`
	Version        int32       `json:"-"`
}
