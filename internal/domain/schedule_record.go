package domain

import "time"

// ScheduleRecord is one persisted day of schedule text. The body column holds
// the canonical serialized form and is the source of truth; everything else
// is derived from it on parse.
type ScheduleRecord struct {
	Date      string    `json:"date"`
	Day       string    `json:"day"`
	Body      string    `json:"body"`
	IsOpen    bool      `json:"isOpen"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int32     `json:"-"`
}
