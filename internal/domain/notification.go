package domain

// NotificationMessage is the payload published to the notification queue and
// consumed by the notifier process.
type NotificationMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

const (
	NotificationRequestReceived = "request_received"
	NotificationCancelReceived  = "cancel_received"
	NotificationRequestAccepted = "request_accepted"
	NotificationWeeklyReminder  = "weekly_reminder"
	NotificationNightlyReport   = "nightly_report"
)

type RequestNotificationData struct {
	RequestID      int64    `json:"requestID"`
	RequesterName  string   `json:"requesterName"`
	CoParticipants []string `json:"coParticipants"`
	Date           string   `json:"date"`
	SlotRange      string   `json:"slotRange"`
	Activity       string   `json:"activity"`
}

type AcceptedNotificationData struct {
	RequestID     int64  `json:"requestID"`
	RequesterName string `json:"requesterName"`
	Date          string `json:"date"`
	SlotRange     string `json:"slotRange"`
	TableNumber   int    `json:"tableNumber"`
}

type WeeklyReminderData struct {
	WeekOf string `json:"weekOf"`
}

type NightlyReportData struct {
	Opened  []string `json:"opened"`
	Closed  []string `json:"closed"`
	Cleaned []string `json:"cleaned"`
	Skipped []string `json:"skipped"`
}
