package domain

import "time"

// ReminderResult summarizes one scheduler run. There is no retry and no
// cross-run dedup beyond the day window itself; running twice inside the
// same window re-sends duplicate reminders.
type ReminderResult struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

// ReminderLogEntry records one reminder send for the admin report. The log
// is observability only and never gates whether a reminder is sent.
type ReminderLogEntry struct {
	ID         int64     `json:"id"`
	BookingID  string    `json:"bookingId"`
	GuestEmail string    `json:"guestEmail"`
	CheckIn    string    `json:"checkIn"`
	Outcome    string    `json:"outcome"` // "sent" or "failed"
	SentAt     time.Time `json:"sentAt"`
}

const (
	ReminderOutcomeSent   = "sent"
	ReminderOutcomeFailed = "failed"
)
