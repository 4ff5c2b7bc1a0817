package domain

import "time"

// Booking is the read-only view of a MotoPress booking exposed by the
// WordPress companion plugin. This service never creates or mutates
// bookings.
type Booking struct {
	ID           string `json:"bookingId"`
	GuestName    string `json:"guestName"`
	GuestEmail   string `json:"guestEmail"`
	CheckInDate  string `json:"checkInDate"`  // YYYY-MM-DD
	CheckOutDate string `json:"checkOutDate"` // YYYY-MM-DD
	Status       string `json:"status"`
}

// CheckIn parses the booking's check-in date.
func (b *Booking) CheckIn() (time.Time, error) {
	return time.Parse("2006-01-02", b.CheckInDate)
}

// UpcomingBooking is a booking enriched with the document-upload flag,
// as consumed by the reminder scheduler and the admin panels.
type UpcomingBooking struct {
	Booking
	HasUploadedDocuments bool `json:"hasUploadedDocuments"`
}
