package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/villa-claudia/docs-portal/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// NoopBus is used when NATS is not configured so the portal can run
// standalone; events are logged and dropped.
type NoopBus struct{}

func NewNoopBus() *NoopBus { return &NoopBus{} }

func (n *NoopBus) Publish(ctx context.Context, subject string, data interface{}) error {
	logger.DebugContext(ctx, "Event dropped (no event bus configured)", "subject", subject)
	return nil
}

func (n *NoopBus) Close() error { return nil }

// Event subjects
const (
	DocumentsUploaded  = "document.uploaded"
	ReminderSent       = "reminder.sent"
	MagicLinkRequested = "magiclink.requested"
)

type DocumentsUploadedEvent struct {
	BookingID  string    `json:"booking_id"`
	GuestName  string    `json:"guest_name"`
	GuestEmail string    `json:"guest_email"`
	FileCount  int       `json:"file_count"`
	TotalBytes int64     `json:"total_bytes"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type ReminderSentEvent struct {
	BookingID  string    `json:"booking_id"`
	GuestEmail string    `json:"guest_email"`
	CheckIn    string    `json:"check_in"`
	SentAt     time.Time `json:"sent_at"`
}

type MagicLinkRequestedEvent struct {
	BookingID   string    `json:"booking_id"`
	Email       string    `json:"email"`
	RequestedAt time.Time `json:"requested_at"`
}
