// Package scheduler implements the document reminder run: one pass over
// upcoming bookings, a reminder email for each booking entering the
// week-before-check-in window that still has no documents on file.
package scheduler

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/villa-claudia/docs-portal/internal/booking"
	"github.com/villa-claudia/docs-portal/internal/domain"
	"github.com/villa-claudia/docs-portal/internal/mailer"
	"github.com/villa-claudia/docs-portal/internal/repository"
	"github.com/villa-claudia/docs-portal/internal/secureid"
	"github.com/villa-claudia/docs-portal/pkg/config"
	"github.com/villa-claudia/docs-portal/pkg/events"
	"github.com/villa-claudia/docs-portal/pkg/logger"
	"github.com/villa-claudia/docs-portal/pkg/metrics"
)

type Service interface {
	Run(ctx context.Context) (*domain.ReminderResult, error)
}

type service struct {
	bookings booking.Client
	mailer   mailer.Service
	log      repository.ReminderLogRepository
	bus      events.Publisher
	baseURL  string
	window   config.SchedulerConfig
	now      func() time.Time
}

func NewService(
	bookings booking.Client,
	m mailer.Service,
	log repository.ReminderLogRepository,
	bus events.Publisher,
	baseURL string,
	cfg config.SchedulerConfig,
) Service {
	return &service{
		bookings: bookings,
		mailer:   m,
		log:      log,
		bus:      bus,
		baseURL:  strings.TrimRight(baseURL, "/"),
		window:   cfg,
		now:      time.Now,
	}
}

// Run selects bookings whose check-in falls 6.5 to 7.5 days out and which
// have no uploaded documents, and sends one reminder each. Single pass,
// run-to-completion, no retry. There is no cross-run dedup state beyond the
// window itself: a second run inside the same window re-sends.
func (s *service) Run(ctx context.Context) (*domain.ReminderResult, error) {
	upcoming, err := s.bookings.ListUpcoming(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming bookings: %w", err)
	}

	now := s.now()
	var selected []domain.Booking
	for _, b := range upcoming {
		checkIn, err := b.CheckIn()
		if err != nil {
			logger.WarnContext(ctx, "Skipping booking with unparseable check-in date",
				"booking_id", b.ID, "check_in", b.CheckInDate)
			continue
		}

		days := checkIn.Sub(now).Hours() / 24
		if days < s.window.WindowMinDays || days > s.window.WindowMaxDays {
			continue
		}

		hasDocs, err := s.bookings.HasDocuments(ctx, b.ID)
		if err != nil {
			// A failed lookup must not suppress the reminder; a duplicate
			// email is cheaper than a guest arriving without documents.
			logger.ErrorContext(ctx, "Document check failed, sending reminder anyway",
				"error", err, "booking_id", b.ID)
		}
		if hasDocs {
			continue
		}

		selected = append(selected, b)
	}

	logger.InfoContext(ctx, "Reminder scheduler pass", "upcoming", len(upcoming), "selected", len(selected))
	metrics.IncRemindersSelected(len(selected))

	result := &domain.ReminderResult{Processed: len(selected)}
	for _, b := range selected {
		if err := s.sendReminder(ctx, b); err != nil {
			logger.ErrorContext(ctx, "Failed to send reminder", "error", err, "booking_id", b.ID)
			metrics.IncEmail("reminder", "failed")
			s.appendLog(ctx, b, domain.ReminderOutcomeFailed)
			result.Failed++
			continue
		}
		metrics.IncEmail("reminder", "sent")
		s.appendLog(ctx, b, domain.ReminderOutcomeSent)
		result.Sent++
	}

	return result, nil
}

func (s *service) sendReminder(ctx context.Context, b domain.Booking) error {
	checkIn, err := b.CheckIn()
	if err != nil {
		return err
	}

	link := s.uploadLink(b)
	if err := s.mailer.Send(ctx, mailer.Reminder(b.GuestEmail, b.GuestName, checkIn, link)); err != nil {
		return err
	}

	if err := s.bus.Publish(ctx, events.ReminderSent, events.ReminderSentEvent{
		BookingID:  b.ID,
		GuestEmail: b.GuestEmail,
		CheckIn:    b.CheckInDate,
		SentAt:     s.now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish reminder event", "error", err)
	}

	return nil
}

// uploadLink builds the tokenized guest upload URL. New links use the
// unambiguous token encoding; legacy digit references stay accepted on the
// way in.
func (s *service) uploadLink(b domain.Booking) string {
	token := secureid.Encode(secureid.Reference{
		BookingID: b.ID,
		CheckIn:   strings.ReplaceAll(b.CheckInDate, "-", ""),
		CheckOut:  strings.ReplaceAll(b.CheckOutDate, "-", ""),
	})
	return fmt.Sprintf("%s/%s?email=%s", s.baseURL, token, url.QueryEscape(b.GuestEmail))
}

func (s *service) appendLog(ctx context.Context, b domain.Booking, outcome string) {
	if s.log == nil {
		return
	}
	entry := &domain.ReminderLogEntry{
		BookingID:  b.ID,
		GuestEmail: b.GuestEmail,
		CheckIn:    b.CheckInDate,
		Outcome:    outcome,
		SentAt:     s.now(),
	}
	if err := s.log.Append(ctx, entry); err != nil {
		logger.ErrorContext(ctx, "Failed to record reminder in log", "error", err, "booking_id", b.ID)
	}
}
