package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/villa-claudia/docs-portal/internal/domain"
)

// ReminderLogRepository records reminder sends for the admin report. It is
// append-only observability; the scheduler never consults it to decide
// whether to send.
type ReminderLogRepository interface {
	Append(ctx context.Context, entry *domain.ReminderLogEntry) error
	List(ctx context.Context, limit, offset int) ([]domain.ReminderLogEntry, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type reminderLogRepository struct {
	pool *pgxpool.Pool
}

func NewReminderLogRepository(pool *pgxpool.Pool) ReminderLogRepository {
	return &reminderLogRepository{pool: pool}
}

func (r *reminderLogRepository) Append(ctx context.Context, entry *domain.ReminderLogEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	const q = `
		INSERT INTO reminder_log (booking_id, guest_email, check_in, outcome, sent_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return r.pool.QueryRow(ctx, q,
		entry.BookingID, entry.GuestEmail, entry.CheckIn, entry.Outcome, entry.SentAt,
	).Scan(&entry.ID)
}

func (r *reminderLogRepository) List(ctx context.Context, limit, offset int) ([]domain.ReminderLogEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	const q = `
		SELECT id, booking_id, guest_email, check_in, outcome, sent_at
		FROM reminder_log
		ORDER BY sent_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ReminderLogEntry
	for rows.Next() {
		var e domain.ReminderLogEntry
		if err := rows.Scan(&e.ID, &e.BookingID, &e.GuestEmail, &e.CheckIn, &e.Outcome, &e.SentAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *reminderLogRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	const q = `SELECT count(*) FROM reminder_log WHERE sent_at >= $1`

	var count int64
	err := r.pool.QueryRow(ctx, q, since).Scan(&count)
	return count, err
}
