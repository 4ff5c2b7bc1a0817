// Package upload validates guest document submissions and forwards them to
// the administrator by email. Files live in memory for one request only and
// are never written to disk or a database.
package upload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/villa-claudia/docs-portal/internal/domain"
	"github.com/villa-claudia/docs-portal/internal/mailer"
	"github.com/villa-claudia/docs-portal/pkg/config"
	"github.com/villa-claudia/docs-portal/pkg/events"
	"github.com/villa-claudia/docs-portal/pkg/logger"
	"github.com/villa-claudia/docs-portal/pkg/metrics"
)

// ValidationError is a guest-facing 400. Anything else out of Submit is a 500.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a guest-input problem.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

type Service interface {
	Submit(ctx context.Context, req *domain.UploadRequest) ([]domain.UploadedFileInfo, error)
}

type service struct {
	mailer     mailer.Service
	bus        events.Publisher
	adminEmail string
	cfg        config.UploadConfig
}

func NewService(m mailer.Service, bus events.Publisher, adminEmail string, cfg config.UploadConfig) Service {
	return &service{
		mailer:     m,
		bus:        bus,
		adminEmail: adminEmail,
		cfg:        cfg,
	}
}

// Submit runs the full validation policy, then emails the administrator.
// Validation short-circuits before any email is sent and the whole batch
// fails together. A notification failure after successful validation is
// logged and swallowed so the guest-facing outcome is not blocked by mail
// delivery; the guest is told success either way.
func (s *service) Submit(ctx context.Context, req *domain.UploadRequest) ([]domain.UploadedFileInfo, error) {
	if err := s.validate(req); err != nil {
		metrics.IncUpload("rejected")
		return nil, err
	}

	if err := s.mailer.Send(ctx, mailer.UploadNotification(s.adminEmail, req)); err != nil {
		logger.ErrorContext(ctx, "Failed to send admin notification email",
			"error", err, "booking_id", req.BookingID)
		metrics.IncEmail("upload_notification", "failed")
	} else {
		logger.InfoContext(ctx, "Admin notification email sent", "booking_id", req.BookingID)
		metrics.IncEmail("upload_notification", "sent")
	}
	metrics.IncUpload("accepted")

	var total int64
	for i := range req.Files {
		total += req.Files[i].Size
	}
	if err := s.bus.Publish(ctx, events.DocumentsUploaded, events.DocumentsUploadedEvent{
		BookingID:  req.BookingID,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		FileCount:  len(req.Files),
		TotalBytes: total,
		UploadedAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish upload event", "error", err)
	}

	infos := make([]domain.UploadedFileInfo, 0, len(req.Files))
	for i := range req.Files {
		f := &req.Files[i]
		infos = append(infos, domain.UploadedFileInfo{
			OriginalName:   f.OriginalName,
			Size:           f.Size,
			Type:           f.ContentType,
			TravelerName:   f.TravelerName,
			DocumentType:   f.DocumentType,
			DocumentNumber: f.DocumentNumber,
		})
	}
	return infos, nil
}

func (s *service) validate(req *domain.UploadRequest) error {
	if req.BookingID == "" {
		return validationErrorf("Missing booking ID")
	}
	if req.GuestName == "" {
		return validationErrorf("Missing guest name")
	}
	if len(req.Files) == 0 {
		return validationErrorf("No files provided")
	}

	var total int64
	for i := range req.Files {
		total += req.Files[i].Size
	}
	if total > s.cfg.MaxTotalSize {
		return validationErrorf("Total file size (%.2fMB) exceeds %dMB limit. Please reduce file sizes or upload fewer files.",
			float64(total)/(1024*1024), s.cfg.MaxTotalSize/(1024*1024))
	}

	for i := range req.Files {
		f := &req.Files[i]
		if !allowedTypes[f.ContentType] {
			return validationErrorf("File type %s is not supported. Please upload JPG, JPEG, PNG, or PDF files only.", f.ContentType)
		}
		if f.Size > s.cfg.MaxFileSize {
			return validationErrorf("File size exceeds %dMB limit", s.cfg.MaxFileSize/(1024*1024))
		}
	}

	return nil
}
