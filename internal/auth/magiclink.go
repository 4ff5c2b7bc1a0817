package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/villa-claudia/docs-portal/internal/mailer"
	"github.com/villa-claudia/docs-portal/pkg/config"
	"github.com/villa-claudia/docs-portal/pkg/events"
	"github.com/villa-claudia/docs-portal/pkg/logger"
	"github.com/villa-claudia/docs-portal/pkg/metrics"
)

// MagicLinkService emails signed upload-access links and verifies them.
type MagicLinkService interface {
	RequestLink(ctx context.Context, email, bookingID, name string) error
	Verify(ctx context.Context, token string) (*Claims, error)
}

type magicLinkService struct {
	mailer  mailer.Service
	bus     events.Publisher
	baseURL string
	cfg     config.AuthConfig
}

func NewMagicLinkService(m mailer.Service, bus events.Publisher, baseURL string, cfg config.AuthConfig) MagicLinkService {
	return &magicLinkService{
		mailer:  m,
		bus:     bus,
		baseURL: strings.TrimRight(baseURL, "/"),
		cfg:     cfg,
	}
}

// RequestLink signs a token and emails the verification URL. The token
// itself travels in the link; verification parses it back.
func (s *magicLinkService) RequestLink(ctx context.Context, email, bookingID, name string) error {
	if name == "" {
		name = "Guest"
	}

	token, err := IssueToken(email, bookingID, name, s.cfg.JWTSecret, s.cfg.MagicLinkTTL)
	if err != nil {
		return fmt.Errorf("failed to sign magic link token: %w", err)
	}

	link := fmt.Sprintf("%s/documents/verify?token=%s", s.baseURL, url.QueryEscape(token))

	if err := s.mailer.Send(ctx, mailer.MagicLink(email, name, link)); err != nil {
		metrics.IncEmail("magic_link", "failed")
		return fmt.Errorf("failed to send magic link email: %w", err)
	}
	metrics.IncEmail("magic_link", "sent")

	if err := s.bus.Publish(ctx, events.MagicLinkRequested, events.MagicLinkRequestedEvent{
		BookingID:   bookingID,
		Email:       email,
		RequestedAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish magic link event", "error", err)
	}

	return nil
}

func (s *magicLinkService) Verify(ctx context.Context, token string) (*Claims, error) {
	return VerifyToken(token, s.cfg.JWTSecret)
}
