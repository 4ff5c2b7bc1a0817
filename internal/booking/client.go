// Package booking is the read-only client for the WordPress companion
// plugin's REST API, the system of record for bookings.
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/villa-claudia/docs-portal/internal/domain"
	"github.com/villa-claudia/docs-portal/pkg/config"
)

// ErrNotFound is returned when the plugin reports no booking for an id.
var ErrNotFound = errors.New("booking not found")

type Client interface {
	Get(ctx context.Context, bookingID string) (*domain.Booking, error)
	ListUpcoming(ctx context.Context) ([]domain.Booking, error)
	HasDocuments(ctx context.Context, bookingID string) (bool, error)
}

type client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.WordPressConfig) Client {
	return &client{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *client) Get(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var b domain.Booking
	if err := c.get(ctx, "/booking/"+bookingID, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *client) ListUpcoming(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := c.get(ctx, "/bookings/upcoming", &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *client) HasDocuments(ctx context.Context, bookingID string) (bool, error) {
	var res struct {
		BookingID    string `json:"bookingId"`
		HasDocuments bool   `json:"hasDocuments"`
	}
	if err := c.get(ctx, "/has-documents/"+bookingID, &res); err != nil {
		return false, err
	}
	return res.HasDocuments, nil
}

func (c *client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("booking API request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("booking API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode booking API response: %w", err)
	}
	return nil
}
