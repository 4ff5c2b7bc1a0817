package handlers

import (
	"errors"
	"net/http"

	"github.com/villa-claudia/docs-portal/internal/booking"
	"github.com/villa-claudia/docs-portal/internal/http/response"
	"github.com/villa-claudia/docs-portal/internal/secureid"
	"github.com/villa-claudia/docs-portal/pkg/logger"
)

// GetBooking resolves a secure booking reference to the booking it encodes
// and proxies the lookup to the WordPress plugin API.
func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	secureID := r.URL.Query().Get("id")
	if secureID == "" {
		response.BadRequest(w, "Missing booking ID")
		return
	}

	ref, err := secureid.Parse(secureID)
	if err != nil {
		response.BadRequest(w, "Invalid booking ID format")
		return
	}

	b, err := h.bookings.Get(r.Context(), ref.BookingID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			response.NotFound(w, "Booking not found")
			return
		}
		logger.ErrorContext(r.Context(), "Failed to fetch booking", "error", err, "booking_id", ref.BookingID)
		response.InternalError(w, "Failed to fetch booking information")
		return
	}

	response.WriteJSON(w, http.StatusOK, b)
}
