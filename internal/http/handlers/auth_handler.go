package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/villa-claudia/docs-portal/internal/http/response"
	"github.com/villa-claudia/docs-portal/pkg/logger"
)

type requestLinkBody struct {
	Email     string `json:"email"`
	BookingID string `json:"bookingId"`
	Name      string `json:"name"`
}

// RequestLink emails a signed, time-limited upload link.
func (h *Handlers) RequestLink(w http.ResponseWriter, r *http.Request) {
	var body requestLinkBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	if body.Email == "" || body.BookingID == "" {
		response.BadRequest(w, "Email and booking ID are required")
		return
	}

	if err := h.magicLinks.RequestLink(r.Context(), body.Email, body.BookingID, body.Name); err != nil {
		logger.ErrorContext(r.Context(), "Failed to send magic link", "error", err, "booking_id", body.BookingID)
		response.InternalError(w, "Failed to send magic link")
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Magic link sent successfully",
	})
}

type verifyBody struct {
	Token string `json:"token"`
}

type verifiedUser struct {
	Email     string `json:"email"`
	BookingID string `json:"bookingId"`
	Name      string `json:"name"`
}

// VerifyLink checks a magic-link token and returns its payload, or 401.
func (h *Handlers) VerifyLink(w http.ResponseWriter, r *http.Request) {
	var body verifyBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	if body.Token == "" {
		response.BadRequest(w, "Token is required")
		return
	}

	claims, err := h.magicLinks.Verify(r.Context(), body.Token)
	if err != nil {
		response.WriteError(w, http.StatusUnauthorized, "Invalid or expired token", response.CodeInvalidToken)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user": verifiedUser{
			Email:     claims.Email,
			BookingID: claims.BookingID,
			Name:      claims.Name,
		},
	})
}
