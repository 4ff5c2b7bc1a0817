package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/villa-claudia/docs-portal/internal/admin"
	"github.com/villa-claudia/docs-portal/internal/domain"
	"github.com/villa-claudia/docs-portal/internal/http/response"
	"github.com/villa-claudia/docs-portal/pkg/logger"
)

type adminLoginBody struct {
	Password string `json:"password"`
}

// AdminLogin checks the shared admin password. On success the client keeps
// its own flag; there is no server-side session.
func (h *Handlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var body adminLoginBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	if err := admin.CheckPassword(h.config.Admin, body.Password); err != nil {
		response.Unauthorized(w, "Invalid password")
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ListUpcomingBookings returns the next two weeks of bookings enriched with
// the document-upload flag, for the admin panels.
func (h *Handlers) ListUpcomingBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListUpcoming(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to fetch upcoming bookings", "error", err)
		response.InternalError(w, "Failed to fetch upcoming bookings")
		return
	}

	out := make([]domain.UpcomingBooking, 0, len(bookings))
	for _, b := range bookings {
		hasDocs, err := h.bookings.HasDocuments(r.Context(), b.ID)
		if err != nil {
			logger.WarnContext(r.Context(), "Document check failed", "error", err, "booking_id", b.ID)
		}
		out = append(out, domain.UpcomingBooking{Booking: b, HasUploadedDocuments: hasDocs})
	}

	response.WriteJSON(w, http.StatusOK, out)
}

// ListReminders returns the reminder send log, newest first.
func (h *Handlers) ListReminders(w http.ResponseWriter, r *http.Request) {
	if h.reminderLog == nil {
		response.WriteJSON(w, http.StatusOK, []domain.ReminderLogEntry{})
		return
	}

	limit, offset := parsePagination(r)
	entries, err := h.reminderLog.List(r.Context(), limit, offset)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list reminder log", "error", err)
		response.InternalError(w, "Failed to fetch reminder log")
		return
	}
	if entries == nil {
		entries = []domain.ReminderLogEntry{}
	}

	response.WriteJSON(w, http.StatusOK, entries)
}

// ExportReminders streams the reminder log as an xlsx download.
func (h *Handlers) ExportReminders(w http.ResponseWriter, r *http.Request) {
	var entries []domain.ReminderLogEntry
	if h.reminderLog != nil {
		var err error
		entries, err = h.reminderLog.List(r.Context(), 10000, 0)
		if err != nil {
			logger.ErrorContext(r.Context(), "Failed to list reminder log", "error", err)
			response.InternalError(w, "Failed to fetch reminder log")
			return
		}
	}

	filename := "reminder-log-" + time.Now().Format("2006-01-02") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := admin.WriteReminderLogXLSX(w, entries); err != nil {
		logger.ErrorContext(r.Context(), "Failed to write xlsx export", "error", err)
	}
}
