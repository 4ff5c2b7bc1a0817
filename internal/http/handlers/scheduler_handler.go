package handlers

import (
	"net/http"

	"github.com/villa-claudia/docs-portal/internal/http/response"
	"github.com/villa-claudia/docs-portal/pkg/logger"
)

type schedulerResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Processed int    `json:"processed"`
	Sent      int    `json:"sent"`
	Failed    int    `json:"failed"`
}

// TriggerReminders runs one reminder scheduler pass. Also mounted as the
// admin's manual send-reminders action.
func (h *Handlers) TriggerReminders(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduler.Run(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Reminder scheduler run failed", "error", err)
		response.InternalError(w, "Failed to process document reminders")
		return
	}

	response.WriteJSON(w, http.StatusOK, schedulerResponse{
		Success:   true,
		Message:   "Document reminders processed successfully",
		Processed: result.Processed,
		Sent:      result.Sent,
		Failed:    result.Failed,
	})
}
