package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/villa-claudia/docs-portal/internal/domain"
	"github.com/villa-claudia/docs-portal/internal/http/response"
	"github.com/villa-claudia/docs-portal/internal/upload"
	"github.com/villa-claudia/docs-portal/pkg/logger"
)

type uploadResponse struct {
	Success   bool                      `json:"success"`
	Message   string                    `json:"message"`
	Files     []domain.UploadedFileInfo `json:"files"`
	BookingID string                    `json:"bookingId"`
	GuestName string                    `json:"guestName"`
	Travelers []domain.Traveler         `json:"travelers"`
}

// Upload accepts the guest's multipart document submission. Fields:
// bookingId, guestName, email, travelers (JSON array), files (repeated) and
// fileMetadata[<index>] (JSON) linking each file to a traveler by position.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	// Slack over the aggregate cap so oversize batches still reach the
	// validation step and get the descriptive aggregate-limit error.
	r.Body = http.MaxBytesReader(w, r.Body, h.config.Upload.MaxTotalSize*2)

	if err := r.ParseMultipartForm(h.config.Upload.MaxTotalSize * 2); err != nil {
		response.BadRequest(w, "Invalid multipart form data")
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := &domain.UploadRequest{
		BookingID:  r.FormValue("bookingId"),
		GuestName:  r.FormValue("guestName"),
		GuestEmail: r.FormValue("email"),
	}

	if travelersJSON := r.FormValue("travelers"); travelersJSON != "" {
		if err := json.Unmarshal([]byte(travelersJSON), &req.Travelers); err != nil {
			response.BadRequest(w, "Invalid travelers data")
			return
		}
	}

	metadata := parseFileMetadata(r)

	files := r.MultipartForm.File["files"]
	for i, fh := range files {
		f, err := fh.Open()
		if err != nil {
			response.InternalError(w, "Failed to read uploaded file")
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			response.InternalError(w, "Failed to read uploaded file")
			return
		}

		uf := domain.UploadedFile{
			OriginalName:   fh.Filename,
			Content:        content,
			Size:           int64(len(content)),
			ContentType:    fh.Header.Get("Content-Type"),
			TravelerName:   "Unknown",
			DocumentType:   domain.DocPassport,
			DocumentNumber: "",
		}
		if md, ok := metadata[i]; ok {
			uf.TravelerName = md.TravelerName
			uf.DocumentType = md.DocumentType
			uf.DocumentNumber = md.DocumentNumber
		}
		req.Files = append(req.Files, uf)
	}

	infos, err := h.uploads.Submit(r.Context(), req)
	if err != nil {
		if upload.IsValidationError(err) {
			response.BadRequest(w, err.Error())
			return
		}
		logger.ErrorContext(r.Context(), "Upload failed", "error", err, "booking_id", req.BookingID)
		response.InternalError(w, "Failed to upload files")
		return
	}

	response.WriteJSON(w, http.StatusOK, uploadResponse{
		Success:   true,
		Message:   "Files uploaded successfully",
		Files:     infos,
		BookingID: req.BookingID,
		GuestName: req.GuestName,
		Travelers: req.Travelers,
	})
}

// parseFileMetadata collects fileMetadata[<index>] form values into a map
// keyed by file index. Malformed entries are skipped.
func parseFileMetadata(r *http.Request) map[int]domain.FileMetadata {
	out := make(map[int]domain.FileMetadata)
	for key, values := range r.MultipartForm.Value {
		var idx int
		if n, err := fmt.Sscanf(key, "fileMetadata[%d]", &idx); err != nil || n != 1 {
			continue
		}
		if len(values) == 0 {
			continue
		}
		var md domain.FileMetadata
		if err := json.Unmarshal([]byte(values[0]), &md); err != nil {
			continue
		}
		out[idx] = md
	}
	return out
}
