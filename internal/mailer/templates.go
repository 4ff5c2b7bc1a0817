package mailer

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/villa-claudia/docs-portal/internal/domain"
)

// Templates for the three guest-facing/admin-facing emails. One canonical
// version of each, shared by every backend.

// UploadNotification builds the administrator email for a completed
// document upload: traveler summary, per-file table and the raw files as
// attachments. The files are not stored anywhere else.
func UploadNotification(adminEmail string, req *domain.UploadRequest) *Message {
	var travelers strings.Builder
	for _, t := range req.Travelers {
		fmt.Fprintf(&travelers, `<li style="margin-bottom: 5px;">%s (%s: %s)</li>`,
			html.EscapeString(t.Name), t.DocumentType.DisplayName(), html.EscapeString(t.DocumentNumber))
	}

	var rows strings.Builder
	for _, f := range req.Files {
		fmt.Fprintf(&rows, `
      <tr>
        <td style="padding: 8px; border: 1px solid #ddd;">%s</td>
        <td style="padding: 8px; border: 1px solid #ddd;">%s</td>
        <td style="padding: 8px; border: 1px solid #ddd;">%s</td>
        <td style="padding: 8px; border: 1px solid #ddd;">%s</td>
        <td style="padding: 8px; border: 1px solid #ddd;">%s</td>
        <td style="padding: 8px; border: 1px solid #ddd;">%s</td>
      </tr>`,
			html.EscapeString(f.TravelerName), f.DocumentType.DisplayName(),
			html.EscapeString(f.DocumentNumber), html.EscapeString(f.OriginalName),
			f.ContentType, formatFileSize(f.Size))
	}

	guestEmail := req.GuestEmail
	if guestEmail == "" {
		guestEmail = "Not provided"
	}

	body := fmt.Sprintf(`
      <h2>New Documents Uploaded</h2>

      <h3>Booking Information</h3>
      <p><strong>Booking ID:</strong> %s</p>
      <p><strong>Lead Guest Name:</strong> %s</p>
      <p><strong>Contact Email:</strong> %s</p>

      <h3>Travelers</h3>
      <ul style="padding-left: 20px;">%s</ul>

      <h3>Documents</h3>
      <table style="width: 100%%; border-collapse: collapse; margin-top: 10px;">
        <thead>
          <tr>
            <th style="padding: 8px; text-align: left; border: 1px solid #ddd; background-color: #f2f2f2;">Traveler Name</th>
            <th style="padding: 8px; text-align: left; border: 1px solid #ddd; background-color: #f2f2f2;">Document Type</th>
            <th style="padding: 8px; text-align: left; border: 1px solid #ddd; background-color: #f2f2f2;">Document Number</th>
            <th style="padding: 8px; text-align: left; border: 1px solid #ddd; background-color: #f2f2f2;">Filename</th>
            <th style="padding: 8px; text-align: left; border: 1px solid #ddd; background-color: #f2f2f2;">Type</th>
            <th style="padding: 8px; text-align: left; border: 1px solid #ddd; background-color: #f2f2f2;">Size</th>
          </tr>
        </thead>
        <tbody>%s</tbody>
      </table>

      <p style="margin-top: 20px;">
        The uploaded documents are attached to this email. They are not stored on our servers for security reasons.
      </p>

      <p>This is an automated notification. Please do not reply to this email.</p>`,
		html.EscapeString(req.BookingID), html.EscapeString(req.GuestName),
		html.EscapeString(guestEmail), travelers.String(), rows.String())

	msg := &Message{
		ToEmail: adminEmail,
		Subject: fmt.Sprintf("[Villa Claudia] Travel Documents Uploaded - Booking %s", req.BookingID),
		Text:    fmt.Sprintf("New documents uploaded for booking %s by %s (%d files). See the HTML version for details.", req.BookingID, req.GuestName, len(req.Files)),
		HTML:    wrapLayout("Villa Claudia - Document Upload Notification", body),
	}

	for i := range req.Files {
		f := &req.Files[i]
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename:    f.AttachmentName(),
			Content:     f.Content,
			ContentType: f.ContentType,
		})
	}

	return msg
}

// Reminder builds the document upload reminder sent a week before check-in.
func Reminder(guestEmail, guestName string, checkIn time.Time, uploadLink string) *Message {
	formattedDate := checkIn.Format("Monday, January 2, 2006")

	greeting := "Hello"
	if guestName != "" {
		greeting = "Hello " + html.EscapeString(guestName)
	}

	body := fmt.Sprintf(`
      <p>%s,</p>
      <p>Thank you for booking your stay at Villa Claudia, starting on <strong>%s</strong>!</p>
      <p>For legal requirements, we need a copy of your passport or travel ID document for all guests.</p>
      <p>Please click the button below to securely upload your documents:</p>
      <div style="text-align: center; margin: 30px 0;">
        <a href="%s" style="background-color: #1e40af; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Upload Documents</a>
      </div>
      <p>If you have any questions, please don't hesitate to contact us.</p>
      <p>Best regards,<br>Villa Claudia Team</p>`,
		greeting, formattedDate, uploadLink)

	return &Message{
		ToEmail: guestEmail,
		ToName:  guestName,
		Subject: "Important: Upload Your Travel Documents - Villa Claudia",
		Text: fmt.Sprintf("%s,\n\nYour stay at Villa Claudia starts on %s. Please upload your travel documents: %s",
			greeting, formattedDate, uploadLink),
		HTML: wrapLayout("Villa Claudia", body),
	}
}

// MagicLink builds the signed upload-access email with a 24h link.
func MagicLink(email, name, link string) *Message {
	greeting := "Hello"
	if name != "" {
		greeting = "Hello " + html.EscapeString(name)
	}

	body := fmt.Sprintf(`
      <p>%s,</p>
      <p>Thank you for booking your stay at Villa Claudia!</p>
      <p>For legal requirements, we need a copy of your passport or travel ID document.</p>
      <p>Please click the button below to securely upload your documents:</p>
      <div style="text-align: center; margin: 30px 0;">
        <a href="%s" style="background-color: #1e40af; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Upload Documents</a>
      </div>
      <p>This link will expire in 24 hours for security reasons.</p>
      <p>If you didn't request this email, please ignore it.</p>
      <p>Best regards,<br>Villa Claudia Team</p>`,
		greeting, link)

	return &Message{
		ToEmail: email,
		ToName:  name,
		Subject: "Document Upload Request - Villa Claudia",
		Text:    fmt.Sprintf("%s,\n\nPlease upload your travel documents using this link (valid 24 hours): %s", greeting, link),
		HTML:    wrapLayout("Villa Claudia", body),
	}
}

func wrapLayout(title, body string) string {
	return fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
      <div style="background-color: #1e40af; color: white; padding: 20px; text-align: center;">
        <h1 style="margin: 0;">%s</h1>
      </div>
      <div style="padding: 20px; border: 1px solid #e5e7eb; border-top: none;">%s</div>
      <div style="background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280;">
        <p>© %d Villa Claudia. All rights reserved.</p>
        <p><a href="https://villa-claudia.eu" style="color: #6b7280; text-decoration: underline;">villa-claudia.eu</a></p>
      </div>
    </div>`, title, body, time.Now().Year())
}

func formatFileSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1048576:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/1048576)
	}
}
