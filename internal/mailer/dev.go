package mailer

import (
	"context"
	"fmt"

	"github.com/villa-claudia/docs-portal/pkg/logger"
)

// DevMailer prints emails to the log instead of sending them.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) Send(ctx context.Context, msg *Message) error {
	logger.InfoContext(ctx, "[DEV MAIL]",
		"to", msg.ToEmail,
		"subject", msg.Subject,
		"attachments", len(msg.Attachments),
	)

	fmt.Printf("\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"EMAIL (DEV MODE)\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"To: %s (%s)\n"+
		"Subject: %s\n"+
		"\n"+
		"%s\n", msg.ToEmail, msg.ToName, msg.Subject, msg.Text)

	for _, att := range msg.Attachments {
		fmt.Printf("Attachment: %s (%s, %d bytes)\n", att.Filename, att.ContentType, len(att.Content))
	}
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	return nil
}
