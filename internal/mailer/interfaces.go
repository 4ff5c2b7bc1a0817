package mailer

import "context"

// Attachment is an in-memory file attached to an outgoing email.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Message is one outgoing email. Attachments are optional.
type Message struct {
	ToEmail     string
	ToName      string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

type Service interface {
	Send(ctx context.Context, msg *Message) error
}
