package domain

import (
	"context"
	"time"
)

// Attachment is a file attached to an outgoing email.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
	SendWithAttachment(to, subject, html, text string, att Attachment) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// CalendarRenderer produces an iCalendar invite for an event.
type CalendarRenderer interface {
	Render(invite CalendarInvite) ([]byte, error)
}

// CalendarInvite holds the fields for a VEVENT calendar entry.
type CalendarInvite struct {
	UID           string
	Summary       string
	Description   string
	Start         string // RFC 5545 UTC form, e.g. 20250801T120000Z
	End           string
	OrganizerMail string
	AttendeeMail  string
}

// WelcomeEmailData holds data for the welcome email.
type WelcomeEmailData struct {
	Email string
	Name  string
}

// SubscriptionEmailData holds data for the subscription confirmation email.
// The email service renders the calendar invite attachment from these fields.
type SubscriptionEmailData struct {
	Email            string
	Name             string
	SubscriptionID   string
	EventName        string
	EventDescription string
	EventStart       time.Time
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeEmailData) error
	SendSubscriptionConfirmation(ctx context.Context, data *SubscriptionEmailData) error
}

// FileStorage stores uploaded binary objects and returns a public URL.
type FileStorage interface {
	Upload(ctx context.Context, fileName string, data []byte) (url string, err error)
}
