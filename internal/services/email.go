package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventdesk/internal/domain"
)

// icsTimeFormat is the RFC 5545 UTC date-time form.
const icsTimeFormat = "20060102T150405Z"

// defaultEventDuration is used for the calendar invite when no end time is
// known; events carry a start date only.
const defaultEventDuration = 2 * time.Hour

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	calendar domain.CalendarRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer,
// template renderer, and calendar renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, calendar domain.CalendarRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, calendar: calendar, logger: logger}
}

// SendWelcomeMessage sends a welcome email using the "welcome" template.
func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("welcome", data)
	if err != nil {
		return fmt.Errorf("failed to render welcome template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	s.logger.InfoContext(ctx, "welcome email sent", "email", data.Email)
	return nil
}

// SendSubscriptionConfirmation sends the confirmation email using the
// "subscription_confirmed" template with a calendar invite attached.
func (s *emailService) SendSubscriptionConfirmation(ctx context.Context, data *domain.SubscriptionEmailData) error {
	if data == nil {
		return fmt.Errorf("subscription confirmation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("subscription_confirmed", data)
	if err != nil {
		return fmt.Errorf("failed to render subscription_confirmed template: %w", err)
	}
	start := data.EventStart.UTC()
	ics, err := s.calendar.Render(domain.CalendarInvite{
		UID:          data.SubscriptionID,
		Summary:      data.EventName,
		Description:  data.EventDescription,
		Start:        start.Format(icsTimeFormat),
		End:          start.Add(defaultEventDuration).Format(icsTimeFormat),
		AttendeeMail: data.Email,
	})
	if err != nil {
		return fmt.Errorf("failed to render calendar invite: %w", err)
	}
	att := domain.Attachment{
		FileName:    "invite.ics",
		ContentType: "text/calendar",
		Data:        ics,
	}
	if err := s.mailer.SendWithAttachment(data.Email, subject, htmlBody, textBody, att); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	s.logger.InfoContext(ctx, "subscription confirmation sent", "email", data.Email, "subscription", data.SubscriptionID)
	return nil
}
