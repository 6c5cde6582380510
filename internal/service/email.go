package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// EmailSender is the part of the Resend client the service uses.
type EmailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type EmailService struct {
	sender       EmailSender
	fromEmail    string
	supportEmail string
	isDev        bool
	appURL       string
	appName      string
}

func NewEmailService(apiKey, fromEmail, supportEmail, appURL, appName string, isDev bool) *EmailService {
	var sender EmailSender
	if apiKey != "" && !isDev {
		sender = resend.NewClient(apiKey).Emails
	}

	return &EmailService{
		sender:       sender,
		fromEmail:    fromEmail,
		supportEmail: supportEmail,
		isDev:        isDev,
		appURL:       appURL,
		appName:      appName,
	}
}

// WithSender replaces the delivery backend and leaves dev mode.
func (s *EmailService) WithSender(sender EmailSender) *EmailService {
	s.sender = sender
	s.isDev = false
	return s
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	dashboardURL := fmt.Sprintf("%s/app/dashboard", s.appURL)
	subject, body := welcomeEmailTemplate(name, dashboardURL, s.appName)
	return s.send(ctx, "welcome", email, subject, body)
}

// SendReportNotification tells the moderation inbox about a new report.
func (s *EmailService) SendReportNotification(ctx context.Context, target, targetID, reason, description string) error {
	if s.supportEmail == "" {
		return nil
	}
	reportsURL := fmt.Sprintf("%s/admin/reports", s.appURL)
	subject, body := reportNotificationTemplate(target, targetID, reason, description, reportsURL, s.appName)
	return s.send(ctx, "report_notification", s.supportEmail, subject, body)
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject)
		return nil
	}

	if s.sender == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.sender.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	slog.Info("email sent", "type", kind, "to", to)
	return nil
}
