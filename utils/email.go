package utils

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Mailer sends notification emails through SendGrid
type Mailer struct {
	APIKey   string
	FromName string
	From     string
	To       string
}

// NewMailer returns nil when no API key or recipient is configured
func NewMailer(apiKey, from, to string) *Mailer {
	if apiKey == "" || to == "" {
		return nil
	}
	if from == "" {
		from = "no-reply@storefront.local"
	}
	return &Mailer{APIKey: apiKey, FromName: "Storefront", From: from, To: to}
}

// Send sends an email to the configured recipient
func (m *Mailer) Send(subject, textContent, htmlContent string) error {
	from := mail.NewEmail(m.FromName, m.From)
	to := mail.NewEmail("", m.To)
	message := mail.NewSingleEmail(from, subject, to, textContent, htmlContent)
	client := sendgrid.NewSendClient(m.APIKey)

	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("send email to %s: %w", m.To, err)
	}

	if response.StatusCode >= 400 {
		Logger.Warn("SendGrid API error", zap.Int("status", response.StatusCode), zap.String("body", response.Body))
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	Logger.Debug("Email sent", zap.String("to", m.To), zap.Int("status", response.StatusCode))
	return nil
}
