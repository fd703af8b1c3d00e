package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"inventrack-backend/internal/domain"
)

type sendGridEmailService struct {
	apiKey   string
	from     string
	fromName string
}

// NewSendGridEmailService delivers notifications through the SendGrid API.
func NewSendGridEmailService(apiKey, from, fromName string) EmailService {
	return &sendGridEmailService{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
	}
}

func (s *sendGridEmailService) send(to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.from)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *sendGridEmailService) SendWelcome(ctx context.Context, email, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour InvenTrack account is ready. Log in to browse the catalog and request checkouts.%s", name, mailSignature)
	return s.send(email, name, "Welcome to InvenTrack", body)
}

func (s *sendGridEmailService) SendPasswordReset(ctx context.Context, email, name, resetToken string) error {
	body := fmt.Sprintf("Hello %s,\n\nA password reset was requested for your account. Use the following token to set a new password:\n\n%s\n\nIf you did not request this, you can ignore this message.%s", name, resetToken, mailSignature)
	return s.send(email, name, "InvenTrack Password Reset", body)
}

func (s *sendGridEmailService) SendCheckoutConfirmation(ctx context.Context, email, name, resourceName string, qty int32, expectedReturn *time.Time) error {
	return s.send(email, name, "Checkout Confirmation", checkoutConfirmationBody(name, resourceName, qty, expectedReturn))
}

func (s *sendGridEmailService) SendOverdueNotice(ctx context.Context, email, name, resourceName string, overdueDays int32) error {
	return s.send(email, name, "Overdue Item Reminder", overdueNoticeBody(name, resourceName, overdueDays))
}

func (s *sendGridEmailService) SendLowStockAlert(ctx context.Context, adminEmail string, resources []domain.Resource) error {
	return s.send(adminEmail, "", "Low Stock Alert", lowStockBody(resources))
}

func (s *sendGridEmailService) SendMaintenanceAlert(ctx context.Context, adminEmail string, resources []domain.Resource) error {
	return s.send(adminEmail, "", "Maintenance Due", maintenanceBody(resources))
}

func (s *sendGridEmailService) SendDailySummary(ctx context.Context, adminEmail, summary string) error {
	body := fmt.Sprintf("Daily inventory summary:\n\n%s%s", summary, mailSignature)
	return s.send(adminEmail, "", "InvenTrack Daily Summary", body)
}
