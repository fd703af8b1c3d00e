package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"inventrack-backend/internal/domain"
)

const mailSignature = "\n\nBest regards,\nThe InvenTrack Team"

type smtpEmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPEmailService delivers notifications over plain SMTP via gomail.
func NewSMTPEmailService(host string, port int, username, password, from string) EmailService {
	return &smtpEmailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *smtpEmailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

func (s *smtpEmailService) SendWelcome(ctx context.Context, email, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour InvenTrack account is ready. Log in to browse the catalog and request checkouts.%s", name, mailSignature)
	return s.send(email, "Welcome to InvenTrack", body)
}

func (s *smtpEmailService) SendPasswordReset(ctx context.Context, email, name, resetToken string) error {
	body := fmt.Sprintf("Hello %s,\n\nA password reset was requested for your account. Use the following token to set a new password:\n\n%s\n\nIf you did not request this, you can ignore this message.%s", name, resetToken, mailSignature)
	return s.send(email, "InvenTrack Password Reset", body)
}

func (s *smtpEmailService) SendCheckoutConfirmation(ctx context.Context, email, name, resourceName string, qty int32, expectedReturn *time.Time) error {
	return s.send(email, "Checkout Confirmation", checkoutConfirmationBody(name, resourceName, qty, expectedReturn))
}

func (s *smtpEmailService) SendOverdueNotice(ctx context.Context, email, name, resourceName string, overdueDays int32) error {
	return s.send(email, "Overdue Item Reminder", overdueNoticeBody(name, resourceName, overdueDays))
}

func (s *smtpEmailService) SendLowStockAlert(ctx context.Context, adminEmail string, resources []domain.Resource) error {
	return s.send(adminEmail, "Low Stock Alert", lowStockBody(resources))
}

func (s *smtpEmailService) SendMaintenanceAlert(ctx context.Context, adminEmail string, resources []domain.Resource) error {
	return s.send(adminEmail, "Maintenance Due", maintenanceBody(resources))
}

func (s *smtpEmailService) SendDailySummary(ctx context.Context, adminEmail, summary string) error {
	body := fmt.Sprintf("Daily inventory summary:\n\n%s%s", summary, mailSignature)
	return s.send(adminEmail, "InvenTrack Daily Summary", body)
}

func checkoutConfirmationBody(name, resourceName string, qty int32, expectedReturn *time.Time) string {
	body := fmt.Sprintf("Hello %s,\n\nYour checkout of %d x %s has been recorded.", name, qty, resourceName)
	if expectedReturn != nil {
		body += fmt.Sprintf("\n\nExpected return date: %s.", expectedReturn.Format("January 2, 2006"))
	}
	return body + mailSignature
}

func overdueNoticeBody(name, resourceName string, overdueDays int32) string {
	return fmt.Sprintf("Hello %s,\n\nYour checkout of %s is %d day(s) overdue. Please return it as soon as possible.%s",
		name, resourceName, overdueDays, mailSignature)
}

func lowStockBody(resources []domain.Resource) string {
	var b strings.Builder
	b.WriteString("The following resources are running low:\n\n")
	for _, r := range resources {
		fmt.Fprintf(&b, "  - %s: %d of %d available\n", r.Name, r.AvailableQuantity, r.Quantity)
	}
	b.WriteString(mailSignature)
	return b.String()
}

func maintenanceBody(resources []domain.Resource) string {
	var b strings.Builder
	b.WriteString("The following resources are due for maintenance:\n\n")
	for _, r := range resources {
		line := fmt.Sprintf("  - %s", r.Name)
		if r.NextMaintenance != nil {
			line += fmt.Sprintf(" (due %s)", r.NextMaintenance.Format("January 2, 2006"))
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(mailSignature)
	return b.String()
}
