package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"

	"rentstack-backend/internal/config"
)

type emailService struct {
	host       string
	port       int
	username   string
	password   string
	from       string
	adminEmail string
}

func NewEmailService(cfg config.SMTPConfig) EmailService {
	return &emailService{
		host:       cfg.Host,
		port:       cfg.Port,
		username:   cfg.User,
		password:   cfg.Password,
		from:       cfg.From,
		adminEmail: cfg.AdminEmail,
	}
}

func (s *emailService) SendOrderConfirmation(ctx context.Context, email, name, orderNumber string, total decimal.Decimal) error {
	body := fmt.Sprintf("Hello %s,\n\nYour rental order %s has been created. The total amount is %s.\n\nWe will notify you once the order is approved.\n\nBest regards,\nThe Rentstack Team",
		name, orderNumber, total.StringFixed(2))
	return s.send(email, fmt.Sprintf("Order Confirmation - %s", orderNumber), body)
}

func (s *emailService) SendOrderApproved(ctx context.Context, email, name, orderNumber string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour rental order %s has been approved. Your items will be ready on the start date.\n\nBest regards,\nThe Rentstack Team",
		name, orderNumber)
	return s.send(email, fmt.Sprintf("Order Approved - %s", orderNumber), body)
}

func (s *emailService) SendReturnReminder(ctx context.Context, email, name, orderNumber string, dueDate time.Time) error {
	body := fmt.Sprintf("Hello %s,\n\nThis is a reminder that your rental order %s is due back on %s.\n\nBest regards,\nThe Rentstack Team",
		name, orderNumber, dueDate.Format("2006-01-02"))
	return s.send(email, fmt.Sprintf("Return Reminder - %s", orderNumber), body)
}

func (s *emailService) SendOverdueNotice(ctx context.Context, email, name, orderNumber string, overdueFee decimal.Decimal) error {
	body := fmt.Sprintf("Hello %s,\n\nYour rental order %s is past its end date. Late fees are accruing daily.", name, orderNumber)
	if overdueFee.IsPositive() {
		body += fmt.Sprintf("\n\nThe current overdue fee is %s.", overdueFee.StringFixed(2))
	}
	body += "\n\nPlease return your items as soon as possible.\n\nBest regards,\nThe Rentstack Team"
	return s.send(email, fmt.Sprintf("Overdue Notice - %s", orderNumber), body)
}

func (s *emailService) SendCancellationConfirmation(ctx context.Context, email, name, orderNumber, reason string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour rental order %s has been cancelled.", name, orderNumber)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nBest regards,\nThe Rentstack Team"
	return s.send(email, fmt.Sprintf("Order Cancelled - %s", orderNumber), body)
}

func (s *emailService) SendAdminNotification(ctx context.Context, subject, message string) error {
	if s.adminEmail == "" {
		return nil
	}
	return s.send(s.adminEmail, subject, message)
}

func (s *emailService) send(to, subject, body string) error {
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
