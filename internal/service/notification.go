package service

import (
	"context"

	"github.com/google/uuid"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/logger"
	"rentstack-backend/internal/repository"
)

// Notifier fans lifecycle events out to the in-app notification feed and
// email. Delivery is best effort: failures are logged and never fail the
// operation that triggered them.
type Notifier struct {
	noteRepo repository.NotificationRepository
	emailSvc EmailService
}

func NewNotifier(noteRepo repository.NotificationRepository, emailSvc EmailService) *Notifier {
	return &Notifier{noteRepo: noteRepo, emailSvc: emailSvc}
}

// Notify records an in-app notification for the customer. Each emission gets
// a fresh event ID so downstream consumers can deduplicate.
func (n *Notifier) Notify(ctx context.Context, customerID int32, event, title, message string, attrs map[string]string) {
	if n == nil {
		return
	}
	note := &domain.Notification{
		EventID:    uuid.New().String(),
		CustomerID: customerID,
		Title:      title,
		Message:    message,
		Attributes: attrs,
	}
	if attrs == nil {
		note.Attributes = map[string]string{}
	}
	note.Attributes["event"] = event
	if err := n.noteRepo.Create(ctx, note); err != nil {
		logger.Error("failed to record notification", "customer_id", customerID, "event", event, "error", err)
	}
}

// AdminAlert emails the configured admin address about a critical condition.
func (n *Notifier) AdminAlert(ctx context.Context, subject, message string) {
	if n == nil || n.emailSvc == nil {
		return
	}
	if err := n.emailSvc.SendAdminNotification(ctx, subject, message); err != nil {
		logger.Error("failed to send admin alert", "subject", subject, "error", err)
	}
}

// Email returns the wired email service, nil-safe for callers.
func (n *Notifier) Email() EmailService {
	if n == nil {
		return nil
	}
	return n.emailSvc
}

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.noteRepo.List(ctx, customerID, pageSize, (page-1)*pageSize)
}

func (s *notificationService) MarkAsRead(ctx context.Context, customerID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, customerID)
}
