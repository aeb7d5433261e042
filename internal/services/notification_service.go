package services

import (
	"context"
	"fmt"

	"mall-backend/internal/models"
)

// NotificationReader is the slice of the notification repository this
// service needs.
type NotificationReader interface {
	ListByUser(ctx context.Context, userID int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID int) (bool, error)
}

type NotificationService struct {
	Repo NotificationReader
}

func NewNotificationService(repo NotificationReader) *NotificationService {
	return &NotificationService{Repo: repo}
}

// ListByUser returns the caller's notifications, newest first.
func (s *NotificationService) ListByUser(ctx context.Context, userID int) ([]*models.Notification, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// MarkRead flips one of the caller's notifications to READ. A
// notification owned by another user is indistinguishable from a
// missing one.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID int) error {
	ok, err := s.Repo.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	return nil
}
