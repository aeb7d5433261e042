package repositories

import (
	"context"
	"fmt"

	"mall-backend/internal/models"
)

type NotificationRepository struct {
	DB Querier
}

func NewNotificationRepository(db Querier) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.Status == "" {
		n.Status = models.NotificationUnread
	}
	query := `
		INSERT INTO notifications (user_id, message, type, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(ctx, query, n.UserID, n.Message, n.Type, n.Status).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByUser is the pull-based recovery path for missed realtime events.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int) ([]*models.Notification, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, message, type, status, created_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.Status, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead only touches the caller's own row; a notification belonging
// to someone else reads as not found.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE notifications SET status = $1 WHERE id = $2 AND user_id = $3
	`, models.NotificationRead, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
