package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall-backend/internal/models"
)

type memNotificationReader struct {
	rows map[int]*models.Notification
}

func (m *memNotificationReader) ListByUser(ctx context.Context, userID int) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, n := range m.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotificationReader) MarkRead(ctx context.Context, id, userID int) (bool, error) {
	n, ok := m.rows[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	n.Status = models.NotificationRead
	return true, nil
}

func TestMarkReadScopedToOwner(t *testing.T) {
	repo := &memNotificationReader{rows: map[int]*models.Notification{
		1: {ID: 1, UserID: 20, Status: models.NotificationUnread},
	}}
	svc := NewNotificationService(repo)

	// Another user cannot mark it, and cannot tell it exists.
	err := svc.MarkRead(context.Background(), 1, 21)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, models.NotificationUnread, repo.rows[1].Status)

	require.NoError(t, svc.MarkRead(context.Background(), 1, 20))
	assert.Equal(t, models.NotificationRead, repo.rows[1].Status)

	err = svc.MarkRead(context.Background(), 404, 20)
	assert.ErrorIs(t, err, ErrNotFound)
}
