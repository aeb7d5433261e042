package models

import "time"

// Notification types and read statuses.
const (
	NotificationBid     = "BID"
	NotificationRequest = "REQUEST"
	NotificationAlert   = "ALERT"

	NotificationUnread = "UNREAD"
	NotificationRead   = "READ"
)

// Notification is persisted before any realtime push, so a client that
// misses the websocket event recovers it from the listing endpoint.
type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
