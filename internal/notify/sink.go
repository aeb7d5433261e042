// Package notify delivers realtime events to connected clients. Delivery
// is best-effort and at-most-once: the durable record is the Notification
// row, which clients recover through the listing endpoint.
package notify

// Event names pushed over the realtime channel.
const (
	EventNewBid       = "newBid"
	EventNewRequest   = "newRequest"
	EventNotification = "notification"
	EventFirstPayment = "First Payment"
)

// Sink publishes an event to a single user's channel. Implementations
// must never block the caller on a slow or absent consumer.
type Sink interface {
	Publish(userID int, event string, payload any) error
}

// Envelope is the wire form of a pushed event.
type Envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}
