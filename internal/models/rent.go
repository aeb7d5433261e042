package models

import "time"

// Rent is the recurring lease record. At most one Rent exists per room;
// the unique room constraint is the serialization point for concurrent
// first payments.
type Rent struct {
	ID              int       `json:"id"`
	UserID          int       `json:"userId"`
	RoomID          int       `json:"roomId"`
	MallID          int       `json:"mallId"`
	Amount          float64   `json:"amount"`
	PaymentDuration int       `json:"paymentDuration"` // months
	AgreementPath   string    `json:"agreementPath"`
	CreatedAt       time.Time `json:"createdAt"`
}

type AssignRentRequest struct {
	TenantID        int     `json:"tenantId"`
	RoomID          int     `json:"roomId"`
	Amount          float64 `json:"amount"`
	PaymentDuration int     `json:"paymentDuration"`
}
