package models

import "time"

// AcceptedUser materializes a successful bid or request acceptance.
// Exactly one of BidID / RequestID is set.
type AcceptedUser struct {
	ID               int       `json:"id"`
	MallID           int       `json:"mallId"`
	PostID           int       `json:"postId"`
	UserID           int       `json:"userId"`
	BidID            *int      `json:"bidId,omitempty"`
	RequestID        *int      `json:"requestId,omitempty"`
	VisitDate        time.Time `json:"visitDate"`
	PaymentDateLimit time.Time `json:"paymentDateLimit"`
	OwnerName        string    `json:"ownerName"`
	OwnerPhone       string    `json:"ownerPhone"`
	Firstpayment     float64   `json:"firstpayment"`    // amount due to activate the tenancy
	PaymentDuration  int       `json:"paymentDuration"` // lease length in months
	Note             string    `json:"note,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// AcceptedUserDetail joins the room behind the accepted post, which the
// first-payment workflow flips to OCCUPIED.
type AcceptedUserDetail struct {
	AcceptedUser
	RoomID     int    `json:"roomId"`
	RoomNumber string `json:"roomNumber"`
	MallName   string `json:"mallName"`
	MallAddr   string `json:"mallAddress"`
	OwnerID    int    `json:"ownerId"` // the post owner, notified on payment
}

// AcceptParams carries the owner-supplied fields of an accept call.
type AcceptParams struct {
	ID              int     `json:"id"`
	VisitDate       string  `json:"visitDate"`
	PaymentDate     string  `json:"paymentDate"`
	OwnerName       string  `json:"ownerName"`
	OwnerPhone      string  `json:"ownerPhone"`
	Firstpayment    float64 `json:"firstpayment"`
	PaymentDuration int     `json:"paymentDuration"`
	Note            string  `json:"note"`
}
