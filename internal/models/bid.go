package models

import "time"

// Bid statuses. PENDING is the only non-terminal state; a bid leaves it
// exactly once.
const (
	BidPending  = "PENDING"
	BidWinner   = "WINNER"
	BidDeclined = "DECLINED"
)

type Bid struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	PostID    int       `json:"postId"`
	UserName  string    `json:"userName"`
	UserPhone string    `json:"userPhone"`
	UserIDURL string    `json:"userIdUrl"` // uploaded identity document
	BidAmount float64   `json:"bidAmount"`
	Note      string    `json:"note,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`

	Deposits []Deposit `json:"deposits,omitempty"`
}

// Deposit is money held against a bid and refunded when the bid loses.
type Deposit struct {
	ID        int       `json:"id"`
	BidID     int       `json:"bidId"`
	UserID    int       `json:"userId"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Refund is keyed uniquely by deposit, so declining twice cannot refund
// twice; the amount is simply overwritten.
type Refund struct {
	ID        int       `json:"id"`
	DepositID int       `json:"depositId"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

// PlaceBidRequest is the multipart body of the app-side bid call. The
// identity document upload is handled separately by the handler.
type PlaceBidRequest struct {
	PostID    int     `json:"postId"`
	UserName  string  `json:"userName"`
	UserPhone string  `json:"userPhone"`
	BidAmount float64 `json:"bidAmount"`
	Note      string  `json:"note"`
}

// BidDetail is a bid joined with the post it targets and the owning
// mall, which the acceptance workflow needs in one lookup.
type BidDetail struct {
	Bid
	PostTitle   string `json:"postTitle"`
	PostOwnerID int    `json:"postOwnerId"`
	MallID      *int   `json:"mallId"` // nil when the post owner has no mall
}
