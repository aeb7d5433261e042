package models

import "time"

// Request statuses. Mirrors the bid lifecycle with SELECTED in place of
// WINNER; requests carry no deposit.
const (
	RequestPending  = "PENDING"
	RequestSelected = "SELECTED"
	RequestDeclined = "DECLINED"
)

type Request struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	PostID    int       `json:"postId"`
	UserName  string    `json:"userName"`
	UserPhone string    `json:"userPhone"`
	UserIDURL string    `json:"userIdUrl"`
	Note      string    `json:"note,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type PlaceRequestRequest struct {
	PostID    int    `json:"postId"`
	UserName  string `json:"userName"`
	UserPhone string `json:"userPhone"`
	Note      string `json:"note"`
}

type RequestDetail struct {
	Request
	PostTitle   string `json:"postTitle"`
	PostOwnerID int    `json:"postOwnerId"`
	MallID      *int   `json:"mallId"`
}
