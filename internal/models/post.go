package models

import "time"

// Post statuses.
const (
	PostPending   = "PENDING"
	PostApproved  = "APPROVED"
	PostInvisible = "INVISIBLE"
)

type Post struct {
	ID          int        `json:"id"`
	MallID      int        `json:"mallId"`
	RoomID      int        `json:"roomId"`
	UserID      int        `json:"userId"` // owning user (the mall owner)
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       *float64   `json:"price,omitempty"`
	BidDeposit  *float64   `json:"bidDeposit,omitempty"`
	BidEndDate  *time.Time `json:"bidEndDate,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`

	Images []PostImage `json:"images,omitempty"`
}

type PostImage struct {
	ID       int    `json:"id"`
	PostID   int    `json:"postId"`
	ImageURL string `json:"imageURL"`
}

type CreatePostRequest struct {
	MallID      int    `json:"mallId"`
	RoomID      int    `json:"roomId"`
	UserID      int    `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	BidDeposit  string `json:"bidDeposit"`
	BidEndDate  string `json:"bidEndDate"`
	Status      string `json:"status"`
}
