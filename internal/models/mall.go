package models

import "time"

type Mall struct {
	ID          int       `json:"id"`
	OwnerID     int       `json:"ownerId"`
	MallName    string    `json:"mallName"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	TotalFloors int       `json:"totalFloors"`
	TotalRooms  int       `json:"totalRooms"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Floor numbers are negative for basements (-1 = Basement 1).
type Floor struct {
	ID          int    `json:"id"`
	MallID      int    `json:"mallId"`
	FloorNumber int    `json:"floorNumber"`
	Description string `json:"description"`
}

// PricePerCare is the per-square-meter ("care") rate used to derive room
// prices. A nil FloorID means the rate applies mall-wide.
type PricePerCare struct {
	ID        int       `json:"id"`
	MallID    int       `json:"mallId"`
	FloorID   *int      `json:"floorId,omitempty"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

// Agreement is an uploaded lease-template document for a mall.
type Agreement struct {
	ID            int       `json:"id"`
	MallID        int       `json:"mallId"`
	AgreementFile string    `json:"agreementFile"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Subscription struct {
	ID        int       `json:"id"`
	MallID    int       `json:"mallId"`
	Price     float64   `json:"price"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
}

// MallInfoRequest carries the multipart fields of the mall setup call
// (floors, basements, price per care, agreement file handled separately).
type MallInfoRequest struct {
	MallID        int
	BasementCount int
	FloorCount    int
	RoomCount     int
	PricePerCare  float64
}

// RegisterMallRequest creates the owner account and their mall in one
// call on the web side.
type RegisterMallRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	MallName    string `json:"mallName"`
	Address     string `json:"address"`
	City        string `json:"city"`
}

type CreateSubscriptionRequest struct {
	MallID    int     `json:"mallId"`
	Price     float64 `json:"price"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
}
