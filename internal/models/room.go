package models

// Room statuses. The AVAILABLE -> OCCUPIED flip happens exactly once, on
// the first successful payment after an acceptance.
const (
	RoomAvailable = "AVAILABLE"
	RoomOccupied  = "OCCUPIED"
)

type Room struct {
	ID                  int      `json:"id"`
	FloorID             int      `json:"floorId"`
	CategoryID          *int     `json:"categoryId,omitempty"`
	RoomNumber          string   `json:"roomNumber"`
	Care                float64  `json:"care"` // floor area in square meters
	Status              string   `json:"status"`
	HasWindow           bool     `json:"hasWindow"`
	HasBalcony          bool     `json:"hasBalcony"`
	HasAttachedBathroom bool     `json:"hasAttachedBathroom"`
	HasParkingSpace     bool     `json:"hasParkingSpace"`
	PricePerCare        bool     `json:"pricePerCare"` // price derived from mall rate
	Price               *float64 `json:"price,omitempty"`
	BannerURL           string   `json:"bannerUrl,omitempty"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CreateRoomRequest struct {
	FloorID             int     `json:"floorId"`
	CategoryID          *int    `json:"categoryId"`
	RoomNumber          string  `json:"roomNumber"`
	Care                float64 `json:"care"`
	HasWindow           bool    `json:"hasWindow"`
	HasBalcony          bool    `json:"hasBalcony"`
	HasAttachedBathroom bool    `json:"hasAttachedBathroom"`
	HasParkingSpace     bool    `json:"hasParkingSpace"`
	PricePerCare        bool    `json:"pricePerCare"`
}
