package models

import "time"

// Payment is a recurring payment against a Rent.
type Payment struct {
	ID          int       `json:"id"`
	RentID      int       `json:"rentId"`
	Amount      float64   `json:"amount"`
	PaymentDate time.Time `json:"paymentDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Firstpayment is the one-time payment that activates a tenancy.
type Firstpayment struct {
	ID             int       `json:"id"`
	AcceptedUserID int       `json:"acceptedUserId"`
	Amount         float64   `json:"amount"`
	PaymentDate    time.Time `json:"paymentDate"`
	CreatedAt      time.Time `json:"createdAt"`
}

type PayRequest struct {
	RentID      int     `json:"rentId"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"paymentDate"`
}

type FirstPaymentRequest struct {
	AcceptedUserID int     `json:"acceptedUserId"`
	Amount         float64 `json:"amount"`
	PaymentDate    string  `json:"paymentDate"`
}

// DashboardStats is the per-mall (or platform-wide) aggregate block.
type DashboardStats struct {
	PostCount        int             `json:"postCount"`
	TenantCount      int             `json:"tenantCount"`
	TotalRevenue     float64         `json:"totalRevenue"`
	GrowthRate       float64         `json:"growthRate"`
	OccupancyPercent float64         `json:"occupancyPercent"`
	YearlyRevenue    []YearlyRevenue `json:"yearlyRevenue"`
}

// YearlyRevenue is one point of the rolling 4-year series.
type YearlyRevenue struct {
	Year    int     `json:"year"`
	Revenue float64 `json:"revenue"`
	Rents   int     `json:"rents"`
}
