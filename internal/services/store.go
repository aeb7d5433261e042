package services

import (
	"context"
	"time"

	"mall-backend/internal/models"
	"mall-backend/internal/repositories"
)

// The workflow services write through these narrow views instead of the
// concrete repositories, so their transaction logic is testable against
// in-memory fakes.

type UserStore interface {
	Get(ctx context.Context, id int) (*models.User, error)
	PromoteToTenant(ctx context.Context, userID, mallID int) (bool, error)
}

type MallStore interface {
	Get(ctx context.Context, id int) (*models.Mall, error)
	GetByOwner(ctx context.Context, ownerID int) (*models.Mall, error)
	LatestAgreement(ctx context.Context, mallID int) (*models.Agreement, error)
}

type RoomStore interface {
	Get(ctx context.Context, id int) (*models.Room, error)
	SetStatus(ctx context.Context, roomID int, from, to string) (bool, error)
	OccupancyByMall(ctx context.Context, mallID int) (occupied, total int, err error)
}

type PostStore interface {
	Get(ctx context.Context, id int) (*models.Post, error)
	SetStatus(ctx context.Context, postID int, status string) (bool, error)
	CountByMall(ctx context.Context, mallID int) (int, error)
}

type BidStore interface {
	Create(ctx context.Context, b *models.Bid) error
	CreateDeposit(ctx context.Context, d *models.Deposit) error
	HasPendingBid(ctx context.Context, userID, postID int) (bool, error)
	ListByPost(ctx context.Context, postID int) ([]*models.Bid, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Bid, error)
	GetDetail(ctx context.Context, id int) (*models.BidDetail, error)
	SetStatus(ctx context.Context, bidID int, from, to string) (bool, error)
	DeclineSiblings(ctx context.Context, postID, exceptBidID int) ([]*models.Bid, error)
	DepositsForBid(ctx context.Context, bidID int) ([]models.Deposit, error)
	UpsertRefund(ctx context.Context, depositID int, amount float64) error
}

type RequestStore interface {
	GetDetail(ctx context.Context, id int) (*models.RequestDetail, error)
	SetStatus(ctx context.Context, requestID int, from, to string) (bool, error)
	DeclineSiblings(ctx context.Context, postID, exceptRequestID int) ([]*models.Request, error)
}

type AcceptedUserStore interface {
	Create(ctx context.Context, a *models.AcceptedUser) error
	GetDetail(ctx context.Context, id int) (*models.AcceptedUserDetail, error)
	ListByMall(ctx context.Context, mallID int) ([]*models.AcceptedUser, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
}

type RentStore interface {
	Create(ctx context.Context, rent *models.Rent) error
	Get(ctx context.Context, id int) (*models.Rent, error)
	GetByUser(ctx context.Context, userID int) (*models.Rent, error)
	ListByMall(ctx context.Context, mallID int) ([]*models.Rent, error)
	CountByMallAndYear(ctx context.Context, mallID, year int) (int, error)
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, p *models.Payment) error
	CreateFirstpayment(ctx context.Context, p *models.Firstpayment) error
	GetPayment(ctx context.Context, id int) (*models.Payment, error)
	GetFirstpayment(ctx context.Context, id int) (*models.Firstpayment, error)
	ListPaymentsByMall(ctx context.Context, mallID int) ([]*models.Payment, error)
	ListPaymentsByUser(ctx context.Context, userID int) ([]*models.Payment, error)
	ListFirstpaymentsByMall(ctx context.Context, mallID int) ([]*models.Firstpayment, error)
	SumPayments(ctx context.Context, mallID int) (float64, error)
	SumPaymentsBetween(ctx context.Context, mallID int, from, to time.Time) (float64, error)
	SumFirstpayments(ctx context.Context, mallID int) (float64, error)
	CountTenants(ctx context.Context, mallID int) (int, error)
	LatestPaymentDate(ctx context.Context, rentID int) (*time.Time, error)
}

// Store is the unit-of-work surface. Atomic hands fn a Store bound to
// one transaction; every write inside fn commits or rolls back together.
type Store interface {
	Users() UserStore
	Malls() MallStore
	Rooms() RoomStore
	Posts() PostStore
	Bids() BidStore
	Requests() RequestStore
	AcceptedUsers() AcceptedUserStore
	Notifications() NotificationStore
	Rents() RentStore
	Payments() PaymentStore

	Atomic(ctx context.Context, fn func(Store) error) error
}

type sqlStore struct {
	s *repositories.Store
}

// NewStore adapts the pgx-backed repository aggregate to the workflow
// Store interface.
func NewStore(s *repositories.Store) Store {
	return sqlStore{s: s}
}

func (a sqlStore) Users() UserStore                 { return a.s.Users }
func (a sqlStore) Malls() MallStore                 { return a.s.Malls }
func (a sqlStore) Rooms() RoomStore                 { return a.s.Rooms }
func (a sqlStore) Posts() PostStore                 { return a.s.Posts }
func (a sqlStore) Bids() BidStore                   { return a.s.Bids }
func (a sqlStore) Requests() RequestStore           { return a.s.Requests }
func (a sqlStore) AcceptedUsers() AcceptedUserStore { return a.s.AcceptedUsers }
func (a sqlStore) Notifications() NotificationStore { return a.s.Notifications }
func (a sqlStore) Rents() RentStore                 { return a.s.Rents }
func (a sqlStore) Payments() PaymentStore           { return a.s.Payments }

func (a sqlStore) Atomic(ctx context.Context, fn func(Store) error) error {
	return a.s.Atomic(ctx, func(tx *repositories.Store) error {
		return fn(sqlStore{s: tx})
	})
}
