package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store aggregates every repository over one Querier. The workflow
// services run their multi-entity writes through Atomic so the whole
// step sequence commits or rolls back as one unit.
type Store struct {
	pool *pgxpool.Pool

	Users         *UserRepository
	Malls         *MallRepository
	Rooms         *RoomRepository
	Posts         *PostRepository
	Bids          *BidRepository
	Requests      *RequestRepository
	AcceptedUsers *AcceptedUserRepository
	Notifications *NotificationRepository
	Rents         *RentRepository
	Payments      *PaymentRepository
}

func NewStore(pool *pgxpool.Pool) *Store {
	s := newStore(pool)
	s.pool = pool
	return s
}

func newStore(db Querier) *Store {
	return &Store{
		Users:         NewUserRepository(db),
		Malls:         NewMallRepository(db),
		Rooms:         NewRoomRepository(db),
		Posts:         NewPostRepository(db),
		Bids:          NewBidRepository(db),
		Requests:      NewRequestRepository(db),
		AcceptedUsers: NewAcceptedUserRepository(db),
		Notifications: NewNotificationRepository(db),
		Rents:         NewRentRepository(db),
		Payments:      NewPaymentRepository(db),
	}
}

// Atomic runs fn inside a single transaction. The Store passed to fn is
// bound to the transaction; any error (or panic) rolls everything back.
func (s *Store) Atomic(ctx context.Context, fn func(*Store) error) error {
	if s.pool == nil {
		return fmt.Errorf("store is already transactional")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(newStore(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ensure pgx.Tx keeps satisfying Querier
var _ Querier = (pgx.Tx)(nil)
var _ Querier = (*pgxpool.Pool)(nil)
