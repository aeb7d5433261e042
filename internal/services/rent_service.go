package services

import (
	"context"
	"errors"
	"fmt"

	"mall-backend/internal/models"
	"mall-backend/internal/repositories"
)

type RentService struct {
	Store *repositories.Store
}

func NewRentService(store *repositories.Store) *RentService {
	return &RentService{Store: store}
}

// Assign creates a rent directly, for tenancies arranged outside the
// posting flow. The room must be free; the flip to OCCUPIED and the
// rent row share one transaction.
func (s *RentService) Assign(ctx context.Context, mallID int, req models.AssignRentRequest) (*models.Rent, error) {
	if req.Amount <= 0 || req.PaymentDuration <= 0 {
		return nil, fmt.Errorf("amount and paymentDuration must be positive: %w", ErrInvalid)
	}

	rent := &models.Rent{
		UserID:          req.TenantID,
		RoomID:          req.RoomID,
		MallID:          mallID,
		Amount:          req.Amount,
		PaymentDuration: req.PaymentDuration,
	}
	err := s.Store.Atomic(ctx, func(tx *repositories.Store) error {
		ok, err := tx.Rooms.SetStatus(ctx, req.RoomID, models.RoomAvailable, models.RoomOccupied)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("room %d is not available: %w", req.RoomID, ErrConflict)
		}

		if _, err := tx.Users.PromoteToTenant(ctx, req.TenantID, mallID); err != nil {
			return err
		}

		if err := tx.Rents.Create(ctx, rent); err != nil {
			if repositories.IsUniqueViolation(err) {
				return fmt.Errorf("room %d already has an active rent: %w", req.RoomID, ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rent, nil
}

// Get returns one rent.
func (s *RentService) Get(ctx context.Context, id int) (*models.Rent, error) {
	rent, err := s.Store.Rents.Get(ctx, id)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("rent %d: %w", id, ErrNotFound)
	}
	return rent, err
}

// GetByUser returns the caller's rent.
func (s *RentService) GetByUser(ctx context.Context, userID int) (*models.Rent, error) {
	rent, err := s.Store.Rents.GetByUser(ctx, userID)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("no rent for user %d: %w", userID, ErrNotFound)
	}
	return rent, err
}

// ListByMall returns every rent of a mall.
func (s *RentService) ListByMall(ctx context.Context, mallID int) ([]*models.Rent, error) {
	return s.Store.Rents.ListByMall(ctx, mallID)
}
