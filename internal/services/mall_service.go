package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mall-backend/internal/auth"
	"mall-backend/internal/models"
	"mall-backend/internal/repositories"
	"mall-backend/internal/timeutil"
)

type MallService struct {
	Store      *repositories.Store
	JWTManager *auth.JWTManager
}

func NewMallService(store *repositories.Store, jwtManager *auth.JWTManager) *MallService {
	return &MallService{Store: store, JWTManager: jwtManager}
}

// RegisterOwner creates the MALL_OWNER account and the mall record in
// one transaction.
func (s *MallService) RegisterOwner(ctx context.Context, req models.RegisterMallRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.MallName == "" {
		return nil, fmt.Errorf("email, password and mallName are required: %w", ErrInvalid)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:     req.FullName,
		Email:        strings.ToLower(req.Email),
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
		Role:         models.RoleMallOwner,
	}
	err = s.Store.Atomic(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Users.GetByEmail(ctx, user.Email); err == nil {
			return fmt.Errorf("email %s already registered: %w", req.Email, ErrConflict)
		} else if !errors.Is(err, repositories.ErrNoRows) {
			return err
		}

		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}

		mall := &models.Mall{
			OwnerID:  user.ID,
			MallName: req.MallName,
			Address:  req.Address,
			City:     req.City,
		}
		if err := tx.Malls.Create(ctx, mall); err != nil {
			return err
		}

		user.MallID = &mall.ID
		return tx.Users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// Get returns one mall.
func (s *MallService) Get(ctx context.Context, id int) (*models.Mall, error) {
	mall, err := s.Store.Malls.Get(ctx, id)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("mall %d: %w", id, ErrNotFound)
	}
	return mall, err
}

// GetByOwner returns the caller's mall.
func (s *MallService) GetByOwner(ctx context.Context, ownerID int) (*models.Mall, error) {
	mall, err := s.Store.Malls.GetByOwner(ctx, ownerID)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("no mall for owner %d: %w", ownerID, ErrNotFound)
	}
	return mall, err
}

// List returns every mall.
func (s *MallService) List(ctx context.Context) ([]*models.Mall, error) {
	return s.Store.Malls.List(ctx)
}

// SetupInfo fills in the structural details of the caller's mall:
// floors (including basements), totals, the mall-wide price per care and
// optionally the uploaded lease template. One transaction; rerunning
// with new values overwrites the rate but floors are only created once.
func (s *MallService) SetupInfo(ctx context.Context, ownerID int, req models.MallInfoRequest, agreementPath string) (*models.Mall, error) {
	mall, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if req.FloorCount < 0 || req.BasementCount < 0 {
		return nil, fmt.Errorf("floor counts must not be negative: %w", ErrInvalid)
	}

	err = s.Store.Atomic(ctx, func(tx *repositories.Store) error {
		if mall.TotalFloors == 0 && req.FloorCount+req.BasementCount > 0 {
			if err := tx.Malls.CreateFloors(ctx, mall.ID, req.BasementCount, req.FloorCount); err != nil {
				return err
			}
		}
		if err := tx.Malls.UpdateTotals(ctx, mall.ID, req.FloorCount+req.BasementCount, req.RoomCount); err != nil {
			return err
		}
		if req.PricePerCare > 0 {
			if _, err := tx.Malls.UpsertPricePerCare(ctx, mall.ID, nil, req.PricePerCare); err != nil {
				return err
			}
		}
		if agreementPath != "" {
			if err := tx.Malls.CreateAgreement(ctx, mall.ID, agreementPath); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, mall.ID)
}

// ListFloors returns the floors of a mall, basements first.
func (s *MallService) ListFloors(ctx context.Context, mallID int) ([]*models.Floor, error) {
	return s.Store.Malls.ListFloors(ctx, mallID)
}

// SetPricePerCare upserts the rate for a floor, or mall-wide when
// floorID is nil.
func (s *MallService) SetPricePerCare(ctx context.Context, mallID int, floorID *int, price float64) (*models.PricePerCare, error) {
	if price <= 0 {
		return nil, fmt.Errorf("price must be positive: %w", ErrInvalid)
	}
	return s.Store.Malls.UpsertPricePerCare(ctx, mallID, floorID, price)
}

// ListPricePerCare returns the current rates of a mall.
func (s *MallService) ListPricePerCare(ctx context.Context, mallID int) ([]map[string]any, error) {
	return s.Store.Malls.ListPricePerCare(ctx, mallID)
}

// CreateSubscription records a platform subscription for a mall.
func (s *MallService) CreateSubscription(ctx context.Context, req models.CreateSubscriptionRequest) (*models.Subscription, error) {
	start, err := timeutil.ParseInEAT(timeutil.DateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("startDate %q: %w", req.StartDate, ErrInvalid)
	}
	end, err := timeutil.ParseInEAT(timeutil.DateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("endDate %q: %w", req.EndDate, ErrInvalid)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("endDate must be after startDate: %w", ErrInvalid)
	}

	sub := &models.Subscription{
		MallID:    req.MallID,
		Price:     req.Price,
		StartDate: start,
		EndDate:   end,
	}
	if err := s.Store.Malls.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Subscription returns the latest subscription of a mall.
func (s *MallService) Subscription(ctx context.Context, mallID int) (*models.Subscription, error) {
	sub, err := s.Store.Malls.GetSubscription(ctx, mallID)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("no subscription for mall %d: %w", mallID, ErrNotFound)
	}
	return sub, err
}

// ListSubscriptions returns every subscription (admin view).
func (s *MallService) ListSubscriptions(ctx context.Context) ([]*models.Subscription, error) {
	return s.Store.Malls.ListSubscriptions(ctx)
}

// SubscriptionActive reports whether a mall's subscription covers now.
func (s *MallService) SubscriptionActive(ctx context.Context, mallID int) (bool, error) {
	sub, err := s.Store.Malls.GetSubscription(ctx, mallID)
	if errors.Is(err, repositories.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	now := timeutil.Now()
	return !now.Before(sub.StartDate) && now.Before(sub.EndDate.Add(24*time.Hour)), nil
}
