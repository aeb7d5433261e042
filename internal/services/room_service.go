package services

import (
	"context"
	"errors"
	"fmt"

	"mall-backend/internal/models"
	"mall-backend/internal/repositories"
)

type RoomService struct {
	Store *repositories.Store
}

func NewRoomService(store *repositories.Store) *RoomService {
	return &RoomService{Store: store}
}

// Create adds a room to a floor of the caller's mall. When the room is
// priced per care the monthly price is derived from the floor's (or the
// mall-wide) rate times the area.
func (s *RoomService) Create(ctx context.Context, ownerID int, req models.CreateRoomRequest) (*models.Room, error) {
	if req.RoomNumber == "" || req.Care <= 0 {
		return nil, fmt.Errorf("roomNumber and a positive care are required: %w", ErrInvalid)
	}

	floor, err := s.Store.Malls.GetFloor(ctx, req.FloorID)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("floor %d: %w", req.FloorID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	mall, err := s.Store.Malls.Get(ctx, floor.MallID)
	if err != nil {
		return nil, err
	}
	if mall.OwnerID != ownerID {
		return nil, fmt.Errorf("floor %d belongs to another mall: %w", req.FloorID, ErrForbidden)
	}

	exists, err := s.Store.Rooms.NumberExistsInMall(ctx, mall.ID, req.RoomNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("room %s already exists in mall %d: %w", req.RoomNumber, mall.ID, ErrConflict)
	}

	room := &models.Room{
		FloorID:             req.FloorID,
		CategoryID:          req.CategoryID,
		RoomNumber:          req.RoomNumber,
		Care:                req.Care,
		Status:              models.RoomAvailable,
		HasWindow:           req.HasWindow,
		HasBalcony:          req.HasBalcony,
		HasAttachedBathroom: req.HasAttachedBathroom,
		HasParkingSpace:     req.HasParkingSpace,
		PricePerCare:        req.PricePerCare,
	}

	if req.PricePerCare {
		rate, err := s.Store.Malls.LatestPricePerCare(ctx, mall.ID, &req.FloorID)
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("no price per care set for mall %d: %w", mall.ID, ErrInvalid)
		}
		if err != nil {
			return nil, err
		}
		price := rate.Price * req.Care
		room.Price = &price
	}

	if err := s.Store.Rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Get returns one room.
func (s *RoomService) Get(ctx context.Context, id int) (*models.Room, error) {
	room, err := s.Store.Rooms.Get(ctx, id)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("room %d: %w", id, ErrNotFound)
	}
	return room, err
}

// ListByMall returns every room of a mall.
func (s *RoomService) ListByMall(ctx context.Context, mallID int) ([]*models.Room, error) {
	return s.Store.Rooms.ListByMall(ctx, mallID)
}

// SetBanner stores the uploaded banner image URL on a room.
func (s *RoomService) SetBanner(ctx context.Context, roomID int, bannerURL string) error {
	return s.Store.Rooms.SetBanner(ctx, roomID, bannerURL)
}

// ListCategories returns the room categories.
func (s *RoomService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.Store.Rooms.ListCategories(ctx)
}
