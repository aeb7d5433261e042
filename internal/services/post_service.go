package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"mall-backend/internal/models"
	"mall-backend/internal/repositories"
	"mall-backend/internal/timeutil"
)

type PostService struct {
	Store *repositories.Store
}

func NewPostService(store *repositories.Store) *PostService {
	return &PostService{Store: store}
}

// Create publishes a listing for one of the owner's rooms. Posts start
// PENDING and only show in the app feed once an admin approves them.
// A post with a bidDeposit runs as an auction; otherwise it takes plain
// requests at the fixed price.
func (s *PostService) Create(ctx context.Context, ownerID int, req models.CreatePostRequest, imageURLs []string) (*models.Post, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrInvalid)
	}

	mall, err := s.Store.Malls.GetByOwner(ctx, ownerID)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("mall information not available: %w", ErrInvalid)
	}
	if err != nil {
		return nil, err
	}

	room, err := s.Store.Rooms.Get(ctx, req.RoomID)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("room %d: %w", req.RoomID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if room.Status != models.RoomAvailable {
		return nil, fmt.Errorf("room %d is occupied: %w", req.RoomID, ErrConflict)
	}

	post := &models.Post{
		MallID:      mall.ID,
		RoomID:      req.RoomID,
		UserID:      ownerID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.PostPending,
	}

	if req.Price != "" {
		price, err := strconv.ParseFloat(req.Price, 64)
		if err != nil || price <= 0 {
			return nil, fmt.Errorf("price %q: %w", req.Price, ErrInvalid)
		}
		post.Price = &price
	}
	if req.BidDeposit != "" {
		deposit, err := strconv.ParseFloat(req.BidDeposit, 64)
		if err != nil || deposit <= 0 {
			return nil, fmt.Errorf("bidDeposit %q: %w", req.BidDeposit, ErrInvalid)
		}
		post.BidDeposit = &deposit

		if req.BidEndDate == "" {
			return nil, fmt.Errorf("bidEndDate is required for auction posts: %w", ErrInvalid)
		}
		end, err := timeutil.ParseInEAT(timeutil.DateLayout, req.BidEndDate)
		if err != nil {
			return nil, fmt.Errorf("bidEndDate %q: %w", req.BidEndDate, ErrInvalid)
		}
		post.BidEndDate = &end
	}

	err = s.Store.Atomic(ctx, func(tx *repositories.Store) error {
		if err := tx.Posts.Create(ctx, post); err != nil {
			return err
		}
		if len(imageURLs) > 0 {
			return tx.Posts.AddImages(ctx, post.ID, imageURLs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Get returns one post with its images.
func (s *PostService) Get(ctx context.Context, id int) (*models.Post, error) {
	post, err := s.Store.Posts.Get(ctx, id)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	return post, err
}

// ListApproved returns the public app feed.
func (s *PostService) ListApproved(ctx context.Context) ([]*models.Post, error) {
	return s.Store.Posts.ListByStatus(ctx, models.PostApproved)
}

// ListPending returns posts awaiting admin approval.
func (s *PostService) ListPending(ctx context.Context) ([]*models.Post, error) {
	return s.Store.Posts.ListByStatus(ctx, models.PostPending)
}

// ListByOwner returns the caller's own posts.
func (s *PostService) ListByOwner(ctx context.Context, ownerID int) ([]*models.Post, error) {
	return s.Store.Posts.ListByUser(ctx, ownerID)
}

// Approve makes a pending post visible in the app feed.
func (s *PostService) Approve(ctx context.Context, postID int) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.Status != models.PostPending {
		return fmt.Errorf("post %d is %s: %w", postID, post.Status, ErrConflict)
	}
	ok, err := s.Store.Posts.SetStatus(ctx, postID, models.PostApproved)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}
	return nil
}
