package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"mall-backend/internal/models"
	"mall-backend/internal/notify"
	"mall-backend/internal/repositories"
	"mall-backend/internal/timeutil"
)

type BidService struct {
	Store Store
	Sink  notify.Sink
}

func NewBidService(store Store, sink notify.Sink) *BidService {
	return &BidService{Store: store, Sink: sink}
}

// Place records a bid and its deposit on an auction post, then tells the
// post owner. The deposit amount is whatever the post demands, not what
// the bidder sends. Each user holds at most one pending bid per post.
func (s *BidService) Place(ctx context.Context, userID int, req models.PlaceBidRequest, idDocURL string) (*models.Bid, error) {
	if req.BidAmount <= 0 {
		return nil, fmt.Errorf("bidAmount must be positive: %w", ErrInvalid)
	}

	post, err := s.Store.Posts().Get(ctx, req.PostID)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", req.PostID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostApproved {
		return nil, fmt.Errorf("post %d is not open: %w", req.PostID, ErrInvalid)
	}
	if post.BidDeposit == nil {
		return nil, fmt.Errorf("post %d does not take bids: %w", req.PostID, ErrInvalid)
	}
	if post.BidEndDate != nil && timeutil.Now().After(*post.BidEndDate) {
		return nil, fmt.Errorf("bidding on post %d has closed: %w", req.PostID, ErrInvalid)
	}

	bid := &models.Bid{
		UserID:    userID,
		PostID:    req.PostID,
		UserName:  req.UserName,
		UserPhone: req.UserPhone,
		UserIDURL: idDocURL,
		BidAmount: req.BidAmount,
		Note:      req.Note,
	}
	var note *models.Notification
	err = s.Store.Atomic(ctx, func(tx Store) error {
		pending, err := tx.Bids().HasPendingBid(ctx, userID, req.PostID)
		if err != nil {
			return err
		}
		if pending {
			return fmt.Errorf("user %d already has a pending bid on post %d: %w", userID, req.PostID, ErrConflict)
		}
		if err := tx.Bids().Create(ctx, bid); err != nil {
			if repositories.IsUniqueViolation(err) {
				return fmt.Errorf("user %d already has a pending bid on post %d: %w", userID, req.PostID, ErrConflict)
			}
			return err
		}
		if err := tx.Bids().CreateDeposit(ctx, &models.Deposit{
			BidID:  bid.ID,
			UserID: userID,
			Amount: *post.BidDeposit,
		}); err != nil {
			return err
		}

		note = &models.Notification{
			UserID:  post.UserID,
			Type:    models.NotificationBid,
			Message: fmt.Sprintf("New bid of %.2f ETB on \"%s\" from %s.", bid.BidAmount, post.Title, bid.UserName),
		}
		return tx.Notifications().Create(ctx, note)
	})
	if err != nil {
		return nil, err
	}

	if s.Sink != nil {
		if err := s.Sink.Publish(post.UserID, notify.EventNewBid, bid); err != nil {
			log.Printf("[Bids] push to user %d failed: %v", post.UserID, err)
		}
	}
	return bid, nil
}

// ListByPost returns the bids on a post, highest first. Only the post
// owner may look.
func (s *BidService) ListByPost(ctx context.Context, ownerID, postID int) ([]*models.Bid, error) {
	post, err := s.Store.Posts().Get(ctx, postID)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if post.UserID != ownerID {
		return nil, fmt.Errorf("post %d belongs to another owner: %w", postID, ErrForbidden)
	}
	return s.Store.Bids().ListByPost(ctx, postID)
}

// ListByUser returns the caller's own bids with their deposits.
func (s *BidService) ListByUser(ctx context.Context, userID int) ([]*models.Bid, error) {
	return s.Store.Bids().ListByUser(ctx, userID)
}
