package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"mall-backend/internal/models"
	"mall-backend/internal/notify"
	"mall-backend/internal/repositories"
)

type RequestService struct {
	Store *repositories.Store
	Sink  notify.Sink
}

func NewRequestService(store *repositories.Store, sink notify.Sink) *RequestService {
	return &RequestService{Store: store, Sink: sink}
}

// Place records a rental request on a fixed-price post and tells the
// post owner.
func (s *RequestService) Place(ctx context.Context, userID int, req models.PlaceRequestRequest, idDocURL string) (*models.Request, error) {
	post, err := s.Store.Posts.Get(ctx, req.PostID)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", req.PostID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostApproved {
		return nil, fmt.Errorf("post %d is not open: %w", req.PostID, ErrInvalid)
	}
	if post.BidDeposit != nil {
		return nil, fmt.Errorf("post %d takes bids, not requests: %w", req.PostID, ErrInvalid)
	}

	request := &models.Request{
		UserID:    userID,
		PostID:    req.PostID,
		UserName:  req.UserName,
		UserPhone: req.UserPhone,
		UserIDURL: idDocURL,
		Note:      req.Note,
	}
	var note *models.Notification
	err = s.Store.Atomic(ctx, func(tx *repositories.Store) error {
		if err := tx.Requests.Create(ctx, request); err != nil {
			return err
		}
		note = &models.Notification{
			UserID:  post.UserID,
			Type:    models.NotificationRequest,
			Message: fmt.Sprintf("New rental request on \"%s\" from %s.", post.Title, request.UserName),
		}
		return tx.Notifications.Create(ctx, note)
	})
	if err != nil {
		return nil, err
	}

	if s.Sink != nil {
		if err := s.Sink.Publish(post.UserID, notify.EventNewRequest, request); err != nil {
			log.Printf("[Requests] push to user %d failed: %v", post.UserID, err)
		}
	}
	return request, nil
}

// ListByPost returns the requests on a post. Only the post owner may look.
func (s *RequestService) ListByPost(ctx context.Context, ownerID, postID int) ([]*models.Request, error) {
	post, err := s.Store.Posts.Get(ctx, postID)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if post.UserID != ownerID {
		return nil, fmt.Errorf("post %d belongs to another owner: %w", postID, ErrForbidden)
	}
	return s.Store.Requests.ListByPost(ctx, postID)
}

// ListByUser returns the caller's own requests.
func (s *RequestService) ListByUser(ctx context.Context, userID int) ([]*models.Request, error) {
	return s.Store.Requests.ListByUser(ctx, userID)
}
