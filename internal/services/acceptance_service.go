package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mall-backend/internal/models"
	"mall-backend/internal/notify"
	"mall-backend/internal/repositories"
)

const dateLayout = "2006-01-02"

// AcceptanceService runs the owner-side bid and request workflows. Every
// accept/decline is one transaction; realtime pushes happen only after
// the transaction commits, and a failed push is logged and dropped
// because the Notification row already carries the message.
type AcceptanceService struct {
	Store Store
	Sink  notify.Sink
}

func NewAcceptanceService(store Store, sink notify.Sink) *AcceptanceService {
	return &AcceptanceService{Store: store, Sink: sink}
}

// pending is a notification queued inside a transaction and published
// once the commit succeeds.
type pending struct {
	userID  int
	event   string
	payload any
}

func (s *AcceptanceService) flush(queue []pending) {
	if s.Sink == nil {
		return
	}
	for _, p := range queue {
		if err := s.Sink.Publish(p.userID, p.event, p.payload); err != nil {
			log.Printf("[Acceptance] push to user %d failed: %v", p.userID, err)
		}
	}
}

// AcceptBid marks the bid WINNER, declines and refunds every sibling bid
// on the same post, and records the AcceptedUser that the first-payment
// workflow later consumes. The caller must own the post.
func (s *AcceptanceService) AcceptBid(ctx context.Context, ownerID, bidID int, p models.AcceptParams) (*models.AcceptedUser, error) {
	visit, limit, err := parseAcceptDates(p)
	if err != nil {
		return nil, err
	}

	var accepted *models.AcceptedUser
	var queue []pending
	err = s.Store.Atomic(ctx, func(tx Store) error {
		bd, err := tx.Bids().GetDetail(ctx, bidID)
		if errors.Is(err, repositories.ErrNoRows) {
			return fmt.Errorf("bid %d: %w", bidID, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if bd.PostOwnerID != ownerID {
			return fmt.Errorf("bid %d belongs to another owner's post: %w", bidID, ErrForbidden)
		}
		if bd.MallID == nil {
			return fmt.Errorf("mall information not available: %w", ErrInvalid)
		}

		ok, err := tx.Bids().SetStatus(ctx, bidID, models.BidPending, models.BidWinner)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("bid %d is no longer pending: %w", bidID, ErrConflict)
		}

		siblings, err := tx.Bids().DeclineSiblings(ctx, bd.PostID, bidID)
		if err != nil {
			return err
		}
		for _, sib := range siblings {
			if err := s.refundBid(ctx, tx, sib.ID); err != nil {
				return err
			}
			n := &models.Notification{
				UserID:  sib.UserID,
				Type:    models.NotificationBid,
				Message: fmt.Sprintf("Your bid on \"%s\" was not selected. Your deposit will be refunded.", bd.PostTitle),
			}
			if err := tx.Notifications().Create(ctx, n); err != nil {
				return err
			}
			queue = append(queue, pending{sib.UserID, notify.EventNotification, n})
		}

		accepted = &models.AcceptedUser{
			MallID:           *bd.MallID,
			PostID:           bd.PostID,
			UserID:           bd.UserID,
			BidID:            &bd.ID,
			VisitDate:        visit,
			PaymentDateLimit: limit,
			OwnerName:        p.OwnerName,
			OwnerPhone:       p.OwnerPhone,
			Firstpayment:     p.Firstpayment,
			PaymentDuration:  p.PaymentDuration,
			Note:             p.Note,
		}
		if err := tx.AcceptedUsers().Create(ctx, accepted); err != nil {
			return err
		}

		n := &models.Notification{
			UserID: bd.UserID,
			Type:   models.NotificationBid,
			Message: fmt.Sprintf("🎉 Congratulations! Your bid on \"%s\" has been accepted. Visit on %s and complete your first payment by %s.",
				bd.PostTitle, visit.Format(dateLayout), limit.Format(dateLayout)),
		}
		if err := tx.Notifications().Create(ctx, n); err != nil {
			return err
		}
		queue = append(queue, pending{bd.UserID, notify.EventNotification, n})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.flush(queue)
	return accepted, nil
}

// DeclineBid moves a pending bid to DECLINED and records a refund for
// each of its deposits. Declining a terminal bid is a conflict, so a
// deposit can never be refunded through two decline calls.
func (s *AcceptanceService) DeclineBid(ctx context.Context, ownerID, bidID int) error {
	var queue []pending
	err := s.Store.Atomic(ctx, func(tx Store) error {
		bd, err := tx.Bids().GetDetail(ctx, bidID)
		if errors.Is(err, repositories.ErrNoRows) {
			return fmt.Errorf("bid %d: %w", bidID, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if bd.PostOwnerID != ownerID {
			return fmt.Errorf("bid %d belongs to another owner's post: %w", bidID, ErrForbidden)
		}

		ok, err := tx.Bids().SetStatus(ctx, bidID, models.BidPending, models.BidDeclined)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("bid %d is no longer pending: %w", bidID, ErrConflict)
		}

		if err := s.refundBid(ctx, tx, bidID); err != nil {
			return err
		}

		n := &models.Notification{
			UserID:  bd.UserID,
			Type:    models.NotificationBid,
			Message: fmt.Sprintf("Your bid on \"%s\" was declined. Your deposit will be refunded.", bd.PostTitle),
		}
		if err := tx.Notifications().Create(ctx, n); err != nil {
			return err
		}
		queue = append(queue, pending{bd.UserID, notify.EventNotification, n})
		return nil
	})
	if err != nil {
		return err
	}

	s.flush(queue)
	return nil
}

// AcceptRequest mirrors AcceptBid for the no-deposit request flow:
// SELECTED for the chosen request, DECLINED for every pending sibling.
func (s *AcceptanceService) AcceptRequest(ctx context.Context, ownerID, requestID int, p models.AcceptParams) (*models.AcceptedUser, error) {
	visit, limit, err := parseAcceptDates(p)
	if err != nil {
		return nil, err
	}

	var accepted *models.AcceptedUser
	var queue []pending
	err = s.Store.Atomic(ctx, func(tx Store) error {
		rd, err := tx.Requests().GetDetail(ctx, requestID)
		if errors.Is(err, repositories.ErrNoRows) {
			return fmt.Errorf("request %d: %w", requestID, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if rd.PostOwnerID != ownerID {
			return fmt.Errorf("request %d belongs to another owner's post: %w", requestID, ErrForbidden)
		}
		if rd.MallID == nil {
			return fmt.Errorf("mall information not available: %w", ErrInvalid)
		}

		ok, err := tx.Requests().SetStatus(ctx, requestID, models.RequestPending, models.RequestSelected)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("request %d is no longer pending: %w", requestID, ErrConflict)
		}

		siblings, err := tx.Requests().DeclineSiblings(ctx, rd.PostID, requestID)
		if err != nil {
			return err
		}
		for _, sib := range siblings {
			n := &models.Notification{
				UserID:  sib.UserID,
				Type:    models.NotificationRequest,
				Message: fmt.Sprintf("Your request for \"%s\" was not selected.", rd.PostTitle),
			}
			if err := tx.Notifications().Create(ctx, n); err != nil {
				return err
			}
			queue = append(queue, pending{sib.UserID, notify.EventNotification, n})
		}

		accepted = &models.AcceptedUser{
			MallID:           *rd.MallID,
			PostID:           rd.PostID,
			UserID:           rd.UserID,
			RequestID:        &rd.ID,
			VisitDate:        visit,
			PaymentDateLimit: limit,
			OwnerName:        p.OwnerName,
			OwnerPhone:       p.OwnerPhone,
			Firstpayment:     p.Firstpayment,
			PaymentDuration:  p.PaymentDuration,
			Note:             p.Note,
		}
		if err := tx.AcceptedUsers().Create(ctx, accepted); err != nil {
			return err
		}

		n := &models.Notification{
			UserID: rd.UserID,
			Type:   models.NotificationRequest,
			Message: fmt.Sprintf("🎉 Congratulations! Your request for \"%s\" has been accepted. Visit on %s and complete your first payment by %s.",
				rd.PostTitle, visit.Format(dateLayout), limit.Format(dateLayout)),
		}
		if err := tx.Notifications().Create(ctx, n); err != nil {
			return err
		}
		queue = append(queue, pending{rd.UserID, notify.EventNotification, n})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.flush(queue)
	return accepted, nil
}

// DeclineRequest moves a pending request to DECLINED.
func (s *AcceptanceService) DeclineRequest(ctx context.Context, ownerID, requestID int) error {
	var queue []pending
	err := s.Store.Atomic(ctx, func(tx Store) error {
		rd, err := tx.Requests().GetDetail(ctx, requestID)
		if errors.Is(err, repositories.ErrNoRows) {
			return fmt.Errorf("request %d: %w", requestID, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if rd.PostOwnerID != ownerID {
			return fmt.Errorf("request %d belongs to another owner's post: %w", requestID, ErrForbidden)
		}

		ok, err := tx.Requests().SetStatus(ctx, requestID, models.RequestPending, models.RequestDeclined)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("request %d is no longer pending: %w", requestID, ErrConflict)
		}

		n := &models.Notification{
			UserID:  rd.UserID,
			Type:    models.NotificationRequest,
			Message: fmt.Sprintf("Your request for \"%s\" was declined.", rd.PostTitle),
		}
		if err := tx.Notifications().Create(ctx, n); err != nil {
			return err
		}
		queue = append(queue, pending{rd.UserID, notify.EventNotification, n})
		return nil
	})
	if err != nil {
		return err
	}

	s.flush(queue)
	return nil
}

// AcceptedDetail returns one acceptance with its room and mall context.
func (s *AcceptanceService) AcceptedDetail(ctx context.Context, id int) (*models.AcceptedUserDetail, error) {
	ad, err := s.Store.AcceptedUsers().GetDetail(ctx, id)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("accepted user %d: %w", id, ErrNotFound)
	}
	return ad, err
}

// ListAcceptedByMall returns the acceptances of a mall.
func (s *AcceptanceService) ListAcceptedByMall(ctx context.Context, mallID int) ([]*models.AcceptedUser, error) {
	return s.Store.AcceptedUsers().ListByMall(ctx, mallID)
}

// refundBid records a refund for every deposit held against the bid.
// Refunds are keyed by deposit, so replays overwrite instead of double
// refunding.
func (s *AcceptanceService) refundBid(ctx context.Context, tx Store, bidID int) error {
	deposits, err := tx.Bids().DepositsForBid(ctx, bidID)
	if err != nil {
		return err
	}
	for _, d := range deposits {
		if err := tx.Bids().UpsertRefund(ctx, d.ID, d.Amount); err != nil {
			return err
		}
	}
	return nil
}

func parseAcceptDates(p models.AcceptParams) (visit, limit time.Time, err error) {
	visit, err = time.Parse(dateLayout, p.VisitDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("visitDate %q: %w", p.VisitDate, ErrInvalid)
	}
	limit, err = time.Parse(dateLayout, p.PaymentDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("paymentDate %q: %w", p.PaymentDate, ErrInvalid)
	}
	return visit, limit, nil
}
