package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mall-backend/internal/lease"
	"mall-backend/internal/models"
	"mall-backend/internal/notify"
	"mall-backend/internal/repositories"
	"mall-backend/internal/timeutil"
)

// LeaseArchive persists generated lease documents and loads the mall's
// uploaded template.
type LeaseArchive interface {
	LoadTemplate(path string) (string, error)
	SaveLease(name string, data []byte) (string, error)
}

// PaymentService owns the first-payment activation workflow and the
// recurring rent payments.
type PaymentService struct {
	Store Store
	Sink  notify.Sink
	Docs  LeaseArchive

	// Now is here so tests can pin the clock.
	Now func() time.Time
}

func NewPaymentService(store Store, sink notify.Sink, docs LeaseArchive) *PaymentService {
	return &PaymentService{Store: store, Sink: sink, Docs: docs, Now: timeutil.Now}
}

// MakeFirstPayment activates a tenancy in a single transaction: records
// the Firstpayment, promotes the payer USER to TENANT, flips the room to
// OCCUPIED, renders the lease from the mall's template, creates the Rent
// and hides the post. The unique Rent-per-room constraint serializes
// concurrent payments for the same room; the loser gets a conflict.
func (s *PaymentService) MakeFirstPayment(ctx context.Context, userID int, req models.FirstPaymentRequest) (*models.Rent, error) {
	payDate := s.Now()
	if req.PaymentDate != "" {
		var err error
		payDate, err = timeutil.ParseInEAT(dateLayout, req.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("paymentDate %q: %w", req.PaymentDate, ErrInvalid)
		}
	}

	var rent *models.Rent
	var queue []pending
	err := s.Store.Atomic(ctx, func(tx Store) error {
		ad, err := tx.AcceptedUsers().GetDetail(ctx, req.AcceptedUserID)
		if errors.Is(err, repositories.ErrNoRows) {
			return fmt.Errorf("accepted user %d: %w", req.AcceptedUserID, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if ad.UserID != userID {
			return fmt.Errorf("accepted user %d belongs to someone else: %w", req.AcceptedUserID, ErrForbidden)
		}
		if req.Amount < ad.Firstpayment {
			return fmt.Errorf("amount %.2f is below the agreed first payment %.2f: %w", req.Amount, ad.Firstpayment, ErrInvalid)
		}

		if err := tx.Payments().CreateFirstpayment(ctx, &models.Firstpayment{
			AcceptedUserID: ad.ID,
			Amount:         req.Amount,
			PaymentDate:    payDate,
		}); err != nil {
			return err
		}

		// Already-TENANT payers (renting a second room) skip promotion.
		if _, err := tx.Users().PromoteToTenant(ctx, ad.UserID, ad.MallID); err != nil {
			return err
		}

		ok, err := tx.Rooms().SetStatus(ctx, ad.RoomID, models.RoomAvailable, models.RoomOccupied)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("room %d is no longer available: %w", ad.RoomID, ErrConflict)
		}

		docPath, err := s.writeLease(ctx, tx, ad, payDate)
		if err != nil {
			return err
		}

		rent = &models.Rent{
			UserID:          ad.UserID,
			RoomID:          ad.RoomID,
			MallID:          ad.MallID,
			Amount:          ad.Firstpayment,
			PaymentDuration: ad.PaymentDuration,
			AgreementPath:   docPath,
		}
		if err := tx.Rents().Create(ctx, rent); err != nil {
			if repositories.IsUniqueViolation(err) {
				return fmt.Errorf("room %d already has an active rent: %w", ad.RoomID, ErrConflict)
			}
			return err
		}

		if _, err := tx.Posts().SetStatus(ctx, ad.PostID, models.PostInvisible); err != nil {
			return err
		}

		n := &models.Notification{
			UserID:  ad.OwnerID,
			Type:    models.NotificationAlert,
			Message: fmt.Sprintf("First payment of %.2f ETB received for room %s in %s.", req.Amount, ad.RoomNumber, ad.MallName),
		}
		if err := tx.Notifications().Create(ctx, n); err != nil {
			return err
		}
		queue = append(queue, pending{ad.OwnerID, notify.EventFirstPayment, n})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(queue)
	return rent, nil
}

func (s *PaymentService) writeLease(ctx context.Context, tx Store, ad *models.AcceptedUserDetail, payDate time.Time) (string, error) {
	tenant, err := tx.Users().Get(ctx, ad.UserID)
	if err != nil {
		return "", err
	}

	tmpl := lease.DefaultTemplate
	if s.Docs != nil {
		if ag, err := tx.Malls().LatestAgreement(ctx, ad.MallID); err == nil {
			if text, err := s.Docs.LoadTemplate(ag.AgreementFile); err == nil {
				tmpl = text
			}
		} else if !errors.Is(err, repositories.ErrNoRows) {
			return "", err
		}
	}

	fields := lease.BuildFields(
		ad.OwnerName, ad.OwnerPhone,
		tenant.FullName, tenant.PhoneNumber,
		fmt.Sprintf("%s, %s, room %s", ad.MallName, ad.MallAddr, ad.RoomNumber),
		payDate, ad.PaymentDuration, ad.Firstpayment,
	)
	doc := lease.Render(tmpl, fields)

	if s.Docs == nil {
		return "", nil
	}
	name := fmt.Sprintf("lease-%d-%d.txt", ad.ID, payDate.Unix())
	return s.Docs.SaveLease(name, []byte(doc))
}

func (s *PaymentService) publish(queue []pending) {
	if s.Sink == nil {
		return
	}
	for _, p := range queue {
		_ = s.Sink.Publish(p.userID, p.event, p.payload)
	}
}

// RecordPayment stores a recurring payment against an existing rent.
func (s *PaymentService) RecordPayment(ctx context.Context, req models.PayRequest) (*models.Payment, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", ErrInvalid)
	}
	if _, err := s.Store.Rents().Get(ctx, req.RentID); err != nil {
		if errors.Is(err, repositories.ErrNoRows) {
			return nil, fmt.Errorf("rent %d: %w", req.RentID, ErrNotFound)
		}
		return nil, err
	}

	payDate := s.Now()
	if req.PaymentDate != "" {
		var err error
		payDate, err = timeutil.ParseInEAT(dateLayout, req.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("paymentDate %q: %w", req.PaymentDate, ErrInvalid)
		}
	}

	p := &models.Payment{RentID: req.RentID, Amount: req.Amount, PaymentDate: payDate}
	if err := s.Store.Payments().CreatePayment(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// NextPaymentDays reports how many days remain until the user's next
// rent payment is due. Negative means overdue. The due date is one month
// after the latest payment, or after the rent start when nothing has
// been paid yet.
func (s *PaymentService) NextPaymentDays(ctx context.Context, userID int) (int, error) {
	rent, err := s.Store.Rents().GetByUser(ctx, userID)
	if errors.Is(err, repositories.ErrNoRows) {
		return 0, fmt.Errorf("no rent for user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return 0, err
	}

	base := rent.CreatedAt
	if last, err := s.Store.Payments().LatestPaymentDate(ctx, rent.ID); err != nil {
		return 0, err
	} else if last != nil {
		base = *last
	}

	due := base.AddDate(0, 1, 0)
	return int(due.Sub(s.Now()).Hours() / 24), nil
}

// ListPaymentsByMall returns the recurring payments of a mall.
func (s *PaymentService) ListPaymentsByMall(ctx context.Context, mallID int) ([]*models.Payment, error) {
	return s.Store.Payments().ListPaymentsByMall(ctx, mallID)
}

// ListPaymentsByUser returns the caller's own payments.
func (s *PaymentService) ListPaymentsByUser(ctx context.Context, userID int) ([]*models.Payment, error) {
	return s.Store.Payments().ListPaymentsByUser(ctx, userID)
}

// ListFirstpaymentsByMall returns the activation payments of a mall.
func (s *PaymentService) ListFirstpaymentsByMall(ctx context.Context, mallID int) ([]*models.Firstpayment, error) {
	return s.Store.Payments().ListFirstpaymentsByMall(ctx, mallID)
}

// GetPayment looks up one payment.
func (s *PaymentService) GetPayment(ctx context.Context, id int) (*models.Payment, error) {
	p, err := s.Store.Payments().GetPayment(ctx, id)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("payment %d: %w", id, ErrNotFound)
	}
	return p, err
}

// GetFirstpayment looks up one activation payment.
func (s *PaymentService) GetFirstpayment(ctx context.Context, id int) (*models.Firstpayment, error) {
	p, err := s.Store.Payments().GetFirstpayment(ctx, id)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("firstpayment %d: %w", id, ErrNotFound)
	}
	return p, err
}
