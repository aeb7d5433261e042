package repositories

import (
	"context"
	"fmt"

	"mall-backend/internal/models"
)

type AcceptedUserRepository struct {
	DB Querier
}

func NewAcceptedUserRepository(db Querier) *AcceptedUserRepository {
	return &AcceptedUserRepository{DB: db}
}

func (r *AcceptedUserRepository) Create(ctx context.Context, a *models.AcceptedUser) error {
	query := `
		INSERT INTO accepted_users (mall_id, post_id, user_id, bid_id, request_id, visit_date,
			payment_date_limit, owner_name, owner_phone, firstpayment, payment_duration, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(ctx, query, a.MallID, a.PostID, a.UserID, a.BidID, a.RequestID,
		a.VisitDate, a.PaymentDateLimit, a.OwnerName, a.OwnerPhone,
		a.Firstpayment, a.PaymentDuration, a.Note).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create accepted user: %w", err)
	}
	return nil
}

// GetDetail joins the room and mall behind the accepted post, which the
// first-payment workflow needs for the room flip and the lease document.
func (r *AcceptedUserRepository) GetDetail(ctx context.Context, id int) (*models.AcceptedUserDetail, error) {
	d := &models.AcceptedUserDetail{}
	err := r.DB.QueryRow(ctx, `
		SELECT a.id, a.mall_id, a.post_id, a.user_id, a.bid_id, a.request_id,
		       a.visit_date, a.payment_date_limit, a.owner_name, a.owner_phone,
		       a.firstpayment, a.payment_duration, COALESCE(a.note, ''), a.created_at,
		       ro.id, ro.room_number, m.mall_name, m.address, p.user_id
		FROM accepted_users a
		JOIN posts p ON p.id = a.post_id
		JOIN rooms ro ON ro.id = p.room_id
		JOIN malls m ON m.id = a.mall_id
		WHERE a.id = $1
	`, id).Scan(&d.ID, &d.MallID, &d.PostID, &d.UserID, &d.BidID, &d.RequestID,
		&d.VisitDate, &d.PaymentDateLimit, &d.OwnerName, &d.OwnerPhone,
		&d.Firstpayment, &d.PaymentDuration, &d.Note, &d.CreatedAt,
		&d.RoomID, &d.RoomNumber, &d.MallName, &d.MallAddr, &d.OwnerID)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// GetByRequest serves the app's "request details" screen.
func (r *AcceptedUserRepository) GetByRequest(ctx context.Context, requestID int) (*models.AcceptedUser, error) {
	a := &models.AcceptedUser{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, mall_id, post_id, user_id, bid_id, request_id, visit_date,
		       payment_date_limit, owner_name, owner_phone, firstpayment, payment_duration,
		       COALESCE(note, ''), created_at
		FROM accepted_users WHERE request_id = $1
	`, requestID).Scan(&a.ID, &a.MallID, &a.PostID, &a.UserID, &a.BidID, &a.RequestID,
		&a.VisitDate, &a.PaymentDateLimit, &a.OwnerName, &a.OwnerPhone,
		&a.Firstpayment, &a.PaymentDuration, &a.Note, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AcceptedUserRepository) ListByMall(ctx context.Context, mallID int) ([]*models.AcceptedUser, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, mall_id, post_id, user_id, bid_id, request_id, visit_date,
		       payment_date_limit, owner_name, owner_phone, firstpayment, payment_duration,
		       COALESCE(note, ''), created_at
		FROM accepted_users WHERE mall_id = $1 ORDER BY created_at DESC
	`, mallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accepted []*models.AcceptedUser
	for rows.Next() {
		a := &models.AcceptedUser{}
		if err := rows.Scan(&a.ID, &a.MallID, &a.PostID, &a.UserID, &a.BidID, &a.RequestID,
			&a.VisitDate, &a.PaymentDateLimit, &a.OwnerName, &a.OwnerPhone,
			&a.Firstpayment, &a.PaymentDuration, &a.Note, &a.CreatedAt); err != nil {
			return nil, err
		}
		accepted = append(accepted, a)
	}
	return accepted, rows.Err()
}
