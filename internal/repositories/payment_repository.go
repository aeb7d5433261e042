package repositories

import (
	"context"
	"fmt"
	"time"

	"mall-backend/internal/models"
)

type PaymentRepository struct {
	DB Querier
}

func NewPaymentRepository(db Querier) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, p *models.Payment) error {
	query := `
		INSERT INTO payments (rent_id, amount, payment_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(ctx, query, p.RentID, p.Amount, p.PaymentDate).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) CreateFirstpayment(ctx context.Context, p *models.Firstpayment) error {
	query := `
		INSERT INTO firstpayments (accepted_user_id, amount, payment_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(ctx, query, p.AcceptedUserID, p.Amount, p.PaymentDate).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create first payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetPayment(ctx context.Context, id int) (*models.Payment, error) {
	p := &models.Payment{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, rent_id, amount, payment_date, created_at FROM payments WHERE id = $1
	`, id).Scan(&p.ID, &p.RentID, &p.Amount, &p.PaymentDate, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PaymentRepository) GetFirstpayment(ctx context.Context, id int) (*models.Firstpayment, error) {
	p := &models.Firstpayment{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, accepted_user_id, amount, payment_date, created_at FROM firstpayments WHERE id = $1
	`, id).Scan(&p.ID, &p.AcceptedUserID, &p.Amount, &p.PaymentDate, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PaymentRepository) ListPaymentsByMall(ctx context.Context, mallID int) ([]*models.Payment, error) {
	return r.listPayments(ctx, `
		SELECT p.id, p.rent_id, p.amount, p.payment_date, p.created_at
		FROM payments p
		JOIN rents r ON r.id = p.rent_id
		WHERE r.mall_id = $1
		ORDER BY p.payment_date DESC
	`, mallID)
}

func (r *PaymentRepository) ListPaymentsByUser(ctx context.Context, userID int) ([]*models.Payment, error) {
	return r.listPayments(ctx, `
		SELECT p.id, p.rent_id, p.amount, p.payment_date, p.created_at
		FROM payments p
		JOIN rents r ON r.id = p.rent_id
		WHERE r.user_id = $1
		ORDER BY p.payment_date DESC
	`, userID)
}

func (r *PaymentRepository) listPayments(ctx context.Context, query string, args ...any) ([]*models.Payment, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		if err := rows.Scan(&p.ID, &p.RentID, &p.Amount, &p.PaymentDate, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) ListFirstpaymentsByMall(ctx context.Context, mallID int) ([]*models.Firstpayment, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT f.id, f.accepted_user_id, f.amount, f.payment_date, f.created_at
		FROM firstpayments f
		JOIN accepted_users a ON a.id = f.accepted_user_id
		WHERE a.mall_id = $1
		ORDER BY f.payment_date DESC
	`, mallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Firstpayment
	for rows.Next() {
		p := &models.Firstpayment{}
		if err := rows.Scan(&p.ID, &p.AcceptedUserID, &p.Amount, &p.PaymentDate, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// SumPayments sums recurring payments for a mall; mallID 0 sums
// platform-wide.
func (r *PaymentRepository) SumPayments(ctx context.Context, mallID int) (float64, error) {
	var sum float64
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN rents r ON r.id = p.rent_id
		WHERE ($1 = 0 OR r.mall_id = $1)
	`, mallID).Scan(&sum)
	return sum, err
}

// SumPaymentsBetween sums recurring payments in [from, to).
func (r *PaymentRepository) SumPaymentsBetween(ctx context.Context, mallID int, from, to time.Time) (float64, error) {
	var sum float64
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN rents r ON r.id = p.rent_id
		WHERE ($1 = 0 OR r.mall_id = $1) AND p.payment_date >= $2 AND p.payment_date < $3
	`, mallID, from, to).Scan(&sum)
	return sum, err
}

func (r *PaymentRepository) SumFirstpayments(ctx context.Context, mallID int) (float64, error) {
	var sum float64
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(f.amount), 0)
		FROM firstpayments f
		JOIN accepted_users a ON a.id = f.accepted_user_id
		WHERE ($1 = 0 OR a.mall_id = $1)
	`, mallID).Scan(&sum)
	return sum, err
}

// LatestPaymentDate returns the most recent payment on a rent, used to
// compute the days remaining until the next due date.
func (r *PaymentRepository) LatestPaymentDate(ctx context.Context, rentID int) (*time.Time, error) {
	var t *time.Time
	err := r.DB.QueryRow(ctx, `SELECT MAX(payment_date) FROM payments WHERE rent_id = $1`, rentID).Scan(&t)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CountTenants counts TENANT users for a mall; mallID 0 counts platform-wide.
func (r *PaymentRepository) CountTenants(ctx context.Context, mallID int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM users WHERE role = $1 AND ($2 = 0 OR mall_id = $2)
	`, models.RoleTenant, mallID).Scan(&count)
	return count, err
}
