package repositories

import (
	"context"
	"fmt"

	"mall-backend/internal/models"
)

type RentRepository struct {
	DB Querier
}

func NewRentRepository(db Querier) *RentRepository {
	return &RentRepository{DB: db}
}

// Create inserts the lease record. The rents.room_id unique constraint is
// the serialization point against double-leasing; a violation surfaces
// through IsUniqueViolation.
func (r *RentRepository) Create(ctx context.Context, rent *models.Rent) error {
	query := `
		INSERT INTO rents (user_id, room_id, mall_id, amount, payment_duration, agreement_path)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(ctx, query, rent.UserID, rent.RoomID, rent.MallID,
		rent.Amount, rent.PaymentDuration, rent.AgreementPath).Scan(&rent.ID, &rent.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("failed to create rent: %w", err)
	}
	return nil
}

func (r *RentRepository) ExistsForRoom(ctx context.Context, roomID int) (bool, error) {
	var count int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM rents WHERE room_id = $1`, roomID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *RentRepository) Get(ctx context.Context, id int) (*models.Rent, error) {
	rent := &models.Rent{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, user_id, room_id, mall_id, amount, payment_duration, agreement_path, created_at
		FROM rents WHERE id = $1
	`, id).Scan(&rent.ID, &rent.UserID, &rent.RoomID, &rent.MallID,
		&rent.Amount, &rent.PaymentDuration, &rent.AgreementPath, &rent.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rent, nil
}

func (r *RentRepository) GetByUser(ctx context.Context, userID int) (*models.Rent, error) {
	rent := &models.Rent{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, user_id, room_id, mall_id, amount, payment_duration, agreement_path, created_at
		FROM rents WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1
	`, userID).Scan(&rent.ID, &rent.UserID, &rent.RoomID, &rent.MallID,
		&rent.Amount, &rent.PaymentDuration, &rent.AgreementPath, &rent.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rent, nil
}

func (r *RentRepository) ListByMall(ctx context.Context, mallID int) ([]*models.Rent, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, room_id, mall_id, amount, payment_duration, agreement_path, created_at
		FROM rents WHERE mall_id = $1 ORDER BY created_at DESC
	`, mallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rents []*models.Rent
	for rows.Next() {
		rent := &models.Rent{}
		if err := rows.Scan(&rent.ID, &rent.UserID, &rent.RoomID, &rent.MallID,
			&rent.Amount, &rent.PaymentDuration, &rent.AgreementPath, &rent.CreatedAt); err != nil {
			return nil, err
		}
		rents = append(rents, rent)
	}
	return rents, rows.Err()
}

// CountByMallAndYear backs the rents column of the yearly dashboard series.
func (r *RentRepository) CountByMallAndYear(ctx context.Context, mallID, year int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM rents
		WHERE ($1 = 0 OR mall_id = $1) AND EXTRACT(YEAR FROM created_at) = $2
	`, mallID, year).Scan(&count)
	return count, err
}
