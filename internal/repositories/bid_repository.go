package repositories

import (
	"context"
	"fmt"

	"mall-backend/internal/models"
)

type BidRepository struct {
	DB Querier
}

func NewBidRepository(db Querier) *BidRepository {
	return &BidRepository{DB: db}
}

const bidColumns = `id, user_id, post_id, user_name, user_phone, user_id_url, bid_amount, COALESCE(note, ''), status, created_at`

func scanBid(row interface{ Scan(...any) error }) (*models.Bid, error) {
	b := &models.Bid{}
	err := row.Scan(&b.ID, &b.UserID, &b.PostID, &b.UserName, &b.UserPhone, &b.UserIDURL,
		&b.BidAmount, &b.Note, &b.Status, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BidRepository) Create(ctx context.Context, b *models.Bid) error {
	query := `
		INSERT INTO bids (user_id, post_id, user_name, user_phone, user_id_url, bid_amount, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(ctx, query, b.UserID, b.PostID, b.UserName, b.UserPhone,
		b.UserIDURL, b.BidAmount, b.Note, models.BidPending).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bid: %w", err)
	}
	b.Status = models.BidPending
	return nil
}

// HasPendingBid reports whether the user already has a pending bid on
// the post. A partial unique index on (user_id, post_id) backs this up
// for concurrent inserts.
func (r *BidRepository) HasPendingBid(ctx context.Context, userID, postID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bids
			WHERE user_id = $1 AND post_id = $2 AND status = $3
		)
	`, userID, postID, models.BidPending).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending bid: %w", err)
	}
	return exists, nil
}

// GetDetail fetches the bid joined with its post and the post owner's
// mall, everything the acceptance workflow needs in one round trip.
func (r *BidRepository) GetDetail(ctx context.Context, id int) (*models.BidDetail, error) {
	d := &models.BidDetail{}
	err := r.DB.QueryRow(ctx, `
		SELECT b.id, b.user_id, b.post_id, b.user_name, b.user_phone, b.user_id_url,
		       b.bid_amount, COALESCE(b.note, ''), b.status, b.created_at,
		       p.title, p.user_id, m.id
		FROM bids b
		JOIN posts p ON p.id = b.post_id
		LEFT JOIN malls m ON m.owner_id = p.user_id
		WHERE b.id = $1
	`, id).Scan(&d.ID, &d.UserID, &d.PostID, &d.UserName, &d.UserPhone, &d.UserIDURL,
		&d.BidAmount, &d.Note, &d.Status, &d.CreatedAt,
		&d.PostTitle, &d.PostOwnerID, &d.MallID)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// SetStatus transitions a bid out of an expected prior status. Returns
// false when the bid was not in that status, which makes repeated
// accept/decline calls no-ops detectable by the caller.
func (r *BidRepository) SetStatus(ctx context.Context, bidID int, from, to string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `UPDATE bids SET status = $1 WHERE id = $2 AND status = $3`, to, bidID, from)
	if err != nil {
		return false, fmt.Errorf("failed to update bid %d status: %w", bidID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeclineSiblings bulk-declines every other pending bid on the post and
// returns them so each loser can be notified.
func (r *BidRepository) DeclineSiblings(ctx context.Context, postID, exceptBidID int) ([]*models.Bid, error) {
	rows, err := r.DB.Query(ctx, `
		UPDATE bids SET status = $1
		WHERE post_id = $2 AND id <> $3 AND status = $4
		RETURNING `+bidColumns+`
	`, models.BidDeclined, postID, exceptBidID, models.BidPending)
	if err != nil {
		return nil, fmt.Errorf("failed to decline sibling bids: %w", err)
	}
	defer rows.Close()

	var bids []*models.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}

func (r *BidRepository) ListByPost(ctx context.Context, postID int) ([]*models.Bid, error) {
	return r.list(ctx, `SELECT `+bidColumns+` FROM bids WHERE post_id = $1 ORDER BY bid_amount DESC`, postID)
}

func (r *BidRepository) ListByUser(ctx context.Context, userID int) ([]*models.Bid, error) {
	return r.list(ctx, `SELECT `+bidColumns+` FROM bids WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *BidRepository) list(ctx context.Context, query string, args ...any) ([]*models.Bid, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*models.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, b := range bids {
		deposits, err := r.DepositsForBid(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		b.Deposits = deposits
	}
	return bids, nil
}

func (r *BidRepository) CreateDeposit(ctx context.Context, d *models.Deposit) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO deposits (bid_id, user_id, amount) VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, d.BidID, d.UserID, d.Amount).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create deposit: %w", err)
	}
	return nil
}

func (r *BidRepository) DepositsForBid(ctx context.Context, bidID int) ([]models.Deposit, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, bid_id, user_id, amount, created_at FROM deposits WHERE bid_id = $1 ORDER BY id
	`, bidID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deposits []models.Deposit
	for rows.Next() {
		var d models.Deposit
		if err := rows.Scan(&d.ID, &d.BidID, &d.UserID, &d.Amount, &d.CreatedAt); err != nil {
			return nil, err
		}
		deposits = append(deposits, d)
	}
	return deposits, rows.Err()
}

// UpsertRefund records a full refund for a deposit, keyed by deposit so a
// repeated decline cannot refund twice.
func (r *BidRepository) UpsertRefund(ctx context.Context, depositID int, amount float64) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO refunds (deposit_id, amount) VALUES ($1, $2)
		ON CONFLICT (deposit_id) DO UPDATE SET amount = EXCLUDED.amount
	`, depositID, amount)
	if err != nil {
		return fmt.Errorf("failed to upsert refund for deposit %d: %w", depositID, err)
	}
	return nil
}
