package repositories

import (
	"context"
	"fmt"

	"mall-backend/internal/models"
)

type RequestRepository struct {
	DB Querier
}

func NewRequestRepository(db Querier) *RequestRepository {
	return &RequestRepository{DB: db}
}

const requestColumns = `id, user_id, post_id, user_name, user_phone, user_id_url, COALESCE(note, ''), status, created_at`

func scanRequest(row interface{ Scan(...any) error }) (*models.Request, error) {
	req := &models.Request{}
	err := row.Scan(&req.ID, &req.UserID, &req.PostID, &req.UserName, &req.UserPhone,
		&req.UserIDURL, &req.Note, &req.Status, &req.CreatedAt)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *RequestRepository) Create(ctx context.Context, req *models.Request) error {
	query := `
		INSERT INTO requests (user_id, post_id, user_name, user_phone, user_id_url, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(ctx, query, req.UserID, req.PostID, req.UserName, req.UserPhone,
		req.UserIDURL, req.Note, models.RequestPending).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Status = models.RequestPending
	return nil
}

func (r *RequestRepository) GetDetail(ctx context.Context, id int) (*models.RequestDetail, error) {
	d := &models.RequestDetail{}
	err := r.DB.QueryRow(ctx, `
		SELECT r.id, r.user_id, r.post_id, r.user_name, r.user_phone, r.user_id_url,
		       COALESCE(r.note, ''), r.status, r.created_at,
		       p.title, p.user_id, m.id
		FROM requests r
		JOIN posts p ON p.id = r.post_id
		LEFT JOIN malls m ON m.owner_id = p.user_id
		WHERE r.id = $1
	`, id).Scan(&d.ID, &d.UserID, &d.PostID, &d.UserName, &d.UserPhone, &d.UserIDURL,
		&d.Note, &d.Status, &d.CreatedAt,
		&d.PostTitle, &d.PostOwnerID, &d.MallID)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// SetStatus is the guarded single transition out of PENDING.
func (r *RequestRepository) SetStatus(ctx context.Context, requestID int, from, to string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `UPDATE requests SET status = $1 WHERE id = $2 AND status = $3`, to, requestID, from)
	if err != nil {
		return false, fmt.Errorf("failed to update request %d status: %w", requestID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeclineSiblings bulk-declines every other pending request on the post.
func (r *RequestRepository) DeclineSiblings(ctx context.Context, postID, exceptRequestID int) ([]*models.Request, error) {
	rows, err := r.DB.Query(ctx, `
		UPDATE requests SET status = $1
		WHERE post_id = $2 AND id <> $3 AND status = $4
		RETURNING `+requestColumns+`
	`, models.RequestDeclined, postID, exceptRequestID, models.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("failed to decline sibling requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (r *RequestRepository) ListByPost(ctx context.Context, postID int) ([]*models.Request, error) {
	return r.list(ctx, `SELECT `+requestColumns+` FROM requests WHERE post_id = $1 ORDER BY created_at DESC`, postID)
}

func (r *RequestRepository) ListByUser(ctx context.Context, userID int) ([]*models.Request, error) {
	return r.list(ctx, `SELECT `+requestColumns+` FROM requests WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *RequestRepository) list(ctx context.Context, query string, args ...any) ([]*models.Request, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
