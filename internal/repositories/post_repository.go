package repositories

import (
	"context"
	"fmt"

	"mall-backend/internal/models"
)

type PostRepository struct {
	DB Querier
}

func NewPostRepository(db Querier) *PostRepository {
	return &PostRepository{DB: db}
}

const postColumns = `id, mall_id, room_id, user_id, title, description, price, bid_deposit, bid_end_date, status, created_at`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	err := row.Scan(&p.ID, &p.MallID, &p.RoomID, &p.UserID, &p.Title, &p.Description,
		&p.Price, &p.BidDeposit, &p.BidEndDate, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, p *models.Post) error {
	query := `
		INSERT INTO posts (mall_id, room_id, user_id, title, description, price, bid_deposit, bid_end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(ctx, query, p.MallID, p.RoomID, p.UserID, p.Title, p.Description,
		p.Price, p.BidDeposit, p.BidEndDate, p.Status).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *PostRepository) Get(ctx context.Context, id int) (*models.Post, error) {
	post, err := scanPost(r.DB.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	images, err := r.listImages(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	post.Images = images
	return post, nil
}

func (r *PostRepository) ListByStatus(ctx context.Context, status string) ([]*models.Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM posts WHERE status = $1 ORDER BY created_at DESC`, status)
}

func (r *PostRepository) ListByUser(ctx context.Context, userID int) ([]*models.Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM posts WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *PostRepository) list(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range posts {
		images, err := r.listImages(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Images = images
	}
	return posts, nil
}

func (r *PostRepository) listImages(ctx context.Context, postID int) ([]models.PostImage, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, post_id, image_url FROM post_images WHERE post_id = $1 ORDER BY id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []models.PostImage
	for rows.Next() {
		var img models.PostImage
		if err := rows.Scan(&img.ID, &img.PostID, &img.ImageURL); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *PostRepository) AddImages(ctx context.Context, postID int, urls []string) error {
	for _, url := range urls {
		if _, err := r.DB.Exec(ctx, `INSERT INTO post_images (post_id, image_url) VALUES ($1, $2)`, postID, url); err != nil {
			return fmt.Errorf("failed to save post image: %w", err)
		}
	}
	return nil
}

func (r *PostRepository) SetStatus(ctx context.Context, postID int, status string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `UPDATE posts SET status = $1 WHERE id = $2`, status, postID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// CountByMall counts posts of a mall; mallID 0 counts platform-wide.
func (r *PostRepository) CountByMall(ctx context.Context, mallID int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE ($1 = 0 OR mall_id = $1)`, mallID).Scan(&count)
	return count, err
}
