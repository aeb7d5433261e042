package repositories

import (
	"context"
	"fmt"

	"mall-backend/internal/models"
)

type RoomRepository struct {
	DB Querier
}

func NewRoomRepository(db Querier) *RoomRepository {
	return &RoomRepository{DB: db}
}

const roomColumns = `id, floor_id, category_id, room_number, care, status, has_window, has_balcony,
	has_attached_bathroom, has_parking_space, price_per_care, price, COALESCE(banner_url, '')`

func scanRoom(row interface{ Scan(...any) error }) (*models.Room, error) {
	room := &models.Room{}
	err := row.Scan(&room.ID, &room.FloorID, &room.CategoryID, &room.RoomNumber, &room.Care,
		&room.Status, &room.HasWindow, &room.HasBalcony, &room.HasAttachedBathroom,
		&room.HasParkingSpace, &room.PricePerCare, &room.Price, &room.BannerURL)
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	query := `
		INSERT INTO rooms (floor_id, category_id, room_number, care, status, has_window, has_balcony,
			has_attached_bathroom, has_parking_space, price_per_care, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err := r.DB.QueryRow(ctx, query, room.FloorID, room.CategoryID, room.RoomNumber, room.Care,
		room.Status, room.HasWindow, room.HasBalcony, room.HasAttachedBathroom,
		room.HasParkingSpace, room.PricePerCare, room.Price).Scan(&room.ID)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (r *RoomRepository) Get(ctx context.Context, id int) (*models.Room, error) {
	return scanRoom(r.DB.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id))
}

// NumberExistsInMall checks room-number uniqueness across the whole mall,
// not just the floor.
func (r *RoomRepository) NumberExistsInMall(ctx context.Context, mallID int, roomNumber string) (bool, error) {
	var count int
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM rooms ro
		JOIN floors f ON f.id = ro.floor_id
		WHERE f.mall_id = $1 AND ro.room_number = $2
	`, mallID, roomNumber).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *RoomRepository) ListByMall(ctx context.Context, mallID int) ([]*models.Room, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+roomColumnsPrefixed+` FROM rooms ro
		JOIN floors f ON f.id = ro.floor_id
		WHERE f.mall_id = $1
		ORDER BY ro.room_number
	`, mallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

const roomColumnsPrefixed = `ro.id, ro.floor_id, ro.category_id, ro.room_number, ro.care, ro.status,
	ro.has_window, ro.has_balcony, ro.has_attached_bathroom, ro.has_parking_space,
	ro.price_per_care, ro.price, COALESCE(ro.banner_url, '')`

// SetStatus performs the guarded AVAILABLE -> OCCUPIED flip (or back).
// Returns false when the room was not in the expected prior status.
func (r *RoomRepository) SetStatus(ctx context.Context, roomID int, from, to string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `UPDATE rooms SET status = $1 WHERE id = $2 AND status = $3`, to, roomID, from)
	if err != nil {
		return false, fmt.Errorf("failed to update room %d status: %w", roomID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RoomRepository) SetBanner(ctx context.Context, roomID int, bannerURL string) error {
	_, err := r.DB.Exec(ctx, `UPDATE rooms SET banner_url = $1 WHERE id = $2`, bannerURL, roomID)
	return err
}

func (r *RoomRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// OccupancyByMall returns occupied and total room counts for a mall.
// mallID 0 means platform-wide.
func (r *RoomRepository) OccupancyByMall(ctx context.Context, mallID int) (occupied, total int, err error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE ro.status = 'OCCUPIED'), COUNT(*)
		FROM rooms ro
		JOIN floors f ON f.id = ro.floor_id
		WHERE ($1 = 0 OR f.mall_id = $1)
	`
	err = r.DB.QueryRow(ctx, query, mallID).Scan(&occupied, &total)
	return occupied, total, err
}
