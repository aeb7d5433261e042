package repositories

import (
	"context"
	"fmt"

	"mall-backend/internal/models"
)

type MallRepository struct {
	DB Querier
}

func NewMallRepository(db Querier) *MallRepository {
	return &MallRepository{DB: db}
}

func (r *MallRepository) Create(ctx context.Context, m *models.Mall) error {
	query := `
		INSERT INTO malls (owner_id, mall_name, address, city)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(ctx, query, m.OwnerID, m.MallName, m.Address, m.City).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create mall: %w", err)
	}
	return nil
}

func (r *MallRepository) Get(ctx context.Context, id int) (*models.Mall, error) {
	m := &models.Mall{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, owner_id, mall_name, address, city, total_floors, total_rooms, created_at
		FROM malls WHERE id = $1
	`, id).Scan(&m.ID, &m.OwnerID, &m.MallName, &m.Address, &m.City,
		&m.TotalFloors, &m.TotalRooms, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MallRepository) GetByOwner(ctx context.Context, ownerID int) (*models.Mall, error) {
	m := &models.Mall{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, owner_id, mall_name, address, city, total_floors, total_rooms, created_at
		FROM malls WHERE owner_id = $1
	`, ownerID).Scan(&m.ID, &m.OwnerID, &m.MallName, &m.Address, &m.City,
		&m.TotalFloors, &m.TotalRooms, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MallRepository) List(ctx context.Context) ([]*models.Mall, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, owner_id, mall_name, address, city, total_floors, total_rooms, created_at
		FROM malls ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var malls []*models.Mall
	for rows.Next() {
		m := &models.Mall{}
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.MallName, &m.Address, &m.City,
			&m.TotalFloors, &m.TotalRooms, &m.CreatedAt); err != nil {
			return nil, err
		}
		malls = append(malls, m)
	}
	return malls, rows.Err()
}

func (r *MallRepository) UpdateTotals(ctx context.Context, mallID, totalFloors, totalRooms int) error {
	_, err := r.DB.Exec(ctx, `UPDATE malls SET total_floors = $1, total_rooms = $2 WHERE id = $3`,
		totalFloors, totalRooms, mallID)
	return err
}

// CreateFloors inserts basement and above-ground floors in one pass.
// Basements get negative floor numbers.
func (r *MallRepository) CreateFloors(ctx context.Context, mallID, basements, floors int) error {
	for i := 1; i <= basements; i++ {
		_, err := r.DB.Exec(ctx, `INSERT INTO floors (mall_id, floor_number, description) VALUES ($1, $2, $3)`,
			mallID, -i, fmt.Sprintf("Basement %d", i))
		if err != nil {
			return fmt.Errorf("failed to create basement %d: %w", i, err)
		}
	}
	for i := 1; i <= floors; i++ {
		_, err := r.DB.Exec(ctx, `INSERT INTO floors (mall_id, floor_number, description) VALUES ($1, $2, $3)`,
			mallID, i, fmt.Sprintf("Floor %d", i))
		if err != nil {
			return fmt.Errorf("failed to create floor %d: %w", i, err)
		}
	}
	return nil
}

func (r *MallRepository) ListFloors(ctx context.Context, mallID int) ([]*models.Floor, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, mall_id, floor_number, description FROM floors
		WHERE mall_id = $1 ORDER BY floor_number
	`, mallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var floors []*models.Floor
	for rows.Next() {
		f := &models.Floor{}
		if err := rows.Scan(&f.ID, &f.MallID, &f.FloorNumber, &f.Description); err != nil {
			return nil, err
		}
		floors = append(floors, f)
	}
	return floors, rows.Err()
}

func (r *MallRepository) GetFloor(ctx context.Context, floorID int) (*models.Floor, error) {
	f := &models.Floor{}
	err := r.DB.QueryRow(ctx, `SELECT id, mall_id, floor_number, description FROM floors WHERE id = $1`, floorID).
		Scan(&f.ID, &f.MallID, &f.FloorNumber, &f.Description)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// LatestPricePerCare returns the newest rate for the mall, preferring an
// exact floor match over the mall-wide (NULL floor) rate.
func (r *MallRepository) LatestPricePerCare(ctx context.Context, mallID int, floorID *int) (*models.PricePerCare, error) {
	p := &models.PricePerCare{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, mall_id, floor_id, price, created_at FROM price_per_care
		WHERE mall_id = $1 AND (floor_id = $2 OR floor_id IS NULL)
		ORDER BY (floor_id IS NULL), created_at DESC
		LIMIT 1
	`, mallID, floorID).Scan(&p.ID, &p.MallID, &p.FloorID, &p.Price, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *MallRepository) UpsertPricePerCare(ctx context.Context, mallID int, floorID *int, price float64) (*models.PricePerCare, error) {
	p := &models.PricePerCare{MallID: mallID, FloorID: floorID, Price: price}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO price_per_care (mall_id, floor_id, price)
		VALUES ($1, $2, $3)
		ON CONFLICT (mall_id, floor_id) DO UPDATE SET price = EXCLUDED.price, created_at = NOW()
		RETURNING id, created_at
	`, mallID, floorID, price).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *MallRepository) ListPricePerCare(ctx context.Context, mallID int) ([]map[string]any, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT p.price, COALESCE(f.description, 'No floor')
		FROM price_per_care p
		LEFT JOIN floors f ON f.id = p.floor_id
		WHERE p.mall_id = $1
		ORDER BY p.created_at DESC
	`, mallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []map[string]any
	for rows.Next() {
		var price float64
		var desc string
		if err := rows.Scan(&price, &desc); err != nil {
			return nil, err
		}
		prices = append(prices, map[string]any{"price": price, "floorDescription": desc})
	}
	return prices, rows.Err()
}

func (r *MallRepository) CreateAgreement(ctx context.Context, mallID int, filePath string) error {
	_, err := r.DB.Exec(ctx, `INSERT INTO agreements (mall_id, agreement_file) VALUES ($1, $2)`, mallID, filePath)
	return err
}

// LatestAgreement returns the newest lease-template upload for a mall.
func (r *MallRepository) LatestAgreement(ctx context.Context, mallID int) (*models.Agreement, error) {
	a := &models.Agreement{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, mall_id, agreement_file, created_at FROM agreements
		WHERE mall_id = $1 ORDER BY created_at DESC LIMIT 1
	`, mallID).Scan(&a.ID, &a.MallID, &a.AgreementFile, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *MallRepository) ListAgreements(ctx context.Context, mallID int) ([]*models.Agreement, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, mall_id, agreement_file, created_at FROM agreements
		WHERE mall_id = $1 ORDER BY created_at DESC
	`, mallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agreements []*models.Agreement
	for rows.Next() {
		a := &models.Agreement{}
		if err := rows.Scan(&a.ID, &a.MallID, &a.AgreementFile, &a.CreatedAt); err != nil {
			return nil, err
		}
		agreements = append(agreements, a)
	}
	return agreements, rows.Err()
}

func (r *MallRepository) CreateSubscription(ctx context.Context, s *models.Subscription) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO subscriptions (mall_id, price, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, s.MallID, s.Price, s.StartDate, s.EndDate).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *MallRepository) GetSubscription(ctx context.Context, mallID int) (*models.Subscription, error) {
	s := &models.Subscription{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, mall_id, price, start_date, end_date, created_at
		FROM subscriptions WHERE mall_id = $1
	`, mallID).Scan(&s.ID, &s.MallID, &s.Price, &s.StartDate, &s.EndDate, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *MallRepository) ListSubscriptions(ctx context.Context) ([]*models.Subscription, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, mall_id, price, start_date, end_date, created_at
		FROM subscriptions ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		s := &models.Subscription{}
		if err := rows.Scan(&s.ID, &s.MallID, &s.Price, &s.StartDate, &s.EndDate, &s.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
