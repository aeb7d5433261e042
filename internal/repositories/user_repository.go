package repositories

import (
	"context"
	"fmt"

	"mall-backend/internal/models"
)

type UserRepository struct {
	DB Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, full_name, email, phone_number, password_hash, role, mall_id, totp_enabled, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PhoneNumber, &u.PasswordHash,
		&u.Role, &u.MallID, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (full_name, email, phone_number, password_hash, role, mall_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query, u.FullName, u.Email, u.PhoneNumber,
		u.PasswordHash, u.Role, u.MallID).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// GetByEmailOrPhone backs the app login, which accepts either identifier.
func (r *UserRepository) GetByEmailOrPhone(ctx context.Context, identifier string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR phone_number = $1 LIMIT 1`
	return scanUser(r.DB.QueryRow(ctx, query, identifier))
}

func (r *UserRepository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	var count int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE phone_number = $1`, phone).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PromoteToTenant flips role USER -> TENANT and assigns the mall, guarded
// by the current role so the transition runs at most once.
func (r *UserRepository) PromoteToTenant(ctx context.Context, userID, mallID int) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE users SET role = $1, mall_id = $2, updated_at = NOW()
		WHERE id = $3 AND role = $4
	`, models.RoleTenant, mallID, userID, models.RoleUser)
	if err != nil {
		return false, fmt.Errorf("failed to promote user %d: %w", userID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE users SET full_name = $1, email = $2, phone_number = $3, mall_id = $4, updated_at = NOW()
		WHERE id = $5
	`, u.FullName, u.Email, u.PhoneNumber, u.MallID, u.ID)
	return err
}

func (r *UserRepository) SetTOTPEnabled(ctx context.Context, userID int, enabled bool) error {
	_, err := r.DB.Exec(ctx, `UPDATE users SET totp_enabled = $1, updated_at = NOW() WHERE id = $2`, enabled, userID)
	return err
}

func (r *UserRepository) SetTOTPSecret(ctx context.Context, userID int, secret string) error {
	_, err := r.DB.Exec(ctx, `UPDATE users SET totp_secret = $1, updated_at = NOW() WHERE id = $2`, secret, userID)
	return err
}

// TOTPSecret is kept out of the User struct so it never leaks through a
// listing endpoint.
func (r *UserRepository) TOTPSecret(ctx context.Context, userID int) (string, error) {
	var secret string
	err := r.DB.QueryRow(ctx, `SELECT COALESCE(totp_secret, '') FROM users WHERE id = $1`, userID).Scan(&secret)
	return secret, err
}

// ListTenants returns tenants of a mall with the columns the tenant page shows.
func (r *UserRepository) ListTenants(ctx context.Context, mallID int) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+userColumns+` FROM users WHERE role = $1 AND mall_id = $2 ORDER BY created_at DESC
	`, models.RoleTenant, mallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListMallOwners returns every MALL_OWNER together with their mall name.
func (r *UserRepository) ListMallOwners(ctx context.Context) ([]map[string]any, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT u.id, u.full_name, u.email, u.phone_number, COALESCE(m.mall_name, 'No mall associated')
		FROM users u
		LEFT JOIN malls m ON m.owner_id = u.id
		WHERE u.role = $1
		ORDER BY u.id
	`, models.RoleMallOwner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []map[string]any
	for rows.Next() {
		var id int
		var fullName, email, phone, mallName string
		if err := rows.Scan(&id, &fullName, &email, &phone, &mallName); err != nil {
			return nil, err
		}
		owners = append(owners, map[string]any{
			"id":          id,
			"fullName":    fullName,
			"email":       email,
			"phoneNumber": phone,
			"mallName":    mallName,
		})
	}
	return owners, rows.Err()
}
