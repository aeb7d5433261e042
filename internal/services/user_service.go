package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mall-backend/internal/auth"
	"mall-backend/internal/models"
	"mall-backend/internal/repositories"
)

type UserService struct {
	Repo       *repositories.UserRepository
	JWTManager *auth.JWTManager
	TOTP       *TOTPService
}

func NewUserService(repo *repositories.UserRepository, jwtManager *auth.JWTManager, totp *TOTPService) *UserService {
	return &UserService{Repo: repo, JWTManager: jwtManager, TOTP: totp}
}

// LoginResult is the outcome of the web login. When the account has 2FA
// enabled the password step yields only a short-lived temp token.
type LoginResult struct {
	Token       string       `json:"token,omitempty"`
	User        *models.User `json:"user,omitempty"`
	Requires2FA bool         `json:"requires2FA,omitempty"`
	TempToken   string       `json:"tempToken,omitempty"`
}

// Register creates an app-side account with the USER role.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if req.FullName == "" || req.Password == "" || (req.Email == "" && req.PhoneNumber == "") {
		return nil, fmt.Errorf("fullName, password and email or phone are required: %w", ErrInvalid)
	}

	if req.PhoneNumber != "" {
		exists, err := s.Repo.PhoneExists(ctx, req.PhoneNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("phone %s already registered: %w", req.PhoneNumber, ErrConflict)
		}
	}
	if req.Email != "" {
		if _, err := s.Repo.GetByEmail(ctx, strings.ToLower(req.Email)); err == nil {
			return nil, fmt.Errorf("email %s already registered: %w", req.Email, ErrConflict)
		} else if !errors.Is(err, repositories.ErrNoRows) {
			return nil, err
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:     req.FullName,
		Email:        strings.ToLower(req.Email),
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// Login authenticates an app-side user by email or phone.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.Repo.GetByEmailOrPhone(ctx, strings.ToLower(req.EmailOrPhone))
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("invalid credentials: %w", ErrForbidden)
	}
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, fmt.Errorf("invalid credentials: %w", ErrForbidden)
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

// OwnerLogin authenticates the web side (mall owners and admins). When
// 2FA is enabled and no code is supplied the caller gets a temp token
// and must come back through Verify2FA.
func (s *UserService) OwnerLogin(ctx context.Context, req models.OwnerLoginRequest) (*LoginResult, error) {
	user, err := s.Repo.GetByEmail(ctx, strings.ToLower(req.Email))
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("invalid credentials: %w", ErrForbidden)
	}
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleMallOwner && user.Role != models.RoleAdmin {
		return nil, fmt.Errorf("web login is for owners and admins: %w", ErrForbidden)
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, fmt.Errorf("invalid credentials: %w", ErrForbidden)
	}

	if user.TOTPEnabled {
		if req.TOTPCode == "" {
			temp, err := s.JWTManager.GenerateTempToken(user)
			if err != nil {
				return nil, err
			}
			return &LoginResult{Requires2FA: true, TempToken: temp}, nil
		}
		if err := s.TOTP.Verify(ctx, user.ID, req.TOTPCode); err != nil {
			return nil, err
		}
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

// Verify2FA completes a pending 2FA login using the temp token.
func (s *UserService) Verify2FA(ctx context.Context, tempToken, code string) (*LoginResult, error) {
	claims, err := s.JWTManager.ValidateTempToken(tempToken)
	if err != nil {
		return nil, fmt.Errorf("invalid temp token: %w", ErrForbidden)
	}
	if err := s.TOTP.Verify(ctx, claims.UserID, code); err != nil {
		return nil, err
	}

	user, err := s.Repo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	user, err := s.Repo.Get(ctx, id)
	if errors.Is(err, repositories.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return user, err
}

// ListTenants returns the tenants of a mall.
func (s *UserService) ListTenants(ctx context.Context, mallID int) ([]*models.User, error) {
	return s.Repo.ListTenants(ctx, mallID)
}

// ListMallOwners returns every owner with their mall name.
func (s *UserService) ListMallOwners(ctx context.Context) ([]map[string]any, error) {
	return s.Repo.ListMallOwners(ctx)
}

// RegisterTenant creates a tenant account directly under the owner's
// mall, for tenancies arranged outside the posting flow.
func (s *UserService) RegisterTenant(ctx context.Context, mallID int, req models.RegisterRequest) (*models.User, error) {
	if req.FullName == "" || req.Password == "" || req.PhoneNumber == "" {
		return nil, fmt.Errorf("fullName, phoneNumber and password are required: %w", ErrInvalid)
	}

	exists, err := s.Repo.PhoneExists(ctx, req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("phone %s already registered: %w", req.PhoneNumber, ErrConflict)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:     req.FullName,
		Email:        strings.ToLower(req.Email),
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
		Role:         models.RoleTenant,
		MallID:       &mallID,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateTenant edits a tenant's contact details. Only tenants of the
// caller's mall can be edited.
func (s *UserService) UpdateTenant(ctx context.Context, mallID int, u *models.User) error {
	existing, err := s.Repo.Get(ctx, u.ID)
	if errors.Is(err, repositories.ErrNoRows) {
		return fmt.Errorf("user %d: %w", u.ID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if existing.Role != models.RoleTenant || existing.MallID == nil || *existing.MallID != mallID {
		return fmt.Errorf("user %d is not a tenant of mall %d: %w", u.ID, mallID, ErrForbidden)
	}

	existing.FullName = u.FullName
	existing.Email = u.Email
	existing.PhoneNumber = u.PhoneNumber
	return s.Repo.Update(ctx, existing)
}
