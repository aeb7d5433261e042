package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"

	"mall-backend/internal/models"
	"mall-backend/internal/repositories"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "MallBackend"

// TOTPService backs the optional two-factor step on admin and owner web
// logins.
type TOTPService struct {
	userRepo *repositories.UserRepository
}

func NewTOTPService(userRepo *repositories.UserRepository) *TOTPService {
	return &TOTPService{userRepo: userRepo}
}

// GenerateSetup creates a fresh TOTP secret for the user and returns it
// with an inline QR code. The secret is stored but not enabled until the
// user confirms a valid code.
func (s *TOTPService) GenerateSetup(ctx context.Context, user *models.User) (*models.TOTPSetupResponse, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetTOTPSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, err
	}

	qrImage, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, qrImage); err != nil {
		return nil, err
	}

	return &models.TOTPSetupResponse{
		Secret:      key.Secret(),
		QRCode:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Issuer:      totpIssuer,
		AccountName: user.Email,
	}, nil
}

// Enable turns 2FA on after the user proves possession of the secret.
func (s *TOTPService) Enable(ctx context.Context, userID int, code string) error {
	if err := s.Verify(ctx, userID, code); err != nil {
		return err
	}
	return s.userRepo.SetTOTPEnabled(ctx, userID, true)
}

// Disable turns 2FA off, requiring a valid current code.
func (s *TOTPService) Disable(ctx context.Context, userID int, code string) error {
	if err := s.Verify(ctx, userID, code); err != nil {
		return err
	}
	return s.userRepo.SetTOTPEnabled(ctx, userID, false)
}

// Verify checks a 6-digit code against the user's stored secret.
func (s *TOTPService) Verify(ctx context.Context, userID int, code string) error {
	secret, err := s.userRepo.TOTPSecret(ctx, userID)
	if errors.Is(err, repositories.ErrNoRows) {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if secret == "" {
		return fmt.Errorf("totp not set up: %w", ErrInvalid)
	}
	if !totp.Validate(code, secret) {
		return fmt.Errorf("invalid totp code: %w", ErrForbidden)
	}
	return nil
}
