package models

import (
	"fmt"
	"time"
)

// User roles. A user starts as USER and is promoted to TENANT by the
// first-payment workflow; MALL_OWNER and ADMIN are assigned at signup.
const (
	RoleAdmin     = "ADMIN"
	RoleMallOwner = "MALL_OWNER"
	RoleUser      = "USER"
	RoleTenant    = "TENANT"
)

type User struct {
	ID           int       `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phoneNumber"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"role"`
	MallID       *int      `json:"mallId,omitempty"`
	TOTPEnabled  bool      `json:"totpEnabled"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// roleTransitions enumerates the valid role changes. Anything not listed
// is rejected, so a TENANT can never silently become a USER again.
var roleTransitions = map[string][]string{
	RoleUser: {RoleTenant},
}

// CanBecome reports whether the user's role may transition to the target.
func (u *User) CanBecome(role string) bool {
	for _, next := range roleTransitions[u.Role] {
		if next == role {
			return true
		}
	}
	return false
}

// Promote transitions the user's role, failing on any unlisted transition.
func (u *User) Promote(role string) error {
	if !u.CanBecome(role) {
		return fmt.Errorf("role transition %s -> %s not allowed", u.Role, role)
	}
	u.Role = role
	return nil
}

// RegisterRequest is the body for app-side user registration.
type RegisterRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// LoginRequest is the body for app-side login (email or phone accepted).
type LoginRequest struct {
	EmailOrPhone string `json:"emailOrPhone"`
	Password     string `json:"password"`
}

// OwnerLoginRequest is the body for the web (owner/admin) login.
type OwnerLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totpCode,omitempty"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// TOTPSetupResponse carries the provisioning data for an authenticator app.
type TOTPSetupResponse struct {
	Secret      string `json:"secret"`
	QRCode      string `json:"qrCode"`
	Issuer      string `json:"issuer"`
	AccountName string `json:"accountName"`
}
