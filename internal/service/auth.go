package service

import (
	"context"

	"github.com/mzurek/drumtrack/internal/model"
	"github.com/mzurek/drumtrack/internal/utils"
)

// Login modes accepted by the sign-in and status endpoints. They
// select which credential table is consulted.
const (
	ModeClient = "client"
	ModeAdmin  = "admin"
)

// Session roles carried in the JWT role claim and enforced by the
// role middleware.
const (
	RoleClient = "CLIENT"
	RoleAdmin  = "ADMIN"
)

// SessionUser is the sanitized user shape returned after a successful
// sign-in or token redemption. It never carries a password hash.
type SessionUser struct {
	NIP        string `json:"nip"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Username   string `json:"username,omitempty"`
	FirstLogin bool   `json:"first_login,omitempty"`
}

// AccountStatus is the pre-flight answer of CheckStatus. HasPassword
// exposes only the presence of a hash, never the hash itself.
type AccountStatus struct {
	Exists      bool   `json:"exists"`
	HasPassword bool   `json:"hasPassword,omitempty"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// AdminCredentialStore reads admin accounts.
type AdminCredentialStore interface {
	GetByNIP(ctx context.Context, nip string) (model.AdminUser, error)
}

// AuthService verifies presented credentials. It is a pure
// verification step: it mutates nothing, and every failure mode
// collapses into one ErrInvalidCredentials so the response never
// reveals whether the identifier was unknown or the password wrong.
type AuthService struct {
	Clients ClientCredentialStore
	Admins  AdminCredentialStore
}

func NewAuthService(clients ClientCredentialStore, admins AdminCredentialStore) *AuthService {
	return &AuthService{Clients: clients, Admins: admins}
}

// SignIn verifies (nip, password) against the credential table picked
// by mode and returns the session-ready user.
func (s *AuthService) SignIn(ctx context.Context, nip, password, mode string) (SessionUser, error) {
	switch mode {
	case ModeAdmin:
		u, err := s.Admins.GetByNIP(ctx, nip)
		if err != nil || u.PasswordHash == "" || !u.IsActive {
			return SessionUser{}, ErrInvalidCredentials
		}
		if !utils.VerifyPassword(u.PasswordHash, password) {
			return SessionUser{}, ErrInvalidCredentials
		}
		return SessionUser{NIP: u.NIP, Name: u.Username, Email: u.Email,
			Role: RoleAdmin, Username: u.Username}, nil
	default:
		u, err := s.Clients.GetByNIP(ctx, nip)
		if err != nil || u.PasswordHash == "" {
			return SessionUser{}, ErrInvalidCredentials
		}
		if !utils.VerifyPassword(u.PasswordHash, password) {
			return SessionUser{}, ErrInvalidCredentials
		}
		return SessionUser{NIP: u.NIP, Name: u.Name, Email: u.Email,
			Role: RoleClient, FirstLogin: u.FirstLogin}, nil
	}
}

// CheckStatus reports whether an account exists and whether it
// already has a password, so the login UI can branch between
// "set initial password" and "enter existing password". Every lookup
// failure, missing row or broken query alike, comes back as plain
// non-existence, never as an error.
func (s *AuthService) CheckStatus(ctx context.Context, nip, mode string) AccountStatus {
	switch mode {
	case ModeAdmin:
		u, err := s.Admins.GetByNIP(ctx, nip)
		if err != nil {
			return AccountStatus{Exists: false}
		}
		return AccountStatus{
			Exists:      true,
			HasPassword: u.PasswordHash != "",
			Name:        u.Username,
			Email:       u.Email,
		}
	default:
		u, err := s.Clients.GetByNIP(ctx, nip)
		if err != nil {
			return AccountStatus{Exists: false}
		}
		return AccountStatus{
			Exists:      true,
			HasPassword: u.PasswordHash != "",
			Name:        u.Name,
			Email:       u.Email,
		}
	}
}
