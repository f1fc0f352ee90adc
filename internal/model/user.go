package model

import "time"

// ClientUser mirrors the `client_users` table: the credential record
// of a company, one-to-one with `companies` via NIP. The row is
// created lazily on the first successful password setup, never on
// provisioning. PasswordHash is excluded from JSON so the struct can
// be returned by handlers after sanitization.
//
// Fields:
//  NIP          – primary key, references companies.nip.
//  PasswordHash – bcrypt hash; empty until first-time setup completes.
//  FirstLogin   – true until the initial password has been set.
//  LastLoginAt  – bookkeeping timestamp, not part of the auth path.
//  Name, Email  – joined in from the owning company row for display.
type ClientUser struct {
	NIP          string     `json:"nip"`           // client_users.nip
	PasswordHash string     `json:"-"`             // client_users.password_hash
	FirstLogin   bool       `json:"first_login"`   // client_users.first_login
	LastLoginAt  *time.Time `json:"last_login_at"` // client_users.last_login_at (nullable)
	Name         string     `json:"name"`          // companies.name (joined)
	Email        string     `json:"email"`         // companies.email (joined)
}

// AdminUser mirrors the `admin_users` table. Admins are standalone
// identities keyed by an NIP-like identifier and are not linked to a
// Company. PasswordHash may be empty when the account was provisioned
// but the password was never set.
type AdminUser struct {
	NIP          string     `json:"nip"`           // admin_users.nip
	Username     string     `json:"username"`      // admin_users.username
	Role         string     `json:"role"`          // admin_users.role
	IsActive     bool       `json:"is_active"`     // admin_users.is_active
	PasswordHash string     `json:"-"`             // admin_users.password_hash (nullable)
	Email        string     `json:"email"`         // admin_users.email
	LastLoginAt  *time.Time `json:"last_login_at"` // admin_users.last_login_at (nullable)
}

// SetupToken models a row of `password_setup_tokens`. Only the
// SHA-256 hash of the opaque token is persisted; the raw value lives
// exclusively in the emailed link. NIP is the primary key, so issuing
// a new token for a company silently replaces the previous one.
type SetupToken struct {
	NIP       string    // password_setup_tokens.nip
	TokenHash string    // password_setup_tokens.token_hash
	ExpiresAt time.Time // password_setup_tokens.expires_at
	CreatedAt time.Time // password_setup_tokens.created_at
}
