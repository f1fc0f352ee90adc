package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/mzurek/drumtrack/internal/model"
	"github.com/mzurek/drumtrack/internal/utils"
)

// SetupTokenTTL is how long an emailed setup link stays valid.
const SetupTokenTTL = 15 * time.Minute

// SetupConfirmation is the one message RequestSetup ever returns.
// Registered and unregistered NIPs must be indistinguishable from the
// outside, so there is exactly one success path visible to callers.
const SetupConfirmation = "Jeśli podany NIP jest zarejestrowany, wysłaliśmy wiadomość z linkiem do ustawienia hasła."

// CompanyGetter looks up a company by its NIP.
type CompanyGetter interface {
	GetByNIP(ctx context.Context, nip string) (model.Company, error)
}

// SetupTokenStore persists hashed setup tokens, one per NIP.
type SetupTokenStore interface {
	Upsert(ctx context.Context, nip, tokenHash string, expiresAt time.Time) error
	GetByHash(ctx context.Context, tokenHash string) (model.SetupToken, error)
	Delete(ctx context.Context, nip string) error
}

// ClientCredentialStore reads and replaces client credential records.
type ClientCredentialStore interface {
	GetByNIP(ctx context.Context, nip string) (model.ClientUser, error)
	Upsert(ctx context.Context, nip, passwordHash string) error
}

// SetupMailer delivers the setup link to a company's contact email.
type SetupMailer interface {
	SendSetupLink(to, companyName, link string) error
}

// PasswordService issues and redeems time-limited setup tokens. It
// covers both first-time password setup and forgotten-password reset;
// the two flows are intentionally the same code path.
type PasswordService struct {
	Companies   CompanyGetter
	Tokens      SetupTokenStore
	Credentials ClientCredentialStore
	Mailer      SetupMailer
	BaseURL     string // public frontend origin embedded in the link
	BcryptCost  int

	now func() time.Time // overridable in tests
}

func NewPasswordService(companies CompanyGetter, tokens SetupTokenStore,
	creds ClientCredentialStore, mailer SetupMailer, baseURL string, bcryptCost int) *PasswordService {
	return &PasswordService{
		Companies:   companies,
		Tokens:      tokens,
		Credentials: creds,
		Mailer:      mailer,
		BaseURL:     baseURL,
		BcryptCost:  bcryptCost,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// RequestSetup issues a setup token for the company registered under
// nip and emails the link. For an unknown NIP it does nothing and
// returns the exact same confirmation, so the endpoint cannot be used
// to enumerate registered identifiers. Only infrastructure failures
// (token store, mailer) produce an error.
func (s *PasswordService) RequestSetup(ctx context.Context, nip string) (string, error) {
	company, err := s.Companies.GetByNIP(ctx, nip)
	if errors.Is(err, sql.ErrNoRows) {
		return SetupConfirmation, nil
	}
	if err != nil {
		return "", err
	}

	raw, err := utils.NewSetupToken()
	if err != nil {
		return "", err
	}
	expires := s.now().Add(SetupTokenTTL)
	// Upsert keyed on NIP: a fresh request silently invalidates any
	// token still outstanding for this company.
	if err := s.Tokens.Upsert(ctx, company.NIP, utils.HashToken(raw), expires); err != nil {
		return "", err
	}

	link := s.BaseURL + "/ustaw-haslo?token=" + url.QueryEscape(raw)
	if err := s.Mailer.SendSetupLink(company.Email, company.Name, link); err != nil {
		return "", err
	}
	return SetupConfirmation, nil
}

// RedeemSetup consumes a setup token and installs the new password.
// The token is single-use: the row is deleted on success, and also
// when it is found expired, so a second presentation always fails
// with ErrInvalidToken. Expiry is strict `now > expires_at`, so a
// redemption at the boundary instant itself still succeeds.
func (s *PasswordService) RedeemSetup(ctx context.Context, token, password string) (model.ClientUser, error) {
	if utf8.RuneCountInString(password) < 6 {
		return model.ClientUser{}, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	row, err := s.Tokens.GetByHash(ctx, utils.HashToken(token))
	if errors.Is(err, sql.ErrNoRows) {
		return model.ClientUser{}, ErrInvalidToken
	}
	if err != nil {
		return model.ClientUser{}, err
	}
	if s.now().After(row.ExpiresAt) {
		_ = s.Tokens.Delete(ctx, row.NIP)
		return model.ClientUser{}, ErrExpiredToken
	}

	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return model.ClientUser{}, err
	}
	if err := s.Credentials.Upsert(ctx, row.NIP, hash); err != nil {
		return model.ClientUser{}, err
	}
	if err := s.Tokens.Delete(ctx, row.NIP); err != nil {
		return model.ClientUser{}, err
	}

	u, err := s.Credentials.GetByNIP(ctx, row.NIP)
	if err != nil {
		return model.ClientUser{}, err
	}
	u.PasswordHash = "" // sanitized for immediate session establishment
	return u, nil
}
