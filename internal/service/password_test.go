package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzurek/drumtrack/internal/model"
	"github.com/mzurek/drumtrack/internal/utils"
)

// In-memory fakes for the narrow stores the services depend on.

type fakeCompanies struct {
	byNIP map[string]model.Company
	err   error
}

func (f *fakeCompanies) GetByNIP(_ context.Context, nip string) (model.Company, error) {
	if f.err != nil {
		return model.Company{}, f.err
	}
	c, ok := f.byNIP[nip]
	if !ok {
		return model.Company{}, sql.ErrNoRows
	}
	return c, nil
}

type fakeTokens struct {
	rows map[string]model.SetupToken // keyed by nip
}

func newFakeTokens() *fakeTokens { return &fakeTokens{rows: map[string]model.SetupToken{}} }

func (f *fakeTokens) Upsert(_ context.Context, nip, tokenHash string, expiresAt time.Time) error {
	f.rows[nip] = model.SetupToken{NIP: nip, TokenHash: tokenHash, ExpiresAt: expiresAt}
	return nil
}

func (f *fakeTokens) GetByHash(_ context.Context, tokenHash string) (model.SetupToken, error) {
	for _, row := range f.rows {
		if row.TokenHash == tokenHash {
			return row, nil
		}
	}
	return model.SetupToken{}, sql.ErrNoRows
}

func (f *fakeTokens) Delete(_ context.Context, nip string) error {
	delete(f.rows, nip)
	return nil
}

type fakeClients struct {
	users map[string]model.ClientUser
	err   error
}

func newFakeClients() *fakeClients { return &fakeClients{users: map[string]model.ClientUser{}} }

func (f *fakeClients) GetByNIP(_ context.Context, nip string) (model.ClientUser, error) {
	if f.err != nil {
		return model.ClientUser{}, f.err
	}
	u, ok := f.users[nip]
	if !ok {
		return model.ClientUser{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeClients) Upsert(_ context.Context, nip, passwordHash string) error {
	u := f.users[nip]
	u.NIP = nip
	u.PasswordHash = passwordHash
	u.FirstLogin = false
	f.users[nip] = u
	return nil
}

type fakeMailer struct {
	sent []string // links, in send order
	to   []string
	err  error
}

func (f *fakeMailer) SendSetupLink(to, _, link string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.sent = append(f.sent, link)
	return nil
}

func newPasswordService(companies *fakeCompanies, tokens *fakeTokens,
	clients *fakeClients, mailer *fakeMailer) *PasswordService {
	svc := NewPasswordService(companies, tokens, clients, mailer, "https://bebny.example.com", bcryptTestCost)
	return svc
}

// bcrypt's minimum cost keeps the hashing in these tests fast.
const bcryptTestCost = 4

func seededCompanies() *fakeCompanies {
	return &fakeCompanies{byNIP: map[string]model.Company{
		"1234567890": {NIP: "1234567890", Name: "Elektrobud", Email: "biuro@elektrobud.pl"},
	}}
}

// tokenFromLink pulls the raw token back out of the emailed URL.
func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	i := strings.Index(link, "token=")
	require.GreaterOrEqual(t, i, 0, "link carries no token: %s", link)
	return link[i+len("token="):]
}

func TestRequestSetupKnownAndUnknownNIPIndistinguishable(t *testing.T) {
	tokens := newFakeTokens()
	mailer := &fakeMailer{}
	svc := newPasswordService(seededCompanies(), tokens, newFakeClients(), mailer)

	known, err := svc.RequestSetup(context.Background(), "1234567890")
	require.NoError(t, err)
	unknown, err := svc.RequestSetup(context.Background(), "0000000000")
	require.NoError(t, err)

	assert.Equal(t, known, unknown)
	assert.Len(t, mailer.sent, 1, "only the registered NIP gets mail")
	assert.Equal(t, []string{"biuro@elektrobud.pl"}, mailer.to)
	assert.Empty(t, tokens.rows["0000000000"])
}

func TestRequestSetupStoresHashNotToken(t *testing.T) {
	tokens := newFakeTokens()
	mailer := &fakeMailer{}
	svc := newPasswordService(seededCompanies(), tokens, newFakeClients(), mailer)

	_, err := svc.RequestSetup(context.Background(), "1234567890")
	require.NoError(t, err)

	raw := tokenFromLink(t, mailer.sent[0])
	stored := tokens.rows["1234567890"]
	assert.NotEqual(t, raw, stored.TokenHash)
	assert.Equal(t, utils.HashToken(raw), stored.TokenHash)
}

func TestRequestSetupNewTokenInvalidatesOld(t *testing.T) {
	tokens := newFakeTokens()
	clients := newFakeClients()
	mailer := &fakeMailer{}
	svc := newPasswordService(seededCompanies(), tokens, clients, mailer)

	_, err := svc.RequestSetup(context.Background(), "1234567890")
	require.NoError(t, err)
	_, err = svc.RequestSetup(context.Background(), "1234567890")
	require.NoError(t, err)
	require.Len(t, mailer.sent, 2)
	require.Len(t, tokens.rows, 1, "one token row per NIP")

	first := tokenFromLink(t, mailer.sent[0])
	_, err = svc.RedeemSetup(context.Background(), first, "nowehaslo1")
	assert.ErrorIs(t, err, ErrInvalidToken)

	second := tokenFromLink(t, mailer.sent[1])
	_, err = svc.RedeemSetup(context.Background(), second, "nowehaslo1")
	assert.NoError(t, err)
}

func TestRequestSetupMailerFailureSurfaces(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	svc := newPasswordService(seededCompanies(), newFakeTokens(), newFakeClients(), mailer)

	_, err := svc.RequestSetup(context.Background(), "1234567890")
	assert.Error(t, err)
}

func TestRedeemSetupHappyPath(t *testing.T) {
	tokens := newFakeTokens()
	clients := newFakeClients()
	mailer := &fakeMailer{}
	svc := newPasswordService(seededCompanies(), tokens, clients, mailer)

	_, err := svc.RequestSetup(context.Background(), "1234567890")
	require.NoError(t, err)
	raw := tokenFromLink(t, mailer.sent[0])

	u, err := svc.RedeemSetup(context.Background(), raw, "tajnehaslo")
	require.NoError(t, err)
	assert.Equal(t, "1234567890", u.NIP)
	assert.Empty(t, u.PasswordHash, "hash never leaves the service")
	assert.False(t, u.FirstLogin)

	stored := clients.users["1234567890"]
	assert.True(t, utils.VerifyPassword(stored.PasswordHash, "tajnehaslo"))
	assert.Empty(t, tokens.rows, "token consumed on success")
}

func TestRedeemSetupSingleUse(t *testing.T) {
	tokens := newFakeTokens()
	mailer := &fakeMailer{}
	svc := newPasswordService(seededCompanies(), tokens, newFakeClients(), mailer)

	_, err := svc.RequestSetup(context.Background(), "1234567890")
	require.NoError(t, err)
	raw := tokenFromLink(t, mailer.sent[0])

	_, err = svc.RedeemSetup(context.Background(), raw, "tajnehaslo")
	require.NoError(t, err)
	_, err = svc.RedeemSetup(context.Background(), raw, "tajnehaslo")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRedeemSetupExpiry(t *testing.T) {
	tokens := newFakeTokens()
	mailer := &fakeMailer{}
	svc := newPasswordService(seededCompanies(), tokens, newFakeClients(), mailer)

	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	_, err := svc.RequestSetup(context.Background(), "1234567890")
	require.NoError(t, err)
	raw := tokenFromLink(t, mailer.sent[0])

	// Exactly at the boundary the token is still good, but do not
	// consume it here: probe one second past first.
	svc.now = func() time.Time { return issued.Add(SetupTokenTTL + time.Second) }
	_, err = svc.RedeemSetup(context.Background(), raw, "tajnehaslo")
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Empty(t, tokens.rows, "expired row is purged")

	// A fresh token redeemed at its exact expiry instant succeeds.
	svc.now = func() time.Time { return issued }
	_, err = svc.RequestSetup(context.Background(), "1234567890")
	require.NoError(t, err)
	raw = tokenFromLink(t, mailer.sent[1])
	svc.now = func() time.Time { return issued.Add(SetupTokenTTL) }
	_, err = svc.RedeemSetup(context.Background(), raw, "tajnehaslo")
	assert.NoError(t, err)
}

func TestRedeemSetupShortPassword(t *testing.T) {
	svc := newPasswordService(seededCompanies(), newFakeTokens(), newFakeClients(), &fakeMailer{})

	_, err := svc.RedeemSetup(context.Background(), "whatever", "abc")
	assert.ErrorIs(t, err, ErrValidation)

	// Length is counted in characters, not bytes: five Polish letters
	// take nine bytes yet still fail the minimum.
	_, err = svc.RedeemSetup(context.Background(), "whatever", "żółć1")
	assert.ErrorIs(t, err, ErrValidation)

	// Six characters pass validation regardless of byte length; the
	// unknown token is then the failure, not the password.
	_, err = svc.RedeemSetup(context.Background(), "whatever", "żółwik")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRedeemSetupUnknownToken(t *testing.T) {
	svc := newPasswordService(seededCompanies(), newFakeTokens(), newFakeClients(), &fakeMailer{})

	_, err := svc.RedeemSetup(context.Background(), "deadbeef", "tajnehaslo")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
