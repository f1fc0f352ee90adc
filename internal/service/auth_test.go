package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzurek/drumtrack/internal/model"
	"github.com/mzurek/drumtrack/internal/utils"
)

type fakeAdmins struct {
	users map[string]model.AdminUser
	err   error
}

func (f *fakeAdmins) GetByNIP(_ context.Context, nip string) (model.AdminUser, error) {
	if f.err != nil {
		return model.AdminUser{}, f.err
	}
	u, ok := f.users[nip]
	if !ok {
		return model.AdminUser{}, sql.ErrNoRows
	}
	return u, nil
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := utils.HashPassword(plain, bcryptTestCost)
	require.NoError(t, err)
	return h
}

func authFixture(t *testing.T) (*AuthService, *fakeClients, *fakeAdmins) {
	t.Helper()
	clients := newFakeClients()
	clients.users["1234567890"] = model.ClientUser{
		NIP:          "1234567890",
		Name:         "Elektrobud",
		Email:        "biuro@elektrobud.pl",
		PasswordHash: mustHash(t, "klient-haslo"),
	}
	clients.users["5556667778"] = model.ClientUser{
		NIP:        "5556667778",
		Name:       "Nowa Firma",
		FirstLogin: true, // provisioned, password never set
	}
	admins := &fakeAdmins{users: map[string]model.AdminUser{
		"9998887776": {
			NIP:          "9998887776",
			Username:     "mzurek",
			IsActive:     true,
			PasswordHash: mustHash(t, "admin-haslo"),
			Email:        "admin@bebny.pl",
		},
		"1112223334": {
			NIP:          "1112223334",
			Username:     "bylypracownik",
			IsActive:     false,
			PasswordHash: mustHash(t, "admin-haslo"),
		},
	}}
	return NewAuthService(clients, admins), clients, admins
}

func TestSignInClient(t *testing.T) {
	svc, _, _ := authFixture(t)

	u, err := svc.SignIn(context.Background(), "1234567890", "klient-haslo", ModeClient)
	require.NoError(t, err)
	assert.Equal(t, RoleClient, u.Role)
	assert.Equal(t, "Elektrobud", u.Name)
	assert.False(t, u.FirstLogin)
}

func TestSignInFailuresAreUniform(t *testing.T) {
	svc, _, _ := authFixture(t)
	ctx := context.Background()

	_, unknownErr := svc.SignIn(ctx, "0000000000", "cokolwiek", ModeClient)
	_, wrongErr := svc.SignIn(ctx, "1234567890", "zle-haslo", ModeClient)
	_, noPassErr := svc.SignIn(ctx, "5556667778", "cokolwiek", ModeClient)

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.ErrorIs(t, noPassErr, ErrInvalidCredentials)
	// Identical error values: nothing distinguishes the three causes.
	assert.Equal(t, unknownErr, wrongErr)
	assert.Equal(t, wrongErr, noPassErr)
}

func TestSignInAdmin(t *testing.T) {
	svc, _, _ := authFixture(t)

	u, err := svc.SignIn(context.Background(), "9998887776", "admin-haslo", ModeAdmin)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.Equal(t, "mzurek", u.Username)
}

func TestSignInInactiveAdmin(t *testing.T) {
	svc, _, _ := authFixture(t)

	_, err := svc.SignIn(context.Background(), "1112223334", "admin-haslo", ModeAdmin)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInModeSelectsTable(t *testing.T) {
	svc, _, _ := authFixture(t)

	// A client NIP presented in admin mode must not authenticate.
	_, err := svc.SignIn(context.Background(), "1234567890", "klient-haslo", ModeAdmin)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCheckStatus(t *testing.T) {
	svc, _, _ := authFixture(t)
	ctx := context.Background()

	st := svc.CheckStatus(ctx, "1234567890", ModeClient)
	assert.True(t, st.Exists)
	assert.True(t, st.HasPassword)
	assert.Equal(t, "Elektrobud", st.Name)

	st = svc.CheckStatus(ctx, "5556667778", ModeClient)
	assert.True(t, st.Exists)
	assert.False(t, st.HasPassword, "provisioned company without a password")

	st = svc.CheckStatus(ctx, "0000000000", ModeClient)
	assert.False(t, st.Exists)
	assert.False(t, st.HasPassword)

	st = svc.CheckStatus(ctx, "9998887776", ModeAdmin)
	assert.True(t, st.Exists)
	assert.True(t, st.HasPassword)
	assert.Equal(t, "mzurek", st.Name)
}

func TestCheckStatusSwallowsStoreErrors(t *testing.T) {
	clients := newFakeClients()
	clients.err = errors.New("connection refused")
	svc := NewAuthService(clients, &fakeAdmins{err: errors.New("connection refused")})

	st := svc.CheckStatus(context.Background(), "1234567890", ModeClient)
	assert.Equal(t, AccountStatus{Exists: false}, st)

	st = svc.CheckStatus(context.Background(), "9998887776", ModeAdmin)
	assert.Equal(t, AccountStatus{Exists: false}, st)
}
