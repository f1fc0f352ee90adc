package utils // package utils provides helpers for session and setup-token handling

import (
	"crypto/rand"   // secure random generation for opaque tokens
	"crypto/sha256" // SHA-256 used to store only token digests
	"encoding/hex"  // hex encoding of random bytes and digests
	"time"          // expiry computation

	"github.com/golang-jwt/jwt/v5" // JWT library for signed session tokens
)

// AccessToken is a signed HS256 JWT plus its expiry. It is handed to
// the client after a successful sign-in or password redemption and
// presented in the Authorization header on protected routes.
type AccessToken struct {
	Token string    // serialized JWT
	Exp   time.Time // UTC expiration time
}

// NewAccessToken signs an HS256 JWT for the given identity. The
// subject claim carries the NIP and the role claim is either CLIENT
// or ADMIN; the role middleware gates route groups on it.
func NewAccessToken(secret, nip, role string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  nip,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewSetupToken returns a high-entropy opaque token for the password
// setup link. 32 random bytes encode to 64 hex characters. Only the
// SHA-256 digest of the returned value may ever be persisted.
func NewSetupToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashToken returns the SHA-256 hex digest of a raw opaque token.
// Storing only the digest keeps a leaked database from redeeming
// outstanding setup links.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
