package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken indicates a malformed, tampered or wrongly signed token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates a token whose expiry has passed. The HTTP
	// boundary collapses it into the same 401 as ErrInvalidToken.
	ErrExpiredToken = errors.New("expired token")
)

// TokenManager issues and validates signed access tokens.
type TokenManager struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager. algorithm must be one of the
// HMAC family (HS256, HS384, HS512).
func NewTokenManager(secret, algorithm string, ttl time.Duration) (*TokenManager, error) {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("auth: unsupported signing algorithm %q", algorithm)
	}
	return &TokenManager{secret: []byte(secret), method: method, ttl: ttl}, nil
}

// TTL returns the configured access-token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs an access token with subject set to the user's email and
// expiry at now + TTL.
func (m *TokenManager) Issue(subject string) (string, error) {
	return m.IssueAt(subject, time.Now())
}

// IssueAt signs an access token as of the given instant. Split out so tests
// can exercise the expiry boundary without sleeping.
func (m *TokenManager) IssueAt(subject string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
}

// Decode verifies signature and expiry and returns the subject email.
func (m *TokenManager) Decode(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{m.method.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// verificationTokenBytes gives 256 bits of entropy, per capability-token
// guessing resistance requirements.
const verificationTokenBytes = 32

// NewVerificationToken returns a random, URL-safe, single-use token. It is an
// opaque capability compared by store lookup, not a signed claim.
func NewVerificationToken() (string, error) {
	buf := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: verification token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
