package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors for token verification. Callers must not forward the
// distinction between expiry, bad signature, and malformed structure to
// clients -- all three surface as ErrInvalidToken so a caller probing the
// API cannot tell a forged token from a stale one. ErrInvalidPayload covers
// the one structurally distinct case: a correctly signed token whose
// subject claim is missing.
var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrInvalidPayload = errors.New("invalid token payload")
)

// TokenService issues and verifies signed bearer tokens. The signing secret
// is fixed at construction and read-only afterwards, so a single instance is
// safe for concurrent use by all requests.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service with the given HMAC secret and
// token lifetime. Config validation has already guaranteed a usable secret;
// an empty one here is a programming error.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if secret == "" {
		panic("auth: token service constructed without a signing secret")
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed HS256 token for the given subject, valid from now
// until now+ttl. The output is the standard compact three-segment form:
// base64url(header).base64url(claims).base64url(signature).
func (s *TokenService) Issue(subject string) (string, error) {
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a token, returning its subject. Structural,
// signature, and expiry failures all collapse into ErrInvalidToken; the
// underlying cause is preserved via wrapping for internal logs only. A
// valid token with an empty subject fails with ErrInvalidPayload.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w (%v)", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidPayload
	}

	return claims.Subject, nil
}
