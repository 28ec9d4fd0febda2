package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "unit-test-signing-secret-0123456789abcdef"

// newTestTokenService creates a TokenService with a fixed clock so expiry
// behavior can be tested without sleeping.
func newTestTokenService(ttl time.Duration, clock func() time.Time) *TokenService {
	s := NewTokenService(testSecret, ttl)
	if clock != nil {
		s.now = clock
	}
	return s
}

func TestIssueAndVerify_Roundtrip(t *testing.T) {
	s := newTestTokenService(30*time.Minute, nil)

	token, err := s.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("expected compact three-segment token, got %d segments", len(parts))
	}

	subject, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if subject != "alice" {
		t.Errorf("expected subject alice, got %s", subject)
	}
}

func TestVerify_Expired(t *testing.T) {
	now := time.Now()
	s := newTestTokenService(30*time.Minute, func() time.Time { return now })

	token, err := s.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Advance the clock past the 30-minute lifetime.
	s.now = func() time.Time { return now.Add(31 * time.Minute) }

	_, err = s.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_NotYetExpired(t *testing.T) {
	now := time.Now()
	s := newTestTokenService(30*time.Minute, func() time.Time { return now })

	token, err := s.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// One minute before expiry the token must still verify.
	s.now = func() time.Time { return now.Add(29 * time.Minute) }

	if _, err := s.Verify(token); err != nil {
		t.Errorf("expected token to still be valid, got %v", err)
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	s := newTestTokenService(30*time.Minute, nil)

	token, err := s.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Flip the last character of the signature segment.
	last := token[len(token)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'B'
	}
	tampered := token[:len(token)-1] + string(replacement)

	_, err = s.Verify(tampered)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := newTestTokenService(30*time.Minute, nil)
	verifier := NewTokenService("a-completely-different-secret-value-here", 30*time.Minute)

	token, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	s := newTestTokenService(30*time.Minute, nil)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two segments", "aaaa.bbbb"},
		{"four segments", "aaaa.bbbb.cccc.dddd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestVerify_UnsignedAlgorithmRejected(t *testing.T) {
	s := newTestTokenService(30*time.Minute, nil)

	// An alg=none token must never be accepted, regardless of claims.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing none-token: %v", err)
	}

	if _, err := s.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	s := newTestTokenService(30*time.Minute, nil)

	// A correctly signed token with no sub claim is structurally valid but
	// useless as an identity.
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	if _, err := s.Verify(signed); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("expected ErrInvalidPayload for missing subject, got %v", err)
	}
}

func TestVerify_MissingExpiry(t *testing.T) {
	s := newTestTokenService(30*time.Minute, nil)

	// Tokens without an exp claim never expire; they must be rejected.
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  "alice",
		IssuedAt: jwt.NewNumericDate(time.Now()),
	})
	signed, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	if _, err := s.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for missing exp, got %v", err)
	}
}

func TestVerify_UniformFailure(t *testing.T) {
	// An expired token and a forged token must be indistinguishable to
	// callers: both resolve to the same sentinel.
	now := time.Now()
	s := newTestTokenService(time.Minute, func() time.Time { return now })

	expired, err := s.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	s.now = func() time.Time { return now.Add(2 * time.Minute) }

	forger := NewTokenService("some-other-secret-the-attacker-guessed", time.Minute)
	forger.now = s.now
	forged, err := forger.Issue("alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, errExpired := s.Verify(expired)
	_, errForged := s.Verify(forged)

	if !errors.Is(errExpired, ErrInvalidToken) || !errors.Is(errForged, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for both, got expired=%v forged=%v", errExpired, errForged)
	}
}

func TestNewTokenService_EmptySecretPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty secret")
		}
	}()
	NewTokenService("", 30*time.Minute)
}
