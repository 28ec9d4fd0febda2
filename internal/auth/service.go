package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/banterhq/banter/internal/apperror"
)

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository, the
// hasher, or the token service directly.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, input LoginInput) (token string, err error)
	Authorize(ctx context.Context, token string) (*User, error)
}

// RegisterInput is the validated input for creating a new user.
type RegisterInput struct {
	Username string
	Password string
}

// LoginInput is the validated input for authenticating a user.
type LoginInput struct {
	Username string
	Password string
}

// authService implements AuthService with argon2id hashing and signed
// stateless bearer tokens. It holds no mutable state of its own: user
// records live in the repository and the signing secret inside TokenService
// is read-only after startup, so concurrent requests need no locking.
type authService struct {
	repo   UserRepository
	tokens *TokenService

	// hashGate bounds concurrent argon2 computations. Hashing is
	// deliberately memory- and CPU-expensive, which makes an uncapped
	// flood of login attempts a cheap way to starve the process.
	hashGate chan struct{}

	// decoyHash is verified against when the username does not exist, so
	// the unknown-user and wrong-password paths cost the same.
	decoyHash string
}

// NewAuthService creates a new auth service. maxConcurrentHashes bounds how
// many password hashes may run at once (config HASH_MAX_CONCURRENT).
func NewAuthService(repo UserRepository, tokens *TokenService, maxConcurrentHashes int) AuthService {
	decoy, err := hashPassword("banter-decoy-credential")
	if err != nil {
		// rand.Read failing at startup means the host has no entropy;
		// nothing sensible can run in that state.
		panic(fmt.Sprintf("auth: computing decoy hash: %v", err))
	}
	return &authService{
		repo:      repo,
		tokens:    tokens,
		hashGate:  make(chan struct{}, maxConcurrentHashes),
		decoyHash: decoy,
	}
}

// Register creates a new user account. It checks username availability,
// hashes the password with argon2id, and persists the user. The existence
// pre-check keeps the common duplicate case cheap; the unique index on
// username settles any race, surfacing as the same conflict error.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	username := strings.TrimSpace(input.Username)

	// Check availability before doing expensive hashing.
	exists, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking username: %w", err))
	}
	if exists {
		return nil, apperror.NewConflict("username already taken")
	}

	hash, err := s.guardedHash(ctx, input.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			// Lost the race on the unique index.
			return nil, appErr
		}
		return nil, apperror.NewInternal(fmt.Errorf("creating user: %w", err))
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login authenticates a user by username and password and returns a signed
// bearer token. A missing user and a wrong password are indistinguishable
// to the caller: both return the same unauthorized error, and the missing-
// user path burns an argon2 verification against a decoy hash so response
// timing does not reveal which check failed.
func (s *authService) Login(ctx context.Context, input LoginInput) (string, error) {
	storedHash := s.decoyHash
	user, err := s.repo.FindByUsername(ctx, input.Username)
	switch {
	case err == nil:
		storedHash = user.PasswordHash
	case isNotFound(err):
		// Fall through with the decoy hash; the verify below fails.
	default:
		return "", apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	ok, err := s.guardedVerify(ctx, input.Password, storedHash)
	if err != nil {
		return "", err
	}
	if !ok || user == nil {
		return "", apperror.NewUnauthorized("invalid username or password")
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("issuing token: %w", err))
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return token, nil
}

// Authorize validates a bearer token and resolves it to a live identity.
// This is the single choke-point for every protected operation: chat,
// history, logging, and profile reads all pass through here before touching
// user-scoped data.
//
// A token that fails verification -- malformed, tampered, or expired --
// yields one uniform unauthorized error. A valid token whose subject no
// longer exists (account deleted after issuance) yields not-found.
func (s *authService) Authorize(ctx context.Context, token string) (*User, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		// Internal logs keep the real reason; the client never sees it.
		slog.Warn("token rejected", slog.Any("error", err))
		if errors.Is(err, ErrInvalidPayload) {
			return nil, apperror.NewUnauthorized("invalid token payload")
		}
		return nil, apperror.NewUnauthorized("invalid or expired token")
	}

	user, err := s.repo.FindByUsername(ctx, subject)
	if err != nil {
		if isNotFound(err) {
			return nil, apperror.NewNotFound("user not found")
		}
		return nil, apperror.NewInternal(fmt.Errorf("finding user: %w", err))
	}

	return user, nil
}

// --- Hash admission control ---

// acquireHashSlot blocks until a hash slot is free or the request context
// is cancelled. The gate is a plain buffered channel: capacity is the
// maximum number of argon2 computations allowed in flight.
func (s *authService) acquireHashSlot(ctx context.Context) error {
	select {
	case s.hashGate <- struct{}{}:
		return nil
	case <-ctx.Done():
		return apperror.NewInternal(fmt.Errorf("waiting for hash slot: %w", ctx.Err()))
	}
}

func (s *authService) releaseHashSlot() {
	<-s.hashGate
}

// guardedHash runs hashPassword under the admission gate.
func (s *authService) guardedHash(ctx context.Context, password string) (string, error) {
	if err := s.acquireHashSlot(ctx); err != nil {
		return "", err
	}
	defer s.releaseHashSlot()

	hash, err := hashPassword(password)
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}
	return hash, nil
}

// guardedVerify runs verifyPassword under the admission gate.
func (s *authService) guardedVerify(ctx context.Context, password, encodedHash string) (bool, error) {
	if err := s.acquireHashSlot(ctx); err != nil {
		return false, err
	}
	defer s.releaseHashSlot()

	return verifyPassword(password, encodedHash), nil
}

// isNotFound reports whether err is an apperror with a 404 code.
func isNotFound(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == 404
}
