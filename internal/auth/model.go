// Package auth handles user registration, login, and bearer-token
// authorization for Banter. It owns the password hasher, the token
// issuer/verifier, and the single authorization gate every protected
// route passes through.
package auth

import (
	"time"
)

// User represents a registered identity. The username is unique,
// case-sensitive, and immutable; the password hash is a self-contained
// argon2id verifier and is never exposed in JSON responses.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON responses.
	CreatedAt    time.Time `json:"created_at"`
}

// --- Request DTOs (bound from HTTP requests) ---

// RegisterRequest holds the credentials submitted on registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest holds the credentials submitted on login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// --- Response DTOs ---

// TokenResponse is returned on successful login. Mirrors the OAuth2
// password-grant response shape so off-the-shelf clients work unchanged.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// RegisteredResponse is returned on successful registration.
type RegisteredResponse struct {
	Message string     `json:"message"`
	User    PublicUser `json:"user"`
}

// PublicUser is the client-visible subset of a User.
type PublicUser struct {
	Username string `json:"username"`
}
