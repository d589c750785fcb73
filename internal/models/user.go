package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// User is an account allowed into the studio.
type User struct {
	base
	email        string
	name         string
	passwordHash string
}

// NewUser creates a user with a normalized email. passwordHash must already be hashed.
func NewUser(sequence int, email, name, passwordHash string) *User {
	return &User{
		base:         newBase(sequence),
		email:        NormalizeEmail(email),
		name:         strings.TrimSpace(name),
		passwordHash: passwordHash,
	}
}

// NormalizeEmail lowercases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) Email() string        { return u.email }
func (u *User) Name() string         { return u.name }
func (u *User) PasswordHash() string { return u.passwordHash }

func (u *User) SetEmail(email string)       { u.email = NormalizeEmail(email) }
func (u *User) SetName(name string)         { u.name = strings.TrimSpace(name) }
func (u *User) SetPasswordHash(hash string) { u.passwordHash = hash }

// DisplayName is the name when set, otherwise the email.
func (u *User) DisplayName() string {
	if u.name != "" {
		return u.name
	}
	return u.email
}

// Validate checks that the user has an ID, a parseable email, and a password hash.
func (u *User) Validate() error {
	if u.id == "" {
		return fmt.Errorf("user ID is required")
	}
	if u.email == "" {
		return fmt.Errorf("user email is required")
	}
	if _, err := mail.ParseAddress(u.email); err != nil {
		return fmt.Errorf("user email is invalid: %w", err)
	}
	if u.passwordHash == "" {
		return fmt.Errorf("user password hash is required")
	}
	return nil
}

// Session is a signed-in browser. Only the SHA-256 of the cookie token is kept.
type Session struct {
	tokenHash string
	userID    string
	userAgent string
	createdAt time.Time
	expiresAt time.Time
}

// NewSession creates a session that expires ttl from now.
func NewSession(tokenHash, userID, userAgent string, ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		tokenHash: tokenHash,
		userID:    userID,
		userAgent: userAgent,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
}

// RestoreSession rebuilds a session loaded from storage.
func RestoreSession(tokenHash, userID, userAgent string, createdAt, expiresAt time.Time) *Session {
	return &Session{
		tokenHash: tokenHash,
		userID:    userID,
		userAgent: userAgent,
		createdAt: createdAt,
		expiresAt: expiresAt,
	}
}

func (s *Session) TokenHash() string    { return s.tokenHash }
func (s *Session) UserID() string       { return s.userID }
func (s *Session) UserAgent() string    { return s.userAgent }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.expiresAt)
}

// Validate checks that the session references a user and a token.
func (s *Session) Validate() error {
	switch {
	case s.tokenHash == "":
		return fmt.Errorf("session token hash is required")
	case s.userID == "":
		return fmt.Errorf("session user ID is required")
	case !s.expiresAt.After(s.createdAt):
		return fmt.Errorf("session must expire after it is created")
	}
	return nil
}
