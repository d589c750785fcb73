package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/desertthunder/texttube/internal/models"
	"github.com/desertthunder/texttube/internal/shared"
)

// DefaultSessionTTL is used when no TTL is configured.
const DefaultSessionTTL = 7 * 24 * time.Hour

// UserStore is the part of the user repository auth needs.
type UserStore interface {
	Create(user *models.User) error
	Get(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
}

// SessionStore persists sessions by token hash.
type SessionStore interface {
	Create(session *models.Session) error
	Get(tokenHash string) (*models.Session, error)
	Delete(tokenHash string) error
	DeleteExpired(now time.Time) (int64, error)
}

// Service handles owner accounts and login sessions.
type Service struct {
	users    UserStore
	sessions SessionStore
	ttl      time.Duration
	cost     int
	logger   *log.Logger

	dummyOnce sync.Once
	dummyHash string
}

// Option configures a [Service].
type Option func(*Service)

// WithSessionTTL sets how long sessions last. Non-positive values are ignored.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithBcryptCost sets the bcrypt cost for new hashes.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// WithLogger sets the service logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates an auth service over the given stores.
func NewService(users UserStore, sessions SessionStore, opts ...Option) *Service {
	s := &Service{
		users:    users,
		sessions: sessions,
		ttl:      DefaultSessionTTL,
		cost:     bcrypt.DefaultCost,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL is the lifetime of new sessions.
func (s *Service) TTL() time.Duration { return s.ttl }

// CreateUser registers an account with a hashed password.
func (s *Service) CreateUser(email, name, password string) (*models.User, error) {
	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	user := models.NewUser(0, email, name, hash)
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", "id", user.ID(), "email", user.Email())
	return user, nil
}

// SetPassword replaces the password of the account with email.
func (s *Service) SetPassword(email, password string) error {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}

	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	user.SetPasswordHash(hash)
	return s.users.Update(user)
}

// Login verifies credentials and starts a session. It returns the raw token for the cookie.
func (s *Service) Login(email, password, userAgent string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(email)
	if errors.Is(err, shared.ErrUserNotFound) {
		// Keep timing close to the wrong-password path.
		VerifyPassword(password, s.fallbackHash())
		return "", nil, shared.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !VerifyPassword(password, user.PasswordHash()) {
		return "", nil, shared.ErrInvalidCredentials
	}

	token, err := GenerateToken()
	if err != nil {
		return "", nil, err
	}

	session := models.NewSession(HashToken(token), user.ID(), userAgent, s.ttl)
	if err := s.sessions.Create(session); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("owner signed in", "user", user.ID())
	return token, user, nil
}

// Logout ends the session for token. Unknown tokens are ignored.
func (s *Service) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(HashToken(token))
}

// Authenticate returns the user behind a session token.
//
// Unknown, expired, and orphaned sessions all yield [shared.ErrNotAuthenticated]; expired ones are removed.
func (s *Service) Authenticate(token string) (*models.User, error) {
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	hash := HashToken(token)
	session, err := s.sessions.Get(hash)
	if errors.Is(err, shared.ErrSessionNotFound) {
		return nil, shared.ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.Expired(time.Now()) {
		if err := s.sessions.Delete(hash); err != nil {
			s.logger.Warn("failed to remove expired session", "error", err)
		}
		return nil, fmt.Errorf("%w: %w", shared.ErrNotAuthenticated, shared.ErrSessionExpired)
	}

	user, err := s.users.Get(session.UserID())
	if errors.Is(err, shared.ErrUserNotFound) {
		return nil, shared.ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return user, nil
}

// PurgeExpired deletes sessions past their expiry.
func (s *Service) PurgeExpired() (int64, error) {
	return s.sessions.DeleteExpired(time.Now())
}

func (s *Service) fallbackHash() string {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("texttube-unused-password"), s.cost)
		if err == nil {
			s.dummyHash = string(hash)
		}
	})
	return s.dummyHash
}
