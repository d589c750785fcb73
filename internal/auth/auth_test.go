package auth

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/desertthunder/texttube/internal/models"
	"github.com/desertthunder/texttube/internal/repositories"
	"github.com/desertthunder/texttube/internal/shared"
	tu "github.com/desertthunder/texttube/internal/testing"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *repositories.SessionRepository) {
	t.Helper()
	db := tu.MustOpenDB(t)
	sessions := repositories.NewSessionRepository(db)
	opts = append([]Option{WithBcryptCost(bcrypt.MinCost), WithLogger(log.New(io.Discard))}, opts...)
	return NewService(repositories.NewUserRepository(db), sessions, opts...), sessions
}

func TestTokens(t *testing.T) {
	a, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	b, _ := GenerateToken()
	if a == b {
		t.Error("expected distinct tokens")
	}
	if len(HashToken(a)) != 64 {
		t.Errorf("HashToken() length = %d, want 64", len(HashToken(a)))
	}
	if HashToken(a) != HashToken(a) || HashToken(a) == HashToken(b) {
		t.Error("HashToken should be deterministic and distinct per token")
	}
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !VerifyPassword("correct horse", hash) {
		t.Error("expected password to verify")
	}
	if VerifyPassword("wrong horse", hash) {
		t.Error("expected wrong password to fail")
	}
	if _, err := HashPassword("short", bcrypt.MinCost); err == nil {
		t.Error("expected error for short password")
	}
}

func TestService(t *testing.T) {
	t.Run("Login and Authenticate", func(t *testing.T) {
		svc, _ := newTestService(t)
		if _, err := svc.CreateUser("owner@example.com", "Owner", "password123"); err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}

		token, user, err := svc.Login("Owner@Example.com", "password123", "test")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if token == "" || user.Email() != "owner@example.com" {
			t.Fatalf("unexpected login result %q / %v", token, user)
		}

		got, err := svc.Authenticate(token)
		if err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
		if got.ID() != user.ID() {
			t.Errorf("Authenticate() user = %s, want %s", got.ID(), user.ID())
		}
	})

	t.Run("invalid credentials look the same", func(t *testing.T) {
		svc, _ := newTestService(t)
		if _, err := svc.CreateUser("owner@example.com", "", "password123"); err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}

		_, _, wrongPassword := svc.Login("owner@example.com", "nope-nope", "")
		_, _, wrongEmail := svc.Login("nobody@example.com", "password123", "")

		for _, err := range []error{wrongPassword, wrongEmail} {
			if !errors.Is(err, shared.ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
		}
		if wrongPassword.Error() != wrongEmail.Error() {
			t.Errorf("messages differ: %q vs %q", wrongPassword, wrongEmail)
		}
		if wrongEmail.Error() != "Invalid login credentials" {
			t.Errorf("message = %q", wrongEmail.Error())
		}
	})

	t.Run("Logout", func(t *testing.T) {
		svc, _ := newTestService(t)
		if _, err := svc.CreateUser("owner@example.com", "", "password123"); err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}
		token, _, err := svc.Login("owner@example.com", "password123", "")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		if err := svc.Logout(token); err != nil {
			t.Fatalf("Logout() error = %v", err)
		}
		if _, err := svc.Authenticate(token); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("Authenticate() after logout = %v, want ErrNotAuthenticated", err)
		}
		if err := svc.Logout(""); err != nil {
			t.Errorf("Logout(\"\") error = %v", err)
		}
	})

	t.Run("expired session", func(t *testing.T) {
		svc, sessions := newTestService(t)
		user, err := svc.CreateUser("owner@example.com", "", "password123")
		if err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}

		token := "expired-token"
		past := time.Now().Add(-time.Hour)
		session := models.RestoreSession(HashToken(token), user.ID(), "", past.Add(-time.Hour), past)
		if err := sessions.Create(session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		_, err = svc.Authenticate(token)
		if !errors.Is(err, shared.ErrNotAuthenticated) || !errors.Is(err, shared.ErrSessionExpired) {
			t.Errorf("Authenticate() = %v, want expired", err)
		}
		if _, err := sessions.Get(HashToken(token)); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expired session not removed: %v", err)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		svc, _ := newTestService(t)
		for _, token := range []string{"", "made-up"} {
			if _, err := svc.Authenticate(token); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("Authenticate(%q) = %v, want ErrNotAuthenticated", token, err)
			}
		}
	})

	t.Run("SetPassword", func(t *testing.T) {
		svc, _ := newTestService(t)
		if _, err := svc.CreateUser("owner@example.com", "", "password123"); err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}
		if err := svc.SetPassword("owner@example.com", "new-password"); err != nil {
			t.Fatalf("SetPassword() error = %v", err)
		}
		if _, _, err := svc.Login("owner@example.com", "password123", ""); !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("old password still works: %v", err)
		}
		if _, _, err := svc.Login("owner@example.com", "new-password", ""); err != nil {
			t.Errorf("new password rejected: %v", err)
		}
		if err := svc.SetPassword("nobody@example.com", "new-password"); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("SetPassword(unknown) = %v, want ErrUserNotFound", err)
		}
	})

	t.Run("CreateUser rejects weak password", func(t *testing.T) {
		svc, _ := newTestService(t)
		if _, err := svc.CreateUser("owner@example.com", "", "short"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("CreateUser() = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("WithSessionTTL", func(t *testing.T) {
		svc, _ := newTestService(t, WithSessionTTL(time.Minute), WithSessionTTL(0))
		if svc.TTL() != time.Minute {
			t.Errorf("TTL() = %v, want 1m", svc.TTL())
		}
	})
}

func TestThrottle(t *testing.T) {
	th := NewThrottle(0.001, 2)

	if !th.Allow("a") || !th.Allow("a") {
		t.Fatal("expected burst of two")
	}
	if th.Allow("a") {
		t.Error("third attempt should be throttled")
	}
	if !th.Allow("b") {
		t.Error("other clients are independent")
	}

	th.Reset("a")
	if !th.Allow("a") {
		t.Error("reset should restore the burst")
	}

	th.Sweep(time.Now().Add(time.Second))
	if th.Len() != 0 {
		t.Errorf("Len() after sweep = %d, want 0", th.Len())
	}

	unlimited := NewThrottle(0, 0)
	for range 10 {
		if !unlimited.Allow("x") {
			t.Fatal("non-positive rate should not throttle")
		}
	}
}
