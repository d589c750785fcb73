package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/texttube/internal/models"
	"github.com/desertthunder/texttube/internal/shared"
)

func TestVideoRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewVideoRepository(db)
			video := newVideo("", "Channel")

			if err := repo.Create(video); err == nil {
				t.Fatal("expected validation error for empty title")
			}
		})

		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			repo := NewVideoRepository(db)
			if err := repo.Create(newVideo("T", "C")); err == nil {
				t.Fatal("expected error on closed database")
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewVideoRepository(db)
			video := newVideo("T", "C")
			video.SetID("nonexistent-id")

			if err := repo.Update(video); !errors.Is(err, shared.ErrVideoNotFound) {
				t.Fatalf("Update() = %v, want ErrVideoNotFound", err)
			}
		})

		t.Run("Deleted", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewVideoRepository(db)
			video := newVideo("T", "C")
			createVideos(t, repo, video)
			if err := repo.Delete(video.ID()); err != nil {
				t.Fatalf("failed to delete video: %v", err)
			}

			if err := repo.Update(video); !errors.Is(err, shared.ErrVideoNotFound) {
				t.Fatalf("Update() = %v, want ErrVideoNotFound", err)
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("Twice", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewVideoRepository(db)
			video := newVideo("T", "C")
			createVideos(t, repo, video)

			if err := repo.Delete(video.ID()); err != nil {
				t.Fatalf("first delete failed: %v", err)
			}
			if err := repo.Delete(video.ID()); !errors.Is(err, shared.ErrVideoNotFound) {
				t.Fatalf("second Delete() = %v, want ErrVideoNotFound", err)
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			repo := NewVideoRepository(db)
			if _, err := repo.Search(models.VideoQuery{}); err == nil {
				t.Fatal("expected error on closed database")
			}
			if _, err := repo.Channels(); err == nil {
				t.Fatal("expected error on closed database")
			}
			if _, err := repo.Count(); err == nil {
				t.Fatal("expected error on closed database")
			}
		})
	})
}

func TestUserRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewUserRepository(db)
			user := models.NewUser(0, "", "Test User", "hash")

			if err := repo.Create(user); err == nil {
				t.Fatal("expected validation error for empty email")
			}
		})

		t.Run("DuplicateEmail", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewUserRepository(db)
			if err := repo.Create(models.NewUser(0, "test@example.com", "User One", "hash")); err != nil {
				t.Fatalf("failed to create first user: %v", err)
			}

			err := repo.Create(models.NewUser(0, "TEST@example.com", "User Two", "hash"))
			if !errors.Is(err, shared.ErrDuplicateEmail) {
				t.Fatalf("Create() = %v, want ErrDuplicateEmail", err)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewUserRepository(db)

			if _, err := repo.Get("nonexistent-id"); !errors.Is(err, shared.ErrUserNotFound) {
				t.Fatalf("Get() = %v, want ErrUserNotFound", err)
			}
			if _, err := repo.GetByEmail("nobody@example.com"); !errors.Is(err, shared.ErrUserNotFound) {
				t.Fatalf("GetByEmail() = %v, want ErrUserNotFound", err)
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewUserRepository(db)
			user := models.NewUser(0, "test@example.com", "Test User", "hash")
			user.SetID("nonexistent-id")

			if err := repo.Update(user); !errors.Is(err, shared.ErrUserNotFound) {
				t.Fatalf("Update() = %v, want ErrUserNotFound", err)
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewUserRepository(db)
			if err := repo.Delete("nonexistent-id"); !errors.Is(err, shared.ErrUserNotFound) {
				t.Fatalf("Delete() = %v, want ErrUserNotFound", err)
			}
		})
	})
}

func TestSessionRepositoryErrors(t *testing.T) {
	t.Run("UnknownUser", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		if err := repo.Create(models.NewSession("tok", "no-such-user", "", time.Hour)); err == nil {
			t.Fatal("expected foreign key error")
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		if err := repo.Create(models.NewSession("", "user", "", time.Hour)); err == nil {
			t.Fatal("expected validation error")
		}
	})
}
