package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/arenax/arenax-api/internal/apperror"
	"github.com/arenax/arenax-api/internal/model"
	"github.com/arenax/arenax-api/internal/repository"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:): %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, users *UserDB, u *model.User) *model.User {
	t.Helper()
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seeding user %q: %v", u.Username, err)
	}
	return u
}

func TestUserCreate(t *testing.T) {
	users := newTestDB(t).Users()

	u := &model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		FullName:     "Alice Doe",
		PasswordHash: "$2a$04$fakehash",
	}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if u.ID == "" {
		t.Error("Create() did not assign an id")
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}

	got, err := users.Find(context.Background(), repository.ByID{ID: u.ID})
	if err != nil {
		t.Fatalf("Find(ByID) error = %v", err)
	}
	if got.Username != "alice" || got.Email != "alice@example.com" {
		t.Errorf("Find(ByID) = %+v, want the created user", got)
	}
	if got.GitHubID != "" || got.GoogleID != "" {
		t.Errorf("provider ids should be empty, got github=%q google=%q", got.GitHubID, got.GoogleID)
	}
}

func TestUserCreate_UniqueViolations(t *testing.T) {
	users := newTestDB(t).Users()
	ctx := context.Background()

	seedUser(t, users, &model.User{Username: "alice", Email: "alice@example.com", GitHubID: "gh-1"})

	tests := []struct {
		name string
		user *model.User
	}{
		{"duplicate username", &model.User{Username: "alice", Email: "other@example.com"}},
		{"duplicate email", &model.User{Username: "other", Email: "alice@example.com"}},
		{"duplicate github id", &model.User{Username: "third", Email: "third@example.com", GitHubID: "gh-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := users.Create(ctx, tt.user); !errors.Is(err, apperror.ErrConflict) {
				t.Errorf("Create() error = %v, want conflict", err)
			}
		})
	}
}

// Empty provider ids map to NULL, so any number of unlinked accounts may
// coexist despite the UNIQUE indexes.
func TestUserCreate_UnlinkedAccountsDontCollide(t *testing.T) {
	users := newTestDB(t).Users()

	seedUser(t, users, &model.User{Username: "alice", Email: "alice@example.com"})
	if err := users.Create(context.Background(), &model.User{Username: "bob", Email: "bob@example.com"}); err != nil {
		t.Fatalf("second unlinked account: %v", err)
	}
}

func TestUserFind(t *testing.T) {
	users := newTestDB(t).Users()
	ctx := context.Background()

	alice := seedUser(t, users, &model.User{Username: "alice", Email: "alice@example.com"})

	t.Run("ByEmail", func(t *testing.T) {
		got, err := users.Find(ctx, repository.ByEmail{Email: "alice@example.com"})
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if got.ID != alice.ID {
			t.Errorf("found %q, want %q", got.ID, alice.ID)
		}
	})

	t.Run("ByEmailOrUsername matches either side", func(t *testing.T) {
		got, err := users.Find(ctx, repository.ByEmailOrUsername{Email: "nobody@example.com", Username: "alice"})
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if got.ID != alice.ID {
			t.Errorf("found %q, want %q", got.ID, alice.ID)
		}
	})

	t.Run("miss is not found", func(t *testing.T) {
		_, err := users.Find(ctx, repository.ByEmail{Email: "nobody@example.com"})
		if !errors.Is(err, apperror.ErrNotFound) {
			t.Fatalf("Find() error = %v, want not found", err)
		}
	})
}

func TestUserFind_ProviderIDOutranksEmail(t *testing.T) {
	users := newTestDB(t).Users()
	ctx := context.Background()

	linked := seedUser(t, users, &model.User{Username: "linked", Email: "old@example.com", GitHubID: "gh-42"})
	emailOnly := seedUser(t, users, &model.User{Username: "emailonly", Email: "octo@example.com"})

	// Both rows match: gh-42 on the first, the email on the second. The
	// provider-id row must win regardless of insertion order.
	got, err := users.Find(ctx, repository.ByProviderOrEmail{
		Provider:   "github",
		ProviderID: "gh-42",
		Email:      "octo@example.com",
	})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got.ID != linked.ID {
		t.Errorf("found %q, want the provider-id match %q", got.Username, linked.Username)
	}

	// With no provider match, the email row is returned.
	got, err = users.Find(ctx, repository.ByProviderOrEmail{
		Provider:   "github",
		ProviderID: "gh-unknown",
		Email:      "octo@example.com",
	})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got.ID != emailOnly.ID {
		t.Errorf("found %q, want the email match %q", got.Username, emailOnly.Username)
	}
}

func TestUserFind_UnknownProvider(t *testing.T) {
	users := newTestDB(t).Users()

	_, err := users.Find(context.Background(), repository.ByProviderOrEmail{
		Provider: "myspace", ProviderID: "1", Email: "a@b.com",
	})
	if err == nil {
		t.Fatal("Find() with an unknown provider should fail")
	}
}

func TestUserUpdate(t *testing.T) {
	users := newTestDB(t).Users()
	ctx := context.Background()

	alice := seedUser(t, users, &model.User{Username: "alice", Email: "alice@example.com"})

	alice.FullName = "Alice Doe"
	alice.GoogleID = "g-123"
	if err := users.Update(ctx, alice); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := users.Find(ctx, repository.ByID{ID: alice.ID})
	if err != nil {
		t.Fatal(err)
	}
	if got.FullName != "Alice Doe" || got.GoogleID != "g-123" {
		t.Errorf("Update() not persisted: %+v", got)
	}
	if !got.UpdatedAt.After(got.CreatedAt) && !got.UpdatedAt.Equal(got.CreatedAt) {
		t.Errorf("UpdatedAt %v predates CreatedAt %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestUserUpdate_Conflict(t *testing.T) {
	users := newTestDB(t).Users()
	ctx := context.Background()

	seedUser(t, users, &model.User{Username: "alice", Email: "alice@example.com"})
	bob := seedUser(t, users, &model.User{Username: "bob", Email: "bob@example.com"})

	bob.Email = "alice@example.com"
	if err := users.Update(ctx, bob); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Update() to a taken email: got %v, want conflict", err)
	}
}

func TestUserUpdate_MissingRow(t *testing.T) {
	users := newTestDB(t).Users()

	err := users.Update(context.Background(), &model.User{ID: "no-such-id", Username: "ghost", Email: "ghost@example.com"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Update() on a missing row: got %v, want not found", err)
	}
}

func TestUsernameExists(t *testing.T) {
	users := newTestDB(t).Users()
	ctx := context.Background()

	seedUser(t, users, &model.User{Username: "alice", Email: "alice@example.com"})

	taken, err := users.UsernameExists(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if !taken {
		t.Error(`UsernameExists("alice") = false, want true`)
	}

	free, err := users.UsernameExists(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if free {
		t.Error(`UsernameExists("bob") = true, want false`)
	}
}

func TestUserCount(t *testing.T) {
	users := newTestDB(t).Users()
	ctx := context.Background()

	if n, _ := users.Count(ctx); n != 0 {
		t.Errorf("Count() on empty table = %d, want 0", n)
	}

	seedUser(t, users, &model.User{Username: "alice", Email: "alice@example.com"})
	seedUser(t, users, &model.User{Username: "bob", Email: "bob@example.com"})

	n, err := users.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}
