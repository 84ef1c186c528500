// Package repository defines the storage interfaces consumed by the service
// layer. The sqlite subpackage provides the concrete implementation.
package repository

import (
	"context"

	"github.com/arenax/arenax-api/internal/model"
)

// UserQuery is a closed set of user lookup predicates. Expressing lookups as
// a sum type (rather than ad hoc query construction in callers) keeps every
// branch of the OR-style lookups explicit and individually testable.
type UserQuery interface {
	userQuery()
}

// ByID looks a user up by internal id.
type ByID struct{ ID string }

// ByEmail looks a user up by email.
type ByEmail struct{ Email string }

// ByEmailOrUsername matches a user holding either the email or the username.
// Used by signup to detect duplicates in one query.
type ByEmailOrUsername struct{ Email, Username string }

// ByProviderOrEmail matches a user by OAuth provider id first, falling back
// to email. Used by the OAuth callback to reconcile third-party identities:
// a returning linked account matches on provider id, an existing password
// account with the same email matches on email and gets the provider id
// backfilled.
type ByProviderOrEmail struct {
	Provider   string // "github" or "google"
	ProviderID string
	Email      string
}

func (ByID) userQuery()              {}
func (ByEmail) userQuery()           {}
func (ByEmailOrUsername) userQuery() {}
func (ByProviderOrEmail) userQuery() {}

// UserRepository is the user store. Find returns apperror.ErrNotFound (in
// the chain) when no row matches. Create and Update surface UNIQUE
// constraint violations as apperror.ErrConflict — that constraint is the
// safety net for concurrent OAuth account creation, so callers must be
// prepared for it.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Find(ctx context.Context, q UserQuery) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UsernameExists(ctx context.Context, username string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// ContactRepository stores contact-form submissions.
type ContactRepository interface {
	Create(ctx context.Context, msg *model.ContactMessage) error
}
