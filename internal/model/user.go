// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Accounts come from two places: email/password signup and OAuth (GitHub or
// Google). A password account has PasswordHash set; a pure-OAuth account has
// GitHubID and/or GoogleID set and an empty hash. At least one of the three
// is always present — the service layer enforces this on creation.
//
// Username and email are globally unique (UNIQUE constraints in the users
// table). The internal ID is an xid string so primary keys are never tied to
// a provider's numbering scheme.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName,omitempty"`
	PasswordHash string    `json:"-"` // never serialized
	GitHubID     string    `json:"-"` // provider ids stay internal
	GoogleID     string    `json:"-"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasPassword reports whether the account can authenticate with a password.
// Pure-OAuth accounts return false and must use their provider to sign in.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// ContactMessage is a message submitted through the contact form.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
