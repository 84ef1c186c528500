package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/arenax/arenax-api/internal/apperror"
	"github.com/arenax/arenax-api/internal/model"
	"github.com/arenax/arenax-api/internal/repository"
)

// UserDB implements repository.UserRepository over the shared pool.
type UserDB struct {
	conn *sql.DB
}

// Users returns the user repository view of the database.
func (db *DB) Users() *UserDB {
	return &UserDB{conn: db.conn}
}

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

const userColumns = `id, username, email, full_name, password_hash,
	github_id, google_id, avatar_url, created_at, updated_at`

// Create inserts a new user, generating the id and timestamps. A UNIQUE
// violation on username, email or a provider id comes back as a conflict —
// concurrent OAuth callbacks for the same brand-new identity both pass the
// not-found check, and this constraint is what settles the race.
func (db *UserDB) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, full_name, password_hash,
			github_id, google_id, avatar_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		nullable(user.GitHubID),
		nullable(user.GoogleID),
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("username or email already in use")
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Username, err)
	}
	return nil
}

// Find resolves a user by the given query predicate. Each predicate maps to
// one WHERE clause, so all the OR-style lookups live here rather than being
// assembled by callers.
func (db *UserDB) Find(ctx context.Context, q repository.UserQuery) (*model.User, error) {
	var (
		where string
		args  []any
	)

	switch v := q.(type) {
	case repository.ByID:
		where = "id = ?"
		args = []any{v.ID}
	case repository.ByEmail:
		where = "email = ?"
		args = []any{v.Email}
	case repository.ByEmailOrUsername:
		where = "email = ? OR username = ?"
		args = []any{v.Email, v.Username}
	case repository.ByProviderOrEmail:
		col, err := providerColumn(v.Provider)
		if err != nil {
			return nil, err
		}
		// Provider id takes precedence: the ORDER BY ranks an exact
		// provider match above an email-only match when both rows exist.
		where = fmt.Sprintf("%s = ? OR email = ?", col)
		args = []any{v.ProviderID, v.Email}

		row := db.conn.QueryRowContext(ctx, fmt.Sprintf(
			`SELECT %s FROM users WHERE %s
			 ORDER BY CASE WHEN %s = ? THEN 0 ELSE 1 END LIMIT 1`,
			userColumns, where, col,
		), append(args, v.ProviderID)...)
		return scanUser(row)
	default:
		return nil, fmt.Errorf("sqlite: unsupported user query %T", q)
	}

	row := db.conn.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT %s FROM users WHERE %s LIMIT 1`, userColumns, where,
	), args...)
	return scanUser(row)
}

// Update writes all mutable fields of the user row. Uniqueness violations
// (renaming to a taken username, changing to a taken email) surface as
// conflicts.
func (db *UserDB) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, full_name = ?,
			password_hash = ?, github_id = ?, google_id = ?, avatar_url = ?,
			updated_at = ?
		 WHERE id = ?`,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		nullable(user.GitHubID),
		nullable(user.GoogleID),
		user.AvatarURL,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("username or email already in use")
		}
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("user", user.ID)
	}
	return nil
}

// UsernameExists reports whether any user holds the given username. Used by
// the OAuth username-disambiguation probe.
func (db *UserDB) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, username,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking username %q: %w", username, err)
	}
	return n > 0, nil
}

// Count returns the total number of registered users.
func (db *UserDB) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting users: %w", err)
	}
	return n, nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u                  model.User
		githubID, googleID sql.NullString
	)
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FullName,
		&u.PasswordHash,
		&githubID,
		&googleID,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found"}
		}
		return nil, fmt.Errorf("sqlite: scanning user: %w", err)
	}
	u.GitHubID = githubID.String
	u.GoogleID = googleID.String
	return &u, nil
}

func providerColumn(provider string) (string, error) {
	switch provider {
	case "github":
		return "github_id", nil
	case "google":
		return "google_id", nil
	default:
		return "", fmt.Errorf("sqlite: unknown provider %q", provider)
	}
}

// nullable maps "" to NULL so the partial UNIQUE indexes on provider ids
// ignore unlinked accounts.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isUniqueViolation detects SQLite UNIQUE constraint errors. The driver's
// error text is stable ("UNIQUE constraint failed: users.email"), which
// avoids depending on driver-internal error codes.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
