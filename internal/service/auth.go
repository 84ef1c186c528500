// Package service contains the business logic layer: validation, account
// rules and token orchestration, kept away from HTTP concerns.
//
//	Handler (HTTP) → AuthService (rules) → UserRepository (DB)
//	              ↘ TokenService (JWT) / PasswordService (bcrypt)
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/arenax/arenax-api/internal/apperror"
	"github.com/arenax/arenax-api/internal/auth"
	"github.com/arenax/arenax-api/internal/model"
	"github.com/arenax/arenax-api/internal/repository"
)

const (
	MinPasswordLength = 6
	MaxUsernameLength = 40

	// maxUsernameAttempts bounds the sequential username-disambiguation
	// probe during OAuth account creation. The probe is O(n) against the
	// taken prefix ("bob", "bob1", "bob2", ...), fine at this user-table
	// scale; the cap turns a pathological prefix into a clean conflict
	// instead of an unbounded loop.
	maxUsernameAttempts = 100
)

// AuthService handles accounts, credentials and the token lifecycle.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles a user with a freshly issued token pair.
type AuthResult struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

// SignupInput is the payload for password-based account creation.
type SignupInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// Signup validates the input, checks for duplicates and creates a password
// account. The duplicate check and the INSERT are not atomic — the UNIQUE
// constraints settle any race, surfacing as a conflict either way.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)

	if in.Username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(in.Username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username", fmt.Sprintf("username must be at most %d characters", MaxUsernameLength))
	}
	if !validEmail(in.Email) {
		return nil, apperror.ValidationFailed("email", "a valid email is required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	existing, err := s.users.Find(ctx, repository.ByEmailOrUsername{Email: in.Email, Username: in.Username})
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking for existing user: %w", err)
	}
	if existing != nil {
		return nil, apperror.Conflict("user with email or username already exists")
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user %s: %w", in.Username, err)
	}

	s.logger.Info("user signed up",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

// Login authenticates an email/password pair and issues a token pair.
// Every failure path returns the same invalid-credentials error: an unknown
// email, a pure-OAuth account without a password, and a wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("", "email and password are required")
	}

	invalidCredentials := apperror.Unauthorized("invalid credentials")

	user, err := s.users.Find(ctx, repository.ByEmail{Email: email})
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, invalidCredentials
		}
		return nil, fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}
	if !user.HasPassword() {
		return nil, invalidCredentials
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, invalidCredentials
	}

	return s.issueTokens(user)
}

// Refresh verifies a refresh token and mints a new access token for its
// subject. The refresh token itself is not rotated — it stays valid until
// its own expiry. Any verification failure maps to one uniform error so the
// response doesn't leak which check rejected the token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", apperror.Unauthorized("invalid or expired refresh token")
	}

	accessToken, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing access token: %w", err)
	}
	return accessToken, nil
}

// OAuthLogin reconciles a provider profile with the local user store and
// issues a token pair.
//
// Lookup is by provider id OR email, provider id winning when both match
// different aspects of the same row set. A found user gets the provider id
// and avatar backfilled only where currently unset — an account that linked
// a different avatar keeps it. A miss creates a fresh account with a
// disambiguated username; if a concurrent callback wins the INSERT race the
// unique constraint turns this into a retryable conflict.
func (s *AuthService) OAuthLogin(ctx context.Context, provider string, profile *auth.Profile) (*AuthResult, error) {
	if profile == nil {
		return nil, fmt.Errorf("service/auth: profile must not be nil")
	}
	if profile.Email == "" {
		return nil, apperror.ValidationFailed("email", "an email address is required to sign in")
	}
	email := strings.ToLower(profile.Email)

	user, err := s.users.Find(ctx, repository.ByProviderOrEmail{
		Provider:   provider,
		ProviderID: profile.ProviderID,
		Email:      email,
	})
	switch {
	case err == nil:
		if changed := s.backfill(user, provider, profile); changed {
			if err := s.users.Update(ctx, user); err != nil {
				return nil, fmt.Errorf("service/auth: linking %s account: %w", provider, err)
			}
		}
	case errors.Is(err, apperror.ErrNotFound):
		user, err = s.createFromProfile(ctx, provider, email, profile)
		if err != nil {
			if errors.Is(err, apperror.ErrConflict) {
				return nil, apperror.Conflict("account conflict, please retry")
			}
			return nil, err
		}
	default:
		return nil, fmt.Errorf("service/auth: reconciling %s identity: %w", provider, err)
	}

	s.logger.Info("user authenticated via OAuth",
		slog.String("provider", provider),
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return s.issueTokens(user)
}

// backfill copies the provider id and avatar onto the user where those
// fields are unset, reporting whether anything changed. Existing values are
// never overwritten.
func (s *AuthService) backfill(user *model.User, provider string, profile *auth.Profile) bool {
	changed := false
	switch provider {
	case "github":
		if user.GitHubID == "" {
			user.GitHubID = profile.ProviderID
			changed = true
		}
	case "google":
		if user.GoogleID == "" {
			user.GoogleID = profile.ProviderID
			changed = true
		}
	}
	if user.AvatarURL == "" && profile.AvatarURL != "" {
		user.AvatarURL = profile.AvatarURL
		changed = true
	}
	return changed
}

func (s *AuthService) createFromProfile(ctx context.Context, provider, email string, profile *auth.Profile) (*model.User, error) {
	username, err := s.availableUsername(ctx, usernameCandidate(profile, email))
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:  username,
		Email:     email,
		FullName:  profile.DisplayName,
		AvatarURL: profile.AvatarURL,
	}
	switch provider {
	case "github":
		user.GitHubID = profile.ProviderID
	case "google":
		user.GoogleID = profile.ProviderID
	default:
		return nil, fmt.Errorf("service/auth: unknown provider %q", provider)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// availableUsername probes base, base1, base2, ... until a free username is
// found. Deterministic: given existing {"bob", "bob1"}, a new "bob"
// candidate becomes "bob2". Gives up with a conflict after
// maxUsernameAttempts probes.
func (s *AuthService) availableUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 0; i <= maxUsernameAttempts; i++ {
		if i > 0 {
			candidate = fmt.Sprintf("%s%d", base, i)
		}
		taken, err := s.users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("service/auth: probing username %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", apperror.Conflict(fmt.Sprintf("could not find a free username for %q", base))
}

// GetUserByID returns the user for the given internal id. Used by /auth/me
// after the middleware has validated the access token.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/auth: user id must not be empty")
	}
	user, err := s.users.Find(ctx, repository.ByID{ID: id})
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}
	return user, nil
}

// UpdateProfileInput carries the optional profile changes. Nil pointers mean
// "leave unchanged"; empty strings are validated per field.
type UpdateProfileInput struct {
	Username *string
	FullName *string
	Email    *string
	Password *string
}

// UpdateProfile applies the requested changes with per-field uniqueness
// checks. A new password is re-hashed; other credentials are untouched.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*model.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, apperror.ValidationFailed("username", "username cannot be empty")
		}
		if username != user.Username {
			taken, err := s.users.UsernameExists(ctx, username)
			if err != nil {
				return nil, fmt.Errorf("service/auth: checking username: %w", err)
			}
			if taken {
				return nil, apperror.Conflict("username already in use")
			}
			user.Username = username
		}
	}

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if !validEmail(email) {
			return nil, apperror.ValidationFailed("email", "a valid email is required")
		}
		if email != user.Email {
			other, err := s.users.Find(ctx, repository.ByEmail{Email: email})
			if err != nil && !errors.Is(err, apperror.ErrNotFound) {
				return nil, fmt.Errorf("service/auth: checking email: %w", err)
			}
			if other != nil && other.ID != user.ID {
				return nil, apperror.Conflict("email already in use")
			}
			user.Email = email
		}
	}

	if in.FullName != nil {
		user.FullName = strings.TrimSpace(*in.FullName)
	}

	if in.Password != nil {
		if len(*in.Password) < MinPasswordLength {
			return nil, apperror.ValidationFailed("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
		}
		hash, err := s.passwords.Hash(*in.Password)
		if err != nil {
			return nil, apperror.ValidationFailed("password", err.Error())
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: updating profile %s: %w", userID, err)
	}
	return user, nil
}

// ForgotPassword issues a password-reset token for the account holding the
// given email, if one exists. It returns an empty token (and no error) for
// unknown emails so the endpoint can't be used to enumerate accounts. The
// reset link is logged in place of an outbound mailer.
func (s *AuthService) ForgotPassword(ctx context.Context, email, frontendURL string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return "", apperror.ValidationFailed("email", "a valid email is required")
	}

	user, err := s.users.Find(ctx, repository.ByEmail{Email: email})
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}

	token, err := s.tokens.IssueResetToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing reset token: %w", err)
	}

	s.logger.Info("password reset requested",
		slog.String("userID", user.ID),
		slog.String("resetLink", fmt.Sprintf("%s/reset-password?token=%s", frontendURL, token)),
	)
	return token, nil
}

// ResetPassword verifies a reset token and replaces the account password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokens.VerifyResetToken(token)
	if err != nil {
		return apperror.Unauthorized("invalid or expired reset token")
	}
	if len(newPassword) < MinPasswordLength {
		return apperror.ValidationFailed("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return apperror.ValidationFailed("password", err.Error())
	}
	user.PasswordHash = hash

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("service/auth: resetting password for %s: %w", userID, err)
	}

	s.logger.Info("password reset completed", slog.String("userID", userID))
	return nil
}

// Count returns the number of registered users, for the public stats
// endpoint.
func (s *AuthService) Count(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

func (s *AuthService) issueTokens(user *model.User) (*AuthResult, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing access token for %s: %w", user.ID, err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing refresh token for %s: %w", user.ID, err)
	}
	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// usernameCandidate derives a username from the provider profile: the
// provider login when present, else the display name squeezed to
// alphanumerics, else the email's local part.
func usernameCandidate(profile *auth.Profile, email string) string {
	if profile.Login != "" {
		return strings.ToLower(profile.Login)
	}
	if profile.DisplayName != "" {
		var b strings.Builder
		for _, r := range strings.ToLower(profile.DisplayName) {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	local, _, _ := strings.Cut(email, "@")
	return strings.ToLower(local)
}

// validEmail is a deliberately loose check — the definitive validation is
// delivery, which is out of scope. It rejects obvious garbage only.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
