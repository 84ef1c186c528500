// Package auth provides JWT issuance/verification, password hashing, OAuth
// provider clients, and the bearer-token middleware.
//
// TOKEN LIFECYCLE OVERVIEW:
//  1. Login/signup/OAuth callback issues an access token (short-lived) and a
//     refresh token (long-lived). Both are stateless HS256 JWTs carrying the
//     user id in the "sub" claim.
//  2. API calls present the access token as "Authorization: Bearer <t>".
//  3. When the access token expires the middleware answers with a
//     machine-readable TOKEN_EXPIRED code; the client POSTs its refresh
//     token to /auth/refresh and receives a fresh access token.
//  4. The refresh token is NOT rotated on use — it remains valid until its
//     own expiry. There is no server-side revocation list, so a leaked
//     refresh token stays usable until it expires. Both are deliberate
//     simplicity trade-offs.
//
// Refresh (and password-reset) tokens carry a "type" claim. Access tokens
// carry none. Verification enforces the discriminator in both directions so
// an access token can never be replayed as a refresh token or vice versa.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "arenax"

// Token type discriminators stored in the "type" claim.
const (
	typeRefresh = "refresh"
	typeReset   = "reset"
)

// Verification failure kinds. ErrTokenExpired means the signature checked
// out but the expiry is in the past — the one case clients may recover from
// by refreshing. Everything else (bad signature, malformed input, wrong type
// claim) is ErrTokenInvalid.
var (
	ErrTokenExpired = errors.New("auth: token expired")
	ErrTokenInvalid = errors.New("auth: invalid token")
)

// TokenService mints and verifies the three token kinds.
//
// Access tokens are signed with the access secret; refresh and reset tokens
// with the refresh secret. The two secrets may be independent (recommended)
// or the refresh secret may be derived from the access secret when
// unconfigured — config.Load handles that fallback and flags it.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	resetTTL      time.Duration
}

// NewTokenService creates a TokenService. Both secrets must be at least 16
// characters; generate them with e.g. `openssl rand -hex 32`.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL, resetTTL time.Duration) (*TokenService, error) {
	if len(accessSecret) < 16 {
		return nil, errors.New("auth: access secret must be at least 16 characters")
	}
	if len(refreshSecret) < 16 {
		return nil, errors.New("auth: refresh secret must be at least 16 characters")
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		resetTTL:      resetTTL,
	}, nil
}

// claims is the JWT payload. Subject carries the internal user id; Type is
// empty for access tokens and set for refresh/reset tokens.
type claims struct {
	Type string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// IssueAccessToken signs a new access token for the given user.
// Issuance cannot fail under normal operation; a signing error is unexpected
// and treated as fatal by callers.
func (s *TokenService) IssueAccessToken(userID string) (string, error) {
	return s.sign(userID, "", s.accessSecret, s.accessTTL)
}

// IssueRefreshToken signs a new refresh token for the given user.
func (s *TokenService) IssueRefreshToken(userID string) (string, error) {
	return s.sign(userID, typeRefresh, s.refreshSecret, s.refreshTTL)
}

// IssueResetToken signs a short-lived password-reset token.
func (s *TokenService) IssueResetToken(userID string) (string, error) {
	return s.sign(userID, typeReset, s.refreshSecret, s.resetTTL)
}

func (s *TokenService) sign(userID, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken checks signature, expiry and issuer, and rejects any
// token carrying a type claim — a refresh or reset token presented where an
// access token is expected fails as invalid, not expired.
func (s *TokenService) VerifyAccessToken(tokenStr string) (string, error) {
	return s.verify(tokenStr, "", s.accessSecret)
}

// VerifyRefreshToken accepts only tokens whose type claim is exactly
// "refresh". An access token replayed against the refresh endpoint is
// rejected as invalid even though its signature verifies.
func (s *TokenService) VerifyRefreshToken(tokenStr string) (string, error) {
	return s.verify(tokenStr, typeRefresh, s.refreshSecret)
}

// VerifyResetToken accepts only password-reset tokens.
func (s *TokenService) VerifyResetToken(tokenStr string) (string, error) {
	return s.verify(tokenStr, typeReset, s.refreshSecret)
}

func (s *TokenService) verify(tokenStr, wantType string, secret []byte) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			// Reject anything not signed with HMAC; prevents algorithm
			// confusion (e.g. alg=none or an RSA public key as HMAC secret).
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", ErrTokenInvalid
	}
	if c.Type != wantType {
		return "", fmt.Errorf("%w: wrong token type", ErrTokenInvalid)
	}
	if c.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	return c.Subject, nil
}
