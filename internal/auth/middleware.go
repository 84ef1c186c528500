package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the values this middleware stores.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth enforces bearer-token authentication on protected routes.
//
// The three failure modes answer differently so the client can react:
//   - no Authorization header      → 401 {"error":"missing token"}
//   - expired (but genuine) token  → 401 {"error":"Token expired",
//     "code":"TOKEN_EXPIRED"} — the frontend keys on this code to run its
//     refresh-and-retry path without bouncing the user to the login page
//   - anything else                → 401 {"error":"invalid token"}
//
// On success the user id from the token's subject is stored in the request
// context for handlers to read via UserIDFromContext.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeAuthError(w, `{"error":"missing token"}`)
				return
			}

			userID, err := tokens.VerifyAccessToken(raw)
			if err != nil {
				if errors.Is(err, ErrTokenExpired) {
					writeAuthError(w, `{"error":"Token expired","code":"TOKEN_EXPIRED"}`)
					return
				}
				writeAuthError(w, `{"error":"invalid token"}`)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated user's id from the request
// context. Returns ("", false) when the request carried no valid token.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func writeAuthError(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(body))
}
