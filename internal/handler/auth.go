package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/arenax/arenax-api/internal/apperror"
	"github.com/arenax/arenax-api/internal/auth"
	"github.com/arenax/arenax-api/internal/service"
)

// AuthHandler exposes the account and session endpoints.
//
// OAUTH FLOW (SPA-driven):
//  1. GET /auth/{provider} returns the provider authorization URL; the SPA
//     redirects the browser there.
//  2. The provider redirects back to the frontend callback page with a code.
//  3. The page POSTs {code} to /auth/{provider}/callback; the server
//     exchanges it, reconciles the account and returns a token pair.
type AuthHandler struct {
	svc         *service.AuthService
	providers   map[string]auth.Provider // keyed by provider name; nil entry = unconfigured
	frontendURL string
	logger      *slog.Logger
	dev         bool
}

func NewAuthHandler(
	svc *service.AuthService,
	providers map[string]auth.Provider,
	frontendURL string,
	logger *slog.Logger,
	dev bool,
) *AuthHandler {
	return &AuthHandler{
		svc:         svc,
		providers:   providers,
		frontendURL: frontendURL,
		logger:      logger,
		dev:         dev,
	}
}

// HandleSignup creates a password account.
//
// HTTP: POST /auth/signup {username, email, password, fullName?}
// → 201 {user} | 400 | 409
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.Signup(r.Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		writeError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// HandleLogin authenticates email/password and returns a token pair.
//
// HTTP: POST /auth/login {email, password}
// → 200 {user, accessToken, refreshToken} | 401
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":         result.User,
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	})
}

// HandleRefresh trades a valid refresh token for a new access token. The
// refresh token is not rotated.
//
// HTTP: POST /auth/refresh {refreshToken} → 200 {accessToken} | 401
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "refreshToken is required"})
		return
	}

	accessToken, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"accessToken": accessToken})
}

// HandleLogout acknowledges a logout. Sessions are stateless JWTs with no
// server-side record, so there is nothing to invalidate — the client
// discards its tokens and they age out on their own.
//
// HTTP: POST /auth/logout → 200 {success: true}
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleOAuthURL returns the authorization URL for a provider.
//
// HTTP: GET /auth/github, GET /auth/google → 200 {url} | 500 unconfigured
func (h *AuthHandler) HandleOAuthURL(provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := h.providers[provider]
		if p == nil {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error: provider + " sign-in is not configured",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": p.AuthURL(xid.New().String())})
	}
}

// HandleOAuthCallback completes an OAuth login: exchanges the code, links or
// creates the local account, and returns a token pair.
//
// HTTP: POST /auth/github/callback, /auth/google/callback {code}
// → 200 {user, accessToken, refreshToken}
func (h *AuthHandler) HandleOAuthCallback(provider string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := h.providers[provider]
		if p == nil {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error: provider + " sign-in is not configured",
			})
			return
		}

		var req struct {
			Code string `json:"code"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Code == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "code is required"})
			return
		}

		profile, err := p.Exchange(r.Context(), req.Code)
		if err != nil {
			if errors.Is(err, auth.ErrEmailRequired) {
				writeError(w, apperror.ValidationFailed("email",
					"your "+provider+" account has no email address; an email is required"), h.dev)
				return
			}
			h.logger.Error("oauth exchange failed",
				slog.String("provider", provider),
				slog.String("error", err.Error()),
			)
			writeError(w, apperror.Upstream(provider, err), h.dev)
			return
		}

		result, err := h.svc.OAuthLogin(r.Context(), provider, profile)
		if err != nil {
			writeError(w, err, h.dev)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"user":         result.User,
			"accessToken":  result.AccessToken,
			"refreshToken": result.RefreshToken,
		})
	}
}

// HandleMe returns the authenticated user's profile.
//
// HTTP: GET /auth/me (bearer) → 200 {user}
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth; kept as a guard.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	user, err := h.svc.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err, h.dev)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// HandleUpdateProfile applies partial profile changes.
//
// HTTP: PUT /auth/profile (bearer) {username?, fullName?, email?, password?}
// → 200 {user} | 400 | 409
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req struct {
		Username *string `json:"username"`
		FullName *string `json:"fullName"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), userID, service.UpdateProfileInput{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err, h.dev)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// HandleForgotPassword starts a password reset. The response is identical
// whether or not the email belongs to an account.
//
// HTTP: POST /auth/forgot-password {email} → 200
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.svc.ForgotPassword(r.Context(), req.Email, h.frontendURL); err != nil {
		writeError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "If an account with that email exists, password reset instructions have been sent.",
	})
}

// HandleResetPassword completes a password reset with a valid reset token.
//
// HTTP: POST /auth/reset-password {token, password} → 200 | 401
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully."})
}
