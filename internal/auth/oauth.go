package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// ErrEmailRequired is returned when a provider account exposes no usable
// email address. The email is the secondary reconciliation key for account
// linking, so the flow cannot proceed without one. Handlers map this to a
// user-facing validation error rather than an upstream failure.
var ErrEmailRequired = errors.New("auth: provider account has no email")

// Profile is the provider-neutral identity returned by an OAuth exchange.
// The auth service reconciles it against the local user store.
type Profile struct {
	ProviderID  string // provider's stable account id, as a string
	Login       string // provider username, if the provider has one
	DisplayName string
	Email       string
	AvatarURL   string
}

// Provider abstracts one OAuth identity provider (GitHub, Google). Both
// implementations share the same shape: build an authorization URL, then
// trade the callback code for a Profile.
type Provider interface {
	// Name identifies the provider ("github" or "google").
	Name() string
	// AuthURL returns the provider authorization URL for the given
	// anti-CSRF state value.
	AuthURL(state string) string
	// Exchange trades an authorization code for the account's profile.
	// It performs the token exchange and the profile fetch; nothing is
	// persisted, so a failure after the exchange needs no compensation —
	// the provider-side token is simply discarded.
	Exchange(ctx context.Context, code string) (*Profile, error)
}

// ---------------------------------------------------------------------------
// GitHub
// ---------------------------------------------------------------------------

// GitHubProvider implements Provider over GitHub's OAuth App flow.
//
// GitHub profiles frequently hide the email on /user (it is empty unless the
// user made it public), so Exchange falls back to /user/emails and picks the
// address flagged primary, else the first entry.
type GitHubProvider struct {
	config *oauth2.Config
	apiURL string // overridable in tests
}

// NewGitHubProvider creates a GitHubProvider. callbackURL must match the
// OAuth App's configured authorization callback URL exactly.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiURL: "https://api.github.com",
	}
}

func (p *GitHubProvider) Name() string { return "github" }

func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// githubUser is the slice of GitHub's /user response we need.
type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging GitHub code: %w", err)
	}

	// Config.Client attaches the bearer token to every request.
	client := p.config.Client(ctx, token)

	var ghUser githubUser
	if err := getJSON(ctx, client, p.apiURL+"/user", &ghUser); err != nil {
		return nil, fmt.Errorf("auth: fetching GitHub profile: %w", err)
	}
	if ghUser.ID == 0 {
		return nil, fmt.Errorf("auth: GitHub returned an invalid user (id = 0)")
	}

	email := ghUser.Email
	if email == "" {
		email, err = p.fetchPrimaryEmail(ctx, client)
		if err != nil {
			return nil, err
		}
	}
	if email == "" {
		return nil, ErrEmailRequired
	}

	return &Profile{
		ProviderID:  fmt.Sprintf("%d", ghUser.ID),
		Login:       ghUser.Login,
		DisplayName: ghUser.Name,
		Email:       email,
		AvatarURL:   ghUser.AvatarURL,
	}, nil
}

// fetchPrimaryEmail queries /user/emails and selects the primary entry,
// falling back to the first one. Returns "" when the list is empty.
func (p *GitHubProvider) fetchPrimaryEmail(ctx context.Context, client *http.Client) (string, error) {
	var emails []githubEmail
	if err := getJSON(ctx, client, p.apiURL+"/user/emails", &emails); err != nil {
		return "", fmt.Errorf("auth: fetching GitHub emails: %w", err)
	}
	if len(emails) == 0 {
		return "", nil
	}
	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}
	return emails[0].Email, nil
}

// ---------------------------------------------------------------------------
// Google
// ---------------------------------------------------------------------------

// GoogleProvider implements Provider over Google's OAuth flow using the
// userinfo endpoint. Google always returns the account email when the
// "userinfo.email" scope is granted, so no fallback lookup is needed.
type GoogleProvider struct {
	config      *oauth2.Config
	userinfoURL string // overridable in tests
}

func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.profile",
				"https://www.googleapis.com/auth/userinfo.email",
			},
			Endpoint: google.Endpoint,
		},
		userinfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type googleUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging Google code: %w", err)
	}

	client := p.config.Client(ctx, token)

	var gUser googleUser
	if err := getJSON(ctx, client, p.userinfoURL, &gUser); err != nil {
		return nil, fmt.Errorf("auth: fetching Google profile: %w", err)
	}
	if gUser.ID == "" {
		return nil, fmt.Errorf("auth: Google returned an invalid user (empty id)")
	}
	if gUser.Email == "" {
		return nil, ErrEmailRequired
	}

	return &Profile{
		ProviderID:  gUser.ID,
		DisplayName: gUser.Name,
		Email:       gUser.Email,
		AvatarURL:   gUser.Picture,
	}, nil
}

// getJSON performs a GET and decodes the JSON body, treating any non-200
// status as an error.
func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
