package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/campusshare/campusshare/internal/config"
	"github.com/campusshare/campusshare/internal/ctxkeys"
	"github.com/campusshare/campusshare/internal/service"
	"github.com/campusshare/campusshare/internal/ui"
	"github.com/campusshare/campusshare/internal/ui/pages"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const oauthStateCookie = "oauth_state"

const (
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
	githubUserURL      = "https://api.github.com/user"
	githubUserEmailURL = "https://api.github.com/user/emails"
)

var errNoEmail = errors.New("identity provider returned no email")

// oauthProvider is one identity provider: its OAuth2 config and how to read
// the signed-in account's email once a token is issued.
type oauthProvider struct {
	name       string
	config     *oauth2.Config
	fetchEmail func(ctx context.Context, client *http.Client) (string, error)
}

type AuthHandler struct {
	authService    *service.AuthService
	profileService *service.ProfileService
	google         *oauthProvider
	github         *oauthProvider
	timeout        time.Duration
}

func NewAuthHandler(authService *service.AuthService, profileService *service.ProfileService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
		google: &oauthProvider{
			name: "google",
			config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  cfg.AppURL + "/auth/google/callback",
				Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
				Endpoint:     google.Endpoint,
			},
			fetchEmail: googleEmail(googleUserInfoURL),
		},
		github: &oauthProvider{
			name: "github",
			config: &oauth2.Config{
				ClientID:     cfg.GitHubClientID,
				ClientSecret: cfg.GitHubClientSecret,
				RedirectURL:  cfg.AppURL + "/auth/github/callback",
				Scopes:       []string{"user:email"},
				Endpoint:     github.Endpoint,
			},
			fetchEmail: githubEmail(githubUserURL, githubUserEmailURL),
		},
		timeout: 15 * time.Second,
	}
}

func (h *AuthHandler) AuthPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Auth(pages.NewView(r.Context(), "Sign in"), pages.AuthData{}))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GoogleAuth redirects user to Google OAuth consent screen
func (h *AuthHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	h.begin(w, r, h.google)
}

// GoogleCallback handles the OAuth callback from Google
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	h.callback(w, r, h.google)
}

// GitHubAuth redirects user to GitHub OAuth consent screen
func (h *AuthHandler) GitHubAuth(w http.ResponseWriter, r *http.Request) {
	h.begin(w, r, h.github)
}

// GitHubCallback handles the OAuth callback from GitHub
func (h *AuthHandler) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	h.callback(w, r, h.github)
}

func (h *AuthHandler) begin(w http.ResponseWriter, r *http.Request, p *oauthProvider) {
	if p.config.ClientID == "" {
		h.authFailed(w, r, p.name+" sign in is not configured.")
		return
	}

	state := generateOAuthState()

	cfg := ctxkeys.Config(r.Context())
	isProduction := cfg != nil && cfg.IsProduction()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.Redirect(w, r, p.config.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) callback(w http.ResponseWriter, r *http.Request, p *oauthProvider) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		slog.Warn("oauth state validation failed", "provider", p.name, "error", err)
		h.authFailed(w, r, "OAuth authentication failed. Please try again.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   oauthStateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("oauth callback missing code", "provider", p.name)
		h.authFailed(w, r, "OAuth authentication failed. Please try again.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		slog.Error("oauth token exchange failed", "provider", p.name, "error", err)
		h.authFailed(w, r, "OAuth authentication failed. Please try again.")
		return
	}

	email, err := p.fetchEmail(ctx, p.config.Client(ctx, token))
	if errors.Is(err, errNoEmail) {
		slog.Warn("oauth account has no email", "provider", p.name)
		h.authFailed(w, r, "Could not retrieve your email address. Please make sure it is verified.")
		return
	}
	if err != nil {
		slog.Error("failed to get oauth user info", "provider", p.name, "error", err)
		h.authFailed(w, r, "OAuth authentication failed. Please try again.")
		return
	}

	user, err := h.authService.AuthenticateOAuth(r.Context(), email, p.name)
	if err != nil {
		slog.Error("oauth authentication failed", "provider", p.name, "error", err, "email", email)
		h.authFailed(w, r, "Authentication failed. Please try again.")
		return
	}

	err = h.authService.Login(w, user)
	if err != nil {
		slog.Error("failed to start session", "error", err, "user_id", user.ID)
		h.authFailed(w, r, "An error occurred. Please try again.")
		return
	}

	slog.Info("user logged in", "provider", p.name, "user_id", user.ID)

	_, err = h.profileService.ByUserID(r.Context(), user.ID)
	if errors.Is(err, service.ErrProfileRequired) {
		http.Redirect(w, r, "/complete-profile", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.Warn("failed to check profile", "error", err, "user_id", user.ID)
	}
	http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) authFailed(w http.ResponseWriter, r *http.Request, message string) {
	ui.RenderStatus(w, r, http.StatusBadRequest, pages.Auth(pages.NewView(r.Context(), "Sign in"), pages.AuthData{
		Error: message,
	}))
}

func googleEmail(userInfoURL string) func(context.Context, *http.Client) (string, error) {
	return func(ctx context.Context, client *http.Client) (string, error) {
		var info struct {
			Email string `json:"email"`
		}
		err := getJSON(ctx, client, userInfoURL, &info)
		if err != nil {
			return "", err
		}
		if info.Email == "" {
			return "", errNoEmail
		}
		return info.Email, nil
	}
}

// githubEmail reads the profile email and falls back to the primary
// verified address when the profile email is private.
func githubEmail(userURL, emailsURL string) func(context.Context, *http.Client) (string, error) {
	return func(ctx context.Context, client *http.Client) (string, error) {
		var user struct {
			Email string `json:"email"`
		}
		err := getJSON(ctx, client, userURL, &user)
		if err != nil {
			return "", err
		}
		if user.Email != "" {
			return user.Email, nil
		}

		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		err = getJSON(ctx, client, emailsURL, &emails)
		if err != nil {
			return "", err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				return e.Email, nil
			}
		}
		return "", errNoEmail
	}
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// generateOAuthState creates cryptographically secure random state token for OAuth CSRF protection
func generateOAuthState() string {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate oauth state: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}
