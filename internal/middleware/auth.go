package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/campusshare/campusshare/internal/ctxkeys"
	"github.com/campusshare/campusshare/internal/service"
)

// Auth resolves the session cookie into the user and, when one exists, the
// profile. Invalid sessions are cleared and the request continues
// anonymously.
func Auth(authService *service.AuthService, profileService *service.ProfileService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.AuthCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.User(r.Context(), cookie.Value)
			if err != nil {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)

			profile, err := profileService.ByUserID(ctx, user.ID)
			switch {
			case err == nil:
				ctx = ctxkeys.WithProfile(ctx, profile)
			case errors.Is(err, service.ErrProfileRequired):
				// Signed in, profile not completed yet.
			default:
				slog.Error("failed to load profile", "error", err, "user_id", user.ID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth sends anonymous visitors to the sign-in page.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			redirect(w, r, "/auth")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireProfile sends signed-in users without a profile to
// /complete-profile. It implies RequireAuth.
func RequireProfile(next http.HandlerFunc) http.HandlerFunc {
	return RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Profile(r.Context()) == nil {
			redirect(w, r, "/complete-profile")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireGuest sends signed-in users to their dashboard.
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) != nil {
			redirect(w, r, "/app/dashboard")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}
