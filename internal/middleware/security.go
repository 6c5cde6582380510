package middleware

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/campusshare/campusshare/internal/config"
	"github.com/campusshare/campusshare/internal/ctxkeys"
)

// tailwindCDN serves the stylesheet runtime used by the pages.
const tailwindCDN = "https://cdn.tailwindcss.com"

// SecurityHeaders sets CSP and the usual hardening headers. Uploaded files
// are served from the object store, so its origin is allowed for images
// and embedded previews.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", contentSecurityPolicy(GetNonce(r.Context()), storageOrigin(ctxkeys.Config(r.Context()))))
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		cfg := ctxkeys.Config(r.Context())
		if cfg != nil && cfg.IsProduction() {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		next.ServeHTTP(w, r)
	})
}

func contentSecurityPolicy(nonce, storage string) string {
	script := "'self' " + tailwindCDN
	if nonce != "" {
		script = fmt.Sprintf("'self' 'nonce-%s' %s", nonce, tailwindCDN)
	}

	directives := []string{
		"default-src 'self'",
		"script-src " + script,
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data: " + storage,
		"frame-src " + storage,
		"connect-src 'self'",
		"form-action 'self' https://accounts.google.com https://github.com",
		"frame-ancestors 'none'",
		"base-uri 'self'",
	}
	return strings.Join(directives, "; ")
}

// storageOrigin is the scheme://host uploaded files are served from.
func storageOrigin(cfg *config.Config) string {
	if cfg == nil {
		return "https://*.amazonaws.com"
	}
	for _, raw := range []string{cfg.S3PublicURL, cfg.S3Endpoint} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err == nil && u.Scheme != "" && u.Host != "" {
			return u.Scheme + "://" + u.Host
		}
	}
	return "https://*.amazonaws.com"
}
