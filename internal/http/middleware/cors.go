// Package middleware holds the HTTP middleware shared by the API
// surface: CORS for browser-embedded widgets, per-IP rate limiting on
// the public endpoints, and structured request logging.
package middleware

import (
	"net/http"
	"strings"
)

// CORS allows browser clients on the listed origins to reach the API.
// An entry of "*" echoes any Origin back; the agent endpoints are hit
// from customer sites embedding the voice widget, so the allowlist is
// usually a handful of customer domains.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAny := false
	allow := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		switch origin {
		case "":
		case "*":
			allowAny = true
		default:
			allow[origin] = struct{}{}
		}
	}

	const allowedHeaders = "Authorization, Content-Type, X-Session-Id"
	const allowedMethods = "GET, POST, DELETE, OPTIONS"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin != "" {
				_, listed := allow[origin]
				if allowAny || listed {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Add("Vary", "Origin")
					w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
					w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
					w.Header().Set("Access-Control-Max-Age", "600")
				}
			}

			if r.Method == http.MethodOptions && origin != "" && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
