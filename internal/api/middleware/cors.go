package middleware

import (
	"net/http"
	"slices"
)

const (
	corsMethods = "GET, POST, OPTIONS"
	corsHeaders = "Accept, Content-Type"
	corsMaxAge  = "3600"
)

// originPolicy decides which browser origins may call the API. The web
// client runs on a different port from the server during development.
type originPolicy struct {
	any     bool
	origins []string
}

func newOriginPolicy(allowed []string) originPolicy {
	return originPolicy{
		any:     slices.Contains(allowed, "*"),
		origins: slices.Clone(allowed),
	}
}

func (p originPolicy) allows(origin string) bool {
	if origin == "" {
		return false
	}
	return p.any || slices.Contains(p.origins, origin)
}

// CORS echoes allowed origins back and answers preflight requests itself
// with 204, without reaching the route.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	policy := newOriginPolicy(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if origin := r.Header.Get("Origin"); policy.allows(origin) {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}

			if r.Method != http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			h.Set("Access-Control-Allow-Methods", corsMethods)
			h.Set("Access-Control-Allow-Headers", corsHeaders)
			h.Set("Access-Control-Max-Age", corsMaxAge)
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
