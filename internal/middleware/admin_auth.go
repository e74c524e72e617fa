package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// AdminAuth verifies the shared-secret x-admin-key header before any admin
// operation executes. The expected key is injected at startup, never read
// from the environment per request.
func AdminAuth(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := r.Header.Get("x-admin-key")
			if supplied == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(adminKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Invalid or missing admin API key",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
