package middleware

import (
	"net/http"

	"ainews/internal/transport/response"
)

// Auth enforces the bearer shared secret on scheduled trigger requests.
// A missing or empty secret rejects everything; the endpoint is never
// left open by misconfiguration.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" || r.Header.Get("Authorization") != "Bearer "+secret {
				response.WriteUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuthOptional guards the manual trigger: requests without an
// Authorization header are treated as front-end-originated and allowed,
// but a present, incorrect header is rejected.
func AuthOptional(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if secret != "" && authHeader != "" && authHeader != "Bearer "+secret {
				response.WriteUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
