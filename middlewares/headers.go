package middlewares

import (
	"net/http"
)

// SecureHeaders sets the response headers every page carries. No
// Content-Security-Policy is sent: post bodies are rendered as authored HTML.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("Referrer-Policy", "same-origin")

		next.ServeHTTP(w, r)
	})
}
