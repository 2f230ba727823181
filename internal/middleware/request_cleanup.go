package middleware

import (
	"io"
	"net/http"
)

// DefaultMaxBodyBytes fits a workout hook with a few hundred sets.
const DefaultMaxBodyBytes = 1 << 20

// LimitAndDrainBody caps the request body size and, once the handler is
// done, drains and closes whatever the handler left unread so the
// connection can be reused.
func LimitAndDrainBody(maxBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
