package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type loggerKey struct{}

// withRequestID tags every request with a correlation id, echoes it in the
// X-Request-ID response header, and attaches a request-scoped logger to the
// context.
func (a *API) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		logger := a.logger.With("request_id", id)
		ctx := context.WithValue(r.Context(), loggerKey{}, logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// log returns the request-scoped logger, falling back to the API logger for
// requests that did not pass through the middleware (tests hit the router
// directly).
func (a *API) log(r *http.Request) *slog.Logger {
	if logger, ok := r.Context().Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return a.logger
}

// admin guards catalog mutations. With no hash configured the gate is open,
// matching a development setup without credentials.
func (a *API) admin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.adminHash == "" {
			next(w, r)
			return
		}
		password := r.Header.Get("X-Admin-Password")
		if err := bcrypt.CompareHashAndPassword([]byte(a.adminHash), []byte(password)); err != nil {
			a.log(r).WarnContext(r.Context(), "admin credential rejected", "path", r.URL.Path)
			a.Error(w, http.StatusUnauthorized, "admin credentials required")
			return
		}
		next(w, r)
	}
}
