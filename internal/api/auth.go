package api

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/julianstephens/dailypunch/internal/errors"
)

type ctxKey struct{}

var (
	errAuthRequired = fmt.Errorf("%w: Authentication required", apperrors.ErrUnauthorized)
	errBadCron      = fmt.Errorf("%w: invalid cron secret", apperrors.ErrUnauthorized)
)

// SyncKey extracts the sync key from an Authorization header. Both the raw
// key and "Bearer <key>" are accepted.
func SyncKey(header string) string {
	header = strings.TrimSpace(header)
	if rest, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return header
}

func authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := SyncKey(r.Header.Get("Authorization"))
		if key == "" {
			writeError(w, r, errAuthRequired)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, key)))
	})
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

// requireCronSecret guards scheduler endpoints. With no secret configured
// the endpoint is open.
func (s *Server) requireCronSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cronSecret != "" {
			got := r.Header.Get("X-Cron-Secret")
			if subtle.ConstantTimeCompare([]byte(got), []byte(s.cronSecret)) != 1 {
				writeError(w, r, errBadCron)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
