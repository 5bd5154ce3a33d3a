package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/goalnudge/internal/ctxkeys"
	"github.com/templui/goalnudge/internal/service"
)

// RequireScheduler rejects requests without a valid scheduler bearer token
// and adds the token subject to the context.
func RequireScheduler(authService *service.AuthService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				writeUnauthorized(w)
				return
			}

			subject, err := authService.VerifyJWT(strings.TrimSpace(tokenString))
			if err != nil {
				slog.Warn("scheduler token rejected", "error", err, "path", r.URL.Path)
				writeUnauthorized(w)
				return
			}

			ctx := ctxkeys.WithScheduler(r.Context(), subject)
			next(w, r.WithContext(ctx))
		}
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="internal"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized"}`))
}
