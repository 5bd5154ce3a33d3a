package middleware

import (
	"net/http"

	"github.com/templui/goalnudge/internal/config"
	"github.com/templui/goalnudge/internal/ctxkeys"
)

// Config exposes a secret-free copy of cfg to handlers through the request
// context. The copy is taken once, so later changes to cfg are not seen.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	public := cfg.Sanitized()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), public)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
