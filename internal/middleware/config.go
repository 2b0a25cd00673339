package middleware

import (
	"net/http"

	"github.com/templui/shelf/internal/config"
	"github.com/templui/shelf/internal/ctxkeys"
)

// Config adds the sanitized configuration to the request context. Secrets
// such as JWTSecret and the S3 keys are blanked.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	sanitized := cfg.Sanitized()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), sanitized)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
