package middleware

import (
	"net/http"
	"strings"

	"be-fest/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const ActorHeader = "X-Actor"

// AdminToken guards administrative routes with a shared bearer token checked
// against a bcrypt hash. An empty hash disables the routes entirely.
func AdminToken(tokenHash string, logger *zap.Logger) func(http.Handler) http.Handler {
	hash := []byte(tokenHash)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(hash) == 0 {
				logger.Warn("Admin route called but no admin token is configured",
					zap.String("path", r.URL.Path))
				utils.ResponseError(w, http.StatusForbidden, "Admin access is disabled")
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseError(w, http.StatusUnauthorized, "Missing authorization token")
				return
			}

			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				utils.ResponseError(w, http.StatusUnauthorized, "Invalid token format. Use: Bearer <token>")
				return
			}

			if err := bcrypt.CompareHashAndPassword(hash, []byte(token)); err != nil {
				logger.Warn("Admin check: invalid token",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr))
				utils.ResponseError(w, http.StatusUnauthorized, "Invalid admin token")
				return
			}

			actor := strings.TrimSpace(r.Header.Get(ActorHeader))
			if actor == "" {
				actor = "admin"
			}
			ctx := utils.SetActorContext(r.Context(), actor)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
