package mw

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrSnakeDoc/beanstalk/internal/logger"
)

// RequireToken rejects requests without a valid HS256 bearer token signed
// with secret. An empty secret disables the check (passthrough).
func RequireToken(secret []byte, log logger.Logger) func(http.Handler) http.Handler {
	if len(secret) == 0 {
		log.Debug("RequireToken: no secret configured, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}

			token, err := parser.Parse(strings.TrimPrefix(authz, "Bearer "), keyFunc)
			if err != nil || !token.Valid {
				log.Debug("RequireToken: token rejected", logger.Error(err))
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
