package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/funderr/crowdfund-api/internal/core/ports"
)

// ContextUserKey is the echo context key under which Auth stores the resolved
// *domain.User.
const ContextUserKey = "auth_user"

// Auth validates the bearer JWT and resolves it to a live user record, which
// is injected into the context. Every failure mode (missing header, malformed
// token, bad signature, expiry, unknown identity) collapses to the same 401 so
// callers cannot probe which case occurred.
func Auth(jwtSecret string, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorized()
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return unauthorized()
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return unauthorized()
			}

			sub, _ := claims["sub"].(string)
			if sub == "" {
				return unauthorized()
			}

			user, err := users.FindByID(c.Request().Context(), sub)
			if err != nil {
				return unauthorized()
			}

			c.Set(ContextUserKey, user)
			return next(c)
		}
	}
}

func unauthorized() error {
	return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
}
