package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/hubcrm/accounts-api/internal/core/service"
)

// Auth validates the session JWT, re-derives the client fingerprint from
// request IP + user agent + account id against the "loc" claim, and
// injects the claims into the request context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			id, _ := claims["id"].(string)
			loc, _ := claims["loc"].(string)
			if !service.VerifyFingerprint(loc, c.RealIP(), c.Request().UserAgent(), id) {
				return echo.NewHTTPError(http.StatusUnauthorized, "token not valid for this client")
			}

			c.Set("account_id", id)
			c.Set("email", claims["email"])
			c.Set("role", claims["role"])
			c.Set("status", claims["status"])

			return next(c)
		}
	}
}
