// Package middleware provides the HTTP request processing shared by
// handlers: bearer-token authentication, role enforcement, rate
// limiting and response caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token issued by the authentication collaborator and injects the
// token's subject and role claims into the request context.  Handlers
// read the verified buyer identity via c.Get("user_id") and
// c.Get("role"); this service never issues tokens itself.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			if sub, ok := claims["sub"].(string); ok {
				c.Set("user_id", sub)
			}
			if role, ok := claims["role"].(string); ok {
				c.Set("role", role)
			}
			if email, ok := claims["email"].(string); ok {
				c.Set("email", email)
			}
			return next(c)
		}
	}
}
