package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"
	"github.com/smartsella/syntecxhub-shop-api/internal/token"

	"github.com/labstack/echo/v4"
)

const claimsKey = "auth_claims"

// SessionCookie is the http-only cookie the login endpoint sets.
const SessionCookie = "token"

func extractToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	if auth != "" {
		parts := strings.Fields(auth)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// JWT returns an echo middleware validating the session token from the
// Authorization header or the session cookie.
func JWT(issuer *token.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := extractToken(c)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "message": "missing authorization",
				})
			}
			claims, err := issuer.Parse(raw)
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, token.ErrTokenExpired) {
					msg = "token expired"
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "message": msg,
				})
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// GetClaims extracts the validated claims set by JWT.
func GetClaims(c echo.Context) *token.Claims {
	if cl, ok := c.Get(claimsKey).(*token.Claims); ok {
		return cl
	}
	return nil
}

// AdminOnly requires role == admin; mount after JWT.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := GetClaims(c)
		if claims == nil || claims.Role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{
				"success": false, "message": "admin role required",
			})
		}
		return next(c)
	}
}
