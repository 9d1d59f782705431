package middleware

import (
	"net/http"
	"strings"

	"conference-badge-api/core/constants"
	"conference-badge-api/core/controller"
	"conference-badge-api/core/errors"
	"conference-badge-api/core/logger"
	"conference-badge-api/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	jwtSecret string
}

func NewMiddleware(jwtSecret string) *Middleware {
	return &Middleware{jwtSecret: jwtSecret}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// AuthMiddleware requires a valid bearer token carrying the admin role.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "missing authorization header")
			}
			claims, err := utils.ValidateAndParseToken(m.jwtSecret, token)
			if err != nil {
				logger.Warn("Middleware:AuthMiddleware:InvalidToken", "error", err)
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "invalid or expired token")
			}
			if claims.Role != constants.RoleAdmin {
				return controller.NewErrorResponse(http.StatusForbidden, errors.ErrForbidden, "admin role required")
			}
			c.Set(constants.ContextKeyTokenData, claims)
			return next(c)
		}
	}
}

// OptionalAuth attaches token claims when a valid token is present and never rejects the request.
func (m *Middleware) OptionalAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := bearerToken(c); token != "" {
				if claims, err := utils.ValidateAndParseToken(m.jwtSecret, token); err == nil {
					c.Set(constants.ContextKeyTokenData, claims)
				}
			}
			return next(c)
		}
	}
}

func IsAdmin(c echo.Context) bool {
	claims, ok := c.Get(constants.ContextKeyTokenData).(*utils.TokenClaims)
	return ok && claims != nil && claims.Role == constants.RoleAdmin
}
