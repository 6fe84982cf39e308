package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/supdesk/supdesk/internal/domain/models"
	"github.com/supdesk/supdesk/internal/infra/appctx"
	"github.com/supdesk/supdesk/internal/usecase"
)

// JWTAuthMiddleware verifies the bearer token and stores the resulting
// identity in the request context.
func JWTAuthMiddleware(authUsecase usecase.AuthUsecase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing or malformed bearer token"})
			}

			identity, err := authUsecase.VerifyToken(c.Request().Context(), token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "could not validate credentials"})
			}

			c.SetRequest(
				c.Request().WithContext(
					appctx.WithIdentity(c.Request().Context(), identity),
				),
			)

			return next(c)
		}
	}
}

// AdminOnly rejects non-admin identities. Must run after JWTAuthMiddleware.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := appctx.Identity(c.Request().Context())
			if !ok || identity.Role != models.RoleAdmin {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "not authorized as admin"})
			}

			return next(c)
		}
	}
}
