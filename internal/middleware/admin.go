package middleware

import (
	"net/http"

	"github.com/civilconnect/marketplace/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// AdminOnly restricts a route group to users with the admin role. Must
// run after JWTAuthMiddleware.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*models.JwtCustomClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}
			if claims.UserType != models.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}
