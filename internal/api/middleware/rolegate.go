package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-api/internal/api/metrics"
	"github.com/quillpress/blog-api/internal/core/authz"
)

// RoleGate enforces the path level role rules before any handler runs.
func RoleGate(gate authz.RoleGate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			d := gate.Decide(PrincipalFrom(c), req.URL.Path, req.Method)
			metrics.ObserveDecision(metrics.GateRole, d)
			if !d.Allowed() {
				return c.JSON(http.StatusForbidden, map[string]string{"detail": "Forbidden"})
			}
			return next(c)
		}
	}
}

// RequireAuth rejects anonymous callers with 401.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !PrincipalFrom(c).Authenticated {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"detail": "authentication credentials were not provided",
				})
			}
			return next(c)
		}
	}
}
