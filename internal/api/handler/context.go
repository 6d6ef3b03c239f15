package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-api/internal/api/middleware"
	"github.com/quillpress/blog-api/internal/core/domain"
)

// caller returns the principal injected by the Identity middleware.
func caller(c echo.Context) domain.Principal {
	return middleware.PrincipalFrom(c)
}

// authenticatedCaller fails fast before any service call when the request
// carries no valid identity.
func authenticatedCaller(c echo.Context) (domain.Principal, error) {
	p := caller(c)
	if !p.Authenticated {
		return p, domain.ErrUnauthenticated
	}
	return p, nil
}
