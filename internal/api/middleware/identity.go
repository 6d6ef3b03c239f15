package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/quillpress/blog-api/internal/api/metrics"
	"github.com/quillpress/blog-api/internal/core/authz"
	"github.com/quillpress/blog-api/internal/core/domain"
)

const principalKey = "principal"

// PrincipalResolver turns an Authorization header into a principal.
// *authz.IdentityResolver satisfies it.
type PrincipalResolver interface {
	Resolve(ctx context.Context, authorizationHeader string) (domain.Principal, error)
}

// Identity resolves the caller and stores the principal on the context.
// Resolution failures never stop the request; the principal is anonymous.
func Identity(resolver PrincipalResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			p, err := resolver.Resolve(req.Context(), req.Header.Get(echo.HeaderAuthorization))
			if err != nil {
				reason := authz.FailureReasonOf(err)
				if reason != authz.ReasonMissing {
					metrics.AuthFailuresTotal.WithLabelValues(string(reason)).Inc()
					log.Debug().
						Err(err).
						Str("path", req.URL.Path).
						Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
						Msg("request continues as anonymous")
				}
			}

			SetPrincipal(c, p)
			return next(c)
		}
	}
}

// SetPrincipal stores p on c.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal stored by Identity, or the anonymous
// principal when none was set.
func PrincipalFrom(c echo.Context) domain.Principal {
	p, ok := c.Get(principalKey).(domain.Principal)
	if !ok {
		return domain.Anonymous()
	}
	return p
}
