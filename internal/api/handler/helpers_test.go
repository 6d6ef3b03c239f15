package handler

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-api/internal/api/middleware"
	"github.com/quillpress/blog-api/internal/core/domain"
)

// newContext builds an echo context with the validator installed and p set
// as the caller.
func newContext(method, target string, body io.Reader, p domain.Principal) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetPrincipal(c, p)
	return c, rec
}

// httpErrorCode asserts err is an *echo.HTTPError and returns its code.
func httpErrorCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	return he.Code
}

var (
	anonymous = domain.Anonymous()
	admin     = domain.Principal{UserID: "1", Role: domain.RoleAdmin, Authenticated: true}
	editor    = domain.Principal{UserID: "2", Role: domain.RoleEditor, Authenticated: true}
	viewer    = domain.Principal{UserID: "3", Role: domain.RoleViewer, Authenticated: true}
)
