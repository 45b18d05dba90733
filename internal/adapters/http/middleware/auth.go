package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tausif4802/ggp-backend/internal/tokenverify"
	res "github.com/tausif4802/ggp-backend/pkg/http"
)

const principalKey = "principal"

type AuthMiddleware struct {
	verifier *tokenverify.Verifier
}

func NewAuthMiddleware(verifier *tokenverify.Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Handler accepts a bearer access token and stores user_id, email and role on the context.
func (m *AuthMiddleware) Handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get(echo.HeaderAuthorization)
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return res.ErrorJSON(c, http.StatusUnauthorized, "missing token")
		}
		principal, err := m.verifier.Verify(parts[1])
		switch {
		case errors.Is(err, tokenverify.ErrTokenMissing):
			return res.ErrorJSON(c, http.StatusUnauthorized, "missing token")
		case errors.Is(err, tokenverify.ErrTokenExpired):
			return res.ErrorJSON(c, http.StatusUnauthorized, "token expired")
		case errors.Is(err, tokenverify.ErrSubjectMissing):
			return res.ErrorJSON(c, http.StatusUnauthorized, "subject missing")
		case err != nil:
			return res.ErrorJSON(c, http.StatusUnauthorized, "invalid token")
		}
		c.Set(principalKey, principal)
		c.Set("user_id", principal.UserID)
		c.Set("email", principal.Email)
		c.Set("role", principal.Role)
		return next(c)
	}
}

// RequireRole must run after Handler.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := c.Get(principalKey).(*tokenverify.Principal)
			if !ok || !principal.HasRole(roles...) {
				return res.ErrorJSON(c, http.StatusForbidden, "Access Denied")
			}
			return next(c)
		}
	}
}
