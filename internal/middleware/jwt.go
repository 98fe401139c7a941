package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-training-api/internal/tenant"
	"github.com/iliyamo/hr-training-api/internal/utils"
)

// TokenValidator validates access tokens. *utils.Issuer implements it.
type TokenValidator interface {
	ValidateAccessToken(raw string) (*utils.Claims, error)
}

// JWTAuth validates the Bearer access token and puts the caller's identity
// on the request context, where the tenant resolver reads it. Rejections
// are 401 errors rendered by the HTTP error handler.
func JWTAuth(v TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, raw, ok := strings.Cut(auth, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := v.ValidateAccessToken(strings.TrimSpace(raw))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			uid, err := claims.UserID()
			if err != nil || claims.TenantID <= 0 {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			id := tenant.Identity{
				UserID:   uid,
				Email:    claims.Email,
				TenantID: claims.TenantID,
				Roles:    claims.Roles,
			}
			c.SetRequest(c.Request().WithContext(tenant.WithIdentity(c.Request().Context(), id)))
			return next(c)
		}
	}
}
