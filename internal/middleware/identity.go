package middleware

import (
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-training-api/internal/tenant"
)

// Identity returns the authenticated caller of the request.
func Identity(c echo.Context) (tenant.Identity, bool) {
	return tenant.IdentityFrom(c.Request().Context())
}

// userKey identifies the caller for rate limiting; "anon" before login.
func userKey(c echo.Context) string {
	if id, ok := Identity(c); ok {
		return strconv.FormatInt(id.UserID, 10)
	}
	return "anon"
}

// roleKey is the caller's sorted role set, so cached responses are never
// shared between callers with different access.
func roleKey(id tenant.Identity) string {
	roles := append([]string(nil), id.Roles...)
	sort.Strings(roles)
	return strings.Join(roles, ",")
}
