package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hr-training-api/internal/config"
	"github.com/iliyamo/hr-training-api/internal/model"
	"github.com/iliyamo/hr-training-api/internal/tenant"
)

const testTenantHeader = "X-Test-Tenant"

// withHeaderTenant stands in for JWTAuth: the tenant comes from a header.
func withHeaderTenant(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Request().Header.Get(testTenantHeader), 10, 64)
		if err != nil {
			return next(c)
		}
		ident := tenant.Identity{UserID: id * 10, TenantID: id, Roles: []string{model.RoleHRUser}}
		c.SetRequest(c.Request().WithContext(tenant.WithIdentity(c.Request().Context(), ident)))
		return next(c)
	}
}

type cacheStack struct {
	e     *echo.Echo
	mr    *miniredis.Miniredis
	calls map[int64]int
}

func newCacheStack(t *testing.T) *cacheStack {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	limit := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       100,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            2 * time.Hour,
		KeyStrategy:    "ip",
		Prefix:         "rl",
	}
	rc := NewResponseCache(config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}, rdb, nil)

	s := &cacheStack{e: echo.New(), mr: mr, calls: map[int64]int{}}
	s.e.Use(echomw.RequestID(), NewTokenBucket(limit, rdb, nil), withHeaderTenant, rc.Middleware())
	s.e.GET("/api/courses", func(c echo.Context) error {
		id, _ := Identity(c)
		s.calls[id.TenantID]++
		return c.JSON(http.StatusOK, map[string]any{"tenant": id.TenantID, "calls": s.calls[id.TenantID]})
	})
	s.e.POST("/api/courses", func(c echo.Context) error {
		return c.JSON(http.StatusCreated, map[string]any{"id": 1})
	})
	s.e.POST("/api/courses/conflict", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "duplicate")
	})
	return s
}

func (s *cacheStack) do(method string, tenantID int64, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(testTenantHeader, strconv.FormatInt(tenantID, 10))
	return run(s.e, req)
}

func TestResponseCache_HitIsPerTenantAndFresh(t *testing.T) {
	s := newCacheStack(t)

	first := s.do(http.MethodGet, 1, "/api/courses")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := s.do(http.MethodGet, 1, "/api/courses")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, s.calls[1])
	assert.Equal(t, first.Header().Get(echo.HeaderContentType), second.Header().Get(echo.HeaderContentType))

	ids := second.Header().Values(echo.HeaderXRequestID)
	require.Len(t, ids, 1)
	assert.NotEqual(t, first.Header().Get(echo.HeaderXRequestID), ids[0])
	assert.Equal(t, []string{"98"}, second.Header().Values("X-RateLimit-Remaining"))

	other := s.do(http.MethodGet, 2, "/api/courses")
	require.Equal(t, http.StatusOK, other.Code)
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"tenant":2,"calls":1}`, other.Body.String())
}

func TestResponseCache_SuccessfulWriteInvalidatesTenant(t *testing.T) {
	s := newCacheStack(t)

	s.do(http.MethodGet, 1, "/api/courses")
	s.do(http.MethodGet, 2, "/api/courses")
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, 1, "/api/courses").Code)

	gen, err := s.mr.Get("cache:gen:1")
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
	assert.False(t, s.mr.Exists("cache:gen:2"))

	after := s.do(http.MethodGet, 1, "/api/courses")
	assert.Equal(t, "MISS", after.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"tenant":1,"calls":2}`, after.Body.String())

	untouched := s.do(http.MethodGet, 2, "/api/courses")
	assert.Equal(t, "HIT", untouched.Header().Get("X-Cache"))
	assert.Equal(t, 1, s.calls[2])
}

func TestResponseCache_FailedWriteKeepsEntries(t *testing.T) {
	s := newCacheStack(t)

	s.do(http.MethodGet, 1, "/api/courses")
	require.Equal(t, http.StatusConflict, s.do(http.MethodPost, 1, "/api/courses/conflict").Code)
	assert.False(t, s.mr.Exists("cache:gen:1"))

	again := s.do(http.MethodGet, 1, "/api/courses")
	assert.Equal(t, "HIT", again.Header().Get("X-Cache"))
	assert.Equal(t, 1, s.calls[1])
}
