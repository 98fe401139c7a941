// Package router assembles the echo instance: global middleware, the error
// handler and every route.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/hr-training-api/internal/handler"
	"github.com/iliyamo/hr-training-api/internal/middleware"
)

// Options configures the echo instance built by New.
type Options struct {
	Log         *zap.Logger
	Development bool
	BodyLimit   string // e.g. "1M"

	// RateLimit wraps every route when set.
	RateLimit echo.MiddlewareFunc
}

// New returns an echo instance with request ids, panic recovery, request
// logging and the JSON error envelope installed.
func New(opts Options) *echo.Echo {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	limit := opts.BodyLimit
	if limit == "" {
		limit = "1M"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewErrorHandler(log, opts.Development)

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit(limit))
	if opts.RateLimit != nil {
		e.Use(opts.RateLimit)
	}
	return e
}

// RegisterRoutes registers routes that need no authentication.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth mounts /api/auth. Login, register, refresh and revoke take
// no access token; /me requires one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens middleware.TokenValidator) {
	g := e.Group("/api/auth")
	g.POST("/login", a.Login)
	g.POST("/register", a.Register)
	g.POST("/refresh", a.Refresh)
	g.POST("/revoke", a.Revoke)
	g.GET("/me", a.Me, middleware.JWTAuth(tokens))
}
