package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a backing store is reachable. *sql.DB implements it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health returns 200 "ok" when the store answers, or 503 otherwise. A nil
// pinger (memory store) is always healthy.
func Health(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return c.String(http.StatusServiceUnavailable, "unavailable")
			}
		}
		return c.String(http.StatusOK, "ok")
	}
}
