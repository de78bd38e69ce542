// Package api exposes sessions over HTTP with echo.
//
// Errors are answered as {"message": ..., "retryable": ...}; see statusOf for
// the status mapping.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/katalvlaran/courierround/internal/obs"
)

// bodyLimit caps uploaded map and delivery files.
const bodyLimit = "32M"

// NewServer returns an echo instance with the API mounted under /api.
func NewServer(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(obs.WithRequestID(req.Context(), id)))
		},
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.BodyLimit(bodyLimit))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	h.RegisterRoutes(e.Group("/api"))

	return e
}
