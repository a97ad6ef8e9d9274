package api

import (
	"context"

	"filemeta/internal/server/config"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates and configures the echo router with all routes and middleware.
// ctx bounds the background work of the rate limiter.
func SetupRouter(ctx context.Context, handler *Handler, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = requestValidator{}

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(RequestLogger())
	e.Use(Tracing())
	e.Use(Metrics())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	writeLimiter := NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Health & metrics
	e.GET("/healthz", handler.HandleHealthz)
	e.GET("/readyz", handler.HandleReadyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Users (stub)
	e.POST("/users", handler.HandleCreateUser, writeLimiter.Middleware())

	// File metadata
	e.POST("/files", handler.HandleCreateFile, writeLimiter.Middleware())
	e.GET("/files/:id", handler.HandleGetFile)

	return e
}
