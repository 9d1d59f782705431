package server

import (
	"context"
	"net/http"
	"time"

	"conference-badge-api/core/config"
	"conference-badge-api/core/controller"
	"conference-badge-api/core/logger"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const (
	bodyLimit        = "12M"
	healthTimeout    = 2 * time.Second
	rateLimitExpires = 3 * time.Minute
)

// NewEcho builds the HTTP server with the shared middleware stack.
func NewEcho(cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = controller.HTTPErrorHandler

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.BodyLimit(bodyLimit))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
				"remote_ip", v.RemoteIP,
			}
			if v.Error != nil {
				logger.Warn("HTTP:Request", append(args, "error", v.Error)...)
				return nil
			}
			logger.Info("HTTP:Request", args...)
			return nil
		},
	}))

	return e
}

// RateLimit throttles each client IP to the configured rate.
func RateLimit(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	return echoMiddleware.RateLimiterWithConfig(echoMiddleware.RateLimiterConfig{
		Store: echoMiddleware.NewRateLimiterMemoryStoreWithConfig(echoMiddleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RequestsPerSecond),
			Burst:     cfg.Burst,
			ExpiresIn: rateLimitExpires,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
	})
}

type pinger interface {
	PingContext(ctx context.Context) error
}

type cachePinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

func probe(ctx context.Context, ping func(context.Context) error) string {
	if err := ping(ctx); err != nil {
		return "down"
	}
	return "up"
}

// HealthHandler reports dependency reachability. Redis being down only degrades the service.
func HealthHandler(db pinger, redis cachePinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()

		resp := HealthResponse{Status: "ok", Database: "down", Redis: "disabled"}
		if db != nil {
			resp.Database = probe(ctx, db.PingContext)
		}
		if redis != nil {
			resp.Redis = probe(ctx, redis.Ping)
		}

		status := http.StatusOK
		switch {
		case resp.Database != "up":
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
		case resp.Redis == "down":
			resp.Status = "degraded"
		}
		return c.JSON(status, resp)
	}
}
