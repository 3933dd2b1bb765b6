package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"balcao/internal/caching"
	"balcao/internal/services"

	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check endpoints. cache and storage are
// optional and reported as "disabled" when nil.
type HealthHandlers struct {
	db        Pinger
	cache     caching.CacheService
	storage   services.ObjectStorage
	bucket    string
	version   string
	startedAt time.Time
}

func NewHealthHandlers(db Pinger, cache caching.CacheService, storage services.ObjectStorage, bucket, version string) *HealthHandlers {
	return &HealthHandlers{
		db:        db,
		cache:     cache,
		storage:   storage,
		bucket:    bucket,
		version:   version,
		startedAt: time.Now(),
	}
}

func (h *HealthHandlers) Register(e *echo.Echo) {
	e.GET("/health", h.HealthCheck)
	e.GET("/health/detailed", h.DetailedHealthCheck)
}

type componentCheck struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string                    `json:"status"`
	Timestamp string                    `json:"timestamp"`
	Version   string                    `json:"version"`
	Uptime    string                    `json:"uptime,omitempty"`
	Services  map[string]componentCheck `json:"services"`
}

func check(ctx context.Context, fn func(ctx context.Context) error) componentCheck {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	result := componentCheck{Status: "healthy", LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		result.Status = "unhealthy"
		result.Message = err.Error()
	}
	return result
}

func (h *HealthHandlers) run(ctx context.Context) *HealthStatus {
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Services:  map[string]componentCheck{},
	}

	health.Services["database"] = check(ctx, h.db.Ping)
	if h.cache != nil {
		health.Services["redis"] = check(ctx, h.cache.Ping)
	} else {
		health.Services["redis"] = componentCheck{Status: "disabled"}
	}
	if h.storage != nil {
		health.Services["storage"] = check(ctx, func(ctx context.Context) error {
			return h.storage.Ping(ctx, h.bucket)
		})
	} else {
		health.Services["storage"] = componentCheck{Status: "disabled"}
	}

	for _, svc := range health.Services {
		if svc.Status == "unhealthy" {
			health.Status = "degraded"
		}
	}
	return health
}

// HealthCheck handles GET /health. Only the database decides the status
// code; a degraded cache or storage still serves orders.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	health := h.run(c.Request().Context())
	for name, svc := range health.Services {
		health.Services[name] = componentCheck{Status: svc.Status}
	}

	statusCode := http.StatusOK
	if health.Services["database"].Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}

// DetailedHealthCheck handles GET /health/detailed
func (h *HealthHandlers) DetailedHealthCheck(c echo.Context) error {
	health := h.run(c.Request().Context())
	health.Uptime = time.Since(h.startedAt).Round(time.Second).String()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"health":     health,
		"goroutines": runtime.NumGoroutine(),
	})
}
