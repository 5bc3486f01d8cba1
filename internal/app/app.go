package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go-leave/internal/config"
	"go-leave/internal/metrics"
	"go-leave/internal/middleware"
	"go-leave/internal/shared/connection"
	"go-leave/internal/shared/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthCheck reports whether one backing service is reachable.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Infra holds the long-lived connections shared by every module.
type Infra struct {
	GormDB *gorm.DB
	DB     *sql.DB
	Redis  *redis.Client
}

func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.DB != nil {
		_ = i.DB.Close()
	}
}

func connectDatabase(cfg *config.Config) (*gorm.DB, *sql.DB, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DSN(), cfg.ConnectRetries)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}
	return gormDB, sqlDB, nil
}

func connectInfra(cfg *config.Config) (*Infra, error) {
	gormDB, sqlDB, err := connectDatabase(cfg)
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.ConnectRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &Infra{GormDB: gormDB, DB: sqlDB, Redis: rdb}, nil
}

// NewRouter builds the engine with the global middleware chain, CORS,
// /healthz and /metrics. Feature routes are added by registerModules.
func NewRouter(
	cfg *config.Config,
	collector middleware.HTTPMetrics,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
	checks ...HealthCheck,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.ContextLogger(logger),
		middleware.AccessLog(),
		middleware.Metrics(collector),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.IdempotencyKeyHeader, middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	router.NoMethod(func(c *gin.Context) {
		response.Error(c, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})
	router.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})

	router.GET("/healthz", healthHandler(checks))
	router.GET("/metrics", gin.WrapH(metrics.Handler(gatherer)))

	return router
}

func healthHandler(checks []HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{}
		healthy := true
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				status[hc.Name] = "down"
				healthy = false
				continue
			}
			status[hc.Name] = "up"
		}

		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "UNAVAILABLE", "Dependency unavailable", status)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "checks": status}, nil)
	}
}

// BuildApp connects the infrastructure and returns the fully routed engine.
// The returned cleanup closes every connection.
func BuildApp(cfg *config.Config, logger *zap.Logger) (*gin.Engine, func(), error) {
	infra, err := connectInfra(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("infrastructure connected")

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	router := NewRouter(cfg, collector, registry, logger,
		HealthCheck{Name: "postgres", Check: infra.DB.PingContext},
		HealthCheck{Name: "redis", Check: func(ctx context.Context) error { return infra.Redis.Ping(ctx).Err() }},
	)

	if err := registerModules(router, cfg, infra, collector, logger); err != nil {
		infra.Close()
		return nil, nil, err
	}

	return router, infra.Close, nil
}
