package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/metrics"

	auditHTTP "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/http"
	billingHTTP "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/http"
	notificationHTTP "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/notification/http"
	orderHTTP "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/http"
)

// RouterConfig carries the handlers and settings the router wires together.
type RouterConfig struct {
	WebhookHandler      *billingHTTP.WebhookHandler
	OrderHandler        *orderHTTP.OrderHandler
	NotificationHandler *notificationHTTP.NotificationHandler
	AuditLogHandler     *auditHTTP.AuditLogHandler

	DB     *sql.DB
	Logger *slog.Logger

	CORSEnabled      bool
	CORSAllowOrigins string

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	MeterProvider    otelmetric.MeterProvider
	MetricsNamespace string
}

// SetupRouter builds the gin engine with middleware and all routes.
func SetupRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(cfg.Logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, cfg.Logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MeterProvider, cfg.MetricsNamespace))
	}

	router.GET("/health", healthHandler)
	router.GET("/ready", readinessHandler(cfg.DB))

	v1 := router.Group("/v1")
	{
		webhook := v1.Group("/webhooks")
		if cfg.RateLimitEnabled {
			webhook.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
		}
		webhook.POST("/payment", cfg.WebhookHandler.HandleWebhook)

		v1.GET("/orders/:id", cfg.OrderHandler.GetHandler)
		v1.GET("/notifications", cfg.NotificationHandler.ListHandler)
		v1.GET("/audit-logs", cfg.AuditLogHandler.ListHandler)
	}

	return router
}

// healthHandler reports process liveness.
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the database is reachable.
func readinessHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
