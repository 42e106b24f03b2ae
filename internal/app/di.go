// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	auditHTTP "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/http"
	auditUseCase "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/usecase"
	billingHTTP "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/http"
	billingUseCase "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/usecase"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/config"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/database"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/http"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/mailer"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/metrics"
	notificationHTTP "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/notification/http"
	notificationUseCase "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/notification/usecase"
	orderHTTP "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/http"
	orderUseCase "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/usecase"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/registrar"
)

// registrationRepository combines the registration persistence operations the
// billing and order use cases need, so one instance serves both.
type registrationRepository interface {
	billingUseCase.RegistrationRepository
	orderUseCase.RegistrationRepository
}

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Managers
	txManager database.TxManager

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// External clients
	registrarClient registrar.Client
	mailSender      mailer.Sender

	// Repositories
	eventRepo        billingUseCase.WebhookEventRepository
	orderRepo        billingUseCase.OrderRepository
	registrationRepo registrationRepository
	notificationRepo notificationUseCase.NotificationRepository
	auditRepo        auditUseCase.AuditLogRepository

	// Use Cases
	webhookUseCase      billingUseCase.WebhookUseCase
	orderUseCase        orderUseCase.OrderUseCase
	notificationUseCase notificationUseCase.NotificationUseCase
	auditUseCase        auditUseCase.AuditUseCase

	// Handlers
	webhookHandler      *billingHTTP.WebhookHandler
	orderHandler        *orderHTTP.OrderHandler
	notificationHandler *notificationHTTP.NotificationHandler
	auditLogHandler     *auditHTTP.AuditLogHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                      sync.Mutex
	loggerInit              sync.Once
	dbInit                  sync.Once
	txManagerInit           sync.Once
	metricsProviderInit     sync.Once
	businessMetricsInit     sync.Once
	registrarClientInit     sync.Once
	mailSenderInit          sync.Once
	eventRepoInit           sync.Once
	orderRepoInit           sync.Once
	registrationRepoInit    sync.Once
	notificationRepoInit    sync.Once
	auditRepoInit           sync.Once
	webhookUseCaseInit      sync.Once
	orderUseCaseInit        sync.Once
	notificationUseCaseInit sync.Once
	auditUseCaseInit        sync.Once
	webhookHandlerInit      sync.Once
	orderHandlerInit        sync.Once
	notificationHandlerInit sync.Once
	auditLogHandlerInit     sync.Once
	httpServerInit          sync.Once
	metricsServerInit       sync.Once
	initErrors              map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder.
// Falls back to a no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// RegistrarClient returns the domain registrar client.
// When registrar credentials are absent the synthetic client is used.
func (c *Container) RegistrarClient() registrar.Client {
	c.registrarClientInit.Do(func() {
		c.registrarClient = c.initRegistrarClient()
	})
	return c.registrarClient
}

// MailSender returns the transactional email sender.
func (c *Container) MailSender() mailer.Sender {
	c.mailSenderInit.Do(func() {
		c.mailSender = c.initMailSender()
	})
	return c.mailSender
}

// HTTPServer returns the API server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown HTTP server if initialized
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	// Shutdown metrics server if initialized
	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Flush metrics provider if initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initRegistrarClient selects the registrar client implementation.
func (c *Container) initRegistrarClient() registrar.Client {
	if c.config.MockRegistrarMode() {
		return registrar.NewMockClient(c.Logger())
	}
	return registrar.NewHTTPClient(
		c.config.RegistrarAPIURL,
		c.config.RegistrarAPIKey,
		c.config.RegistrarTimeout,
		c.Logger(),
	)
}

// initMailSender selects the email sender implementation.
func (c *Container) initMailSender() mailer.Sender {
	if !c.config.SMTPEnabled {
		return mailer.NewNoopSender(c.Logger())
	}
	return mailer.NewSMTPSender(
		c.config.SMTPAddr,
		c.config.SMTPFrom,
		c.config.SMTPUsername,
		c.config.SMTPPassword,
	)
}

// initHTTPServer creates the API server with the full route set.
func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	webhookHandler, err := c.WebhookHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook handler for http server: %w", err)
	}

	orderHandler, err := c.OrderHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get order handler for http server: %w", err)
	}

	notificationHandler, err := c.NotificationHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get notification handler for http server: %w", err)
	}

	auditLogHandler, err := c.AuditLogHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log handler for http server: %w", err)
	}

	routerConfig := http.RouterConfig{
		WebhookHandler:      webhookHandler,
		OrderHandler:        orderHandler,
		NotificationHandler: notificationHandler,
		AuditLogHandler:     auditLogHandler,
		DB:                  db,
		Logger:              c.Logger(),
		CORSEnabled:         c.config.CORSEnabled,
		CORSAllowOrigins:    c.config.CORSAllowOrigins,
		RateLimitEnabled:    c.config.RateLimitWebhookEnabled,
		RateLimitRPS:        c.config.RateLimitWebhookRequestsPerSec,
		RateLimitBurst:      c.config.RateLimitWebhookBurst,
		MetricsNamespace:    c.config.MetricsNamespace,
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}
	if provider != nil {
		routerConfig.MeterProvider = provider.MeterProvider()
	}

	router := http.SetupRouter(routerConfig)

	return http.NewServer(c.config.ServerHost, c.config.ServerPort, router, c.Logger()), nil
}

// initMetricsServer creates the metrics server.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	return http.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		provider,
	), nil
}
