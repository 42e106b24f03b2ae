package app

import (
	"fmt"

	billingHTTP "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/http"
	billingRepository "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/repository"
	billingService "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/service"
	billingUseCase "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/usecase"
	orderRepository "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/repository"
	registrationRepo "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/registration/repository"
)

// WebhookEventRepository returns the idempotency ledger repository based on database driver.
func (c *Container) WebhookEventRepository() (billingUseCase.WebhookEventRepository, error) {
	var err error
	c.eventRepoInit.Do(func() {
		c.eventRepo, err = c.initWebhookEventRepository()
		if err != nil {
			c.initErrors["eventRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventRepo"]; exists {
		return nil, storedErr
	}
	return c.eventRepo, nil
}

// OrderRepository returns the order repository based on database driver.
func (c *Container) OrderRepository() (billingUseCase.OrderRepository, error) {
	var err error
	c.orderRepoInit.Do(func() {
		c.orderRepo, err = c.initOrderRepository()
		if err != nil {
			c.initErrors["orderRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["orderRepo"]; exists {
		return nil, storedErr
	}
	return c.orderRepo, nil
}

// RegistrationRepository returns the domain registration repository based on database driver.
func (c *Container) RegistrationRepository() (registrationRepository, error) {
	var err error
	c.registrationRepoInit.Do(func() {
		c.registrationRepo, err = c.initRegistrationRepository()
		if err != nil {
			c.initErrors["registrationRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["registrationRepo"]; exists {
		return nil, storedErr
	}
	return c.registrationRepo, nil
}

// WebhookUseCase returns the webhook reconciliation use case.
// When metrics are enabled it is wrapped with the metrics decorator.
func (c *Container) WebhookUseCase() (billingUseCase.WebhookUseCase, error) {
	var err error
	c.webhookUseCaseInit.Do(func() {
		c.webhookUseCase, err = c.initWebhookUseCase()
		if err != nil {
			c.initErrors["webhookUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["webhookUseCase"]; exists {
		return nil, storedErr
	}
	return c.webhookUseCase, nil
}

// WebhookHandler returns the HTTP handler for payment webhook deliveries.
func (c *Container) WebhookHandler() (*billingHTTP.WebhookHandler, error) {
	var err error
	c.webhookHandlerInit.Do(func() {
		c.webhookHandler, err = c.initWebhookHandler()
		if err != nil {
			c.initErrors["webhookHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["webhookHandler"]; exists {
		return nil, storedErr
	}
	return c.webhookHandler, nil
}

// initWebhookEventRepository creates the idempotency ledger repository based on the database driver.
func (c *Container) initWebhookEventRepository() (billingUseCase.WebhookEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for webhook event repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return billingRepository.NewPostgreSQLWebhookEventRepository(db), nil
	case "mysql":
		return billingRepository.NewMySQLWebhookEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initOrderRepository creates the order repository based on the database driver.
func (c *Container) initOrderRepository() (billingUseCase.OrderRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for order repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return orderRepository.NewPostgreSQLOrderRepository(db), nil
	case "mysql":
		return orderRepository.NewMySQLOrderRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRegistrationRepository creates the registration repository based on the database driver.
func (c *Container) initRegistrationRepository() (registrationRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for registration repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return registrationRepo.NewPostgreSQLRegistrationRepository(db), nil
	case "mysql":
		return registrationRepo.NewMySQLRegistrationRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initWebhookUseCase creates the webhook use case with all its dependencies.
func (c *Container) initWebhookUseCase() (billingUseCase.WebhookUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for webhook use case: %w", err)
	}

	eventRepo, err := c.WebhookEventRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook event repository for webhook use case: %w", err)
	}

	orderRepo, err := c.OrderRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get order repository for webhook use case: %w", err)
	}

	registrationRepo, err := c.RegistrationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get registration repository for webhook use case: %w", err)
	}

	notificationUseCase, err := c.NotificationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get notification use case for webhook use case: %w", err)
	}

	auditUseCase, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for webhook use case: %w", err)
	}

	useCase := billingUseCase.NewWebhookUseCase(
		txManager,
		eventRepo,
		orderRepo,
		registrationRepo,
		c.RegistrarClient(),
		notificationUseCase,
		auditUseCase,
		c.config.RegistrarTimeout,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for webhook use case: %w", err)
		}
		useCase = billingUseCase.NewWebhookUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}

// initWebhookHandler creates the webhook HTTP handler with its dependencies.
func (c *Container) initWebhookHandler() (*billingHTTP.WebhookHandler, error) {
	webhookUseCase, err := c.WebhookUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook use case for webhook handler: %w", err)
	}

	verifier := billingService.NewSignatureVerifier(
		c.config.WebhookSigningSecret,
		c.config.WebhookSignatureTolerance,
	)

	return billingHTTP.NewWebhookHandler(
		verifier,
		webhookUseCase,
		c.config.WebhookMaxBodyBytes,
		c.Logger(),
	), nil
}
