package app

import (
	"fmt"

	notificationHTTP "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/notification/http"
	notificationRepository "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/notification/repository"
	notificationUseCase "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/notification/usecase"
)

// NotificationRepository returns the notification repository based on database driver.
func (c *Container) NotificationRepository() (notificationUseCase.NotificationRepository, error) {
	var err error
	c.notificationRepoInit.Do(func() {
		c.notificationRepo, err = c.initNotificationRepository()
		if err != nil {
			c.initErrors["notificationRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["notificationRepo"]; exists {
		return nil, storedErr
	}
	return c.notificationRepo, nil
}

// NotificationUseCase returns the notification use case.
func (c *Container) NotificationUseCase() (notificationUseCase.NotificationUseCase, error) {
	var err error
	c.notificationUseCaseInit.Do(func() {
		c.notificationUseCase, err = c.initNotificationUseCase()
		if err != nil {
			c.initErrors["notificationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["notificationUseCase"]; exists {
		return nil, storedErr
	}
	return c.notificationUseCase, nil
}

// NotificationHandler returns the HTTP handler for notification listing.
func (c *Container) NotificationHandler() (*notificationHTTP.NotificationHandler, error) {
	var err error
	c.notificationHandlerInit.Do(func() {
		c.notificationHandler, err = c.initNotificationHandler()
		if err != nil {
			c.initErrors["notificationHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["notificationHandler"]; exists {
		return nil, storedErr
	}
	return c.notificationHandler, nil
}

// initNotificationRepository creates the notification repository based on the database driver.
func (c *Container) initNotificationRepository() (notificationUseCase.NotificationRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for notification repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return notificationRepository.NewPostgreSQLNotificationRepository(db), nil
	case "mysql":
		return notificationRepository.NewMySQLNotificationRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initNotificationUseCase creates the notification use case with all its dependencies.
func (c *Container) initNotificationUseCase() (notificationUseCase.NotificationUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for notification use case: %w", err)
	}

	notificationRepo, err := c.NotificationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get notification repository for notification use case: %w", err)
	}

	useCaseConfig := notificationUseCase.Config{
		Interval:   c.config.NotifierInterval,
		BatchSize:  c.config.NotifierBatchSize,
		MaxRetries: c.config.NotifierMaxRetries,
	}

	resolver := notificationUseCase.StaticRecipientResolver{Address: c.config.SupportEmail}

	return notificationUseCase.NewNotificationUseCase(
		useCaseConfig,
		txManager,
		notificationRepo,
		c.MailSender(),
		resolver,
		c.Logger(),
	), nil
}

// initNotificationHandler creates the notification HTTP handler.
func (c *Container) initNotificationHandler() (*notificationHTTP.NotificationHandler, error) {
	useCase, err := c.NotificationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get notification use case for notification handler: %w", err)
	}

	return notificationHTTP.NewNotificationHandler(useCase, c.Logger()), nil
}
