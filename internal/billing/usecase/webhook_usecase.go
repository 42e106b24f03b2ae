package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/database"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/registrar"

	auditDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/domain"
	billingDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/domain"
	apperrors "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/errors"
	notificationDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/notification/domain"
	orderDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/domain"
	registrationDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/registration/domain"
)

// webhookUseCase implements the WebhookUseCase interface.
type webhookUseCase struct {
	txManager        database.TxManager
	eventRepo        WebhookEventRepository
	orderRepo        OrderRepository
	registrationRepo RegistrationRepository
	registrarClient  registrar.Client
	dispatcher       NotificationDispatcher
	auditor          AuditRecorder
	registrarTimeout time.Duration
	logger           *slog.Logger
}

// NewWebhookUseCase creates a new webhook reconciliation use case.
func NewWebhookUseCase(
	txManager database.TxManager,
	eventRepo WebhookEventRepository,
	orderRepo OrderRepository,
	registrationRepo RegistrationRepository,
	registrarClient registrar.Client,
	dispatcher NotificationDispatcher,
	auditor AuditRecorder,
	registrarTimeout time.Duration,
	logger *slog.Logger,
) WebhookUseCase {
	return &webhookUseCase{
		txManager:        txManager,
		eventRepo:        eventRepo,
		orderRepo:        orderRepo,
		registrationRepo: registrationRepo,
		registrarClient:  registrarClient,
		dispatcher:       dispatcher,
		auditor:          auditor,
		registrarTimeout: registrarTimeout,
		logger:           logger,
	}
}

// HandleEvent reconciles one verified webhook event.
func (uc *webhookUseCase) HandleEvent(ctx context.Context, event *billingDomain.Event) error {
	if event.Type != billingDomain.EventTypeCheckoutCompleted {
		uc.logger.Debug("ignoring webhook event type",
			slog.String("event_id", event.ID),
			slog.String("event_type", event.Type),
		)
		return nil
	}

	meta, err := billingDomain.CheckoutMetadataFromMap(event.Data.Object.Metadata).Parse()
	if err != nil {
		uc.auditor.Record(ctx, auditDomain.NewAuditLog(
			uuid.Nil,
			auditDomain.ActionMetadataRejected,
			auditDomain.EntityTypeWebhookEvent,
			event.ID,
			"checkout metadata failed validation: "+err.Error(),
			nil, nil,
		))
		return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}

	// The ledger insert is a single atomic statement and stays committed no
	// matter how the rest of the flow ends, so redeliveries short-circuit here.
	ledger := billingDomain.NewWebhookEvent(event.ID, event.Type)
	isNew, err := uc.eventRepo.CreateIfNew(ctx, ledger)
	if err != nil {
		return err
	}
	if !isNew {
		uc.logger.Info("duplicate webhook event acknowledged",
			slog.String("event_id", event.ID),
		)
		uc.auditor.Record(ctx, auditDomain.NewAuditLog(
			meta.CustomerID,
			auditDomain.ActionDuplicateEventSeen,
			auditDomain.EntityTypeWebhookEvent,
			event.ID,
			"external event id was already recorded",
			nil, nil,
		))
		return billingDomain.ErrDuplicateEvent
	}

	order, err := uc.orderRepo.GetByID(ctx, meta.OrderID)
	if err != nil {
		if apperrors.Is(err, orderDomain.ErrOrderNotFound) {
			uc.auditor.Record(ctx, auditDomain.NewAuditLog(
				meta.CustomerID,
				auditDomain.ActionOwnershipViolation,
				auditDomain.EntityTypeOrder,
				meta.OrderID.String(),
				"webhook metadata referenced an order that does not exist",
				nil, nil,
			))
		}
		return err
	}

	if !order.IsOwnedBy(meta.CustomerID) {
		uc.logger.Error("webhook ownership mismatch",
			slog.String("event_id", event.ID),
			slog.String("order_id", order.ID.String()),
			slog.String("claimed_customer_id", meta.CustomerID.String()),
		)
		uc.auditor.Record(ctx, auditDomain.NewAuditLog(
			meta.CustomerID,
			auditDomain.ActionOwnershipViolation,
			auditDomain.EntityTypeOrder,
			order.ID.String(),
			"webhook metadata claimed an order owned by another customer",
			nil, nil,
		))
		return billingDomain.ErrOwnershipMismatch
	}

	if !order.IsPending() {
		uc.logger.Info("order already left pending, acknowledging",
			slog.String("order_id", order.ID.String()),
			slog.String("status", string(order.Status)),
		)
		return orderDomain.ErrOrderNotPending
	}

	registration, err := uc.beginFulfillment(ctx, event, order, meta)
	if err != nil {
		return err
	}

	result, purchaseErr := uc.purchase(ctx, meta)
	if purchaseErr != nil {
		return uc.recordFailure(ctx, order, registration, meta, purchaseErr)
	}

	if err := uc.recordSuccess(ctx, order, registration, meta, result); err != nil {
		return err
	}

	uc.configureNameservers(ctx, registration, meta)
	return nil
}

// beginFulfillment atomically moves the order to processing, records the
// payment reference and creates the registration row in the registering state.
func (uc *webhookUseCase) beginFulfillment(
	ctx context.Context,
	event *billingDomain.Event,
	order *orderDomain.Order,
	meta *billingDomain.DomainOrderMetadata,
) (*registrationDomain.DomainRegistration, error) {
	_, tld := meta.SplitDomain()
	registration := registrationDomain.NewDomainRegistration(
		order.ID, meta.CustomerID, meta.Domain, tld,
		meta.Years, meta.IDProtect, meta.Nameservers,
	)

	err := uc.txManager.WithTx(ctx, func(txCtx context.Context) error {
		// The status guard makes concurrent deliveries that pass the ledger
		// race lose here instead of double-registering.
		err := uc.orderRepo.TransitionStatus(txCtx, order.ID,
			orderDomain.OrderStatusPending, orderDomain.OrderStatusProcessing)
		if err != nil {
			return err
		}

		if paymentIntent := event.Data.Object.PaymentIntent; paymentIntent != "" {
			if err := uc.orderRepo.SetPaymentIntent(txCtx, order.ID, paymentIntent); err != nil {
				return err
			}
		}

		return uc.registrationRepo.Create(txCtx, registration)
	})
	if err != nil {
		return nil, err
	}

	uc.auditor.Record(ctx, auditDomain.NewAuditLog(
		meta.CustomerID,
		auditDomain.ActionOrderProcessing,
		auditDomain.EntityTypeOrder,
		order.ID.String(),
		fmt.Sprintf("payment received, registering %s", meta.Domain),
		map[string]any{"status": string(orderDomain.OrderStatusPending)},
		map[string]any{"status": string(orderDomain.OrderStatusProcessing)},
	))

	return registration, nil
}

// purchase calls the registrar with its own deadline so a slow vendor cannot
// hold the webhook worker indefinitely.
func (uc *webhookUseCase) purchase(
	ctx context.Context,
	meta *billingDomain.DomainOrderMetadata,
) (*registrar.PurchaseResult, error) {
	purchaseCtx, cancel := context.WithTimeout(ctx, uc.registrarTimeout)
	defer cancel()

	sld, tld := meta.SplitDomain()
	return uc.registrarClient.Purchase(purchaseCtx, registrar.PurchaseRequest{
		SLD:         sld,
		TLD:         tld,
		Years:       meta.Years,
		Nameservers: meta.Nameservers,
		IDProtect:   meta.IDProtect,
	})
}

// recordSuccess durably activates the registration and completes the order,
// then queues the exactly-one success notification in the same transaction.
func (uc *webhookUseCase) recordSuccess(
	ctx context.Context,
	order *orderDomain.Order,
	registration *registrationDomain.DomainRegistration,
	meta *billingDomain.DomainOrderMetadata,
	result *registrar.PurchaseResult,
) error {
	registration.Activate(result.ExternalOrderID, time.Now().UTC())

	err := uc.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := uc.registrationRepo.Update(txCtx, registration); err != nil {
			return err
		}

		err := uc.orderRepo.TransitionStatus(txCtx, order.ID,
			orderDomain.OrderStatusProcessing, orderDomain.OrderStatusCompleted)
		if err != nil {
			return err
		}

		uc.dispatcher.Dispatch(txCtx, notificationDomain.NewNotification(
			meta.CustomerID,
			"Domain registered",
			fmt.Sprintf("Your domain %s has been registered.", meta.Domain),
			notificationDomain.SeveritySuccess,
			notificationDomain.CategoryDomainRegistration,
			&registration.ID,
		))
		return nil
	})
	if err != nil {
		return err
	}

	uc.auditor.Record(ctx, auditDomain.NewAuditLog(
		meta.CustomerID,
		auditDomain.ActionRegistrationActive,
		auditDomain.EntityTypeRegistration,
		registration.ID.String(),
		fmt.Sprintf("%s registered with external order id %s", meta.Domain, result.ExternalOrderID),
		nil,
		map[string]any{"status": string(registrationDomain.RegistrationStatusActive)},
	))
	uc.auditor.Record(ctx, auditDomain.NewAuditLog(
		meta.CustomerID,
		auditDomain.ActionOrderCompleted,
		auditDomain.EntityTypeOrder,
		order.ID.String(),
		fmt.Sprintf("order completed, %s active until %s", meta.Domain,
			registration.ExpiryDate.Format(time.DateOnly)),
		map[string]any{"status": string(orderDomain.OrderStatusProcessing)},
		map[string]any{"status": string(orderDomain.OrderStatusCompleted)},
	))

	uc.logger.Info("domain registration completed",
		slog.String("order_id", order.ID.String()),
		slog.String("domain", meta.Domain),
		slog.String("external_order_id", result.ExternalOrderID),
	)
	return nil
}

// recordFailure durably fails the registration and the order and queues the
// exactly-one failure notification. A nil return means the failed state was
// persisted, so the delivery is acknowledged rather than redelivered.
func (uc *webhookUseCase) recordFailure(
	ctx context.Context,
	order *orderDomain.Order,
	registration *registrationDomain.DomainRegistration,
	meta *billingDomain.DomainOrderMetadata,
	purchaseErr error,
) error {
	uc.logger.Error("registrar purchase failed",
		slog.String("order_id", order.ID.String()),
		slog.String("domain", meta.Domain),
		slog.Any("error", purchaseErr),
	)

	registration.Fail(purchaseErr.Error())

	err := uc.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := uc.registrationRepo.Update(txCtx, registration); err != nil {
			return err
		}

		err := uc.orderRepo.TransitionStatus(txCtx, order.ID,
			orderDomain.OrderStatusProcessing, orderDomain.OrderStatusFailed)
		if err != nil {
			return err
		}

		uc.dispatcher.Dispatch(txCtx, notificationDomain.NewNotification(
			meta.CustomerID,
			"Domain registration failed",
			fmt.Sprintf("We could not register %s. Our team has been notified.", meta.Domain),
			notificationDomain.SeverityError,
			notificationDomain.CategoryDomainRegistration,
			&registration.ID,
		))
		return nil
	})
	if err != nil {
		return err
	}

	uc.auditor.Record(ctx, auditDomain.NewAuditLog(
		meta.CustomerID,
		auditDomain.ActionRegistrationFailed,
		auditDomain.EntityTypeRegistration,
		registration.ID.String(),
		"registrar purchase failed: "+purchaseErr.Error(),
		nil,
		map[string]any{"status": string(registrationDomain.RegistrationStatusFailed)},
	))
	uc.auditor.Record(ctx, auditDomain.NewAuditLog(
		meta.CustomerID,
		auditDomain.ActionOrderFailed,
		auditDomain.EntityTypeOrder,
		order.ID.String(),
		"order failed after registrar rejection",
		map[string]any{"status": string(orderDomain.OrderStatusProcessing)},
		map[string]any{"status": string(orderDomain.OrderStatusFailed)},
	))

	return nil
}

// configureNameservers is best-effort: the domain is already purchased, so a
// failure here is logged and audited but never fails the delivery.
func (uc *webhookUseCase) configureNameservers(
	ctx context.Context,
	registration *registrationDomain.DomainRegistration,
	meta *billingDomain.DomainOrderMetadata,
) {
	configCtx, cancel := context.WithTimeout(ctx, uc.registrarTimeout)
	defer cancel()

	sld, tld := meta.SplitDomain()
	if err := uc.registrarClient.ConfigureNameservers(configCtx, sld, tld, meta.Nameservers); err != nil {
		uc.logger.Warn("nameserver configuration failed",
			slog.String("domain", meta.Domain),
			slog.Any("error", err),
		)
		uc.auditor.Record(ctx, auditDomain.NewAuditLog(
			meta.CustomerID,
			auditDomain.ActionNameserverConfigSkip,
			auditDomain.EntityTypeRegistration,
			registration.ID.String(),
			"nameserver configuration failed after purchase: "+err.Error(),
			nil, nil,
		))
	}
}
