// Package domain defines the user-facing notification entity.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Severity classifies a notification for presentation.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DeliveryStatus represents the delivery state of a notification. Rows are
// created pending and the delivery worker moves them to sent or failed.
type DeliveryStatus string

const (
	DeliveryStatusPending DeliveryStatus = "pending"
	DeliveryStatusSent    DeliveryStatus = "sent"
	DeliveryStatusFailed  DeliveryStatus = "failed"
)

// Notification categories used by the billing flow.
const (
	CategoryDomainRegistration = "domain_registration"
)

// Notification is a user-facing notice queued for delivery. Delivery is
// best-effort: a failure here never affects order or registration state.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Message   string
	Severity  Severity
	Category  string
	RelatedID *uuid.UUID
	Status    DeliveryStatus
	Retries   int
	LastError *string
	SentAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewNotification builds a pending notification.
func NewNotification(
	userID uuid.UUID,
	title, message string,
	severity Severity,
	category string,
	relatedID *uuid.UUID,
) *Notification {
	now := time.Now().UTC()
	return &Notification{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Severity:  severity,
		Category:  category,
		RelatedID: relatedID,
		Status:    DeliveryStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
