// Package domain defines the append-only audit log entity.
//
// An entry is written for every externally-visible state change so security
// incidents and support questions can be reconstructed after the fact.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded by the billing flow.
const (
	ActionOrderProcessing      = "order.processing"
	ActionOrderCompleted       = "order.completed"
	ActionOrderFailed          = "order.failed"
	ActionOrderRequeued        = "order.requeued"
	ActionRegistrationActive   = "registration.active"
	ActionRegistrationFailed   = "registration.failed"
	ActionOwnershipViolation   = "security.ownership_violation"
	ActionMetadataRejected     = "security.metadata_rejected"
	ActionDuplicateEventSeen   = "webhook.duplicate_event"
	ActionNameserverConfigSkip = "registration.nameserver_config_failed"
)

// Entity types referenced by audit entries.
const (
	EntityTypeOrder        = "order"
	EntityTypeRegistration = "domain_registration"
	EntityTypeWebhookEvent = "webhook_event"
)

// AuditLog is one append-only audit trail entry. OldValues and NewValues hold
// the before/after snapshots of the mutated entity, when applicable.
type AuditLog struct {
	ID          uuid.UUID
	ActorID     uuid.UUID
	Action      string
	EntityType  string
	EntityID    string
	Description string
	OldValues   map[string]any
	NewValues   map[string]any
	CreatedAt   time.Time
}

// NewAuditLog builds an audit entry with a UUIDv7 id and UTC timestamp.
func NewAuditLog(
	actorID uuid.UUID,
	action, entityType, entityID, description string,
	oldValues, newValues map[string]any,
) *AuditLog {
	return &AuditLog{
		ID:          uuid.Must(uuid.NewV7()),
		ActorID:     actorID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		OldValues:   oldValues,
		NewValues:   newValues,
		CreatedAt:   time.Now().UTC(),
	}
}
