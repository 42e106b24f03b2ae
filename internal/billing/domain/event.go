// Package domain defines the billing domain: the webhook event ledger and the
// payment-processor event envelope received on the webhook endpoint.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types delivered by the payment processor. Only checkout completion
// drives fulfillment; every other type is acknowledged and ignored.
const (
	EventTypeCheckoutCompleted = "checkout.session.completed"
)

// WebhookEvent is one row of the idempotency ledger. A row is created the
// first time an external event id is seen and never mutated or deleted.
type WebhookEvent struct {
	ID              uuid.UUID
	ExternalEventID string
	EventType       string
	ReceivedAt      time.Time
}

// NewWebhookEvent builds a ledger entry for an inbound event.
func NewWebhookEvent(externalEventID, eventType string) *WebhookEvent {
	return &WebhookEvent{
		ID:              uuid.Must(uuid.NewV7()),
		ExternalEventID: externalEventID,
		EventType:       eventType,
		ReceivedAt:      time.Now().UTC(),
	}
}

// Event is the payment processor's signed webhook envelope.
type Event struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Created int64     `json:"created"`
	Data    EventData `json:"data"`
}

// EventData wraps the object the event describes.
type EventData struct {
	Object CheckoutSession `json:"object"`
}

// CheckoutSession is the completed checkout object carried by
// checkout.session.completed events. Metadata is attacker-influenced: it was
// set at checkout-session creation time but the webhook is the trust boundary,
// so it must pass strict validation before any downstream call.
type CheckoutSession struct {
	ID            string            `json:"id"`
	PaymentIntent string            `json:"payment_intent"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}

// ParseEvent decodes a verified raw webhook body into an Event.
func ParseEvent(rawBody []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
