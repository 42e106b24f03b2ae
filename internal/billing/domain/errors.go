package domain

import "errors"

// Billing-specific sentinel errors. Handlers decide the response contract:
// signature and metadata failures become 400s, benign no-ops become 200s.
var (
	// ErrInvalidSignature indicates the webhook signature header failed verification.
	// The message is deliberately generic so callers cannot learn which part failed.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrDuplicateEvent indicates the external event id was already recorded in the ledger.
	ErrDuplicateEvent = errors.New("event already processed")

	// ErrOwnershipMismatch indicates the event's claimed customer does not own the
	// referenced order. Treated as a security incident, not an ordinary failure.
	ErrOwnershipMismatch = errors.New("order ownership mismatch")
)
