// Package registrar abstracts the external domain registrar behind a narrow
// interface so the registration orchestrator stays testable with fakes and
// independent of any specific vendor SDK.
package registrar

import (
	"context"
	"errors"
	"fmt"
)

// ErrPurchaseFailed indicates the registrar rejected or failed the purchase.
var ErrPurchaseFailed = errors.New("registrar purchase failed")

// PurchaseRequest describes one domain purchase.
type PurchaseRequest struct {
	SLD         string
	TLD         string
	Years       int
	Nameservers []string
	IDProtect   bool
}

// PurchaseResult carries the registrar's identifiers for a successful purchase.
type PurchaseResult struct {
	ExternalOrderID string
}

// APIError is a registrar-reported failure with vendor error codes, kept
// verbatim on the record for support triage.
type APIError struct {
	Codes []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("registrar api error: %v", e.Codes)
}

func (e *APIError) Unwrap() error { return ErrPurchaseFailed }

// Client defines the registrar operations the orchestrator needs. Both calls
// are blocking external I/O; implementations must honor context deadlines and
// callers must treat a timeout as failure, never success.
type Client interface {
	// Purchase registers the domain and returns the registrar's order id.
	Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error)

	// ConfigureNameservers points the registered domain at the given
	// nameservers. Best-effort from the caller's perspective: the domain is
	// already purchased and billed when this runs.
	ConfigureNameservers(ctx context.Context, sld, tld string, nameservers []string) error
}
