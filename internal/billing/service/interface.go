// Package service provides technical services for billing operations.
//
// This package implements the webhook signature verification used at the
// payment-processor trust boundary.
package service

// SignatureVerifier defines verification of inbound webhook authenticity.
// Implementations must verify against the exact raw (unparsed) request body;
// parsing before verifying invalidates the signature.
type SignatureVerifier interface {
	// Verify checks the signature header against the raw request body.
	// Returns domain.ErrInvalidSignature on any failure without revealing
	// which part of the verification failed.
	Verify(rawBody []byte, signatureHeader string) error
}
