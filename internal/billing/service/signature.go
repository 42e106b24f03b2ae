package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/domain"
)

// signatureVerifier implements SignatureVerifier for the payment processor's
// documented scheme: the header carries a unix timestamp and one or more
// HMAC-SHA256 signatures computed over "<timestamp>.<rawBody>".
//
// Header format: "t=1700000000,v1=<hex digest>[,v1=<hex digest>...]"
type signatureVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewSignatureVerifier creates a SignatureVerifier with the shared signing
// secret and the maximum accepted signature age.
func NewSignatureVerifier(secret string, tolerance time.Duration) SignatureVerifier {
	return &signatureVerifier{
		secret:    []byte(secret),
		tolerance: tolerance,
		now:       time.Now,
	}
}

// Verify checks the signature header against the raw request body.
// All failure modes return the same generic domain.ErrInvalidSignature.
func (v *signatureVerifier) Verify(rawBody []byte, signatureHeader string) error {
	if len(v.secret) == 0 || signatureHeader == "" {
		return domain.ErrInvalidSignature
	}

	timestamp, signatures, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return domain.ErrInvalidSignature
	}

	// Reject stale timestamps to bound the replay window. The ledger catches
	// exact replays; the tolerance catches recorded-and-resent deliveries.
	signedAt := time.Unix(timestamp, 0)
	if v.tolerance > 0 {
		age := v.now().Sub(signedAt)
		if age > v.tolerance || age < -v.tolerance {
			return domain.ErrInvalidSignature
		}
	}

	expected := v.computeSignature(timestamp, rawBody)
	for _, signature := range signatures {
		if hmac.Equal([]byte(signature), []byte(expected)) {
			return nil
		}
	}

	return domain.ErrInvalidSignature
}

// computeSignature returns the hex HMAC-SHA256 of "<timestamp>.<rawBody>".
func (v *signatureVerifier) computeSignature(timestamp int64, rawBody []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(rawBody)
	return hex.EncodeToString(mac.Sum(nil))
}

// parseSignatureHeader extracts the timestamp and v1 signatures from the header.
func parseSignatureHeader(header string) (int64, []string, error) {
	var timestamp int64
	var signatures []string
	var sawTimestamp bool

	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return 0, nil, fmt.Errorf("malformed signature header element")
		}

		switch key {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("malformed signature timestamp")
			}
			timestamp = parsed
			sawTimestamp = true
		case "v1":
			signatures = append(signatures, value)
		}
	}

	if !sawTimestamp || len(signatures) == 0 {
		return 0, nil, fmt.Errorf("incomplete signature header")
	}

	return timestamp, signatures, nil
}
