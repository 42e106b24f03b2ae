package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/domain"
)

const testSecret = "whsec_test_secret"

// signBody produces a valid signature header for the given body and timestamp.
func signBody(t *testing.T, secret string, body []byte, timestamp int64) string {
	t.Helper()

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(body)

	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func newTestVerifier(t *testing.T, at time.Time) *signatureVerifier {
	t.Helper()

	return &signatureVerifier{
		secret:    []byte(testSecret),
		tolerance: 5 * time.Minute,
		now:       func() time.Time { return at },
	}
}

func TestSignatureVerifier_Verify(t *testing.T) {
	now := time.Unix(1700000000, 0)
	body := []byte(`{"id":"evt_123","type":"checkout.session.completed"}`)

	t.Run("valid signature", func(t *testing.T) {
		verifier := newTestVerifier(t, now)
		header := signBody(t, testSecret, body, now.Unix())

		assert.NoError(t, verifier.Verify(body, header))
	})

	t.Run("multiple v1 signatures, one valid", func(t *testing.T) {
		verifier := newTestVerifier(t, now)
		valid := signBody(t, testSecret, body, now.Unix())
		header := fmt.Sprintf("t=%d,v1=%s,%s", now.Unix(), "0000deadbeef", valid[len(fmt.Sprintf("t=%d,", now.Unix())):])

		assert.NoError(t, verifier.Verify(body, header))
	})

	t.Run("tampered body", func(t *testing.T) {
		verifier := newTestVerifier(t, now)
		header := signBody(t, testSecret, body, now.Unix())

		tampered := []byte(`{"id":"evt_123","type":"checkout.session.completed","amount":1}`)
		assert.ErrorIs(t, verifier.Verify(tampered, header), domain.ErrInvalidSignature)
	})

	t.Run("wrong secret", func(t *testing.T) {
		verifier := newTestVerifier(t, now)
		header := signBody(t, "whsec_other", body, now.Unix())

		assert.ErrorIs(t, verifier.Verify(body, header), domain.ErrInvalidSignature)
	})

	t.Run("stale timestamp", func(t *testing.T) {
		verifier := newTestVerifier(t, now)
		header := signBody(t, testSecret, body, now.Add(-6*time.Minute).Unix())

		assert.ErrorIs(t, verifier.Verify(body, header), domain.ErrInvalidSignature)
	})

	t.Run("future timestamp beyond tolerance", func(t *testing.T) {
		verifier := newTestVerifier(t, now)
		header := signBody(t, testSecret, body, now.Add(6*time.Minute).Unix())

		assert.ErrorIs(t, verifier.Verify(body, header), domain.ErrInvalidSignature)
	})

	t.Run("timestamp just inside tolerance", func(t *testing.T) {
		verifier := newTestVerifier(t, now)
		header := signBody(t, testSecret, body, now.Add(-4*time.Minute).Unix())

		assert.NoError(t, verifier.Verify(body, header))
	})

	t.Run("missing header", func(t *testing.T) {
		verifier := newTestVerifier(t, now)
		assert.ErrorIs(t, verifier.Verify(body, ""), domain.ErrInvalidSignature)
	})

	t.Run("malformed header", func(t *testing.T) {
		verifier := newTestVerifier(t, now)

		malformed := []string{
			"not-a-signature",
			"t=abc,v1=deadbeef",
			"t=1700000000",
			"v1=deadbeef",
		}
		for _, header := range malformed {
			assert.ErrorIs(t, verifier.Verify(body, header), domain.ErrInvalidSignature, "header: %s", header)
		}
	})

	t.Run("empty secret", func(t *testing.T) {
		verifier := &signatureVerifier{secret: nil, tolerance: time.Minute, now: func() time.Time { return now }}
		header := signBody(t, testSecret, body, now.Unix())

		assert.ErrorIs(t, verifier.Verify(body, header), domain.ErrInvalidSignature)
	})
}

func TestNewSignatureVerifier(t *testing.T) {
	verifier := NewSignatureVerifier(testSecret, 5*time.Minute)
	assert.NotNil(t, verifier)

	body := []byte(`{"id":"evt_live"}`)
	header := signBody(t, testSecret, body, time.Now().Unix())
	assert.NoError(t, verifier.Verify(body, header))
}
