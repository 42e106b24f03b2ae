// Package http provides the HTTP handler for the payment-processor webhook.
//
// The webhook endpoint is the trust boundary with the payment processor:
// signature verification runs against the exact raw body before any parsing,
// and every failure mode maps to the response contract the processor's retry
// logic expects.
package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/http/dto"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/service"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/httputil"

	billingDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/domain"
	billingUseCase "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/billing/usecase"
	apperrors "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/errors"
	orderDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/domain"
)

// SignatureHeader is the payment processor's signature header.
const SignatureHeader = "Stripe-Signature"

// WebhookHandler handles HTTP requests from the payment processor.
type WebhookHandler struct {
	verifier       service.SignatureVerifier
	webhookUseCase billingUseCase.WebhookUseCase
	maxBodyBytes   int64
	logger         *slog.Logger
}

// NewWebhookHandler creates a new webhook handler with required dependencies.
func NewWebhookHandler(
	verifier service.SignatureVerifier,
	webhookUseCase billingUseCase.WebhookUseCase,
	maxBodyBytes int64,
	logger *slog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		verifier:       verifier,
		webhookUseCase: webhookUseCase,
		maxBodyBytes:   maxBodyBytes,
		logger:         logger,
	}
}

// HandleWebhook processes one signed webhook delivery.
// POST /v1/webhooks/payment
// Returns 200 {"received":true} for anything the processor should not retry,
// 400 for signature or metadata failures, 500 for infrastructure failures
// that a redelivery may succeed against.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)

	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("failed to read request body"), h.logger)
		return
	}

	// Verify before parsing: the signature covers the exact raw bytes. The
	// uniform error message never reveals which check failed.
	if err := h.verifier.Verify(rawBody, c.GetHeader(SignatureHeader)); err != nil {
		httputil.HandleBadRequestGin(c, billingDomain.ErrInvalidSignature, h.logger)
		return
	}

	event, err := billingDomain.ParseEvent(rawBody)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("malformed event payload"), h.logger)
		return
	}

	if err := h.webhookUseCase.HandleEvent(c.Request.Context(), event); err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrInvalidInput):
			httputil.HandleBadRequestGin(c, err, h.logger)
			return

		// Benign no-ops are acknowledged so the processor stops redelivering.
		// Ownership mismatches get the same response as success so the
		// endpoint is not an oracle; they are audited upstream.
		case apperrors.Is(err, billingDomain.ErrDuplicateEvent),
			apperrors.Is(err, billingDomain.ErrOwnershipMismatch),
			apperrors.Is(err, orderDomain.ErrOrderNotFound),
			apperrors.Is(err, orderDomain.ErrOrderNotPending):

		default:
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
	}

	c.JSON(http.StatusOK, dto.NewWebhookResponse())
}
