// Package http provides HTTP handlers for order queries.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/httputil"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/http/dto"

	apperrors "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/errors"
	orderDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/domain"
	orderUseCase "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/usecase"
)

// OrderHandler handles HTTP requests for order queries.
type OrderHandler struct {
	orderUseCase orderUseCase.OrderUseCase
	logger       *slog.Logger
}

// NewOrderHandler creates a new order handler with required dependencies.
func NewOrderHandler(useCase orderUseCase.OrderUseCase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderUseCase: useCase,
		logger:       logger,
	}
}

// GetHandler retrieves an order and its registration for support triage.
// GET /v1/orders/:id
// Returns 200 OK with the order, 404 when it does not exist.
func (h *OrderHandler) GetHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("id must be a valid uuid"), h.logger)
		return
	}

	detail, err := h.orderUseCase.Get(c.Request.Context(), id)
	if err != nil {
		if apperrors.Is(err, orderDomain.ErrOrderNotFound) {
			err = apperrors.Wrap(apperrors.ErrNotFound, "order not found")
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrderDetailToResponse(detail))
}
