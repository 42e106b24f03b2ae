// Package http provides HTTP handlers for audit trail queries.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/http/dto"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/repository"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/httputil"

	auditUseCase "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/usecase"
)

// AuditLogHandler handles HTTP requests for audit trail queries.
type AuditLogHandler struct {
	auditUseCase auditUseCase.AuditUseCase
	logger       *slog.Logger
}

// NewAuditLogHandler creates a new audit log handler with required dependencies.
func NewAuditLogHandler(useCase auditUseCase.AuditUseCase, logger *slog.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		auditUseCase: useCase,
		logger:       logger,
	}
}

// ListHandler retrieves a filtered audit trail page.
// GET /v1/audit-logs?action=&entity_type=&from=&to=&offset=0&limit=50
// Time filters use RFC 3339. Returns 200 OK with entries newest first.
func (h *AuditLogHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	filter := repository.ListFilter{
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}

	if from := c.Query("from"); from != "" {
		filter.From, err = time.Parse(time.RFC3339, from)
		if err != nil {
			httputil.HandleValidationErrorGin(c,
				fmt.Errorf("from must be an RFC 3339 timestamp"), h.logger)
			return
		}
	}
	if to := c.Query("to"); to != "" {
		filter.To, err = time.Parse(time.RFC3339, to)
		if err != nil {
			httputil.HandleValidationErrorGin(c,
				fmt.Errorf("to must be an RFC 3339 timestamp"), h.logger)
			return
		}
	}

	entries, err := h.auditUseCase.List(c.Request.Context(), filter, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditLogsToListResponse(entries))
}
