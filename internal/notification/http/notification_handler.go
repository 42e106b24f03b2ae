// Package http provides HTTP handlers for notification queries.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/httputil"
	"github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/notification/http/dto"

	notificationUseCase "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/notification/usecase"
)

// NotificationHandler handles HTTP requests for notification queries.
type NotificationHandler struct {
	notificationUseCase notificationUseCase.NotificationUseCase
	logger              *slog.Logger
}

// NewNotificationHandler creates a new notification handler with required dependencies.
func NewNotificationHandler(
	useCase notificationUseCase.NotificationUseCase,
	logger *slog.Logger,
) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: useCase,
		logger:              logger,
	}
}

// ListHandler retrieves a user's notifications with pagination support.
// GET /v1/notifications?user_id=<uuid>&offset=0&limit=50
// Returns 200 OK with the paginated notification list, newest first.
func (h *NotificationHandler) ListHandler(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("user_id must be a valid uuid"), h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	notifications, err := h.notificationUseCase.ListByUserID(c.Request.Context(), userID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapNotificationsToListResponse(notifications))
}
