// Package dto provides data transfer objects for notification HTTP handling.
package dto

import (
	"time"

	notificationDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/notification/domain"
)

// NotificationResponse represents a notification in API responses.
type NotificationResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Severity  string     `json:"severity"`
	Category  string     `json:"category"`
	RelatedID *string    `json:"related_id,omitempty"`
	Status    string     `json:"status"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ListNotificationsResponse represents a paginated list of notifications.
type ListNotificationsResponse struct {
	Data []NotificationResponse `json:"data"`
}

// MapNotificationsToListResponse converts domain notifications to a list response.
func MapNotificationsToListResponse(
	notifications []*notificationDomain.Notification,
) ListNotificationsResponse {
	data := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		item := NotificationResponse{
			ID:        notification.ID.String(),
			Title:     notification.Title,
			Message:   notification.Message,
			Severity:  string(notification.Severity),
			Category:  notification.Category,
			Status:    string(notification.Status),
			SentAt:    notification.SentAt,
			CreatedAt: notification.CreatedAt,
		}
		if notification.RelatedID != nil {
			relatedID := notification.RelatedID.String()
			item.RelatedID = &relatedID
		}
		data = append(data, item)
	}

	return ListNotificationsResponse{
		Data: data,
	}
}
