// Package dto provides data transfer objects for audit trail HTTP handling.
package dto

import (
	"time"

	auditDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/audit/domain"
)

// AuditLogResponse represents an audit trail entry in API responses.
type AuditLogResponse struct {
	ID          string         `json:"id"`
	ActorID     string         `json:"actor_id"`
	Action      string         `json:"action"`
	EntityType  string         `json:"entity_type"`
	EntityID    string         `json:"entity_id"`
	Description string         `json:"description"`
	OldValues   map[string]any `json:"old_values,omitempty"`
	NewValues   map[string]any `json:"new_values,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ListAuditLogsResponse represents a paginated audit trail page.
type ListAuditLogsResponse struct {
	Data []AuditLogResponse `json:"data"`
}

// MapAuditLogsToListResponse converts domain audit entries to a list response.
func MapAuditLogsToListResponse(entries []*auditDomain.AuditLog) ListAuditLogsResponse {
	data := make([]AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		data = append(data, AuditLogResponse{
			ID:          entry.ID.String(),
			ActorID:     entry.ActorID.String(),
			Action:      entry.Action,
			EntityType:  entry.EntityType,
			EntityID:    entry.EntityID,
			Description: entry.Description,
			OldValues:   entry.OldValues,
			NewValues:   entry.NewValues,
			CreatedAt:   entry.CreatedAt,
		})
	}

	return ListAuditLogsResponse{
		Data: data,
	}
}
