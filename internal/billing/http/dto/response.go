// Package dto provides data transfer objects for webhook HTTP handling.
package dto

// WebhookResponse acknowledges a webhook delivery. The processor only cares
// about the status code; the body confirms receipt for humans reading logs.
type WebhookResponse struct {
	Received bool `json:"received"`
}

// NewWebhookResponse builds the standard acknowledgement body.
func NewWebhookResponse() WebhookResponse {
	return WebhookResponse{Received: true}
}
