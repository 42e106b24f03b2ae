// Package dto provides data transfer objects for order HTTP handling.
package dto

import (
	"time"

	orderDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/domain"
	orderUseCase "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/order/usecase"
	registrationDomain "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/registration/domain"
)

// RegistrationResponse represents a domain registration in API responses.
type RegistrationResponse struct {
	ID                  string     `json:"id"`
	DomainName          string     `json:"domain_name"`
	TLD                 string     `json:"tld"`
	Years               int        `json:"years"`
	IDProtect           bool       `json:"id_protect"`
	Nameservers         []string   `json:"nameservers"`
	Status              string     `json:"status"`
	RegistrationDate    *time.Time `json:"registration_date,omitempty"`
	ExpiryDate          *time.Time `json:"expiry_date,omitempty"`
	ExternalRegistrarID *string    `json:"external_registrar_id,omitempty"`
	LastError           *string    `json:"last_error,omitempty"`
}

// OrderResponse represents an order with its registration in API responses.
type OrderResponse struct {
	ID              string                `json:"id"`
	CustomerID      string                `json:"customer_id"`
	Status          string                `json:"status"`
	TotalAmount     int64                 `json:"total_amount"`
	Currency        string                `json:"currency"`
	PaymentIntentID *string               `json:"payment_intent_id,omitempty"`
	Registration    *RegistrationResponse `json:"registration,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// MapOrderDetailToResponse converts an order detail to an API response.
func MapOrderDetailToResponse(detail *orderUseCase.OrderDetail) OrderResponse {
	response := mapOrder(detail.Order)
	if detail.Registration != nil {
		registration := mapRegistration(detail.Registration)
		response.Registration = &registration
	}
	return response
}

func mapOrder(order *orderDomain.Order) OrderResponse {
	return OrderResponse{
		ID:              order.ID.String(),
		CustomerID:      order.CustomerID.String(),
		Status:          string(order.Status),
		TotalAmount:     order.TotalAmount,
		Currency:        order.Currency,
		PaymentIntentID: order.PaymentIntentID,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func mapRegistration(registration *registrationDomain.DomainRegistration) RegistrationResponse {
	return RegistrationResponse{
		ID:                  registration.ID.String(),
		DomainName:          registration.DomainName,
		TLD:                 registration.TLD,
		Years:               registration.Years,
		IDProtect:           registration.IDProtect,
		Nameservers:         registration.Nameservers,
		Status:              string(registration.Status),
		RegistrationDate:    registration.RegistrationDate,
		ExpiryDate:          registration.ExpiryDate,
		ExternalRegistrarID: registration.ExternalRegistrarID,
		LastError:           registration.LastError,
	}
}
