// Package domain defines the domain-registration model driven by the
// registration orchestrator.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// RegistrationStatus represents the state of a registrar transaction.
type RegistrationStatus string

const (
	RegistrationStatusRegistering RegistrationStatus = "registering"
	RegistrationStatusActive      RegistrationStatus = "active"
	RegistrationStatusFailed      RegistrationStatus = "failed"
)

// MockExternalIDPrefix marks synthetic registrations produced when registrar
// credentials are absent, so they are never mistaken for real purchases.
const MockExternalIDPrefix = "mock_"

// daysPerYear keeps expiry arithmetic exact: a registration year is always
// 365 days, independent of calendar leap years.
const daysPerYear = 365

// DomainRegistration tracks one domain purchase tied to exactly one order.
// Created when the order enters processing; mutated only by the orchestrator;
// terminal states are active or failed.
type DomainRegistration struct {
	ID                  uuid.UUID
	OrderID             uuid.UUID
	CustomerID          uuid.UUID
	DomainName          string
	TLD                 string
	Years               int
	IDProtect           bool
	Nameservers         []string
	Status              RegistrationStatus
	RegistrationDate    *time.Time
	ExpiryDate          *time.Time
	ExternalRegistrarID *string
	LastError           *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewDomainRegistration builds a registration in the registering state.
func NewDomainRegistration(
	orderID, customerID uuid.UUID,
	domainName, tld string,
	years int,
	idProtect bool,
	nameservers []string,
) *DomainRegistration {
	now := time.Now().UTC()
	return &DomainRegistration{
		ID:          uuid.Must(uuid.NewV7()),
		OrderID:     orderID,
		CustomerID:  customerID,
		DomainName:  domainName,
		TLD:         tld,
		Years:       years,
		IDProtect:   idProtect,
		Nameservers: nameservers,
		Status:      RegistrationStatusRegistering,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ExpiryDate computes the expiry for a registration starting at the given
// date: start + years*365 days, exact arithmetic.
func ExpiryDate(start time.Time, years int) time.Time {
	return start.Add(time.Duration(years) * daysPerYear * 24 * time.Hour)
}

// Activate marks the registration active with the registrar's order id and
// computes the expiry from the registration date.
func (r *DomainRegistration) Activate(externalID string, registeredAt time.Time) {
	expiry := ExpiryDate(registeredAt, r.Years)

	r.Status = RegistrationStatusActive
	r.RegistrationDate = &registeredAt
	r.ExpiryDate = &expiry
	r.ExternalRegistrarID = &externalID
	r.UpdatedAt = time.Now().UTC()
}

// Fail marks the registration failed and stores the error detail for triage.
func (r *DomainRegistration) Fail(errorDetail string) {
	r.Status = RegistrationStatusFailed
	r.LastError = &errorDetail
	r.UpdatedAt = time.Now().UTC()
}

// IsMock reports whether this registration came from the synthetic path.
func (r *DomainRegistration) IsMock() bool {
	return r.ExternalRegistrarID != nil &&
		len(*r.ExternalRegistrarID) > len(MockExternalIDPrefix) &&
		(*r.ExternalRegistrarID)[:len(MockExternalIDPrefix)] == MockExternalIDPrefix
}
