package domain

import (
	"strconv"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	appValidation "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/validation"
)

// Registration bounds enforced on untrusted checkout metadata.
const (
	MinRegistrationYears = 1
	MaxRegistrationYears = 10
	MinNameservers       = 2
	MaxNameservers       = 4
)

// CheckoutMetadata is the raw, untrusted metadata attached to a checkout
// session. All fields arrive as strings; nameservers are comma-separated.
type CheckoutMetadata struct {
	OrderID     string
	CustomerID  string
	Domain      string
	Years       string
	IDProtect   string
	Nameservers string
}

// DomainOrderMetadata is the validated, typed form of CheckoutMetadata. It is
// the only shape the registration orchestrator accepts.
type DomainOrderMetadata struct {
	OrderID     uuid.UUID
	CustomerID  uuid.UUID
	Domain      string
	Years       int
	IDProtect   bool
	Nameservers []string
}

// CheckoutMetadataFromMap extracts the known keys from an event's metadata map.
// Unknown keys are ignored; missing keys surface as validation failures.
func CheckoutMetadataFromMap(m map[string]string) CheckoutMetadata {
	return CheckoutMetadata{
		OrderID:     m["order_id"],
		CustomerID:  m["customer_id"],
		Domain:      m["domain"],
		Years:       m["years"],
		IDProtect:   m["id_protect"],
		Nameservers: m["nameservers"],
	}
}

// Validate checks the raw metadata against the strict registration grammar.
// Anything outside the grammar is rejected outright rather than coerced.
func (m CheckoutMetadata) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.OrderID,
			validation.Required.Error("order_id is required"),
			appValidation.UUIDString,
		),
		validation.Field(&m.CustomerID,
			validation.Required.Error("customer_id is required"),
			appValidation.UUIDString,
		),
		validation.Field(&m.Domain,
			validation.Required.Error("domain is required"),
			validation.Length(1, 253).Error("domain must be at most 253 characters"),
			appValidation.RegistrableDomain,
		),
		validation.Field(&m.Years,
			validation.Required.Error("years is required"),
			validation.By(validateYears),
		),
		validation.Field(&m.IDProtect,
			validation.In("", "true", "false").Error("id_protect must be true or false"),
		),
		validation.Field(&m.Nameservers,
			validation.Required.Error("nameservers is required"),
			validation.By(validateNameservers),
		),
	)
}

// Parse validates the raw metadata and converts it into its typed form.
func (m CheckoutMetadata) Parse() (*DomainOrderMetadata, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	years, err := strconv.Atoi(strings.TrimSpace(m.Years))
	if err != nil {
		return nil, validation.NewError("validation_years_format", "years must be an integer")
	}

	return &DomainOrderMetadata{
		OrderID:     uuid.MustParse(m.OrderID),
		CustomerID:  uuid.MustParse(m.CustomerID),
		Domain:      strings.ToLower(m.Domain),
		Years:       years,
		IDProtect:   m.IDProtect == "true",
		Nameservers: splitNameservers(m.Nameservers),
	}, nil
}

// SplitDomain splits a validated registrable domain into its second-level
// domain and top-level domain parts, as expected by registrar purchase calls.
func (d *DomainOrderMetadata) SplitDomain() (sld, tld string) {
	idx := strings.Index(d.Domain, ".")
	return d.Domain[:idx], d.Domain[idx+1:]
}

func validateYears(value any) error {
	s, _ := value.(string)

	years, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return validation.NewError("validation_years_format", "years must be an integer")
	}
	if years < MinRegistrationYears || years > MaxRegistrationYears {
		return validation.NewError(
			"validation_years_range",
			"years must be between 1 and 10",
		)
	}
	return nil
}

func validateNameservers(value any) error {
	s, _ := value.(string)

	nameservers := splitNameservers(s)
	if len(nameservers) < MinNameservers || len(nameservers) > MaxNameservers {
		return validation.NewError(
			"validation_nameservers_count",
			"nameservers must contain between 2 and 4 entries",
		)
	}

	for _, ns := range nameservers {
		if !appValidation.IsHostname(ns) {
			return validation.NewError(
				"validation_nameserver_format",
				"nameservers must be valid hostnames",
			)
		}
	}
	return nil
}

func splitNameservers(s string) []string {
	parts := strings.Split(s, ",")
	nameservers := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			nameservers = append(nameservers, trimmed)
		}
	}
	return nameservers
}
