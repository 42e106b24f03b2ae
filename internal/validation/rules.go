// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/tomxwilliam/pixel-perfect-hive-sub002/internal/errors"
)

const (
	// maxHostnameLength is the RFC-1035 limit for a full hostname.
	maxHostnameLength = 253
	// maxLabelLength is the RFC-1035 limit for a single hostname label.
	maxLabelLength = 63
)

// labelRegex matches a single RFC-1035 hostname label: starts and ends with an
// alphanumeric character, hyphens allowed in between.
var labelRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// IsHostname reports whether s is a valid RFC-1035 hostname. The grammar is
// intentionally strict: webhook metadata crosses a trust boundary and anything
// outside this grammar is rejected before it can reach registrar API calls.
func IsHostname(s string) bool {
	if s == "" || len(s) > maxHostnameLength {
		return false
	}
	if strings.HasSuffix(s, ".") {
		return false
	}

	labels := strings.Split(s, ".")
	for _, label := range labels {
		if len(label) == 0 || len(label) > maxLabelLength {
			return false
		}
		if !labelRegex.MatchString(label) {
			return false
		}
	}
	return true
}

// Hostname validates RFC-1035 hostname syntax.
var Hostname = validation.NewStringRuleWithError(
	IsHostname,
	validation.NewError("validation_hostname_format", "must be a valid hostname"),
)

// RegistrableDomain validates that a hostname has at least two labels, so it
// can be split into a second-level domain and a TLD for registrar calls.
var RegistrableDomain = validation.NewStringRuleWithError(
	func(s string) bool {
		return IsHostname(s) && strings.Count(s, ".") >= 1
	},
	validation.NewError("validation_domain_format", "must be a registrable domain name"),
)

// UUIDString validates canonical UUID text format.
var UUIDString = validation.NewStringRuleWithError(
	func(s string) bool {
		return uuidRegex.MatchString(s)
	},
	validation.NewError("validation_uuid_format", "must be a valid UUID"),
)

var uuidRegex = regexp.MustCompile(
	`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`,
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
