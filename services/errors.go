package services

import (
	"fmt"
	"strings"

	"github.com/kataras/iris/v12"
)

// Actor identifies who is performing a core operation. It is passed
// explicitly into every service call instead of being read from ambient
// request state, so the core stays testable without an HTTP layer.
type Actor struct {
	ID   uint
	Role string
}

const (
	RoleCustomer   = "customer"
	RoleVendor     = "vendor"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Staff reports whether the actor may act on resources it does not own.
func (a Actor) Staff() bool {
	return a.Role == RoleVendor || a.Role == RoleAdmin || a.Role == RoleSuperAdmin
}

// Error codes surfaced to clients.
const (
	CodeValidation         = "validation_error"
	CodeNotFound           = "not_found"
	CodeForbidden          = "forbidden"
	CodeInvalidOption      = "invalid_option"
	CodeEmptySelection     = "empty_selection"
	CodeListingUnavailable = "listing_unavailable"
	CodeInsufficient       = "insufficient_availability"
	CodeInvalidTransition  = "invalid_state_transition"
	CodeInternal           = "internal_error"
)

// ServiceError carries an HTTP status, a stable machine code and a
// human-readable message from the services up to the route layer.
type ServiceError struct {
	StatusCode int
	Code       string
	Message    string
	Keys       []string // offending option keys for insufficient_availability
}

func (e *ServiceError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ServiceError {
	return &ServiceError{StatusCode: iris.StatusBadRequest, Code: CodeValidation, Message: message}
}

func NewNotFoundError(what string) *ServiceError {
	return &ServiceError{StatusCode: iris.StatusNotFound, Code: CodeNotFound, Message: what + " not found"}
}

func NewForbiddenError(message string) *ServiceError {
	return &ServiceError{StatusCode: iris.StatusForbidden, Code: CodeForbidden, Message: message}
}

func NewInvalidOptionError(key string) *ServiceError {
	return &ServiceError{
		StatusCode: iris.StatusBadRequest,
		Code:       CodeInvalidOption,
		Message:    fmt.Sprintf("option %q does not exist on this listing", key),
		Keys:       []string{key},
	}
}

func NewEmptySelectionError() *ServiceError {
	return &ServiceError{StatusCode: iris.StatusBadRequest, Code: CodeEmptySelection, Message: "at least one option with a positive quantity is required"}
}

func NewListingUnavailableError() *ServiceError {
	return &ServiceError{StatusCode: iris.StatusBadRequest, Code: CodeListingUnavailable, Message: "this listing is no longer accepting bookings"}
}

func NewInsufficientAvailabilityError(keys []string) *ServiceError {
	return &ServiceError{
		StatusCode: iris.StatusConflict,
		Code:       CodeInsufficient,
		Message:    "not enough availability for: " + strings.Join(keys, ", "),
		Keys:       keys,
	}
}

func NewInvalidTransitionError(from, to string) *ServiceError {
	return &ServiceError{
		StatusCode: iris.StatusBadRequest,
		Code:       CodeInvalidTransition,
		Message:    fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func NewInternalError() *ServiceError {
	return &ServiceError{StatusCode: iris.StatusInternalServerError, Code: CodeInternal, Message: "an internal error occurred"}
}

// AsServiceError normalizes any error to a ServiceError, mapping unknown
// errors to internal_error so persistence failures never leak details.
func AsServiceError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	if se, ok := err.(*ServiceError); ok {
		return se
	}
	return NewInternalError()
}
