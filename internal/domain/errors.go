package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"

	// Dependency error codes: a remote dependency is unreachable, returned
	// a payload that does not match its contract, or accepted the call but
	// produced no usable data.
	ErrCodeUnavailable     = "UNAVAILABLE"
	ErrCodeInvalidResponse = "INVALID_RESPONSE"
	ErrCodeRejected        = "REJECTED"
)

// Validation errors
var (
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
	ErrDimensionMismatch    = NewDomainError(ErrCodeValidation, "embedding has wrong dimensions")
	ErrInvalidPlatform      = NewDomainError(ErrCodeValidation, "invalid campaign platform")
)

// Not found errors
var (
	ErrCampaignPlanNotFound = NewDomainError(ErrCodeNotFound, "campaign plan not found")
	ErrOrganizationNotFound = NewDomainError(ErrCodeNotFound, "organization not found")
	ErrAPIKeyNotFound       = NewDomainError(ErrCodeNotFound, "api key not found")
)

// Dependency errors
var (
	ErrStoreUnavailable        = NewDomainError(ErrCodeUnavailable, "knowledge store is not available")
	ErrStrategyLLMUnavailable  = NewDomainError(ErrCodeUnavailable, "strategy model is not available")
	ErrInvalidStrategyResponse = NewDomainError(ErrCodeInvalidResponse, "strategy model returned malformed output")
	ErrInsertRejected          = NewDomainError(ErrCodeRejected, "store accepted the insert but returned no row")
)

// Authorization errors
var (
	ErrAPIKeyRevoked = NewDomainError(ErrCodeUnauthorized, "api key has been revoked")
	ErrInvalidAPIKey = NewDomainError(ErrCodeUnauthorized, "invalid api key")
)
