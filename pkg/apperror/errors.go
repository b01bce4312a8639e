package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError independently of its HTTP status
type Kind string

const (
	KindMissingField          Kind = "MissingField"
	KindInvalidQuantityOrRate Kind = "InvalidQuantityOrRate"
	KindInvalidJSON           Kind = "InvalidJSON"
	KindNoItemsProvided       Kind = "NoItemsProvided"
	KindCompanyRequired       Kind = "CompanyRequired"
	KindCompanyNotFound       Kind = "CompanyNotFound"
	KindInvalidEmail          Kind = "InvalidEmail"
	KindNotFound              Kind = "NotFound"
	KindForbidden             Kind = "Forbidden"
	KindTransientIO           Kind = "TransientIO"
	KindUnauthorized          Kind = "Unauthorized"
	KindBadRequest            Kind = "BadRequest"
	KindConflict              Kind = "Conflict"
	KindPaymentRequired       Kind = "PaymentRequired"
	KindInternal              Kind = "Internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	cause   error
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// IsValidation reports whether the error is the caller's fault
func (e *AppError) IsValidation() bool {
	switch e.Kind {
	case KindMissingField, KindInvalidQuantityOrRate, KindInvalidJSON, KindNoItemsProvided,
		KindCompanyRequired, KindCompanyNotFound, KindInvalidEmail:
		return true
	}
	return false
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrForbidden      = &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: "Forbidden"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: "Resource already exists"}
	ErrTokenExpired   = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Token has expired"}
	ErrInvalidToken   = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid token"}
	ErrPremiumOnly    = &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: "Premium membership required"}
	ErrPaymentPending = &AppError{Code: http.StatusPaymentRequired, Kind: KindPaymentRequired, Message: "Payment not completed"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error of the given kind
func NewValidationError(kind Kind, message string, fieldErrors ...FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    kind,
		Message: message,
		Errors:  fieldErrors,
	}
}

// NewMissingFieldError reports required fields that were absent or blank
func NewMissingFieldError(fields ...string) *AppError {
	fieldErrors := make([]FieldError, 0, len(fields))
	for _, f := range fields {
		fieldErrors = append(fieldErrors, FieldError{Field: f, Message: "is required"})
	}
	return NewValidationError(KindMissingField, "Missing required fields", fieldErrors...)
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewForbiddenError creates a forbidden error with a custom message
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Kind:    KindForbidden,
		Message: message,
	}
}

// NewTransientError wraps an I/O failure the caller may retry
func NewTransientError(message string, cause error) *AppError {
	return &AppError{
		Code:    http.StatusServiceUnavailable,
		Kind:    KindTransientIO,
		Message: message,
		cause:   cause,
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsKind checks if err is an AppError of the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: err.Error(),
	}
}
