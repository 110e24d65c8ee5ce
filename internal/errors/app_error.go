package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Retryable  bool
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeBadRequest           = "BAD_REQUEST"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeInternal             = "INTERNAL_ERROR"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeThirdPartyError      = "THIRD_PARTY_ERROR"
	ErrCodeTooManyRequests      = "TOO_MANY_REQUESTS"
	ErrCodeEmptyCart            = "EMPTY_CART"
	ErrCodeMissingPaymentTerms  = "MISSING_PAYMENT_TERMS"
	ErrCodeCartLocked           = "CART_LOCKED"
	ErrCodeSubmissionInProgress = "SUBMISSION_IN_PROGRESS"
	ErrCodeCatalogStale         = "CATALOG_STALE"
	ErrCodeSubmissionTimeout    = "SUBMISSION_TIMEOUT"
	ErrCodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
	ErrCodeRequestTokenConflict = "REQUEST_TOKEN_CONFLICT"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func DatabaseError(message string) *AppError {
	return NewAppError(ErrCodeDatabaseError, message, http.StatusInternalServerError)
}

func ThirdPartyError(message string) *AppError {
	return NewAppError(ErrCodeThirdPartyError, message, http.StatusInternalServerError)
}

func TooManyRequestsError(message string) *AppError {
	return NewAppError(ErrCodeTooManyRequests, message, http.StatusTooManyRequests)
}

// EmptyCartError and MissingPaymentTermsError are user-correctable
// submission rejections. They never change workflow state.
func EmptyCartError() *AppError {
	return NewAppError(ErrCodeEmptyCart, "Cannot submit an order with an empty cart", http.StatusUnprocessableEntity)
}

func MissingPaymentTermsError() *AppError {
	return NewAppError(ErrCodeMissingPaymentTerms, "Please select payment terms", http.StatusUnprocessableEntity)
}

func CartLockedError() *AppError {
	return NewAppError(ErrCodeCartLocked, "Cart cannot be changed while the order is being submitted", http.StatusConflict)
}

func SubmissionInProgressError() *AppError {
	return NewAppError(ErrCodeSubmissionInProgress, "An order submission is already in progress for this session", http.StatusConflict)
}

func CatalogStaleError(productIDs []string) *AppError {
	return NewAppError(ErrCodeCatalogStale, "Product prices changed, please review the order", http.StatusConflict).
		WithDetail(fmt.Sprintf("repriced products: %v", productIDs))
}

func SubmissionTimeoutError() *AppError {
	e := NewAppError(ErrCodeSubmissionTimeout, "Order submission timed out, please retry", http.StatusGatewayTimeout)
	e.Retryable = true

	return e
}

func ServiceUnavailableError(message string) *AppError {
	e := NewAppError(ErrCodeServiceUnavailable, message, http.StatusServiceUnavailable)
	e.Retryable = true

	return e
}

func RequestTokenConflictError() *AppError {
	return NewAppError(ErrCodeRequestTokenConflict, "Request token was already used by another session", http.StatusConflict)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code string) bool {
	appErr, ok := IsAppError(err)

	return ok && appErr.Code == code
}

// field validation error.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason))
}
