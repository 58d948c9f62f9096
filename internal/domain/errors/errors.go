package errors

import (
	"net/http"

	"citapush/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Is lets wrapped copies produced by WithDetails match their template, so
// errors.Is(err, ErrPermissionDenied) works across detail variants.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == other.errorCode
}

// Activation flow errors
var (
	// ErrCapabilityUnsupported means the runtime lacks worker or push
	// support. Terminal for the session, no retry offered.
	ErrCapabilityUnsupported = NewBaseError(
		http.StatusNotImplemented,
		"CAPABILITY_UNSUPPORTED",
		"Tu navegador no soporta notificaciones push",
		"",
	)

	// ErrWorkerRegistrationFailed covers script fetch and registration
	// errors. Recoverable by user retry, never automatic.
	ErrWorkerRegistrationFailed = NewBaseError(
		http.StatusBadGateway,
		"WORKER_REGISTRATION_FAILED",
		"No se pudo registrar el service worker",
		"",
	)

	// ErrPermissionDenied is terminal until the user changes browser
	// settings out of band.
	ErrPermissionDenied = NewBaseError(
		http.StatusForbidden,
		"PERMISSION_DENIED",
		"Debes permitir las notificaciones para recibir alertas de citas",
		"",
	)

	// ErrSubscriptionCreationFailed covers platform-level subscription
	// errors such as a key mismatch or quota. Retryable.
	ErrSubscriptionCreationFailed = NewBaseError(
		http.StatusBadGateway,
		"SUBSCRIPTION_CREATION_FAILED",
		"No se pudo crear la suscripción push",
		"",
	)

	// ErrBackendSubmissionFailed covers network failures and application
	// rejections while persisting the subscription. Retryable.
	ErrBackendSubmissionFailed = NewBaseError(
		http.StatusBadGateway,
		"BACKEND_SUBMISSION_FAILED",
		"No se pudo guardar la suscripción",
		"",
	)
)

// Worker-side errors
var (
	// ErrPayloadMalformed marks inbound push JSON that failed to parse.
	// It is absorbed locally and never surfaced to the user.
	ErrPayloadMalformed = NewBaseError(
		http.StatusBadRequest,
		"PAYLOAD_MALFORMED",
		"El mensaje push no es JSON válido",
		"",
	)

	// ErrWorkerNotActivated means a fetch or push event arrived before
	// the lifecycle chain completed.
	ErrWorkerNotActivated = NewBaseError(
		http.StatusConflict,
		"WORKER_NOT_ACTIVATED",
		"El service worker aún no está activo",
		"",
	)

	// ErrNotificationUnknown means a click referenced a notification that
	// was never shown or is already closed.
	ErrNotificationUnknown = NewBaseError(
		http.StatusNotFound,
		"NOTIFICATION_UNKNOWN",
		"No se encontró la notificación",
		"",
	)
)

// Subscription storage errors
var (
	ErrSubscriptionNotFound = NewBaseError(
		http.StatusNotFound,
		"SUBSCRIPTION_NOT_FOUND",
		"No se encontró la suscripción",
		"",
	)

	ErrInvalidSubscription = NewBaseError(
		http.StatusBadRequest,
		"INVALID_SUBSCRIPTION",
		"La suscripción es inválida",
		"",
	)
)

// Retryable reports whether the user may meaningfully retry the whole
// activation flow after err. Denied and unsupported outcomes are terminal
// for the session.
func Retryable(err error) bool {
	if errors.Is(err, ErrCapabilityUnsupported) || errors.Is(err, ErrPermissionDenied) {
		return false
	}

	return true
}
