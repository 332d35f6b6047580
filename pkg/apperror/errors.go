package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Configuration (CFG) ----

// ErrMissingConfig reports a required value absent at startup. Fatal: the
// process must exit non-zero before binding any listener.
func ErrMissingConfig(err error) *AppError {
	return Wrap("CFG_001", "Missing required configuration", http.StatusInternalServerError, err)
}

// ---- Client input (REQ) ----

func ErrEmptyCart() *AppError {
	return New("REQ_001", "Cart must contain at least one item", http.StatusBadRequest)
}

func Validation(message string) *AppError {
	return New("REQ_002", message, http.StatusBadRequest)
}

// ---- Payment gateway (GW) ----

// ErrGatewayRejected means the processor declined the request. The wrapped
// error carries the upstream response body for server-side logs only; the
// client sees the generic message.
func ErrGatewayRejected(err error) *AppError {
	return Wrap("GW_001", "Payment gateway rejected the request", http.StatusBadRequest, err)
}

// ErrGatewayUnavailable means the processor was unreachable or returned an
// unexpected failure. Never fatal on the webhook path.
func ErrGatewayUnavailable(err error) *AppError {
	return Wrap("GW_002", "Payment gateway unavailable", http.StatusBadGateway, err)
}

// ---- Mail (MAIL) ----

// ErrMailUnavailable means the mail relay refused or the send timed out.
// Logged and swallowed; never surfaced to any HTTP caller and never retried.
func ErrMailUnavailable(err error) *AppError {
	return Wrap("MAIL_001", "Mail relay unavailable", http.StatusServiceUnavailable, err)
}

// ---- Webhook (WH) ----

func ErrInvalidSignature() *AppError {
	return New("WH_001", "Invalid webhook signature", http.StatusUnauthorized)
}

// ---- System (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
