package orders

import (
	"errors"
	"fmt"
)

// Error codes. The HTTP layer maps them to status codes.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodePaymentNotCompleted = "PAYMENT_NOT_COMPLETED"
	CodePaymentLookup       = "PAYMENT_LOOKUP_FAILED"
	CodeUnexpected          = "UNEXPECTED_ERROR"
)

// Sentinels for errors.Is; matching is by code only.
var (
	ErrValidation          = &Error{Code: CodeValidation}
	ErrPaymentNotCompleted = &Error{Code: CodePaymentNotCompleted}
	ErrPaymentLookup       = &Error{Code: CodePaymentLookup}
)

// Error is a checkout failure with a stable code and a caller-facing message.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func PaymentNotCompleted(paymentID string, providerStatus string) *Error {
	return &Error{
		Code:    CodePaymentNotCompleted,
		Message: fmt.Sprintf("payment %s is not completed (status %s)", paymentID, providerStatus),
	}
}

func PaymentLookup(paymentID string, cause error) *Error {
	return &Error{
		Code:    CodePaymentLookup,
		Message: fmt.Sprintf("lookup of payment %s failed", paymentID),
		Cause:   cause,
	}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeUnexpected.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnexpected
}
