package impute

import (
	"errors"
	"fmt"
)

// ErrorKind classifies fit and transform failures.
type ErrorKind string

const (
	KindValidation           ErrorKind = "VALIDATION"
	KindInvalidConfiguration ErrorKind = "INVALID_CONFIGURATION"
	KindUnsupportedOperation ErrorKind = "UNSUPPORTED_OPERATION"
	// KindPartialState means statistics were computed but the categorical
	// override did not run. The imputer must be re-fit before use.
	KindPartialState ErrorKind = "PARTIAL_STATE"
	KindNotFitted    ErrorKind = "NOT_FITTED"
	KindCanceled     ErrorKind = "CANCELED"
)

// Sentinels for errors.Is. Any *Error matches the sentinel of its kind.
var (
	ErrValidation           = &Error{Kind: KindValidation}
	ErrInvalidConfiguration = &Error{Kind: KindInvalidConfiguration}
	ErrUnsupportedOperation = &Error{Kind: KindUnsupportedOperation}
	ErrPartialState         = &Error{Kind: KindPartialState}
	ErrNotFitted            = &Error{Kind: KindNotFitted}
	ErrCanceled             = &Error{Kind: KindCanceled}
)

// Error is returned by every operation in this package.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("impute: %s: %v", msg, e.Cause)
	}
	return "impute: " + msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind ErrorKind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func validationError(format string, args ...any) *Error {
	return newError(KindValidation, nil, format, args...)
}

func configError(format string, args ...any) *Error {
	return newError(KindInvalidConfiguration, nil, format, args...)
}
