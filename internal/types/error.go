package types

import "fmt"

// ErrorKind classifies a service failure so the HTTP boundary can translate
// it into a status code without inspecting message text.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindNotFound    ErrorKind = "not_found"
	KindForbidden   ErrorKind = "forbidden"
	KindUnavailable ErrorKind = "unavailable"
	KindInternal    ErrorKind = "internal"
)

// ServiceError is the tagged failure returned by every service operation.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func Validation(message string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: message}
}

func NotFound(message string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: message}
}

func Forbidden(message string) *ServiceError {
	return &ServiceError{Kind: KindForbidden, Message: message}
}

func Unavailable(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindUnavailable, Message: message, Err: err}
}

func Internal(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the classification of err, defaulting to internal for
// anything that is not a ServiceError.
func KindOf(err error) ErrorKind {
	if se, ok := err.(*ServiceError); ok {
		return se.Kind
	}
	return KindInternal
}
