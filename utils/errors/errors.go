// Copyright 2025 NetApp, Inc. All Rights Reserved.

package errors

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ///////////////////////////////////////////////////////////////////////////
// Wrappers for standard library errors package
// ///////////////////////////////////////////////////////////////////////////

func New(message string) error {
	return errors.New(message)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Combine merges errors with multierr, dropping nil values.
func Combine(errs ...error) error {
	return multierr.Combine(errs...)
}

// Errors returns the individual errors combined into err.
func Errors(err error) []error {
	return multierr.Errors(err)
}

// ///////////////////////////////////////////////////////////////////////////
// Kind
// ///////////////////////////////////////////////////////////////////////////

// Kind is the closed set of domain error categories shared by every backend.
type Kind string

const (
	KindNone               Kind = ""
	KindNotFound           Kind = "NotFound"
	KindAlreadyExists      Kind = "AlreadyExists"
	KindValidation         Kind = "ValidationError"
	KindForbidden          Kind = "Forbidden"
	KindBackendUnavailable Kind = "BackendUnavailable"
	KindUnmapped           Kind = "UnmappedBackendError"
)

// KindOf classifies err. Errors outside the taxonomy are reported as KindUnmapped.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case IsValidationError(err):
		return KindValidation
	case IsNotFoundError(err):
		return KindNotFound
	case IsAlreadyExistsError(err):
		return KindAlreadyExists
	case IsForbiddenError(err):
		return KindForbidden
	case IsBackendUnavailableError(err):
		return KindBackendUnavailable
	default:
		return KindUnmapped
	}
}

// IsRetryable reports whether the caller may safely retry the failed operation.
func IsRetryable(err error) bool {
	return IsBackendUnavailableError(err)
}

// ///////////////////////////////////////////////////////////////////////////
// notFoundError
// ///////////////////////////////////////////////////////////////////////////

type notFoundError struct {
	inner   error
	message string
}

func (e *notFoundError) Error() string {
	return joinMessage(e.message, e.inner)
}

func (e *notFoundError) Unwrap() error { return e.inner }

func NotFoundError(message string, a ...any) error {
	return &notFoundError{message: format(message, a...)}
}

func WrapWithNotFoundError(err error, message string, a ...any) error {
	return &notFoundError{
		inner:   err,
		message: format(message, a...),
	}
}

func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *notFoundError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// alreadyExistsError
// ///////////////////////////////////////////////////////////////////////////

type alreadyExistsError struct {
	inner   error
	message string
}

func (e *alreadyExistsError) Error() string {
	return joinMessage(e.message, e.inner)
}

func (e *alreadyExistsError) Unwrap() error { return e.inner }

func AlreadyExistsError(message string, a ...any) error {
	return &alreadyExistsError{message: format(message, a...)}
}

func WrapWithAlreadyExistsError(err error, message string, a ...any) error {
	return &alreadyExistsError{
		inner:   err,
		message: format(message, a...),
	}
}

func IsAlreadyExistsError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *alreadyExistsError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// validationError
// ///////////////////////////////////////////////////////////////////////////

// ValidationFailure is implemented by validation errors so callers can report the offending field.
type ValidationFailure interface {
	error
	Field() string
	Reason() string
}

type validationError struct {
	field  string
	reason string
}

func (e *validationError) Error() string {
	if e.field == "" {
		return fmt.Sprintf("validation failed: %s", e.reason)
	}
	return fmt.Sprintf("validation failed for field '%s': %s", e.field, e.reason)
}

func (e *validationError) Field() string { return e.field }

func (e *validationError) Reason() string { return e.reason }

func ValidationError(field, reason string, a ...any) error {
	return &validationError{field: field, reason: format(reason, a...)}
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *validationError
	return errors.As(err, &errPtr)
}

// ValidationFields returns the offending field names of every validation error combined into err.
func ValidationFields(err error) []string {
	var fields []string
	for _, e := range multierr.Errors(err) {
		var errPtr *validationError
		if errors.As(e, &errPtr) {
			fields = append(fields, errPtr.field)
		}
	}
	return fields
}

// ///////////////////////////////////////////////////////////////////////////
// forbiddenError
// ///////////////////////////////////////////////////////////////////////////

type forbiddenError struct {
	inner   error
	message string
}

func (e *forbiddenError) Error() string {
	return joinMessage(e.message, e.inner)
}

func (e *forbiddenError) Unwrap() error { return e.inner }

func ForbiddenError(message string, a ...any) error {
	return &forbiddenError{message: format(message, a...)}
}

func WrapWithForbiddenError(err error, message string, a ...any) error {
	return &forbiddenError{
		inner:   err,
		message: format(message, a...),
	}
}

func IsForbiddenError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *forbiddenError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// backendUnavailableError
// ///////////////////////////////////////////////////////////////////////////

type backendUnavailableError struct {
	inner     error
	operation string
	resource  string
}

func (e *backendUnavailableError) Error() string {
	msg := fmt.Sprintf("backend unavailable during %s", e.operation)
	if e.resource != "" {
		msg = fmt.Sprintf("%s of %s", msg, e.resource)
	}
	return joinMessage(msg, e.inner)
}

func (e *backendUnavailableError) Unwrap() error { return e.inner }

func (e *backendUnavailableError) Operation() string { return e.operation }

func (e *backendUnavailableError) Resource() string { return e.resource }

func BackendUnavailableError(err error, operation, resource string) error {
	return &backendUnavailableError{inner: err, operation: operation, resource: resource}
}

func IsBackendUnavailableError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *backendUnavailableError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// unmappedBackendError
// ///////////////////////////////////////////////////////////////////////////

type unmappedBackendError struct {
	inner     error
	operation string
	resource  string
}

func (e *unmappedBackendError) Error() string {
	msg := fmt.Sprintf("unexpected backend error during %s", e.operation)
	if e.resource != "" {
		msg = fmt.Sprintf("%s of %s", msg, e.resource)
	}
	return joinMessage(msg, e.inner)
}

func (e *unmappedBackendError) Unwrap() error { return e.inner }

func (e *unmappedBackendError) Operation() string { return e.operation }

func (e *unmappedBackendError) Resource() string { return e.resource }

func UnmappedBackendError(err error, operation, resource string) error {
	return &unmappedBackendError{inner: err, operation: operation, resource: resource}
}

func IsUnmappedBackendError(err error) bool {
	if err == nil {
		return false
	}
	var errPtr *unmappedBackendError
	return errors.As(err, &errPtr)
}

// ///////////////////////////////////////////////////////////////////////////
// helpers
// ///////////////////////////////////////////////////////////////////////////

func format(message string, a ...any) string {
	if len(a) == 0 {
		return message
	}
	return fmt.Sprintf(message, a...)
}

func joinMessage(message string, inner error) string {
	if inner == nil || inner.Error() == "" {
		return message
	} else if message == "" {
		return inner.Error()
	}
	return fmt.Sprintf("%v; %v", message, inner.Error())
}
