// Copyright 2025 NetApp, Inc. All Rights Reserved.

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardLibraryWrappers(t *testing.T) {
	err := New("test error")
	assert.Equal(t, "test error", err.Error())

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, Is(wrapped, err))
	assert.Equal(t, err, Unwrap(wrapped))

	joined := Join(err, New("other"))
	assert.True(t, Is(joined, err))
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("volume %s not found", "vol1")
	assert.Equal(t, "volume vol1 not found", err.Error())
	assert.True(t, IsNotFoundError(err))
	assert.True(t, IsNotFoundError(fmt.Errorf("context: %w", err)))
	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsNotFoundError(New("plain")))

	inner := New("entry doesn't exist")
	wrapped := WrapWithNotFoundError(inner, "snapshot %s", "snap1")
	assert.Equal(t, "snapshot snap1; entry doesn't exist", wrapped.Error())
	assert.True(t, Is(wrapped, inner))
}

func TestPercentInArgumentIsNotFormatted(t *testing.T) {
	err := AlreadyExistsError("%s", "100% full")
	assert.Equal(t, "100% full", err.Error())
}

func TestAlreadyExistsError(t *testing.T) {
	err := AlreadyExistsError("volume %s already exists", "vol1")
	assert.True(t, IsAlreadyExistsError(err))
	assert.False(t, IsNotFoundError(err))

	wrapped := WrapWithAlreadyExistsError(New("duplicate entry"), "")
	assert.Equal(t, "duplicate entry", wrapped.Error())
}

func TestValidationError(t *testing.T) {
	err := ValidationError("size_total", "must be at least %d bytes", 20)
	assert.Equal(t, "validation failed for field 'size_total': must be at least 20 bytes", err.Error())
	assert.True(t, IsValidationError(err))

	var failure ValidationFailure
	assert.True(t, As(err, &failure))
	assert.Equal(t, "size_total", failure.Field())
	assert.Equal(t, "must be at least 20 bytes", failure.Reason())

	noField := ValidationError("", "payload must be an object")
	assert.Equal(t, "validation failed: payload must be an object", noField.Error())
}

func TestCombinedValidationErrors(t *testing.T) {
	err := Combine(
		ValidationError("name", "is required"),
		nil,
		ValidationError("node", "is required"),
	)

	assert.True(t, IsValidationError(err))
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, []string{"name", "node"}, ValidationFields(err))
	assert.Len(t, Errors(err), 2)
}

func TestBackendErrorsCarryContext(t *testing.T) {
	cause := New("connection refused")

	unavailable := BackendUnavailableError(cause, "VolumeCreate", "vol1")
	assert.Equal(t, "backend unavailable during VolumeCreate of vol1; connection refused", unavailable.Error())
	assert.True(t, IsBackendUnavailableError(unavailable))
	assert.True(t, IsRetryable(unavailable))
	assert.True(t, Is(unavailable, cause))

	unmapped := UnmappedBackendError(cause, "SnapshotList", "")
	assert.Equal(t, "unexpected backend error during SnapshotList; connection refused", unmapped.Error())
	assert.True(t, IsUnmappedBackendError(unmapped))
	assert.False(t, IsRetryable(unmapped))

	var withContext interface {
		Operation() string
		Resource() string
	}
	assert.True(t, As(unavailable, &withContext))
	assert.Equal(t, "VolumeCreate", withContext.Operation())
	assert.Equal(t, "vol1", withContext.Resource())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{"nil", nil, KindNone},
		{"not found", NotFoundError("x"), KindNotFound},
		{"already exists", AlreadyExistsError("x"), KindAlreadyExists},
		{"validation", ValidationError("f", "r"), KindValidation},
		{"forbidden", ForbiddenError("lock held by %s", "h1"), KindForbidden},
		{"unavailable", BackendUnavailableError(New("timeout"), "op", "res"), KindBackendUnavailable},
		{"unmapped", UnmappedBackendError(New("boom"), "op", "res"), KindUnmapped},
		{"plain", New("plain"), KindUnmapped},
		{"wrapped forbidden", fmt.Errorf("outer: %w", WrapWithForbiddenError(New("x"), "y")), KindForbidden},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, KindOf(test.err))
		})
	}
}
