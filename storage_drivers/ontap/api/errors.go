// Copyright 2025 NetApp, Inc. All Rights Reserved.

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// ///////////////////////////////////////////////////////////////////////////
// Array error codes
// ///////////////////////////////////////////////////////////////////////////
const (
	EOBJECTNOTFOUND       = "15661"
	EVOLUMEDOESNOTEXIST   = "13040"
	ESNAPSHOTDOESNOTEXIST = "13079"
	EEXPORTPOLICYNOTFOUND = "1703954"
	ENOLOCK               = "13146"
	EDUPLICATEENTRY       = "13130"
	EVOLUMEEXISTS         = "17159"
	ESNAPSHOTEXISTS       = "13020"
	EEXPORTRULEEXISTS     = "1704070"
	ELOCKHELD             = "13116"
	EINVALIDINPUT         = "13115"
	EAPIERROR             = "13001"
)

// ApiError encapsulates the status, reason, and errno values returned by a failed array call.
type ApiError struct {
	status string
	reason string
	code   string
}

func NewApiError(code, reason string, a ...any) ApiError {
	return ApiError{status: "failed", reason: fmt.Sprintf(reason, a...), code: code}
}

func (e ApiError) Error() string {
	return fmt.Sprintf("API status: %s, Reason: %s, Code: %s", e.status, e.reason, e.code)
}

func (e ApiError) Reason() string {
	return e.reason
}

func (e ApiError) Code() string {
	return e.code
}

// ExceptionIsErrorCode reports whether err is an ApiError carrying one of codes.
func ExceptionIsErrorCode(err error, codes ...string) bool {
	var apiErr ApiError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.code == code {
			return true
		}
	}
	return false
}

// ///////////////////////////////////////////////////////////////////////////
// TransportError
// ///////////////////////////////////////////////////////////////////////////

// TransportError means the request never produced an array response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s; %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func NewTransportError(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}

// IsTransportError reports whether err is a TransportError or a network failure that means
// the array could not be reached.
func IsTransportError(err error) bool {
	if err == nil {
		return false
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
