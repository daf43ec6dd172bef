// Copyright 2025 NetApp, Inc. All Rights Reserved.

package logging

import (
	log "github.com/sirupsen/logrus"
)

const (
	ContextKeyRequestID     ContextKey = "requestID"
	ContextKeyRequestSource ContextKey = "requestSource"

	ContextSourceREST     = "REST"
	ContextSourceCLI      = "CLI"
	ContextSourceInternal = "Internal"
)

// ContextKey is used for context.Context value. The value requires a key that is not primitive type.
type ContextKey string

type LogFields = log.Fields
