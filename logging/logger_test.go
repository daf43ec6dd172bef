// Copyright 2025 NetApp, Inc. All Rights Reserved.

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Disable any standard log output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestLogc(t *testing.T) {
	ctx := GenerateRequestContext(context.Background(), "req-1", ContextSourceREST)
	entry := Logc(ctx)

	assert.Equal(t, "req-1", entry.Data["requestID"])
	assert.Equal(t, ContextSourceREST, entry.Data["requestSource"])
}

func TestGenerateRequestContext(t *testing.T) {
	ctx := GenerateRequestContext(nil, "", "") //nolint:staticcheck
	assert.NotEmpty(t, ctx.Value(ContextKeyRequestID))
	assert.Equal(t, "Unknown", ctx.Value(ContextKeyRequestSource))

	// Existing values are preserved.
	nested := GenerateRequestContext(ctx, "other", ContextSourceCLI)
	assert.Equal(t, ctx.Value(ContextKeyRequestID), nested.Value(ContextKeyRequestID))
	assert.Equal(t, "Unknown", nested.Value(ContextKeyRequestSource))
}

func TestInitLogLevel(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	require.NoError(t, InitLogLevel(false, "warn"))
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	require.NoError(t, InitLogLevel(true, "error"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	assert.Error(t, InitLogLevel(false, "loud"))
}

func TestInitLogFormat(t *testing.T) {
	defer log.SetFormatter(&log.TextFormatter{})

	assert.NoError(t, InitLogFormat(TextFormat))
	assert.NoError(t, InitLogFormat(JSONFormat))
	assert.Error(t, InitLogFormat("xml"))
}

func TestConsoleHookRoutesByLevel(t *testing.T) {
	hook, err := NewConsoleHook(JSONFormat)
	require.NoError(t, err)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	hook.stdout, hook.stderr = stdout, stderr

	entry := log.NewEntry(log.StandardLogger())
	entry.Level = log.InfoLevel
	entry.Message = "created volume"
	require.NoError(t, hook.Fire(entry))

	entry = log.NewEntry(log.StandardLogger())
	entry.Level = log.ErrorLevel
	entry.Message = "array failure"
	require.NoError(t, hook.Fire(entry))

	assert.True(t, strings.Contains(stdout.String(), "created volume"))
	assert.True(t, strings.Contains(stderr.String(), "array failure"))
	assert.False(t, strings.Contains(stdout.String(), "array failure"))
}

func TestJSONFormatter(t *testing.T) {
	entry := log.WithFields(log.Fields{"volume": "vol1", "err": assert.AnError})
	entry.Level = log.WarnLevel
	entry.Message = "hello"

	out, err := (&JSONFormatter{DisableTimestamp: true}).Format(entry)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "hello", decoded["message"])
	assert.Equal(t, "warning", decoded["level"])
	assert.Equal(t, "vol1", decoded["volume"])
	assert.Equal(t, assert.AnError.Error(), decoded["err"])
	assert.NotContains(t, decoded, "@timestamp")
}
