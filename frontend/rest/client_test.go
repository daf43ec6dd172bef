// Copyright 2025 NetApp, Inc. All Rights Reserved.

package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netapp/storage-api/config"
	"github.com/netapp/storage-api/logging"
	drivers "github.com/netapp/storage-api/storage_drivers"
	"github.com/netapp/storage-api/utils/errors"
)

func TestClient(t *testing.T) {
	backend := newFakeBackend(t)
	ctx := context.Background()
	_, err := backend.CreateVolume(ctx, "v1", map[string]any{"node": "node1", "size_total": "1GiB"})
	require.NoError(t, err)
	_, err = backend.CreatePolicy(ctx, "p1", []string{"host1"})
	require.NoError(t, err)

	server := httptest.NewServer(newTestRouter(backend))
	defer server.Close()
	client := NewClient(server.URL, 5*time.Second)

	version, err := client.GetVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, config.OrchestratorVersion, version.Version)
	assert.Equal(t, drivers.FakeStorageDriverName, version.Backend)

	volumes, err := client.ListVolumes(ctx)
	require.NoError(t, err)
	require.Len(t, volumes, 1)
	assert.Equal(t, "v1", volumes[0].Name)

	volume, err := client.GetVolume(ctx, "node1:/node1/v1")
	require.NoError(t, err)
	assert.Equal(t, volumes[0], volume)

	policies, err := client.ListPolicies(ctx)
	require.NoError(t, err)
	require.Len(t, policies, 1)
	assert.Equal(t, []string{"host1"}, policies[0].Rules)

	_, err = client.GetVolume(ctx, "missing")
	assert.True(t, errors.IsNotFoundError(err), err)

	_, err = client.GetVolume(ctx, "bad/name")
	assert.True(t, errors.IsValidationError(err), err)
}

func TestClient_ForwardsRequestID(t *testing.T) {
	var seen string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(requestIDHeader)
		writeHTTPResponse(r.Context(), w, &VersionResponse{Version: "1"}, http.StatusOK)
	}))
	defer server.Close()

	ctx := logging.GenerateRequestContext(context.Background(), "req-1", logging.ContextSourceCLI)
	_, err := NewClient(server.URL, time.Second).GetVersion(ctx)

	require.NoError(t, err)
	assert.Equal(t, "req-1", seen)
}

func TestClient_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"validation", http.StatusBadRequest, `{"error": "bad", "kind": "ValidationError", "field": "name"}`,
			errors.IsValidationError},
		{"conflict", http.StatusConflict, `{"error": "dup", "kind": "AlreadyExists"}`, errors.IsAlreadyExistsError},
		{"forbidden", http.StatusForbidden, `{"error": "no", "kind": "Forbidden"}`, errors.IsForbiddenError},
		{"unavailable", http.StatusServiceUnavailable, `{"error": "down", "kind": "BackendUnavailable"}`,
			errors.IsBackendUnavailableError},
		{"unmapped", http.StatusInternalServerError, `{"error": "boom", "kind": "UnmappedBackendError"}`,
			errors.IsUnmappedBackendError},
		{"not json", http.StatusBadGateway, `<html></html>`, errors.IsUnmappedBackendError},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(test.status)
				_, _ = w.Write([]byte(test.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, time.Second).ListVolumes(context.Background())

			assert.True(t, test.check(err), err)
		})
	}

	validation := errorFromResponse(&ErrorResponse{Error: "bad", Kind: "ValidationError", Field: "name"}, "GET", "/x")
	assert.Equal(t, []string{"name"}, errors.ValidationFields(validation))
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.Listener.Addr().String()
	server.Close()

	_, err := NewClient(endpoint, time.Second).ListVolumes(context.Background())

	assert.True(t, errors.IsBackendUnavailableError(err), err)
}
