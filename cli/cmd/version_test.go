// Copyright 2025 NetApp, Inc. All Rights Reserved.

package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"runtime"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netapp/storage-api/config"
	"github.com/netapp/storage-api/frontend/rest"
)

func TestGetClientVersion(t *testing.T) {
	version := getClientVersion()

	assert.Equal(t, config.OrchestratorVersion, version.Version)
	assert.Equal(t, config.OrchestratorAPIVersion, version.APIVersion)
	assert.Equal(t, runtime.Version(), version.GoVersion)
}

func TestVersionCommand(t *testing.T) {
	resetFlags(t)
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	responder, _ := httpmock.NewJsonResponder(http.StatusOK, rest.VersionResponse{
		Version: "25.10.0", APIVersion: "1", Backend: "ontap-nas",
	})
	httpmock.RegisterResponder("GET", baseURL()+"/version", responder)

	out := &bytes.Buffer{}
	RootCmd.SetOut(out)
	RootCmd.SetArgs([]string{"version", "--server", testServer, "-o", FormatJSON})
	defer func() {
		RootCmd.SetOut(nil)
		RootCmd.SetArgs(nil)
	}()

	require.NoError(t, RootCmd.Execute())

	var versions Versions
	require.NoError(t, json.Unmarshal(out.Bytes(), &versions))
	require.NotNil(t, versions.Server)
	assert.Equal(t, "25.10.0", versions.Server.Version)
	assert.Equal(t, "ontap-nas", versions.Server.Backend)
	assert.Equal(t, config.OrchestratorVersion, versions.Client.Version)
}

func TestVersionCommand_ServerUnavailable(t *testing.T) {
	resetFlags(t)
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", baseURL()+"/version",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, `{"error": "down", "kind": "BackendUnavailable"}`))

	RootCmd.SetOut(&bytes.Buffer{})
	RootCmd.SetErr(&bytes.Buffer{})
	RootCmd.SetArgs([]string{"version", "--server", testServer})
	defer func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	}()

	assert.ErrorContains(t, RootCmd.Execute(), "could not get server version")
}

func TestWriteVersions(t *testing.T) {
	OutputFormat = ""
	out := &bytes.Buffer{}
	writeVersions(out, Versions{Client: &Version{Version: "1.0"}})
	assert.Contains(t, out.String(), "CLIENT VERSION")
	assert.NotContains(t, out.String(), "SERVER VERSION")

	out.Reset()
	writeVersions(out, Versions{Client: &Version{Version: "1.0"}, Server: &Version{Version: "2.0", Backend: "fake"}})
	assert.Contains(t, out.String(), "SERVER VERSION")
	assert.Contains(t, out.String(), "fake")

	OutputFormat = FormatYAML
	defer func() { OutputFormat = "" }()
	out.Reset()
	writeVersions(out, Versions{Client: &Version{Version: "1.0"}})
	assert.Contains(t, out.String(), "client:")
}
