// Copyright 2025 NetApp, Inc. All Rights Reserved.

package config

import (
	"fmt"
	"time"
)

const (
	/* Misc. orchestrator constants */
	OrchestratorName       = "storage-api"
	orchestratorVersion    = "25.10.0"
	OrchestratorAPIVersion = "1"
	MetricsNamespace       = "storage_api"

	/* REST frontend constants */
	MaxRESTRequestSize       = 10240
	HTTPTimeout              = 90 * time.Second
	DefaultRESTAddress       = "127.0.0.1"
	DefaultRESTPort          = "8000"
	DefaultRESTRateLimit     = 50.0
	DefaultRESTRateBurst     = 100
	DefaultAdminGroup        = "storage-admins"
	DefaultGroupHeader       = "X-Forwarded-Groups"
	DefaultConfigPath        = "/etc/" + OrchestratorName + "/config.yaml"
	ConfigEnvPrefix          = "STORAGE_API_"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultStorageDriverName = "fake"
)

var (
	// BuildHash is the git hash the binary was built from
	BuildHash = "unknown"

	// BuildType is the type of build: custom, beta or stable
	BuildType = "custom"

	// BuildTypeRev is the revision of the build
	BuildTypeRev = "0"

	// BuildTime is the time the binary was built
	BuildTime = "unknown"

	OrchestratorVersion = version()

	BaseURL    = "/storage/api/v" + OrchestratorAPIVersion
	VersionURL = BaseURL + "/version"
	MetricsURL = "/metrics"
)

func version() string {
	switch BuildType {
	case "stable":
		return orchestratorVersion
	case "custom":
		return fmt.Sprintf("%v-%v+%v", orchestratorVersion, BuildType, BuildHash)
	default:
		return fmt.Sprintf("%v-%v.%v+%v", orchestratorVersion, BuildType, BuildTypeRev, BuildHash)
	}
}
