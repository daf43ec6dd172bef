// Copyright 2025 NetApp, Inc. All Rights Reserved.

package storagedrivers

import "time"

// Storage driver names specified in the config file, etc.
const (
	FakeStorageDriverName              = "fake"
	OntapNASStorageDriverName          = "ontap-nas"
	OntapNASSimulatorStorageDriverName = "ontap-nas-simulator"
)

// Backend config keys.
const (
	KeyStorageDriverName = "storageDriverName"
	KeyBackendName       = "backendName"
	KeyDebugTraceFlags   = "debugTraceFlags"
	KeyHost              = "host"
	KeyUsername          = "username"
	KeyPassword          = "password"
	KeyVserver           = "vserver"
	KeyAggregate         = "aggregate"
	KeyNode              = "node"
	KeyProbeTimeout      = "probeTimeout"
	KeyAPIRetries        = "apiRetries"
)

// Debug trace flags
const (
	TraceMethod = "method"
	TraceAPI    = "api"
)

const (
	DefaultNodeName      = "node1"
	DefaultAggregateName = "aggr1"
	DefaultProbeTimeout  = 30 * time.Second
	DefaultAPIRetries    = 3
)
