// Copyright 2025 NetApp, Inc. All Rights Reserved.

package storagedrivers

import (
	"time"
)

// CommonStorageDriverConfig holds settings in common across all storage drivers
type CommonStorageDriverConfig struct {
	StorageDriverName string          `json:"storageDriverName"`
	BackendName       string          `json:"backendName"`
	DebugTraceFlags   map[string]bool `json:"debugTraceFlags"` // Example: {"api":false, "method":true}
}

// FakeStorageDriverConfig holds settings for the in-memory reference driver
type FakeStorageDriverConfig struct {
	*CommonStorageDriverConfig
	Node      string `json:"node"`
	Aggregate string `json:"aggregate"`
}

// OntapStorageDriverConfig holds settings for the ONTAP NAS driver
type OntapStorageDriverConfig struct {
	*CommonStorageDriverConfig               // embedded types replicate all fields
	ManagementLIF              string        `json:"host"`
	SVM                        string        `json:"vserver"`
	Username                   string        `json:"username"`
	Password                   string        `json:"password"`
	Aggregate                  string        `json:"aggregate"`
	ProbeTimeout               time.Duration `json:"probeTimeout"`
	APIRetries                 int           `json:"apiRetries"`
}

// String hides credentials.
func (c OntapStorageDriverConfig) String() string {
	return ToString(&c, GetOntapConfigRedactList(), nil)
}
