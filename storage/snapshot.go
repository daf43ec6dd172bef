// Copyright 2025 NetApp, Inc. All Rights Reserved.

package storage

// Snapshot is a point-in-time copy of a volume.
type Snapshot struct {
	Name    string `json:"name"`
	Volume  string `json:"volume"`
	Created string `json:"created"` // The UTC time that the snapshot was created, in RFC3339 format
}

// Lock is a host's exclusive claim on a volume.
type Lock struct {
	Volume string `json:"volume"`
	Host   string `json:"host"`
}
