// Copyright 2025 NetApp, Inc. All Rights Reserved.

package api

//go:generate mockgen -destination=../../../mocks/mock_storage_drivers/mock_ontap/mock_api.go github.com/netapp/storage-api/storage_drivers/ontap/api OntapAPI

import (
	"context"
)

// Volume states reported by the array
const (
	VolumeStateOnline     = "online"
	VolumeStateRestricted = "restricted"
	VolumeStateOffline    = "offline"
)

// Volume is the array's view of a FlexVol. Space values are in KB and may be missing from a
// response, so they are pointers.
type Volume struct {
	Name                string
	UUID                string
	NodeName            string
	Aggregate           string
	JunctionPath        string
	ExportPolicy        string
	State               string
	SizeTotalKB         *int64
	SizeUsedKB          *int64
	Compression         *bool
	AutosizeEnabled     *bool
	AutosizeIncrementKB *int64
	MaxAutosizeKB       *int64
}

type Volumes []*Volume

// VolumeFilter narrows a volume query. Empty fields match everything.
type VolumeFilter struct {
	Name         string
	JunctionPath string
}

// VolumeAutosize carries all autosize settings, which the array only accepts together.
type VolumeAutosize struct {
	Enabled     bool
	IncrementKB int64
	MaxSizeKB   int64
}

type Aggregate struct {
	Name           string
	AvailableBytes int64
}

type Aggregates []Aggregate

type Snapshot struct {
	CreateTime string
	Name       string
}

type Snapshots []Snapshot

// ExportRule is one client match of an export policy. Index is the array's rule index, which
// is stable across deletions of other rules.
type ExportRule struct {
	Index       int
	ClientMatch string
	RWRule      string
}

type ExportRules []ExportRule

type Lock struct {
	Volume        string
	ClientAddress string
}

type Locks []Lock

// OntapAPI is the set of array calls the NAS driver issues. A session against a single SVM
// implements it; tests use the in-memory simulator or a gomock mock.
type OntapAPI interface {
	SVMName() string

	VolumeList(ctx context.Context, filter VolumeFilter) (Volumes, error)
	VolumeCreate(ctx context.Context, volume Volume) error
	VolumeCloneCreate(ctx context.Context, cloneName, sourceName, snapshot, junctionPath string) error
	VolumeSetSize(ctx context.Context, name string, sizeKB int64) error
	VolumeSetAutosize(ctx context.Context, name string, autosize VolumeAutosize) error
	VolumeSetCompression(ctx context.Context, name string, enabled bool) error
	VolumeModifyExportPolicy(ctx context.Context, name, policy string) error
	VolumeRestrict(ctx context.Context, name string) error

	AggregateList(ctx context.Context) (Aggregates, error)

	SnapshotList(ctx context.Context, volume string) (Snapshots, error)
	SnapshotCreate(ctx context.Context, volume, snapshot string) error
	SnapshotDelete(ctx context.Context, volume, snapshot string) error
	SnapshotRestoreVolume(ctx context.Context, volume, snapshot string) error

	ExportPolicyList(ctx context.Context) ([]string, error)
	ExportPolicyCreate(ctx context.Context, policy string) error
	ExportPolicyDestroy(ctx context.Context, policy string) error
	ExportRuleList(ctx context.Context, policy string) (ExportRules, error)
	ExportRuleCreate(ctx context.Context, policy, clientMatch string) error
	ExportRuleDestroy(ctx context.Context, policy string, index int) error

	LockList(ctx context.Context, volume string) (Locks, error)
	LockCreate(ctx context.Context, volume, clientAddress string) error
	LockBreak(ctx context.Context, volume, clientAddress string) error
}
