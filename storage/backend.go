// Copyright 2025 NetApp, Inc. All Rights Reserved.

package storage

import (
	"context"
)

// Backend is the capability contract every storage backend implements. Volume-scoped methods
// accept either a volume name or a junction-path address (see ParseVolumeName) and resolve both
// to the same volume. Errors are always one of the kinds in utils/errors.
type Backend interface {
	Name() string
	// Initialize configures the backend from a flat key/value mapping. Unrecognized keys are ignored.
	Initialize(ctx context.Context, config map[string]string) error
	Initialized() bool
	// Terminate tells the backend to clean up, as it won't be called again.
	Terminate(ctx context.Context)

	// Volumes returns every volume known to the backend.
	Volumes(ctx context.Context) ([]*Volume, error)
	GetVolume(ctx context.Context, id string) (*Volume, error)
	GetVolumeByJunctionPath(ctx context.Context, junctionPath string) (*Volume, error)
	// CreateVolume validates payload fully before touching any state.
	CreateVolume(ctx context.Context, id string, payload map[string]any) (*Volume, error)
	// PatchVolume applies only the fields of payload that differ from the current volume, all
	// or nothing. A patch without changes returns the current volume.
	PatchVolume(ctx context.Context, id string, payload map[string]any) (*Volume, error)
	CloneVolume(ctx context.Context, id, cloneName, fromSnapshot string) (*Volume, error)
	// RestrictVolume takes a volume out of service. Restricting a restricted volume succeeds.
	RestrictVolume(ctx context.Context, id string) error
	RollbackVolume(ctx context.Context, id, snapshot string) error

	Snapshots(ctx context.Context, id string) ([]*Snapshot, error)
	GetSnapshot(ctx context.Context, id, snapshot string) (*Snapshot, error)
	CreateSnapshot(ctx context.Context, id, snapshot string) (*Snapshot, error)
	DeleteSnapshot(ctx context.Context, id, snapshot string) error

	Locks(ctx context.Context, id string) ([]*Lock, error)
	// CreateLock fails with Forbidden if another host holds the lock.
	CreateLock(ctx context.Context, id, host string) (*Lock, error)
	// RemoveLock fails with NotFound if no lock is held and Forbidden if host is not the holder.
	RemoveLock(ctx context.Context, id, host string) error

	Policies(ctx context.Context) ([]*Policy, error)
	GetPolicy(ctx context.Context, name string) (*Policy, error)
	CreatePolicy(ctx context.Context, name string, rules []string) (*Policy, error)
	SetPolicy(ctx context.Context, id, policy string) (*Volume, error)
	// RemovePolicy fails with NotFound if the volume has no policy assigned.
	RemovePolicy(ctx context.Context, id string) error
	EnsurePolicyRulePresent(ctx context.Context, policy, rule string) (*Policy, error)
	EnsurePolicyRuleAbsent(ctx context.Context, policy, rule string) (*Policy, error)

	// GetExport returns the export view derived from the volume's assigned policy.
	GetExport(ctx context.Context, id string) (*Export, error)
}
