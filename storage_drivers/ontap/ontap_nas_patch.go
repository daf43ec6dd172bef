// Copyright 2025 NetApp, Inc. All Rights Reserved.

package ontap

import (
	"context"

	. "github.com/netapp/storage-api/logging"
	"github.com/netapp/storage-api/storage"
	"github.com/netapp/storage-api/storage/diff"
	"github.com/netapp/storage-api/storage/validation"
	"github.com/netapp/storage-api/storage_drivers/ontap/api"
	"github.com/netapp/storage-api/utils/errors"
)

// volumeOperation is one array call of a patch together with the call that undoes it.
type volumeOperation struct {
	name   string
	apply  func() error
	revert func() error
}

func (d *NASStorageDriver) PatchVolume(
	ctx context.Context, id string, payload map[string]any,
) (*storage.Volume, error) {
	defer d.trace(ctx, "PatchVolume")()

	values, err := validation.VolumePatch.Validate(payload)
	if err != nil {
		return nil, err
	}

	current, err := d.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	volume := formatVolume(current)

	delta, err := diff.VolumeEngine.Compute(volume.PatchableFields(), values)
	if err != nil {
		return nil, err
	}
	if delta.Empty() {
		Logc(ctx).WithField("volume", volume.Name).Debug("Patch changes nothing.")
		return volume, nil
	}

	desired := applyDelta(volume, delta)
	if desired.ActivePolicyName != "" && delta.Has(validation.FieldActivePolicyName) {
		if desired.ActivePolicyName, err = d.exportPolicyName(ctx, desired.ActivePolicyName); err != nil {
			return nil, err
		}
	}
	if desired.MaxAutosize != 0 && desired.MaxAutosize < desired.SizeTotal {
		return nil, errors.ValidationError(validation.FieldMaxAutosize, "must not be smaller than %s",
			validation.FieldSizeTotal)
	}

	if err := d.applyOperations(ctx, volume.Name, d.patchOperations(ctx, volume, desired, delta)); err != nil {
		return nil, err
	}

	Logc(ctx).WithFields(LogFields{
		"volume":  volume.Name,
		"changed": delta.Fields(),
	}).Info("Patched ONTAP volume.")

	updated, err := d.resolve(ctx, volume.Name)
	if err != nil {
		return nil, err
	}
	return formatVolume(updated), nil
}

// applyDelta returns a copy of volume with the changed fields set to their desired values.
func applyDelta(volume *storage.Volume, delta *diff.Delta) *storage.Volume {
	desired := volume.ConstructClone()
	for _, change := range delta.Changes() {
		switch change.Field {
		case validation.FieldSizeTotal:
			desired.SizeTotal = change.To.(int64)
		case validation.FieldCompression:
			desired.Compression = change.To.(bool)
		case validation.FieldAutosizeEnabled:
			desired.AutosizeEnabled = change.To.(bool)
		case validation.FieldAutosizeIncrement:
			desired.AutosizeIncrement = change.To.(int64)
		case validation.FieldMaxAutosize:
			desired.MaxAutosize = change.To.(int64)
		case validation.FieldActivePolicyName:
			desired.ActivePolicyName = change.To.(string)
		}
	}
	return desired
}

func autosizeOf(v *storage.Volume) api.VolumeAutosize {
	return api.VolumeAutosize{
		Enabled:     v.AutosizeEnabled,
		IncrementKB: bytesToKB(v.AutosizeIncrement),
		MaxSizeKB:   bytesToKB(v.MaxAutosize),
	}
}

// patchOperations groups a delta into array calls. The autosize settings are always sent
// together, merged with the current values of the fields the patch leaves alone.
func (d *NASStorageDriver) patchOperations(
	ctx context.Context, current, desired *storage.Volume, delta *diff.Delta,
) []volumeOperation {
	name := current.Name
	ops := make([]volumeOperation, 0, 4)

	if delta.Has(validation.FieldSizeTotal) {
		ops = append(ops, volumeOperation{
			name:   "VolumeSetSize",
			apply:  func() error { return d.API.VolumeSetSize(ctx, name, bytesToKB(desired.SizeTotal)) },
			revert: func() error { return d.API.VolumeSetSize(ctx, name, bytesToKB(current.SizeTotal)) },
		})
	}
	if delta.Has(validation.FieldAutosizeEnabled) || delta.Has(validation.FieldAutosizeIncrement) ||
		delta.Has(validation.FieldMaxAutosize) {
		ops = append(ops, volumeOperation{
			name:   "VolumeSetAutosize",
			apply:  func() error { return d.API.VolumeSetAutosize(ctx, name, autosizeOf(desired)) },
			revert: func() error { return d.API.VolumeSetAutosize(ctx, name, autosizeOf(current)) },
		})
	}
	if delta.Has(validation.FieldCompression) {
		ops = append(ops, volumeOperation{
			name:   "VolumeSetCompression",
			apply:  func() error { return d.API.VolumeSetCompression(ctx, name, desired.Compression) },
			revert: func() error { return d.API.VolumeSetCompression(ctx, name, current.Compression) },
		})
	}
	if delta.Has(validation.FieldActivePolicyName) {
		ops = append(ops, volumeOperation{
			name: "VolumeModifyExportPolicy",
			apply: func() error {
				return d.API.VolumeModifyExportPolicy(ctx, name, desired.ActivePolicyName)
			},
			revert: func() error {
				return d.API.VolumeModifyExportPolicy(ctx, name, current.ActivePolicyName)
			},
		})
	}
	return ops
}

// applyOperations runs ops in order. When one fails, the ones already applied are reverted
// in reverse order and the failure is returned.
func (d *NASStorageDriver) applyOperations(ctx context.Context, resource string, ops []volumeOperation) error {
	for i, op := range ops {
		err := d.invoke(ctx, op.name, resource, op.apply)
		if err == nil {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			applied := ops[j]
			if revertErr := d.invoke(ctx, applied.name, resource, applied.revert); revertErr != nil {
				Logc(ctx).WithFields(LogFields{
					"volume": resource,
					"op":     applied.name,
				}).WithError(revertErr).Error("Could not revert volume change.")
			}
		}
		return err
	}
	return nil
}
