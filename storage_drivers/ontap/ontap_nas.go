// Copyright 2025 NetApp, Inc. All Rights Reserved.

package ontap

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/ptr"

	. "github.com/netapp/storage-api/logging"
	"github.com/netapp/storage-api/storage"
	"github.com/netapp/storage-api/storage/validation"
	drivers "github.com/netapp/storage-api/storage_drivers"
	"github.com/netapp/storage-api/storage_drivers/ontap/api"
	"github.com/netapp/storage-api/utils/errors"
)

// maxConcurrentRuleFetches bounds the ExportRuleList calls Policies issues at once
const maxConcurrentRuleFetches = 8

// ClientFactory opens a session against the SVM described by config.
type ClientFactory func(ctx context.Context, config *drivers.OntapStorageDriverConfig) (api.OntapAPI, error)

// NASStorageDriver implements storage.Backend on top of an ONTAP SVM. It keeps no state of
// its own; every entity is rebuilt from array responses.
type NASStorageDriver struct {
	initialized bool
	Config      drivers.OntapStorageDriverConfig
	API         api.OntapAPI

	clientFactory   ClientFactory
	newBackOff      func() backoff.BackOff
	newProbeBackOff func() backoff.BackOff
	now             func() time.Time
}

func NewNASStorageDriver(clientFactory ClientFactory) *NASStorageDriver {
	d := &NASStorageDriver{clientFactory: clientFactory, now: time.Now}
	d.Config.CommonStorageDriverConfig = &drivers.CommonStorageDriverConfig{
		StorageDriverName: drivers.OntapNASStorageDriverName,
		BackendName:       drivers.OntapNASStorageDriverName,
		DebugTraceFlags:   map[string]bool{},
	}
	d.newBackOff = defaultReadBackOff
	d.newProbeBackOff = d.defaultProbeBackOff
	return d
}

func (d *NASStorageDriver) Name() string {
	return drivers.OntapNASStorageDriverName
}

func (d *NASStorageDriver) Initialize(ctx context.Context, config map[string]string) error {
	settings := make(map[string]string, len(config)+1)
	for k, v := range config {
		settings[k] = v
	}
	if settings[drivers.KeyStorageDriverName] == "" {
		settings[drivers.KeyStorageDriverName] = d.Name()
	}

	commonConfig, err := drivers.ValidateCommonSettings(ctx, settings)
	if err != nil {
		return fmt.Errorf("unable to initialize ontap-nas driver: %w", err)
	}

	if commonConfig.DebugTraceFlags[drivers.TraceMethod] {
		fields := LogFields{"Method": "Initialize", "Type": "NASStorageDriver"}
		Logc(ctx).WithFields(fields).Debug(">>>> Initialize")
		defer Logc(ctx).WithFields(fields).Debug("<<<< Initialize")
	}

	ontapConfig, err := drivers.NewOntapStorageDriverConfig(commonConfig, settings)
	if err != nil {
		return fmt.Errorf("unable to initialize ontap-nas driver: %w", err)
	}
	d.Config = *ontapConfig

	if d.newBackOff == nil {
		d.newBackOff = defaultReadBackOff
	}
	if d.newProbeBackOff == nil {
		d.newProbeBackOff = d.defaultProbeBackOff
	}
	if d.now == nil {
		d.now = time.Now
	}

	if d.API == nil {
		if d.clientFactory == nil {
			return errors.ValidationError(drivers.KeyHost, "no ONTAP client available for %s", d.Config.ManagementLIF)
		}
		client, err := d.clientFactory(ctx, ontapConfig)
		if err != nil {
			return errors.BackendUnavailableError(err, "Initialize", d.Config.ManagementLIF)
		}
		d.API = client
	}

	// The SVM must answer before the backend accepts requests
	aggregates, err := d.aggregates(ctx)
	if err != nil {
		return err
	}

	Logc(ctx).WithFields(LogFields{
		"backend":    d.Config.BackendName,
		"host":       d.Config.ManagementLIF,
		"svm":        d.Config.SVM,
		"aggregates": len(aggregates),
	}).Info("Initialized ONTAP NAS driver.")

	d.initialized = true
	return nil
}

func (d *NASStorageDriver) Initialized() bool {
	return d.initialized
}

func (d *NASStorageDriver) Terminate(ctx context.Context) {
	defer d.trace(ctx, "Terminate")()

	d.initialized = false
	Logc(ctx).WithField("backend", d.Config.BackendName).Debug("Terminated ONTAP NAS driver.")
}

func (d *NASStorageDriver) trace(ctx context.Context, method string) func() {
	if d.Config.CommonStorageDriverConfig == nil || !d.Config.DebugTraceFlags[drivers.TraceMethod] {
		return func() {}
	}
	fields := LogFields{"Method": method, "Type": "NASStorageDriver"}
	Logc(ctx).WithFields(fields).Trace(">>>> " + method)
	return func() { Logc(ctx).WithFields(fields).Trace("<<<< " + method) }
}

// ///////////////////////////////////////////////////////////////////////////
// Array reads
// ///////////////////////////////////////////////////////////////////////////

func (d *NASStorageDriver) listVolumes(
	ctx context.Context, filter api.VolumeFilter, resource string,
) (api.Volumes, error) {
	var volumes api.Volumes
	err := d.read(ctx, "VolumeList", resource, func() (err error) {
		volumes, err = d.API.VolumeList(ctx, filter)
		return err
	})
	return volumes, err
}

func (d *NASStorageDriver) aggregates(ctx context.Context) (api.Aggregates, error) {
	var aggregates api.Aggregates
	err := d.read(ctx, "AggregateList", d.Config.SVM, func() (err error) {
		aggregates, err = d.API.AggregateList(ctx)
		return err
	})
	return aggregates, err
}

func (d *NASStorageDriver) snapshots(ctx context.Context, volume string) (api.Snapshots, error) {
	var snapshots api.Snapshots
	err := d.read(ctx, "SnapshotList", volume, func() (err error) {
		snapshots, err = d.API.SnapshotList(ctx, volume)
		return err
	})
	return snapshots, err
}

func (d *NASStorageDriver) exportPolicyNames(ctx context.Context) ([]string, error) {
	var names []string
	err := d.read(ctx, "ExportPolicyList", d.Config.SVM, func() (err error) {
		names, err = d.API.ExportPolicyList(ctx)
		return err
	})
	return names, err
}

func (d *NASStorageDriver) exportRules(ctx context.Context, policy string) (api.ExportRules, error) {
	var rules api.ExportRules
	err := d.read(ctx, "ExportRuleList", policy, func() (err error) {
		rules, err = d.API.ExportRuleList(ctx, policy)
		return err
	})
	return rules, err
}

// resolve finds a volume by name or junction path.
func (d *NASStorageDriver) resolve(ctx context.Context, id string) (*api.Volume, error) {
	ref, err := storage.ParseVolumeName(id)
	if err != nil {
		return nil, err
	}

	filter := api.VolumeFilter{Name: ref.Name}
	if ref.IsPath() {
		filter = api.VolumeFilter{JunctionPath: ref.JunctionPath}
	}
	volumes, err := d.listVolumes(ctx, filter, ref.String())
	if err != nil {
		return nil, err
	}
	if len(volumes) == 0 || (ref.Node != "" && volumes[0].NodeName != ref.Node) {
		return nil, errors.NotFoundError("volume %s not found", ref)
	}
	return volumes[0], nil
}

// nameFromPath resolves a junction-path address to the volume's name.
func (d *NASStorageDriver) nameFromPath(ctx context.Context, ref storage.VolumeRef) (string, error) {
	volume, err := d.resolve(ctx, ref.String())
	if err != nil {
		return "", err
	}
	return volume.Name, nil
}

// volumeName returns the array name of the addressed volume. Plain names are passed through;
// the array reports volumes that do not exist.
func (d *NASStorageDriver) volumeName(ctx context.Context, id string) (string, error) {
	ref, err := storage.ParseVolumeName(id)
	if err != nil {
		return "", err
	}
	if !ref.IsPath() {
		return ref.Name, nil
	}
	return d.nameFromPath(ctx, ref)
}

// exportPolicyName returns the array's spelling of a policy name, matched case-insensitively.
func (d *NASStorageDriver) exportPolicyName(ctx context.Context, name string) (string, error) {
	names, err := d.exportPolicyNames(ctx)
	if err != nil {
		return "", err
	}
	key := validation.FoldName(name)
	for _, existing := range names {
		if validation.FoldName(existing) == key {
			return existing, nil
		}
	}
	return "", errors.NotFoundError("policy %s not found", name)
}

// ///////////////////////////////////////////////////////////////////////////
// Volumes
// ///////////////////////////////////////////////////////////////////////////

func (d *NASStorageDriver) Volumes(ctx context.Context) ([]*storage.Volume, error) {
	defer d.trace(ctx, "Volumes")()

	volumes, err := d.listVolumes(ctx, api.VolumeFilter{}, d.Config.SVM)
	if err != nil {
		return nil, err
	}
	result := make([]*storage.Volume, 0, len(volumes))
	for _, volume := range volumes {
		result = append(result, formatVolume(volume))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (d *NASStorageDriver) GetVolume(ctx context.Context, id string) (*storage.Volume, error) {
	defer d.trace(ctx, "GetVolume")()

	volume, err := d.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return formatVolume(volume), nil
}

func (d *NASStorageDriver) GetVolumeByJunctionPath(ctx context.Context, junctionPath string) (*storage.Volume, error) {
	ref, err := storage.ParseVolumeName(junctionPath)
	if err != nil {
		return nil, err
	}
	if !ref.IsPath() {
		return nil, errors.ValidationError(validation.FieldJunctionPath, "%q is not a junction path", junctionPath)
	}
	return d.GetVolume(ctx, junctionPath)
}

func (d *NASStorageDriver) CreateVolume(
	ctx context.Context, id string, payload map[string]any,
) (*storage.Volume, error) {
	defer d.trace(ctx, "CreateVolume")()

	spec, err := storage.NewVolumeSpec(id, payload)
	if err != nil {
		return nil, err
	}

	if err := d.checkVolumeAbsent(ctx, spec.Name, spec.JunctionPath); err != nil {
		return nil, err
	}

	policyName := ""
	if spec.ActivePolicyName != "" {
		if policyName, err = d.exportPolicyName(ctx, spec.ActivePolicyName); err != nil {
			return nil, err
		}
	}

	aggregate := spec.AggregateName
	if aggregate == "" {
		aggregate = d.Config.Aggregate
	}
	if aggregate == "" {
		Logc(ctx).WithField("volume", spec.Name).Info("Aggregate not provided, using the one with the most free space.")
		aggregates, err := d.aggregates(ctx)
		if err != nil {
			return nil, err
		}
		if aggregate, err = selectAggregate(ctx, aggregates); err != nil {
			return nil, err
		}
	}

	volume := api.Volume{
		Name:                spec.Name,
		NodeName:            spec.Node,
		Aggregate:           aggregate,
		JunctionPath:        spec.JunctionPath,
		ExportPolicy:        policyName,
		SizeTotalKB:         ptr.To(bytesToKB(spec.SizeTotal)),
		Compression:         ptr.To(spec.Compression),
		AutosizeEnabled:     ptr.To(spec.AutosizeEnabled),
		AutosizeIncrementKB: ptr.To(bytesToKB(spec.AutosizeIncrement)),
		MaxAutosizeKB:       ptr.To(bytesToKB(spec.MaxAutosize)),
	}
	if err := d.invoke(ctx, "VolumeCreate", spec.Name, func() error {
		return d.API.VolumeCreate(ctx, volume)
	}); err != nil {
		return nil, err
	}

	created, err := d.probeForVolume(ctx, spec.Name)
	if err != nil {
		return nil, err
	}

	Logc(ctx).WithFields(LogFields{
		"volume":       spec.Name,
		"node":         spec.Node,
		"aggregate":    aggregate,
		"junctionPath": spec.JunctionPath,
		"sizeBytes":    spec.SizeTotal,
	}).Info("Created ONTAP volume.")

	return formatVolume(created), nil
}

// checkVolumeAbsent fails with AlreadyExists if name or junction path is taken.
func (d *NASStorageDriver) checkVolumeAbsent(ctx context.Context, name, junctionPath string) error {
	existing, err := d.listVolumes(ctx, api.VolumeFilter{Name: name}, name)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return errors.AlreadyExistsError("volume %s already exists", name)
	}
	existing, err = d.listVolumes(ctx, api.VolumeFilter{JunctionPath: junctionPath}, junctionPath)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return errors.AlreadyExistsError("junction path %s is in use by volume %s", junctionPath, existing[0].Name)
	}
	return nil
}

func (d *NASStorageDriver) CloneVolume(
	ctx context.Context, id, cloneName, fromSnapshot string,
) (*storage.Volume, error) {
	defer d.trace(ctx, "CloneVolume")()

	if err := validation.ValidateVolumeName(validation.FieldName, cloneName); err != nil {
		return nil, err
	}
	if fromSnapshot != "" {
		if err := validation.ValidateSnapshotName(validation.FieldSnapshot, fromSnapshot); err != nil {
			return nil, err
		}
	}

	source, err := d.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if fromSnapshot != "" {
		if _, err := d.findSnapshot(ctx, source.Name, fromSnapshot); err != nil {
			return nil, err
		}
	}
	junctionPath := storage.NodeJunctionPath(source.NodeName, cloneName)
	if err := d.checkVolumeAbsent(ctx, cloneName, junctionPath); err != nil {
		return nil, err
	}

	if err := d.invoke(ctx, "VolumeCloneCreate", cloneName, func() error {
		return d.API.VolumeCloneCreate(ctx, cloneName, source.Name, fromSnapshot, junctionPath)
	}); err != nil {
		return nil, err
	}

	clone, err := d.probeForVolume(ctx, cloneName)
	if err != nil {
		return nil, err
	}

	Logc(ctx).WithFields(LogFields{
		"source":   source.Name,
		"clone":    cloneName,
		"snapshot": fromSnapshot,
	}).Info("Cloned ONTAP volume.")

	return formatVolume(clone), nil
}

func (d *NASStorageDriver) RestrictVolume(ctx context.Context, id string) error {
	defer d.trace(ctx, "RestrictVolume")()

	volume, err := d.resolve(ctx, id)
	if err != nil {
		return err
	}
	if volume.State == api.VolumeStateRestricted {
		Logc(ctx).WithField("volume", volume.Name).Debug("Volume already restricted.")
		return nil
	}
	return d.invoke(ctx, "VolumeRestrict", volume.Name, func() error {
		return d.API.VolumeRestrict(ctx, volume.Name)
	})
}

func (d *NASStorageDriver) RollbackVolume(ctx context.Context, id, snapshot string) error {
	defer d.trace(ctx, "RollbackVolume")()

	if err := validation.ValidateSnapshotName(validation.FieldSnapshot, snapshot); err != nil {
		return err
	}

	name, err := d.volumeName(ctx, id)
	if err != nil {
		return err
	}
	if _, err := d.findSnapshot(ctx, name, snapshot); err != nil {
		return err
	}

	if err := d.invoke(ctx, "SnapshotRestoreVolume", name, func() error {
		return d.API.SnapshotRestoreVolume(ctx, name, snapshot)
	}); err != nil {
		return err
	}

	Logc(ctx).WithFields(LogFields{
		"volume":   name,
		"snapshot": snapshot,
	}).Info("Restored ONTAP volume from snapshot.")
	return nil
}

// ///////////////////////////////////////////////////////////////////////////
// Snapshots
// ///////////////////////////////////////////////////////////////////////////

func (d *NASStorageDriver) findSnapshot(ctx context.Context, volume, snapshot string) (*api.Snapshot, error) {
	snapshots, err := d.snapshots(ctx, volume)
	if err != nil {
		return nil, err
	}
	for i := range snapshots {
		if snapshots[i].Name == snapshot {
			return &snapshots[i], nil
		}
	}
	return nil, errors.NotFoundError("snapshot %s of volume %s not found", snapshot, volume)
}

func (d *NASStorageDriver) Snapshots(ctx context.Context, id string) ([]*storage.Snapshot, error) {
	defer d.trace(ctx, "Snapshots")()

	name, err := d.volumeName(ctx, id)
	if err != nil {
		return nil, err
	}
	snapshots, err := d.snapshots(ctx, name)
	if err != nil {
		return nil, err
	}
	result := make([]*storage.Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		result = append(result, formatSnapshot(name, s))
	}
	return result, nil
}

func (d *NASStorageDriver) GetSnapshot(ctx context.Context, id, snapshot string) (*storage.Snapshot, error) {
	defer d.trace(ctx, "GetSnapshot")()

	name, err := d.volumeName(ctx, id)
	if err != nil {
		return nil, err
	}
	s, err := d.findSnapshot(ctx, name, snapshot)
	if err != nil {
		return nil, err
	}
	return formatSnapshot(name, *s), nil
}

func (d *NASStorageDriver) CreateSnapshot(ctx context.Context, id, snapshot string) (*storage.Snapshot, error) {
	defer d.trace(ctx, "CreateSnapshot")()

	if err := validation.ValidateSnapshotName(validation.FieldSnapshot, snapshot); err != nil {
		return nil, err
	}

	name, err := d.volumeName(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.invoke(ctx, "SnapshotCreate", name, func() error {
		return d.API.SnapshotCreate(ctx, name, snapshot)
	}); err != nil {
		return nil, err
	}

	Logc(ctx).WithFields(LogFields{
		"volume":   name,
		"snapshot": snapshot,
	}).Info("Created ONTAP snapshot.")

	created, err := d.findSnapshot(ctx, name, snapshot)
	if err != nil {
		Logc(ctx).WithError(err).Warning("Could not read back new snapshot.")
		return &storage.Snapshot{
			Name:    snapshot,
			Volume:  name,
			Created: d.now().UTC().Format(time.RFC3339),
		}, nil
	}
	return formatSnapshot(name, *created), nil
}

func (d *NASStorageDriver) DeleteSnapshot(ctx context.Context, id, snapshot string) error {
	defer d.trace(ctx, "DeleteSnapshot")()

	name, err := d.volumeName(ctx, id)
	if err != nil {
		return err
	}
	return d.invoke(ctx, "SnapshotDelete", name, func() error {
		return d.API.SnapshotDelete(ctx, name, snapshot)
	})
}

// ///////////////////////////////////////////////////////////////////////////
// Locks
// ///////////////////////////////////////////////////////////////////////////

func (d *NASStorageDriver) Locks(ctx context.Context, id string) ([]*storage.Lock, error) {
	defer d.trace(ctx, "Locks")()

	name, err := d.volumeName(ctx, id)
	if err != nil {
		return nil, err
	}
	var locks api.Locks
	if err := d.read(ctx, "LockList", name, func() (err error) {
		locks, err = d.API.LockList(ctx, name)
		return err
	}); err != nil {
		return nil, err
	}
	result := make([]*storage.Lock, 0, len(locks))
	for _, l := range locks {
		result = append(result, formatLock(l))
	}
	return result, nil
}

func (d *NASStorageDriver) CreateLock(ctx context.Context, id, host string) (*storage.Lock, error) {
	defer d.trace(ctx, "CreateLock")()

	if err := validation.ValidateHost(validation.FieldHost, host); err != nil {
		return nil, err
	}
	name, err := d.volumeName(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.invoke(ctx, "LockCreate", name, func() error {
		return d.API.LockCreate(ctx, name, host)
	}); err != nil {
		return nil, err
	}

	Logc(ctx).WithFields(LogFields{"volume": name, "host": host}).Debug("Locked ONTAP volume.")
	return &storage.Lock{Volume: name, Host: host}, nil
}

func (d *NASStorageDriver) RemoveLock(ctx context.Context, id, host string) error {
	defer d.trace(ctx, "RemoveLock")()

	if err := validation.ValidateHost(validation.FieldHost, host); err != nil {
		return err
	}
	name, err := d.volumeName(ctx, id)
	if err != nil {
		return err
	}
	if err := d.invoke(ctx, "LockBreak", name, func() error {
		return d.API.LockBreak(ctx, name, host)
	}); err != nil {
		return err
	}

	Logc(ctx).WithFields(LogFields{"volume": name, "host": host}).Debug("Unlocked ONTAP volume.")
	return nil
}

// ///////////////////////////////////////////////////////////////////////////
// Policies
// ///////////////////////////////////////////////////////////////////////////

func (d *NASStorageDriver) Policies(ctx context.Context) ([]*storage.Policy, error) {
	defer d.trace(ctx, "Policies")()

	names, err := d.exportPolicyNames(ctx)
	if err != nil {
		return nil, err
	}

	fetched := make([]*storage.Policy, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRuleFetches)
	for i, name := range names {
		g.Go(func() error {
			rules, err := d.exportRules(gctx, name)
			if errors.IsNotFoundError(err) {
				// Deleted since it was listed
				return nil
			}
			if err != nil {
				return err
			}
			fetched[i] = formatPolicy(name, rules)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	policies := make([]*storage.Policy, 0, len(fetched))
	for _, policy := range fetched {
		if policy != nil {
			policies = append(policies, policy)
		}
	}
	sort.Slice(policies, func(i, j int) bool { return policies[i].Name < policies[j].Name })
	return policies, nil
}

func (d *NASStorageDriver) GetPolicy(ctx context.Context, name string) (*storage.Policy, error) {
	defer d.trace(ctx, "GetPolicy")()

	policyName, err := d.exportPolicyName(ctx, name)
	if err != nil {
		return nil, err
	}
	rules, err := d.exportRules(ctx, policyName)
	if err != nil {
		return nil, err
	}
	return formatPolicy(policyName, rules), nil
}

func (d *NASStorageDriver) CreatePolicy(ctx context.Context, name string, rules []string) (*storage.Policy, error) {
	defer d.trace(ctx, "CreatePolicy")()

	payload := map[string]any{validation.FieldName: name}
	if rules != nil {
		payload[validation.FieldRules] = rules
	}
	values, err := validation.PolicyCreate.Validate(payload)
	if err != nil {
		return nil, err
	}
	name = values[validation.FieldName].(string)
	normalized, _ := values[validation.FieldRules].([]string)
	if normalized == nil {
		normalized = []string{}
	}

	if _, err := d.exportPolicyName(ctx, name); err == nil {
		return nil, errors.AlreadyExistsError("policy %s already exists", name)
	} else if !errors.IsNotFoundError(err) {
		return nil, err
	}

	if err := d.invoke(ctx, "ExportPolicyCreate", name, func() error {
		return d.API.ExportPolicyCreate(ctx, name)
	}); err != nil {
		return nil, err
	}
	for _, rule := range normalized {
		if err := d.invoke(ctx, "ExportRuleCreate", name, func() error {
			return d.API.ExportRuleCreate(ctx, name, rule)
		}); err != nil {
			if destroyErr := d.invoke(ctx, "ExportPolicyDestroy", name, func() error {
				return d.API.ExportPolicyDestroy(ctx, name)
			}); destroyErr != nil {
				Logc(ctx).WithField("policy", name).WithError(destroyErr).Error("Could not remove partially created policy.")
			}
			return nil, err
		}
	}

	Logc(ctx).WithFields(LogFields{"policy": name, "rules": normalized}).Info("Created ONTAP export policy.")
	return &storage.Policy{Name: name, Rules: normalized}, nil
}

func (d *NASStorageDriver) SetPolicy(ctx context.Context, id, policy string) (*storage.Volume, error) {
	defer d.trace(ctx, "SetPolicy")()

	volume, err := d.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	policyName, err := d.exportPolicyName(ctx, policy)
	if err != nil {
		return nil, err
	}
	if volume.ExportPolicy != policyName {
		if err := d.invoke(ctx, "VolumeModifyExportPolicy", volume.Name, func() error {
			return d.API.VolumeModifyExportPolicy(ctx, volume.Name, policyName)
		}); err != nil {
			return nil, err
		}
		volume.ExportPolicy = policyName
		Logc(ctx).WithFields(LogFields{"volume": volume.Name, "policy": policyName}).Info("Set volume export policy.")
	}
	return formatVolume(volume), nil
}

func (d *NASStorageDriver) RemovePolicy(ctx context.Context, id string) error {
	defer d.trace(ctx, "RemovePolicy")()

	volume, err := d.resolve(ctx, id)
	if err != nil {
		return err
	}
	if volume.ExportPolicy == "" {
		return errors.NotFoundError("volume %s has no policy", volume.Name)
	}
	return d.invoke(ctx, "VolumeModifyExportPolicy", volume.Name, func() error {
		return d.API.VolumeModifyExportPolicy(ctx, volume.Name, "")
	})
}

// findRule returns the array index of the rule matching clientMatch, or -1.
func findRule(rules api.ExportRules, clientMatch string) int {
	for _, rule := range rules {
		if canonicalClientMatch(rule.ClientMatch) == clientMatch {
			return rule.Index
		}
	}
	return -1
}

func (d *NASStorageDriver) EnsurePolicyRulePresent(
	ctx context.Context, policy, rule string,
) (*storage.Policy, error) {
	defer d.trace(ctx, "EnsurePolicyRulePresent")()

	normalized, err := validation.ValidateRule(validation.FieldRule, rule)
	if err != nil {
		return nil, err
	}
	policyName, err := d.exportPolicyName(ctx, policy)
	if err != nil {
		return nil, err
	}
	rules, err := d.exportRules(ctx, policyName)
	if err != nil {
		return nil, err
	}
	if findRule(rules, normalized) >= 0 {
		return formatPolicy(policyName, rules), nil
	}

	err = d.invoke(ctx, "ExportRuleCreate", policyName, func() error {
		return d.API.ExportRuleCreate(ctx, policyName, normalized)
	})
	if err != nil && !errors.IsAlreadyExistsError(err) {
		return nil, err
	}
	Logc(ctx).WithFields(LogFields{"policy": policyName, "rule": normalized}).Debug("Added export rule.")
	return d.GetPolicy(ctx, policyName)
}

func (d *NASStorageDriver) EnsurePolicyRuleAbsent(
	ctx context.Context, policy, rule string,
) (*storage.Policy, error) {
	defer d.trace(ctx, "EnsurePolicyRuleAbsent")()

	normalized, err := validation.ValidateRule(validation.FieldRule, rule)
	if err != nil {
		return nil, err
	}
	policyName, err := d.exportPolicyName(ctx, policy)
	if err != nil {
		return nil, err
	}
	rules, err := d.exportRules(ctx, policyName)
	if err != nil {
		return nil, err
	}
	index := findRule(rules, normalized)
	if index < 0 {
		return formatPolicy(policyName, rules), nil
	}

	err = d.invoke(ctx, "ExportRuleDestroy", policyName, func() error {
		return d.API.ExportRuleDestroy(ctx, policyName, index)
	})
	if err != nil && !errors.IsNotFoundError(err) {
		return nil, err
	}
	Logc(ctx).WithFields(LogFields{"policy": policyName, "rule": normalized}).Debug("Removed export rule.")
	return d.GetPolicy(ctx, policyName)
}

func (d *NASStorageDriver) GetExport(ctx context.Context, id string) (*storage.Export, error) {
	defer d.trace(ctx, "GetExport")()

	volume, err := d.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if volume.ExportPolicy == "" {
		return nil, errors.NotFoundError("volume %s is not exported", volume.Name)
	}
	policy, err := d.GetPolicy(ctx, volume.ExportPolicy)
	if err != nil {
		return nil, err
	}
	return storage.NewExport(volume.Name, policy), nil
}
