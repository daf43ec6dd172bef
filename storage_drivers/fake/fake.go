// Copyright 2025 NetApp, Inc. All Rights Reserved.

package fake

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/brunoga/deep"
	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"

	. "github.com/netapp/storage-api/logging"
	"github.com/netapp/storage-api/storage"
	"github.com/netapp/storage-api/storage/diff"
	"github.com/netapp/storage-api/storage/validation"
	drivers "github.com/netapp/storage-api/storage_drivers"
	"github.com/netapp/storage-api/utils/errors"
)

// StorageDriver is the in-memory reference implementation of storage.Backend. All state lives
// in process memory behind one lock and is returned as deep copies.
type StorageDriver struct {
	initialized bool
	Config      drivers.FakeStorageDriverConfig

	mutex         sync.RWMutex
	volumes       map[string]*storage.Volume
	junctionPaths map[string]string
	// snapshots are kept in creation order per volume
	snapshots map[string][]*storage.Snapshot
	locks     map[string]string
	policies  map[string]*storage.Policy

	now func() time.Time
}

// NewFakeStorageDriver returns an initialized driver with the given configuration.
func NewFakeStorageDriver(config drivers.FakeStorageDriverConfig) *StorageDriver {
	if config.CommonStorageDriverConfig == nil {
		config.CommonStorageDriverConfig = &drivers.CommonStorageDriverConfig{
			StorageDriverName: drivers.FakeStorageDriverName,
			BackendName:       drivers.FakeStorageDriverName,
		}
	}
	d := &StorageDriver{Config: config, now: time.Now}
	d.reset()
	d.initialized = true
	return d
}

func (d *StorageDriver) Name() string {
	return drivers.FakeStorageDriverName
}

func (d *StorageDriver) Initialize(ctx context.Context, config map[string]string) error {
	settings := make(map[string]string, len(config)+1)
	for k, v := range config {
		settings[k] = v
	}
	if settings[drivers.KeyStorageDriverName] == "" {
		settings[drivers.KeyStorageDriverName] = d.Name()
	}

	commonConfig, err := drivers.ValidateCommonSettings(ctx, settings)
	if err != nil {
		return fmt.Errorf("unable to initialize fake driver: %w", err)
	}
	fakeConfig := *drivers.NewFakeStorageDriverConfig(commonConfig, settings)

	if fakeConfig.DebugTraceFlags[drivers.TraceMethod] {
		fields := LogFields{"Method": "Initialize", "Type": "StorageDriver"}
		Logc(ctx).WithFields(fields).Debug(">>>> Initialize")
		defer Logc(ctx).WithFields(fields).Debug("<<<< Initialize")
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.Config = fakeConfig
	if d.now == nil {
		d.now = time.Now
	}
	d.reset()
	d.initialized = true

	Logc(ctx).WithFields(LogFields{
		"backend":   d.Config.BackendName,
		"node":      d.Config.Node,
		"aggregate": d.Config.Aggregate,
	}).Debug("Initialized fake driver.")
	return nil
}

func (d *StorageDriver) Initialized() bool {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return d.initialized
}

func (d *StorageDriver) Terminate(ctx context.Context) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.reset()
	d.initialized = false
	Logc(ctx).WithField("backend", d.Config.BackendName).Debug("Terminated fake driver.")
}

func (d *StorageDriver) reset() {
	d.volumes = make(map[string]*storage.Volume)
	d.junctionPaths = make(map[string]string)
	d.snapshots = make(map[string][]*storage.Snapshot)
	d.locks = make(map[string]string)
	d.policies = make(map[string]*storage.Policy)
}

func (d *StorageDriver) trace(ctx context.Context, method string) func() {
	d.mutex.RLock()
	enabled := d.Config.CommonStorageDriverConfig != nil && d.Config.DebugTraceFlags[drivers.TraceMethod]
	d.mutex.RUnlock()
	if !enabled {
		return func() {}
	}
	fields := LogFields{"Method": method, "Type": "StorageDriver"}
	Logc(ctx).WithFields(fields).Trace(">>>> " + method)
	return func() { Logc(ctx).WithFields(fields).Trace("<<<< " + method) }
}

// resolve finds a volume by name or junction path. Callers must hold the lock.
func (d *StorageDriver) resolve(id string) (*storage.Volume, error) {
	ref, err := storage.ParseVolumeName(id)
	if err != nil {
		return nil, err
	}

	name := ref.Name
	if ref.IsPath() {
		name = d.junctionPaths[ref.JunctionPath]
	}
	volume, ok := d.volumes[name]
	if !ok || (ref.Node != "" && volume.Node != ref.Node) {
		return nil, errors.NotFoundError("volume %s not found", ref)
	}
	return volume, nil
}

// policy finds a policy by case-insensitive name. Callers must hold the lock.
func (d *StorageDriver) policy(name string) (*storage.Policy, error) {
	policy, ok := d.policies[validation.FoldName(name)]
	if !ok {
		return nil, errors.NotFoundError("policy %s not found", name)
	}
	return policy, nil
}

func copyOf[T any](src T) T {
	clone, err := deep.Copy(src)
	if err != nil {
		panic(fmt.Sprintf("could not copy %T; %v", src, err))
	}
	return clone
}

// ///////////////////////////////////////////////////////////////////////////
// Volumes
// ///////////////////////////////////////////////////////////////////////////

func (d *StorageDriver) Volumes(ctx context.Context) ([]*storage.Volume, error) {
	defer d.trace(ctx, "Volumes")()

	d.mutex.RLock()
	defer d.mutex.RUnlock()

	volumes := make([]*storage.Volume, 0, len(d.volumes))
	for _, volume := range d.volumes {
		volumes = append(volumes, volume.ConstructClone())
	}
	sort.Slice(volumes, func(i, j int) bool { return volumes[i].Name < volumes[j].Name })
	return volumes, nil
}

func (d *StorageDriver) GetVolume(ctx context.Context, id string) (*storage.Volume, error) {
	defer d.trace(ctx, "GetVolume")()

	d.mutex.RLock()
	defer d.mutex.RUnlock()

	volume, err := d.resolve(id)
	if err != nil {
		return nil, err
	}
	return volume.ConstructClone(), nil
}

func (d *StorageDriver) GetVolumeByJunctionPath(ctx context.Context, junctionPath string) (*storage.Volume, error) {
	ref, err := storage.ParseVolumeName(junctionPath)
	if err != nil {
		return nil, err
	}
	if !ref.IsPath() {
		return nil, errors.ValidationError(validation.FieldJunctionPath, "%q is not a junction path", junctionPath)
	}
	return d.GetVolume(ctx, junctionPath)
}

func (d *StorageDriver) CreateVolume(
	ctx context.Context, id string, payload map[string]any,
) (*storage.Volume, error) {
	defer d.trace(ctx, "CreateVolume")()

	spec, err := storage.NewVolumeSpec(id, payload)
	if err != nil {
		return nil, err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if _, ok := d.volumes[spec.Name]; ok {
		return nil, errors.AlreadyExistsError("volume %s already exists", spec.Name)
	}
	if owner, ok := d.junctionPaths[spec.JunctionPath]; ok {
		return nil, errors.AlreadyExistsError("junction path %s is in use by volume %s", spec.JunctionPath, owner)
	}

	policyName := ""
	if spec.ActivePolicyName != "" {
		policy, err := d.policy(spec.ActivePolicyName)
		if err != nil {
			return nil, err
		}
		policyName = policy.Name
	}

	aggregate := spec.AggregateName
	if aggregate == "" {
		aggregate = d.Config.Aggregate
	}

	volume := &storage.Volume{
		Name:              spec.Name,
		UUID:              uuid.New().String(),
		Node:              spec.Node,
		AggregateName:     aggregate,
		JunctionPath:      spec.JunctionPath,
		SizeTotal:         spec.SizeTotal,
		ActivePolicyName:  policyName,
		State:             storage.VolumeStateOnline,
		Compression:       spec.Compression,
		AutosizeEnabled:   spec.AutosizeEnabled,
		AutosizeIncrement: spec.AutosizeIncrement,
		MaxAutosize:       spec.MaxAutosize,
	}
	d.store(volume)

	Logc(ctx).WithFields(LogFields{
		"volume":       volume.Name,
		"node":         volume.Node,
		"junctionPath": volume.JunctionPath,
		"sizeBytes":    volume.SizeTotal,
	}).Debug("Created fake volume.")

	return volume.ConstructClone(), nil
}

func (d *StorageDriver) store(volume *storage.Volume) {
	d.volumes[volume.Name] = volume
	d.junctionPaths[volume.JunctionPath] = volume.Name
}

func (d *StorageDriver) PatchVolume(
	ctx context.Context, id string, payload map[string]any,
) (*storage.Volume, error) {
	defer d.trace(ctx, "PatchVolume")()

	values, err := validation.VolumePatch.Validate(payload)
	if err != nil {
		return nil, err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	volume, err := d.resolve(id)
	if err != nil {
		return nil, err
	}

	delta, err := diff.VolumeEngine.Compute(volume.PatchableFields(), values)
	if err != nil {
		return nil, err
	}
	if delta.Empty() {
		Logc(ctx).WithField("volume", volume.Name).Debug("Patch changes nothing.")
		return volume.ConstructClone(), nil
	}

	if name, ok := delta.Value(validation.FieldActivePolicyName); ok && name.(string) != "" {
		if _, err := d.policy(name.(string)); err != nil {
			return nil, err
		}
	}

	updated, err := applyMergePatch(volume, delta)
	if err != nil {
		return nil, errors.UnmappedBackendError(err, "PatchVolume", volume.Name)
	}
	if updated.ActivePolicyName != "" {
		policy, _ := d.policy(updated.ActivePolicyName)
		updated.ActivePolicyName = policy.Name
	}
	if updated.MaxAutosize != 0 && updated.MaxAutosize < updated.SizeTotal {
		return nil, errors.ValidationError(validation.FieldMaxAutosize, "must not be smaller than %s",
			validation.FieldSizeTotal)
	}
	d.volumes[volume.Name] = updated

	Logc(ctx).WithFields(LogFields{
		"volume":  volume.Name,
		"changed": delta.Fields(),
	}).Debug("Patched fake volume.")

	return updated.ConstructClone(), nil
}

// applyMergePatch returns a copy of volume with the delta applied as a JSON merge patch.
func applyMergePatch(volume *storage.Volume, delta *diff.Delta) (*storage.Volume, error) {
	original, err := json.Marshal(volume)
	if err != nil {
		return nil, err
	}
	patch, err := delta.MergePatch()
	if err != nil {
		return nil, err
	}
	merged, err := jsonpatch.MergePatch(original, patch)
	if err != nil {
		return nil, err
	}
	updated := &storage.Volume{}
	if err := json.Unmarshal(merged, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (d *StorageDriver) CloneVolume(
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

	d.mutex.Lock()
	defer d.mutex.Unlock()

	source, err := d.resolve(id)
	if err != nil {
		return nil, err
	}
	if fromSnapshot != "" && d.snapshotIndex(source.Name, fromSnapshot) < 0 {
		return nil, errors.NotFoundError("snapshot %s of volume %s not found", fromSnapshot, source.Name)
	}
	if _, ok := d.volumes[cloneName]; ok {
		return nil, errors.AlreadyExistsError("volume %s already exists", cloneName)
	}
	junctionPath := storage.NodeJunctionPath(source.Node, cloneName)
	if owner, ok := d.junctionPaths[junctionPath]; ok {
		return nil, errors.AlreadyExistsError("junction path %s is in use by volume %s", junctionPath, owner)
	}

	clone := source.ConstructClone()
	clone.Name = cloneName
	clone.UUID = uuid.New().String()
	clone.JunctionPath = junctionPath
	clone.State = storage.VolumeStateOnline
	d.store(clone)

	Logc(ctx).WithFields(LogFields{
		"source":   source.Name,
		"clone":    cloneName,
		"snapshot": fromSnapshot,
	}).Debug("Cloned fake volume.")

	return clone.ConstructClone(), nil
}

func (d *StorageDriver) RestrictVolume(ctx context.Context, id string) error {
	defer d.trace(ctx, "RestrictVolume")()

	d.mutex.Lock()
	defer d.mutex.Unlock()

	volume, err := d.resolve(id)
	if err != nil {
		return err
	}
	volume.State = storage.VolumeStateRestricted

	Logc(ctx).WithField("volume", volume.Name).Debug("Restricted fake volume.")
	return nil
}

func (d *StorageDriver) RollbackVolume(ctx context.Context, id, snapshot string) error {
	defer d.trace(ctx, "RollbackVolume")()

	if err := validation.ValidateSnapshotName(validation.FieldSnapshot, snapshot); err != nil {
		return err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	volume, err := d.resolve(id)
	if err != nil {
		return err
	}
	index := d.snapshotIndex(volume.Name, snapshot)
	if index < 0 {
		return errors.NotFoundError("snapshot %s of volume %s not found", snapshot, volume.Name)
	}

	// Snapshots newer than the restored one do not survive the restore.
	d.snapshots[volume.Name] = d.snapshots[volume.Name][:index+1]

	Logc(ctx).WithFields(LogFields{
		"volume":   volume.Name,
		"snapshot": snapshot,
	}).Debug("Rolled back fake volume.")
	return nil
}

// ///////////////////////////////////////////////////////////////////////////
// Snapshots
// ///////////////////////////////////////////////////////////////////////////

func (d *StorageDriver) snapshotIndex(volume, snapshot string) int {
	for i, s := range d.snapshots[volume] {
		if s.Name == snapshot {
			return i
		}
	}
	return -1
}

func (d *StorageDriver) Snapshots(ctx context.Context, id string) ([]*storage.Snapshot, error) {
	defer d.trace(ctx, "Snapshots")()

	d.mutex.RLock()
	defer d.mutex.RUnlock()

	volume, err := d.resolve(id)
	if err != nil {
		return nil, err
	}
	snapshots := make([]*storage.Snapshot, 0, len(d.snapshots[volume.Name]))
	for _, s := range d.snapshots[volume.Name] {
		snapshots = append(snapshots, copyOf(s))
	}
	return snapshots, nil
}

func (d *StorageDriver) GetSnapshot(ctx context.Context, id, snapshot string) (*storage.Snapshot, error) {
	defer d.trace(ctx, "GetSnapshot")()

	d.mutex.RLock()
	defer d.mutex.RUnlock()

	volume, err := d.resolve(id)
	if err != nil {
		return nil, err
	}
	index := d.snapshotIndex(volume.Name, snapshot)
	if index < 0 {
		return nil, errors.NotFoundError("snapshot %s of volume %s not found", snapshot, volume.Name)
	}
	return copyOf(d.snapshots[volume.Name][index]), nil
}

func (d *StorageDriver) CreateSnapshot(ctx context.Context, id, snapshot string) (*storage.Snapshot, error) {
	defer d.trace(ctx, "CreateSnapshot")()

	if err := validation.ValidateSnapshotName(validation.FieldSnapshot, snapshot); err != nil {
		return nil, err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	volume, err := d.resolve(id)
	if err != nil {
		return nil, err
	}
	if d.snapshotIndex(volume.Name, snapshot) >= 0 {
		return nil, errors.AlreadyExistsError("snapshot %s of volume %s already exists", snapshot, volume.Name)
	}

	s := &storage.Snapshot{
		Name:    snapshot,
		Volume:  volume.Name,
		Created: d.now().UTC().Format(time.RFC3339),
	}
	d.snapshots[volume.Name] = append(d.snapshots[volume.Name], s)

	Logc(ctx).WithFields(LogFields{
		"volume":   volume.Name,
		"snapshot": snapshot,
	}).Debug("Created fake snapshot.")

	return copyOf(s), nil
}

func (d *StorageDriver) DeleteSnapshot(ctx context.Context, id, snapshot string) error {
	defer d.trace(ctx, "DeleteSnapshot")()

	d.mutex.Lock()
	defer d.mutex.Unlock()

	volume, err := d.resolve(id)
	if err != nil {
		return err
	}
	index := d.snapshotIndex(volume.Name, snapshot)
	if index < 0 {
		return errors.NotFoundError("snapshot %s of volume %s not found", snapshot, volume.Name)
	}
	snapshots := d.snapshots[volume.Name]
	d.snapshots[volume.Name] = append(snapshots[:index:index], snapshots[index+1:]...)

	Logc(ctx).WithFields(LogFields{
		"volume":   volume.Name,
		"snapshot": snapshot,
	}).Debug("Deleted fake snapshot.")
	return nil
}

// ///////////////////////////////////////////////////////////////////////////
// Locks
// ///////////////////////////////////////////////////////////////////////////

func (d *StorageDriver) Locks(ctx context.Context, id string) ([]*storage.Lock, error) {
	defer d.trace(ctx, "Locks")()

	d.mutex.RLock()
	defer d.mutex.RUnlock()

	volume, err := d.resolve(id)
	if err != nil {
		return nil, err
	}
	locks := make([]*storage.Lock, 0, 1)
	if host, ok := d.locks[volume.Name]; ok {
		locks = append(locks, &storage.Lock{Volume: volume.Name, Host: host})
	}
	return locks, nil
}

func (d *StorageDriver) CreateLock(ctx context.Context, id, host string) (*storage.Lock, error) {
	defer d.trace(ctx, "CreateLock")()

	if err := validation.ValidateHost(validation.FieldHost, host); err != nil {
		return nil, err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	volume, err := d.resolve(id)
	if err != nil {
		return nil, err
	}
	if holder, ok := d.locks[volume.Name]; ok {
		if holder == host {
			return nil, errors.AlreadyExistsError("volume %s is already locked by %s", volume.Name, host)
		}
		return nil, errors.ForbiddenError("volume %s is locked by %s", volume.Name, holder)
	}
	d.locks[volume.Name] = host

	Logc(ctx).WithFields(LogFields{"volume": volume.Name, "host": host}).Debug("Locked fake volume.")
	return &storage.Lock{Volume: volume.Name, Host: host}, nil
}

func (d *StorageDriver) RemoveLock(ctx context.Context, id, host string) error {
	defer d.trace(ctx, "RemoveLock")()

	if err := validation.ValidateHost(validation.FieldHost, host); err != nil {
		return err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	volume, err := d.resolve(id)
	if err != nil {
		return err
	}
	holder, ok := d.locks[volume.Name]
	if !ok {
		return errors.NotFoundError("volume %s is not locked", volume.Name)
	}
	if holder != host {
		return errors.ForbiddenError("volume %s is locked by %s, not %s", volume.Name, holder, host)
	}
	delete(d.locks, volume.Name)

	Logc(ctx).WithFields(LogFields{"volume": volume.Name, "host": host}).Debug("Unlocked fake volume.")
	return nil
}

// ///////////////////////////////////////////////////////////////////////////
// Policies
// ///////////////////////////////////////////////////////////////////////////

func (d *StorageDriver) Policies(ctx context.Context) ([]*storage.Policy, error) {
	defer d.trace(ctx, "Policies")()

	d.mutex.RLock()
	defer d.mutex.RUnlock()

	policies := make([]*storage.Policy, 0, len(d.policies))
	for _, policy := range d.policies {
		policies = append(policies, copyOf(policy))
	}
	sort.Slice(policies, func(i, j int) bool { return policies[i].Name < policies[j].Name })
	return policies, nil
}

func (d *StorageDriver) GetPolicy(ctx context.Context, name string) (*storage.Policy, error) {
	defer d.trace(ctx, "GetPolicy")()

	d.mutex.RLock()
	defer d.mutex.RUnlock()

	policy, err := d.policy(name)
	if err != nil {
		return nil, err
	}
	return copyOf(policy), nil
}

func (d *StorageDriver) CreatePolicy(ctx context.Context, name string, rules []string) (*storage.Policy, error) {
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

	d.mutex.Lock()
	defer d.mutex.Unlock()

	key := validation.FoldName(name)
	if _, ok := d.policies[key]; ok {
		return nil, errors.AlreadyExistsError("policy %s already exists", name)
	}
	policy := &storage.Policy{Name: name, Rules: normalized}
	d.policies[key] = policy

	Logc(ctx).WithFields(LogFields{"policy": name, "rules": normalized}).Debug("Created fake policy.")
	return copyOf(policy), nil
}

func (d *StorageDriver) SetPolicy(ctx context.Context, id, policyName string) (*storage.Volume, error) {
	defer d.trace(ctx, "SetPolicy")()

	d.mutex.Lock()
	defer d.mutex.Unlock()

	volume, err := d.resolve(id)
	if err != nil {
		return nil, err
	}
	policy, err := d.policy(policyName)
	if err != nil {
		return nil, err
	}
	volume.ActivePolicyName = policy.Name

	Logc(ctx).WithFields(LogFields{"volume": volume.Name, "policy": policy.Name}).Debug("Set fake volume policy.")
	return volume.ConstructClone(), nil
}

func (d *StorageDriver) RemovePolicy(ctx context.Context, id string) error {
	defer d.trace(ctx, "RemovePolicy")()

	d.mutex.Lock()
	defer d.mutex.Unlock()

	volume, err := d.resolve(id)
	if err != nil {
		return err
	}
	if volume.ActivePolicyName == "" {
		return errors.NotFoundError("volume %s has no policy", volume.Name)
	}
	volume.ActivePolicyName = ""

	Logc(ctx).WithField("volume", volume.Name).Debug("Removed fake volume policy.")
	return nil
}

func (d *StorageDriver) EnsurePolicyRulePresent(
	ctx context.Context, policyName, rule string,
) (*storage.Policy, error) {
	defer d.trace(ctx, "EnsurePolicyRulePresent")()

	normalized, err := validation.ValidateRule(validation.FieldRule, rule)
	if err != nil {
		return nil, err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	policy, err := d.policy(policyName)
	if err != nil {
		return nil, err
	}
	if !policy.HasRule(normalized) {
		policy.Rules = append(policy.Rules, normalized)
		Logc(ctx).WithFields(LogFields{"policy": policy.Name, "rule": normalized}).Debug("Added fake policy rule.")
	}
	return copyOf(policy), nil
}

func (d *StorageDriver) EnsurePolicyRuleAbsent(
	ctx context.Context, policyName, rule string,
) (*storage.Policy, error) {
	defer d.trace(ctx, "EnsurePolicyRuleAbsent")()

	normalized, err := validation.ValidateRule(validation.FieldRule, rule)
	if err != nil {
		return nil, err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	policy, err := d.policy(policyName)
	if err != nil {
		return nil, err
	}
	if index := policy.RuleIndex(normalized); index > 0 {
		policy.Rules = append(policy.Rules[:index-1:index-1], policy.Rules[index:]...)
		Logc(ctx).WithFields(LogFields{"policy": policy.Name, "rule": normalized}).Debug("Removed fake policy rule.")
	}
	return copyOf(policy), nil
}

func (d *StorageDriver) GetExport(ctx context.Context, id string) (*storage.Export, error) {
	defer d.trace(ctx, "GetExport")()

	d.mutex.RLock()
	defer d.mutex.RUnlock()

	volume, err := d.resolve(id)
	if err != nil {
		return nil, err
	}
	if volume.ActivePolicyName == "" {
		return nil, errors.NotFoundError("volume %s is not exported", volume.Name)
	}
	policy, err := d.policy(volume.ActivePolicyName)
	if err != nil {
		return nil, err
	}
	return storage.NewExport(volume.Name, policy), nil
}
