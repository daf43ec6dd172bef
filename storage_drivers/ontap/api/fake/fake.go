// Copyright 2025 NetApp, Inc. All Rights Reserved.

// Package fake provides an in-memory ONTAP array that implements api.OntapAPI. It enforces the
// same error codes as a real SVM and supports fault injection per API method.
package fake

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/brunoga/deep"
	"github.com/google/uuid"
	"k8s.io/utils/ptr"

	. "github.com/netapp/storage-api/logging"
	"github.com/netapp/storage-api/storage/validation"
	"github.com/netapp/storage-api/storage_drivers/ontap/api"
)

const (
	DefaultSVMName = "svm0"
	TiB            = int64(1) << 40
)

// DefaultAggregates returns the aggregates of a freshly installed two-node cluster. The root
// aggregate has the most space and must never receive data volumes.
func DefaultAggregates() api.Aggregates {
	return api.Aggregates{
		{Name: "aggr0_node1", AvailableBytes: 10 * TiB},
		{Name: "aggr1", AvailableBytes: 4 * TiB},
		{Name: "aggr2", AvailableBytes: 2 * TiB},
	}
}

type volume struct {
	api.Volume
	snapshots api.Snapshots
	lock      string
}

type exportPolicy struct {
	name    string
	indices *roaring.Bitmap
	rules   map[uint32]string
}

// Array is the simulated SVM. The zero value is not usable; call NewArray.
type Array struct {
	mutex      sync.Mutex
	svm        string
	volumes    map[string]*volume
	aggregates map[string]int64
	policies   map[string]*exportPolicy
	failures   map[string]error
	calls      map[string]int

	now func() time.Time
}

func NewArray(svm string, aggregates ...api.Aggregate) *Array {
	if svm == "" {
		svm = DefaultSVMName
	}
	if len(aggregates) == 0 {
		aggregates = DefaultAggregates()
	}
	a := &Array{
		svm:        svm,
		volumes:    make(map[string]*volume),
		aggregates: make(map[string]int64, len(aggregates)),
		policies:   make(map[string]*exportPolicy),
		failures:   make(map[string]error),
		calls:      make(map[string]int),
		now:        time.Now,
	}
	for _, aggr := range aggregates {
		a.aggregates[aggr.Name] = aggr.AvailableBytes
	}
	return a
}

// SetClock replaces the clock used for snapshot creation times.
func (a *Array) SetClock(now func() time.Time) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.now = now
}

// FailOn makes every call of method fail with err until ClearFailures is called.
func (a *Array) FailOn(method string, err error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.failures[method] = err
}

func (a *Array) ClearFailures() {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.failures = make(map[string]error)
}

// Calls returns how often method was invoked, failed calls included.
func (a *Array) Calls(method string) int {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.calls[method]
}

// enter records a call and returns any injected failure. Callers must hold the lock.
func (a *Array) enter(ctx context.Context, method string) error {
	a.calls[method]++
	if err := ctx.Err(); err != nil {
		return api.NewTransportError(method, err)
	}
	if err, ok := a.failures[method]; ok {
		Logc(ctx).WithFields(LogFields{"method": method, "error": err}).Debug("Injected array failure.")
		return err
	}
	return nil
}

func (a *Array) SVMName() string {
	return a.svm
}

// ///////////////////////////////////////////////////////////////////////////
// Volumes
// ///////////////////////////////////////////////////////////////////////////

func (a *Array) volume(name string) (*volume, error) {
	v, ok := a.volumes[name]
	if !ok {
		return nil, api.NewApiError(api.EVOLUMEDOESNOTEXIST, "volume %s does not exist in Vserver %s", name, a.svm)
	}
	return v, nil
}

func (a *Array) junctionPathOwner(junctionPath string) string {
	for name, v := range a.volumes {
		if v.JunctionPath == junctionPath {
			return name
		}
	}
	return ""
}

func (a *Array) exportPolicy(name string) (*exportPolicy, error) {
	policy, ok := a.policies[validation.FoldName(name)]
	if !ok {
		return nil, api.NewApiError(api.EEXPORTPOLICYNOTFOUND, "export policy %s not found", name)
	}
	return policy, nil
}

func copyVolume(v *api.Volume) *api.Volume {
	clone, err := deep.Copy(v)
	if err != nil {
		return &api.Volume{Name: v.Name}
	}
	return clone
}

func (a *Array) VolumeList(ctx context.Context, filter api.VolumeFilter) (api.Volumes, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "VolumeList"); err != nil {
		return nil, err
	}

	volumes := make(api.Volumes, 0)
	for _, v := range a.volumes {
		if filter.Name != "" && v.Name != filter.Name {
			continue
		}
		if filter.JunctionPath != "" && v.JunctionPath != filter.JunctionPath {
			continue
		}
		volumes = append(volumes, copyVolume(&v.Volume))
	}
	sort.Slice(volumes, func(i, j int) bool { return volumes[i].Name < volumes[j].Name })
	return volumes, nil
}

func (a *Array) VolumeCreate(ctx context.Context, spec api.Volume) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "VolumeCreate"); err != nil {
		return err
	}

	if _, ok := a.volumes[spec.Name]; ok {
		return api.NewApiError(api.EVOLUMEEXISTS, "volume %s already exists in Vserver %s", spec.Name, a.svm)
	}
	if owner := a.junctionPathOwner(spec.JunctionPath); owner != "" {
		return api.NewApiError(api.EDUPLICATEENTRY, "junction path %s is used by volume %s", spec.JunctionPath, owner)
	}
	if spec.SizeTotalKB == nil || *spec.SizeTotalKB <= 0 {
		return api.NewApiError(api.EINVALIDINPUT, "size is required")
	}
	available, ok := a.aggregates[spec.Aggregate]
	if !ok {
		return api.NewApiError(api.EOBJECTNOTFOUND, "aggregate %s not found", spec.Aggregate)
	}
	if available < *spec.SizeTotalKB*1024 {
		return api.NewApiError(api.EINVALIDINPUT, "aggregate %s has insufficient space", spec.Aggregate)
	}
	if spec.ExportPolicy != "" {
		policy, err := a.exportPolicy(spec.ExportPolicy)
		if err != nil {
			return err
		}
		spec.ExportPolicy = policy.name
	}

	stored := copyVolume(&spec)
	stored.UUID = uuid.New().String()
	stored.State = api.VolumeStateOnline
	stored.SizeUsedKB = ptr.To[int64](0)
	if stored.Compression == nil {
		stored.Compression = ptr.To(false)
	}
	if stored.AutosizeEnabled == nil {
		stored.AutosizeEnabled = ptr.To(false)
	}
	if stored.AutosizeIncrementKB == nil {
		stored.AutosizeIncrementKB = ptr.To[int64](0)
	}
	if stored.MaxAutosizeKB == nil {
		stored.MaxAutosizeKB = ptr.To[int64](0)
	}
	a.volumes[spec.Name] = &volume{Volume: *stored}
	a.aggregates[spec.Aggregate] = available - *spec.SizeTotalKB*1024

	Logc(ctx).WithFields(LogFields{
		"volume":       spec.Name,
		"aggregate":    spec.Aggregate,
		"junctionPath": spec.JunctionPath,
	}).Debug("Simulated volume created.")
	return nil
}

func (a *Array) VolumeCloneCreate(ctx context.Context, cloneName, sourceName, snapshot, junctionPath string) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "VolumeCloneCreate"); err != nil {
		return err
	}

	source, err := a.volume(sourceName)
	if err != nil {
		return err
	}
	if snapshot != "" && snapshotIndex(source.snapshots, snapshot) < 0 {
		return api.NewApiError(api.ESNAPSHOTDOESNOTEXIST, "snapshot %s of volume %s does not exist",
			snapshot, sourceName)
	}
	if _, ok := a.volumes[cloneName]; ok {
		return api.NewApiError(api.EVOLUMEEXISTS, "volume %s already exists in Vserver %s", cloneName, a.svm)
	}
	if owner := a.junctionPathOwner(junctionPath); owner != "" {
		return api.NewApiError(api.EDUPLICATEENTRY, "junction path %s is used by volume %s", junctionPath, owner)
	}

	clone := copyVolume(&source.Volume)
	clone.Name = cloneName
	clone.UUID = uuid.New().String()
	clone.JunctionPath = junctionPath
	clone.State = api.VolumeStateOnline
	a.volumes[cloneName] = &volume{Volume: *clone}
	return nil
}

func (a *Array) VolumeSetSize(ctx context.Context, name string, sizeKB int64) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "VolumeSetSize"); err != nil {
		return err
	}

	v, err := a.volume(name)
	if err != nil {
		return err
	}
	if sizeKB <= 0 {
		return api.NewApiError(api.EINVALIDINPUT, "invalid size %d", sizeKB)
	}
	var current int64
	if v.SizeTotalKB != nil {
		current = *v.SizeTotalKB
	}
	available := a.aggregates[v.Aggregate]
	growth := (sizeKB - current) * 1024
	if growth > available {
		return api.NewApiError(api.EINVALIDINPUT, "aggregate %s has insufficient space", v.Aggregate)
	}
	a.aggregates[v.Aggregate] = available - growth
	v.SizeTotalKB = ptr.To(sizeKB)
	return nil
}

func (a *Array) VolumeSetAutosize(ctx context.Context, name string, autosize api.VolumeAutosize) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "VolumeSetAutosize"); err != nil {
		return err
	}

	v, err := a.volume(name)
	if err != nil {
		return err
	}
	if autosize.IncrementKB < 0 || autosize.MaxSizeKB < 0 {
		return api.NewApiError(api.EINVALIDINPUT, "autosize values must not be negative")
	}
	v.AutosizeEnabled = ptr.To(autosize.Enabled)
	v.AutosizeIncrementKB = ptr.To(autosize.IncrementKB)
	v.MaxAutosizeKB = ptr.To(autosize.MaxSizeKB)
	return nil
}

func (a *Array) VolumeSetCompression(ctx context.Context, name string, enabled bool) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "VolumeSetCompression"); err != nil {
		return err
	}

	v, err := a.volume(name)
	if err != nil {
		return err
	}
	v.Compression = ptr.To(enabled)
	return nil
}

// VolumeModifyExportPolicy assigns policy to the volume. An empty policy unassigns it.
func (a *Array) VolumeModifyExportPolicy(ctx context.Context, name, policy string) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "VolumeModifyExportPolicy"); err != nil {
		return err
	}

	v, err := a.volume(name)
	if err != nil {
		return err
	}
	if policy == "" {
		v.ExportPolicy = ""
		return nil
	}
	p, err := a.exportPolicy(policy)
	if err != nil {
		return err
	}
	v.ExportPolicy = p.name
	return nil
}

func (a *Array) VolumeRestrict(ctx context.Context, name string) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "VolumeRestrict"); err != nil {
		return err
	}

	v, err := a.volume(name)
	if err != nil {
		return err
	}
	v.State = api.VolumeStateRestricted
	return nil
}

func (a *Array) AggregateList(ctx context.Context) (api.Aggregates, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "AggregateList"); err != nil {
		return nil, err
	}

	aggregates := make(api.Aggregates, 0, len(a.aggregates))
	for name, available := range a.aggregates {
		aggregates = append(aggregates, api.Aggregate{Name: name, AvailableBytes: available})
	}
	sort.Slice(aggregates, func(i, j int) bool { return aggregates[i].Name < aggregates[j].Name })
	return aggregates, nil
}

// ///////////////////////////////////////////////////////////////////////////
// Snapshots
// ///////////////////////////////////////////////////////////////////////////

func snapshotIndex(snapshots api.Snapshots, name string) int {
	for i, s := range snapshots {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func (a *Array) SnapshotList(ctx context.Context, volumeName string) (api.Snapshots, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "SnapshotList"); err != nil {
		return nil, err
	}

	v, err := a.volume(volumeName)
	if err != nil {
		return nil, err
	}
	return append(api.Snapshots{}, v.snapshots...), nil
}

func (a *Array) SnapshotCreate(ctx context.Context, volumeName, snapshot string) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "SnapshotCreate"); err != nil {
		return err
	}

	v, err := a.volume(volumeName)
	if err != nil {
		return err
	}
	if snapshotIndex(v.snapshots, snapshot) >= 0 {
		return api.NewApiError(api.ESNAPSHOTEXISTS, "snapshot %s of volume %s already exists", snapshot, volumeName)
	}
	v.snapshots = append(v.snapshots, api.Snapshot{
		Name:       snapshot,
		CreateTime: a.now().UTC().Format(time.RFC3339),
	})
	return nil
}

func (a *Array) SnapshotDelete(ctx context.Context, volumeName, snapshot string) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "SnapshotDelete"); err != nil {
		return err
	}

	v, err := a.volume(volumeName)
	if err != nil {
		return err
	}
	index := snapshotIndex(v.snapshots, snapshot)
	if index < 0 {
		return api.NewApiError(api.ESNAPSHOTDOESNOTEXIST, "snapshot %s of volume %s does not exist",
			snapshot, volumeName)
	}
	v.snapshots = append(v.snapshots[:index:index], v.snapshots[index+1:]...)
	return nil
}

// SnapshotRestoreVolume reverts the volume to snapshot and deletes every newer snapshot.
func (a *Array) SnapshotRestoreVolume(ctx context.Context, volumeName, snapshot string) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "SnapshotRestoreVolume"); err != nil {
		return err
	}

	v, err := a.volume(volumeName)
	if err != nil {
		return err
	}
	index := snapshotIndex(v.snapshots, snapshot)
	if index < 0 {
		return api.NewApiError(api.ESNAPSHOTDOESNOTEXIST, "snapshot %s of volume %s does not exist",
			snapshot, volumeName)
	}
	v.snapshots = v.snapshots[:index+1]
	return nil
}

// ///////////////////////////////////////////////////////////////////////////
// Export policies
// ///////////////////////////////////////////////////////////////////////////

func (a *Array) ExportPolicyList(ctx context.Context) ([]string, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "ExportPolicyList"); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(a.policies))
	for _, policy := range a.policies {
		names = append(names, policy.name)
	}
	sort.Strings(names)
	return names, nil
}

func (a *Array) ExportPolicyCreate(ctx context.Context, name string) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "ExportPolicyCreate"); err != nil {
		return err
	}

	key := validation.FoldName(name)
	if _, ok := a.policies[key]; ok {
		return api.NewApiError(api.EDUPLICATEENTRY, "export policy %s already exists", name)
	}
	a.policies[key] = &exportPolicy{
		name:    name,
		indices: roaring.New(),
		rules:   make(map[uint32]string),
	}
	return nil
}

func (a *Array) ExportPolicyDestroy(ctx context.Context, name string) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "ExportPolicyDestroy"); err != nil {
		return err
	}

	policy, err := a.exportPolicy(name)
	if err != nil {
		return err
	}
	for _, v := range a.volumes {
		if v.ExportPolicy == policy.name {
			return api.NewApiError(api.EINVALIDINPUT, "export policy %s is in use by volume %s", policy.name, v.Name)
		}
	}
	delete(a.policies, validation.FoldName(name))
	return nil
}

// ExportRuleList returns the policy's rules ordered by rule index.
func (a *Array) ExportRuleList(ctx context.Context, name string) (api.ExportRules, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "ExportRuleList"); err != nil {
		return nil, err
	}

	policy, err := a.exportPolicy(name)
	if err != nil {
		return nil, err
	}
	rules := make(api.ExportRules, 0, policy.indices.GetCardinality())
	it := policy.indices.Iterator()
	for it.HasNext() {
		index := it.Next()
		rules = append(rules, api.ExportRule{
			Index:       int(index),
			ClientMatch: policy.rules[index],
			RWRule:      "any",
		})
	}
	return rules, nil
}

// ExportRuleCreate appends a rule after the highest existing rule index.
func (a *Array) ExportRuleCreate(ctx context.Context, name, clientMatch string) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "ExportRuleCreate"); err != nil {
		return err
	}

	policy, err := a.exportPolicy(name)
	if err != nil {
		return err
	}
	if clientMatch == "" {
		return api.NewApiError(api.EINVALIDINPUT, "client match is required")
	}
	for _, existing := range policy.rules {
		if existing == clientMatch {
			return api.NewApiError(api.EEXPORTRULEEXISTS, "rule %s already exists in export policy %s",
				clientMatch, policy.name)
		}
	}
	index := uint32(1)
	if !policy.indices.IsEmpty() {
		index = policy.indices.Maximum() + 1
	}
	policy.indices.Add(index)
	policy.rules[index] = clientMatch
	return nil
}

func (a *Array) ExportRuleDestroy(ctx context.Context, name string, index int) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "ExportRuleDestroy"); err != nil {
		return err
	}

	policy, err := a.exportPolicy(name)
	if err != nil {
		return err
	}
	if index <= 0 || !policy.indices.Contains(uint32(index)) {
		return api.NewApiError(api.EOBJECTNOTFOUND, "rule %d not found in export policy %s", index, policy.name)
	}
	policy.indices.Remove(uint32(index))
	delete(policy.rules, uint32(index))
	return nil
}

// ///////////////////////////////////////////////////////////////////////////
// Locks
// ///////////////////////////////////////////////////////////////////////////

func (a *Array) LockList(ctx context.Context, volumeName string) (api.Locks, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "LockList"); err != nil {
		return nil, err
	}

	v, err := a.volume(volumeName)
	if err != nil {
		return nil, err
	}
	locks := make(api.Locks, 0, 1)
	if v.lock != "" {
		locks = append(locks, api.Lock{Volume: v.Name, ClientAddress: v.lock})
	}
	return locks, nil
}

func (a *Array) LockCreate(ctx context.Context, volumeName, clientAddress string) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "LockCreate"); err != nil {
		return err
	}

	v, err := a.volume(volumeName)
	if err != nil {
		return err
	}
	switch v.lock {
	case "":
		v.lock = clientAddress
		return nil
	case clientAddress:
		return api.NewApiError(api.EDUPLICATEENTRY, "volume %s is already locked by %s", volumeName, clientAddress)
	default:
		return api.NewApiError(api.ELOCKHELD, "volume %s is locked by %s", volumeName, v.lock)
	}
}

func (a *Array) LockBreak(ctx context.Context, volumeName, clientAddress string) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if err := a.enter(ctx, "LockBreak"); err != nil {
		return err
	}

	v, err := a.volume(volumeName)
	if err != nil {
		return err
	}
	switch v.lock {
	case "":
		return api.NewApiError(api.ENOLOCK, "volume %s has no lock", volumeName)
	case clientAddress:
		v.lock = ""
		return nil
	default:
		return api.NewApiError(api.ELOCKHELD, "volume %s is locked by %s, not %s", volumeName, v.lock, clientAddress)
	}
}
