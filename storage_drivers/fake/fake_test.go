// Copyright 2025 NetApp, Inc. All Rights Reserved.

package fake

import (
	"context"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netapp/storage-api/storage"
	drivers "github.com/netapp/storage-api/storage_drivers"
	"github.com/netapp/storage-api/utils/errors"
)

var ctx = context.Background

func TestMain(m *testing.M) {
	// Disable any standard log output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestDriver(t *testing.T) *StorageDriver {
	t.Helper()
	d := &StorageDriver{}
	require.NoError(t, d.Initialize(ctx(), map[string]string{
		drivers.KeyNode:            "n1",
		drivers.KeyDebugTraceFlags: "method",
	}))
	d.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return d
}

func createVolume(t *testing.T, d *StorageDriver, name string) *storage.Volume {
	t.Helper()
	volume, err := d.CreateVolume(ctx(), name, map[string]any{"node": "n1", "size_total": "1GiB"})
	require.NoError(t, err)
	return volume
}

func TestInitialize(t *testing.T) {
	d := newTestDriver(t)

	assert.True(t, d.Initialized())
	assert.Equal(t, drivers.FakeStorageDriverName, d.Name())
	assert.Equal(t, "n1", d.Config.Node)
	assert.Equal(t, drivers.DefaultAggregateName, d.Config.Aggregate)
	assert.True(t, d.Config.DebugTraceFlags[drivers.TraceMethod])

	createVolume(t, d, "v1")
	d.Terminate(ctx())
	assert.False(t, d.Initialized())

	volumes, err := d.Volumes(ctx())
	require.NoError(t, err)
	assert.Empty(t, volumes)
}

func TestInitialize_ConcurrentWithReads(t *testing.T) {
	d := newTestDriver(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, d.Initialize(ctx(), map[string]string{drivers.KeyNode: "n1"}))
		}()
		go func() {
			defer wg.Done()
			assert.True(t, d.Initialized())
			_, err := d.Volumes(ctx())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, d.Initialized())
	assert.Equal(t, "n1", d.Config.Node)
}

func TestCreateLock_Contention(t *testing.T) {
	d := newTestDriver(t)
	createVolume(t, d, "v1")

	var (
		wg      sync.WaitGroup
		mutex   sync.Mutex
		holders []string
	)
	for _, host := range []string{"h1", "h2", "h3", "h4", "h5", "h6", "h7", "h8"} {
		wg.Add(1)
		go func(host string) {
			defer wg.Done()
			if _, err := d.CreateLock(ctx(), "v1", host); err == nil {
				mutex.Lock()
				holders = append(holders, host)
				mutex.Unlock()
			} else {
				assert.True(t, errors.IsForbiddenError(err), err)
			}
		}(host)
	}
	wg.Wait()

	require.Len(t, holders, 1)
	locks, err := d.Locks(ctx(), "v1")
	require.NoError(t, err)
	assert.Equal(t, []*storage.Lock{{Volume: "v1", Host: holders[0]}}, locks)
}

func TestNewFakeStorageDriver(t *testing.T) {
	d := NewFakeStorageDriver(drivers.FakeStorageDriverConfig{Node: "n1", Aggregate: "aggr1"})
	assert.True(t, d.Initialized())

	volume := createVolume(t, d, "v1")
	assert.Equal(t, "aggr1", volume.AggregateName)
}

func TestCreateVolume(t *testing.T) {
	d := newTestDriver(t)

	volume := createVolume(t, d, "v1")
	assert.Equal(t, "v1", volume.Name)
	assert.Equal(t, "/n1/v1", volume.JunctionPath)
	assert.Equal(t, int64(1073741824), volume.SizeTotal)
	assert.Equal(t, storage.VolumeStateOnline, volume.State)
	assert.NotEmpty(t, volume.UUID)

	_, err := d.CreateVolume(ctx(), "v1", map[string]any{"node": "n1", "size_total": "1GiB"})
	assert.True(t, errors.IsAlreadyExistsError(err))

	// Same junction path, different name
	_, err = d.CreateVolume(ctx(), "n1:/n1/v1", map[string]any{"name": "v2", "size_total": "1GiB"})
	assert.True(t, errors.IsAlreadyExistsError(err))

	_, err = d.CreateVolume(ctx(), "v3", map[string]any{
		"node": "n1", "size_total": "1GiB", "active_policy_name": "missing",
	})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestReturnedVolumesAreCopies(t *testing.T) {
	d := newTestDriver(t)
	volume := createVolume(t, d, "v1")

	volume.SizeTotal = 1
	volume.State = storage.VolumeStateRestricted

	stored, err := d.GetVolume(ctx(), "v1")
	require.NoError(t, err)
	assert.Equal(t, int64(1073741824), stored.SizeTotal)
	assert.Equal(t, storage.VolumeStateOnline, stored.State)
}

func TestGetVolume_NodeMismatch(t *testing.T) {
	d := newTestDriver(t)
	createVolume(t, d, "v1")

	_, err := d.GetVolume(ctx(), "n2:/n1/v1")
	assert.True(t, errors.IsNotFoundError(err))

	_, err = d.GetVolumeByJunctionPath(ctx(), "v1")
	assert.True(t, errors.IsValidationError(err))
}

func TestPatchVolume(t *testing.T) {
	d := newTestDriver(t)
	createVolume(t, d, "v1")
	_, err := d.CreatePolicy(ctx(), "Default", nil)
	require.NoError(t, err)

	patched, err := d.PatchVolume(ctx(), "/n1/v1", map[string]any{
		"size_total":         "2GiB",
		"autosize_enabled":   "on",
		"active_policy_name": "default",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2147483648), patched.SizeTotal)
	assert.True(t, patched.AutosizeEnabled)
	assert.Equal(t, "Default", patched.ActivePolicyName)
	assert.Equal(t, "/n1/v1", patched.JunctionPath)

	_, err = d.PatchVolume(ctx(), "v1", map[string]any{"active_policy_name": "nope"})
	assert.True(t, errors.IsNotFoundError(err))

	_, err = d.PatchVolume(ctx(), "v1", map[string]any{"max_autosize": "1GiB"})
	assert.True(t, errors.IsValidationError(err))

	// Nothing changed by the failed patches
	current, err := d.GetVolume(ctx(), "v1")
	require.NoError(t, err)
	assert.Equal(t, patched, current)
}

func TestCloneVolume(t *testing.T) {
	d := newTestDriver(t)
	createVolume(t, d, "v1")
	_, err := d.CreateSnapshot(ctx(), "v1", "s1")
	require.NoError(t, err)

	clone, err := d.CloneVolume(ctx(), "v1", "v1_clone", "s1")
	require.NoError(t, err)
	assert.Equal(t, "/n1/v1_clone", clone.JunctionPath)
	assert.Equal(t, int64(1073741824), clone.SizeTotal)

	snapshots, err := d.Snapshots(ctx(), "v1_clone")
	require.NoError(t, err)
	assert.Empty(t, snapshots)

	_, err = d.CloneVolume(ctx(), "v1", "v1_clone", "")
	assert.True(t, errors.IsAlreadyExistsError(err))

	_, err = d.CloneVolume(ctx(), "v1", "v2", "missing")
	assert.True(t, errors.IsNotFoundError(err))

	_, err = d.CloneVolume(ctx(), "v1", "bad-name", "")
	assert.True(t, errors.IsValidationError(err))
}

func TestRollbackDropsNewerSnapshots(t *testing.T) {
	d := newTestDriver(t)
	createVolume(t, d, "v1")
	for _, name := range []string{"s1", "s2", "s3"} {
		_, err := d.CreateSnapshot(ctx(), "v1", name)
		require.NoError(t, err)
	}

	require.NoError(t, d.RollbackVolume(ctx(), "v1", "s2"))

	snapshots, err := d.Snapshots(ctx(), "v1")
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "s1", snapshots[0].Name)
	assert.Equal(t, "s2", snapshots[1].Name)
	assert.Equal(t, "2025-01-02T03:04:05Z", snapshots[1].Created)
}

func TestRestrictVolume(t *testing.T) {
	d := newTestDriver(t)
	createVolume(t, d, "v1")

	require.NoError(t, d.RestrictVolume(ctx(), "v1"))
	require.NoError(t, d.RestrictVolume(ctx(), "v1"))

	volume, err := d.GetVolume(ctx(), "v1")
	require.NoError(t, err)
	assert.True(t, volume.Restricted())
}

func TestPolicyRules(t *testing.T) {
	d := newTestDriver(t)

	policy, err := d.CreatePolicy(ctx(), "p1", []string{"10.0.0.1", "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1"}, policy.Rules)

	policy, err = d.EnsurePolicyRulePresent(ctx(), "P1", "Host1")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "host1"}, policy.Rules)

	policy, err = d.EnsurePolicyRuleAbsent(ctx(), "p1", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, []string{"host1"}, policy.Rules)

	_, err = d.CreatePolicy(ctx(), "P1", nil)
	assert.True(t, errors.IsAlreadyExistsError(err))

	empty, err := d.CreatePolicy(ctx(), "p2", nil)
	require.NoError(t, err)
	assert.NotNil(t, empty.Rules)
}
