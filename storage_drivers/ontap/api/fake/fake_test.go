// Copyright 2025 NetApp, Inc. All Rights Reserved.

package fake

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netapp/storage-api/storage_drivers/ontap/api"
)

var ctx = context.Background()

func newVolume(name, junctionPath string, sizeKB int64) api.Volume {
	return api.Volume{
		Name:         name,
		NodeName:     "node1",
		Aggregate:    "aggr1",
		JunctionPath: junctionPath,
		SizeTotalKB:  &sizeKB,
	}
}

func TestVolumeCreate(t *testing.T) {
	array := NewArray("")
	assert.Equal(t, DefaultSVMName, array.SVMName())

	require.NoError(t, array.VolumeCreate(ctx, newVolume("v1", "/node1/v1", 1024)))

	volumes, err := array.VolumeList(ctx, api.VolumeFilter{JunctionPath: "/node1/v1"})
	require.NoError(t, err)
	require.Len(t, volumes, 1)
	assert.Equal(t, "v1", volumes[0].Name)
	assert.Equal(t, api.VolumeStateOnline, volumes[0].State)
	assert.NotEmpty(t, volumes[0].UUID)
	assert.False(t, *volumes[0].Compression)

	err = array.VolumeCreate(ctx, newVolume("v1", "/node1/other", 1024))
	assert.True(t, api.ExceptionIsErrorCode(err, api.EVOLUMEEXISTS))

	err = array.VolumeCreate(ctx, newVolume("v2", "/node1/v1", 1024))
	assert.True(t, api.ExceptionIsErrorCode(err, api.EDUPLICATEENTRY))

	spec := newVolume("v3", "/node1/v3", 1024)
	spec.Aggregate = "missing"
	err = array.VolumeCreate(ctx, spec)
	assert.True(t, api.ExceptionIsErrorCode(err, api.EOBJECTNOTFOUND))

	spec = newVolume("v4", "/node1/v4", 1024)
	spec.ExportPolicy = "missing"
	err = array.VolumeCreate(ctx, spec)
	assert.True(t, api.ExceptionIsErrorCode(err, api.EEXPORTPOLICYNOTFOUND))
}

func TestVolumeCreate_ConsumesAggregateSpace(t *testing.T) {
	array := NewArray("svm1", api.Aggregate{Name: "aggr1", AvailableBytes: 4 << 20})

	require.NoError(t, array.VolumeCreate(ctx, newVolume("v1", "/v1", 3072)))
	err := array.VolumeCreate(ctx, newVolume("v2", "/v2", 2048))
	assert.True(t, api.ExceptionIsErrorCode(err, api.EINVALIDINPUT))

	aggregates, err := array.AggregateList(ctx)
	require.NoError(t, err)
	assert.Equal(t, api.Aggregates{{Name: "aggr1", AvailableBytes: 1 << 20}}, aggregates)

	require.NoError(t, array.VolumeSetSize(ctx, "v1", 1024))
	aggregates, err = array.AggregateList(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3<<20), aggregates[0].AvailableBytes)
}

func TestReturnedVolumesAreCopies(t *testing.T) {
	array := NewArray("")
	require.NoError(t, array.VolumeCreate(ctx, newVolume("v1", "/v1", 1024)))

	volumes, err := array.VolumeList(ctx, api.VolumeFilter{Name: "v1"})
	require.NoError(t, err)
	*volumes[0].SizeTotalKB = 1

	volumes, err = array.VolumeList(ctx, api.VolumeFilter{Name: "v1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1024), *volumes[0].SizeTotalKB)
}

func TestSnapshots(t *testing.T) {
	array := NewArray("")
	array.SetClock(func() time.Time { return time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC) })
	require.NoError(t, array.VolumeCreate(ctx, newVolume("v1", "/v1", 1024)))

	for _, name := range []string{"s1", "s2", "s3"} {
		require.NoError(t, array.SnapshotCreate(ctx, "v1", name))
	}
	err := array.SnapshotCreate(ctx, "v1", "s1")
	assert.True(t, api.ExceptionIsErrorCode(err, api.ESNAPSHOTEXISTS))

	require.NoError(t, array.SnapshotRestoreVolume(ctx, "v1", "s2"))
	snapshots, err := array.SnapshotList(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, api.Snapshots{
		{Name: "s1", CreateTime: "2025-05-06T07:08:09Z"},
		{Name: "s2", CreateTime: "2025-05-06T07:08:09Z"},
	}, snapshots)

	require.NoError(t, array.SnapshotDelete(ctx, "v1", "s1"))
	err = array.SnapshotDelete(ctx, "v1", "s1")
	assert.True(t, api.ExceptionIsErrorCode(err, api.ESNAPSHOTDOESNOTEXIST))

	_, err = array.SnapshotList(ctx, "missing")
	assert.True(t, api.ExceptionIsErrorCode(err, api.EVOLUMEDOESNOTEXIST))
}

func TestVolumeCloneCreate(t *testing.T) {
	array := NewArray("")
	require.NoError(t, array.VolumeCreate(ctx, newVolume("v1", "/v1", 1024)))
	require.NoError(t, array.SnapshotCreate(ctx, "v1", "s1"))

	err := array.VolumeCloneCreate(ctx, "c1", "v1", "s9", "/c1")
	assert.True(t, api.ExceptionIsErrorCode(err, api.ESNAPSHOTDOESNOTEXIST))

	require.NoError(t, array.VolumeCloneCreate(ctx, "c1", "v1", "s1", "/c1"))
	snapshots, err := array.SnapshotList(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, snapshots)

	err = array.VolumeCloneCreate(ctx, "c2", "v1", "", "/c1")
	assert.True(t, api.ExceptionIsErrorCode(err, api.EDUPLICATEENTRY))
}

func TestExportRules(t *testing.T) {
	array := NewArray("")
	require.NoError(t, array.ExportPolicyCreate(ctx, "Default"))

	err := array.ExportPolicyCreate(ctx, "default")
	assert.True(t, api.ExceptionIsErrorCode(err, api.EDUPLICATEENTRY))

	for _, rule := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		require.NoError(t, array.ExportRuleCreate(ctx, "default", rule))
	}
	err = array.ExportRuleCreate(ctx, "default", "10.0.0.1")
	assert.True(t, api.ExceptionIsErrorCode(err, api.EEXPORTRULEEXISTS))

	require.NoError(t, array.ExportRuleDestroy(ctx, "default", 2))
	require.NoError(t, array.ExportRuleCreate(ctx, "default", "10.0.0.4"))

	err = array.ExportRuleDestroy(ctx, "default", 2)
	assert.True(t, api.ExceptionIsErrorCode(err, api.EOBJECTNOTFOUND))

	rules, err := array.ExportRuleList(ctx, "DEFAULT")
	require.NoError(t, err)
	assert.Equal(t, api.ExportRules{
		{Index: 1, ClientMatch: "10.0.0.1", RWRule: "any"},
		{Index: 3, ClientMatch: "10.0.0.3", RWRule: "any"},
		{Index: 4, ClientMatch: "10.0.0.4", RWRule: "any"},
	}, rules)

	names, err := array.ExportPolicyList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Default"}, names)
}

func TestExportPolicyDestroy(t *testing.T) {
	array := NewArray("")
	require.NoError(t, array.ExportPolicyCreate(ctx, "p1"))
	require.NoError(t, array.VolumeCreate(ctx, newVolume("v1", "/v1", 1024)))
	require.NoError(t, array.VolumeModifyExportPolicy(ctx, "v1", "P1"))

	volumes, err := array.VolumeList(ctx, api.VolumeFilter{Name: "v1"})
	require.NoError(t, err)
	assert.Equal(t, "p1", volumes[0].ExportPolicy)

	err = array.ExportPolicyDestroy(ctx, "p1")
	assert.True(t, api.ExceptionIsErrorCode(err, api.EINVALIDINPUT))

	require.NoError(t, array.VolumeModifyExportPolicy(ctx, "v1", ""))
	require.NoError(t, array.ExportPolicyDestroy(ctx, "p1"))

	err = array.ExportPolicyDestroy(ctx, "p1")
	assert.True(t, api.ExceptionIsErrorCode(err, api.EEXPORTPOLICYNOTFOUND))
}

func TestLocks(t *testing.T) {
	array := NewArray("")
	require.NoError(t, array.VolumeCreate(ctx, newVolume("v1", "/v1", 1024)))

	err := array.LockBreak(ctx, "v1", "host1")
	assert.True(t, api.ExceptionIsErrorCode(err, api.ENOLOCK))

	require.NoError(t, array.LockCreate(ctx, "v1", "host1"))
	err = array.LockCreate(ctx, "v1", "host1")
	assert.True(t, api.ExceptionIsErrorCode(err, api.EDUPLICATEENTRY))
	err = array.LockCreate(ctx, "v1", "host2")
	assert.True(t, api.ExceptionIsErrorCode(err, api.ELOCKHELD))
	err = array.LockBreak(ctx, "v1", "host2")
	assert.True(t, api.ExceptionIsErrorCode(err, api.ELOCKHELD))

	locks, err := array.LockList(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, api.Locks{{Volume: "v1", ClientAddress: "host1"}}, locks)

	require.NoError(t, array.LockBreak(ctx, "v1", "host1"))
	locks, err = array.LockList(ctx, "v1")
	require.NoError(t, err)
	assert.Empty(t, locks)
}

func TestFaultInjection(t *testing.T) {
	array := NewArray("")
	injected := api.NewTransportError("VolumeList", context.DeadlineExceeded)
	array.FailOn("VolumeList", injected)

	_, err := array.VolumeList(ctx, api.VolumeFilter{})
	assert.Equal(t, injected, err)
	assert.Equal(t, 1, array.Calls("VolumeList"))

	array.ClearFailures()
	_, err = array.VolumeList(ctx, api.VolumeFilter{})
	assert.NoError(t, err)
	assert.Equal(t, 2, array.Calls("VolumeList"))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = array.AggregateList(cancelled)
	assert.True(t, api.IsTransportError(err))
}
