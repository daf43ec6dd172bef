// Copyright 2025 NetApp, Inc. All Rights Reserved.

// Package externaltest runs the same behavioural assertions against every backend kind so
// that the array backend stays interchangeable with the reference backend.
package externaltest

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netapp/storage-api/storage"
	"github.com/netapp/storage-api/storage/factory"
	"github.com/netapp/storage-api/storage/validation"
	drivers "github.com/netapp/storage-api/storage_drivers"
	"github.com/netapp/storage-api/utils/errors"
)

var ctx = context.Background()

func TestMain(m *testing.M) {
	// Disable any standard log output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

var backendConfigs = map[string]map[string]string{
	drivers.FakeStorageDriverName: {
		drivers.KeyStorageDriverName: drivers.FakeStorageDriverName,
		drivers.KeyNode:              "node1",
	},
	drivers.OntapNASSimulatorStorageDriverName: {
		drivers.KeyStorageDriverName: drivers.OntapNASSimulatorStorageDriverName,
		drivers.KeyHost:              "127.0.0.1",
		drivers.KeyVserver:           "svm0",
		drivers.KeyUsername:          "admin",
		drivers.KeyPassword:          "secret",
	},
}

// forEachBackend runs test once per backend kind, each time against a fresh backend.
func forEachBackend(t *testing.T, test func(t *testing.T, backend storage.Backend)) {
	for name, config := range backendConfigs {
		t.Run(name, func(t *testing.T) {
			backend, err := factory.NewStorageBackendForConfig(ctx, config)
			require.NoError(t, err)
			t.Cleanup(func() { backend.Terminate(ctx) })
			test(t, backend)
		})
	}
}

func createVolume(t *testing.T, backend storage.Backend, name string) *storage.Volume {
	t.Helper()
	volume, err := backend.CreateVolume(ctx, name, map[string]any{
		validation.FieldNode:      "node1",
		validation.FieldSizeTotal: "1GiB",
	})
	require.NoError(t, err)
	return volume
}

func TestErrorKinds(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend storage.Backend) {
		createVolume(t, backend, "v1")

		_, err := backend.GetVolume(ctx, "missing")
		assert.True(t, errors.IsNotFoundError(err), "get missing volume")

		_, err = backend.CreateVolume(ctx, "v1", map[string]any{
			validation.FieldNode:      "node1",
			validation.FieldSizeTotal: "1GiB",
		})
		assert.True(t, errors.IsAlreadyExistsError(err), "create duplicate volume")

		_, err = backend.CreateVolume(ctx, "v2", map[string]any{validation.FieldNode: "node1"})
		assert.True(t, errors.IsValidationError(err), "create without size")

		_, err = backend.CreateVolume(ctx, "/node1/v3", map[string]any{validation.FieldSizeTotal: "1GiB"})
		assert.True(t, errors.IsValidationError(err), "create by path without name")

		_, err = backend.PatchVolume(ctx, "v1", map[string]any{validation.FieldSizeTotal: "lots"})
		assert.True(t, errors.IsValidationError(err), "patch with unparseable size")

		_, err = backend.GetSnapshot(ctx, "v1", "missing")
		assert.True(t, errors.IsNotFoundError(err), "get missing snapshot")

		_, err = backend.GetPolicy(ctx, "missing")
		assert.True(t, errors.IsNotFoundError(err), "get missing policy")

		_, err = backend.SetPolicy(ctx, "v1", "missing")
		assert.True(t, errors.IsNotFoundError(err), "set missing policy")
	})
}

func TestDualAddressing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend storage.Backend) {
		created := createVolume(t, backend, "v1")
		assert.Equal(t, "/node1/v1", created.JunctionPath)

		for _, id := range []string{"v1", "node1:/node1/v1", "/node1/v1", "/node1/v1/"} {
			volume, err := backend.GetVolume(ctx, id)
			require.NoError(t, err, id)
			assert.Empty(t, cmp.Diff(created, volume), id)
		}

		volume, err := backend.GetVolumeByJunctionPath(ctx, "/node1/v1")
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(created, volume))

		_, err = backend.GetVolume(ctx, "node2:/node1/v1")
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestPartialPatch(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend storage.Backend) {
		created := createVolume(t, backend, "v1")

		patched, err := backend.PatchVolume(ctx, "node1:/node1/v1", map[string]any{
			validation.FieldCompression:     "yes",
			validation.FieldAutosizeEnabled: true,
		})
		require.NoError(t, err)

		assert.True(t, patched.Compression)
		assert.True(t, patched.AutosizeEnabled)
		assert.Empty(t, cmp.Diff(created, patched,
			cmpopts.IgnoreFields(storage.Volume{}, "Compression", "AutosizeEnabled")))

		unchanged, err := backend.PatchVolume(ctx, "v1", map[string]any{validation.FieldCompression: true})
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(patched, unchanged))

		resized, err := backend.PatchVolume(ctx, "v1", map[string]any{
			validation.FieldSizeTotal:   "2GiB",
			validation.FieldMaxAutosize: "4GiB",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2147483648), resized.SizeTotal)
		assert.Equal(t, int64(4294967296), resized.MaxAutosize)
		assert.True(t, resized.Compression)

		_, err = backend.PatchVolume(ctx, "v1", map[string]any{validation.FieldMaxAutosize: "1GiB"})
		assert.True(t, errors.IsValidationError(err))
		current, err := backend.GetVolume(ctx, "v1")
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(resized, current))
	})
}

func TestSizeGranularity(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend storage.Backend) {
		created, err := backend.CreateVolume(ctx, "v1", map[string]any{
			validation.FieldNode:      "node1",
			validation.FieldSizeTotal: 20971521,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(20972544), created.SizeTotal)

		for i := 0; i < 3; i++ {
			resized, err := backend.PatchVolume(ctx, "v1", map[string]any{validation.FieldSizeTotal: 2147483649})
			require.NoError(t, err)
			assert.Equal(t, int64(2147484672), resized.SizeTotal)
		}

		current, err := backend.GetVolume(ctx, "v1")
		require.NoError(t, err)
		assert.Equal(t, int64(2147484672), current.SizeTotal)
	})
}

func TestConcurrentAccess(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend storage.Backend) {
		createVolume(t, backend, "v1")
		_, err := backend.CreatePolicy(ctx, "clients", nil)
		require.NoError(t, err)

		const workers = 16
		var (
			wg      sync.WaitGroup
			holders atomic.Int32
			holder  atomic.Value
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				host := fmt.Sprintf("host%d", i)
				if _, err := backend.CreateLock(ctx, "v1", host); err == nil {
					holders.Add(1)
					holder.Store(host)
				} else {
					assert.True(t, errors.IsForbiddenError(err), err)
				}

				_, err := backend.PatchVolume(ctx, "v1", map[string]any{validation.FieldCompression: true})
				assert.NoError(t, err)

				_, err = backend.EnsurePolicyRulePresent(ctx, "clients", fmt.Sprintf("10.0.0.%d", i%4))
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		require.Equal(t, int32(1), holders.Load())
		locks, err := backend.Locks(ctx, "v1")
		require.NoError(t, err)
		assert.Equal(t, []*storage.Lock{{Volume: "v1", Host: holder.Load().(string)}}, locks)

		policy, err := backend.GetPolicy(ctx, "clients")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"10.0.0.0", "10.0.0.1", "10.0.0.2", "10.0.0.3"}, policy.Rules)

		volume, err := backend.GetVolume(ctx, "v1")
		require.NoError(t, err)
		assert.True(t, volume.Compression)
	})
}

func TestLockSequence(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend storage.Backend) {
		createVolume(t, backend, "v1")

		lock, err := backend.CreateLock(ctx, "v1", "host1")
		require.NoError(t, err)
		assert.Equal(t, &storage.Lock{Volume: "v1", Host: "host1"}, lock)

		_, err = backend.CreateLock(ctx, "/node1/v1", "host2")
		assert.True(t, errors.IsForbiddenError(err))
		_, err = backend.CreateLock(ctx, "v1", "host1")
		assert.True(t, errors.IsAlreadyExistsError(err))
		assert.True(t, errors.IsForbiddenError(backend.RemoveLock(ctx, "v1", "host2")))

		locks, err := backend.Locks(ctx, "v1")
		require.NoError(t, err)
		assert.Equal(t, []*storage.Lock{{Volume: "v1", Host: "host1"}}, locks)

		assert.NoError(t, backend.RemoveLock(ctx, "v1", "host1"))
		assert.True(t, errors.IsNotFoundError(backend.RemoveLock(ctx, "v1", "host1")))

		locks, err = backend.Locks(ctx, "v1")
		require.NoError(t, err)
		assert.Empty(t, locks)
	})
}

func TestIdempotentRuleOperations(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend storage.Backend) {
		_, err := backend.CreatePolicy(ctx, "Clients", []string{"10.0.0.0/24"})
		require.NoError(t, err)

		_, err = backend.CreatePolicy(ctx, "clients", nil)
		assert.True(t, errors.IsAlreadyExistsError(err))

		first, err := backend.EnsurePolicyRulePresent(ctx, "clients", "Host1.example.com")
		require.NoError(t, err)
		second, err := backend.EnsurePolicyRulePresent(ctx, "CLIENTS", "host1.example.com")
		require.NoError(t, err)
		assert.Equal(t, &storage.Policy{Name: "Clients", Rules: []string{"10.0.0.0/24", "host1.example.com"}}, second)
		assert.Empty(t, cmp.Diff(first, second))

		hostBits, err := backend.EnsurePolicyRulePresent(ctx, "clients", "10.0.0.7/24")
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(second, hostBits))

		first, err = backend.EnsurePolicyRuleAbsent(ctx, "clients", "10.0.0.0/24")
		require.NoError(t, err)
		second, err = backend.EnsurePolicyRuleAbsent(ctx, "clients", "10.0.0.0/24")
		require.NoError(t, err)
		assert.Equal(t, []string{"host1.example.com"}, second.Rules)
		assert.Empty(t, cmp.Diff(first, second))

		policies, err := backend.Policies(ctx)
		require.NoError(t, err)
		assert.Equal(t, []*storage.Policy{second}, policies)
	})
}

func TestPolicyAssignment(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend storage.Backend) {
		createVolume(t, backend, "v1")
		_, err := backend.CreatePolicy(ctx, "Clients", []string{"host1", "host2"})
		require.NoError(t, err)

		assert.True(t, errors.IsNotFoundError(backend.RemovePolicy(ctx, "v1")))
		_, err = backend.GetExport(ctx, "v1")
		assert.True(t, errors.IsNotFoundError(err))

		volume, err := backend.SetPolicy(ctx, "/node1/v1", "clients")
		require.NoError(t, err)
		assert.Equal(t, "Clients", volume.ActivePolicyName)

		export, err := backend.GetExport(ctx, "v1")
		require.NoError(t, err)
		assert.Equal(t, &storage.Export{
			Volume: "v1",
			Policy: "Clients",
			Rules: []storage.ExportRule{
				{Index: 1, ClientMatch: "host1", Access: storage.ExportAccessReadWrite},
				{Index: 2, ClientMatch: "host2", Access: storage.ExportAccessReadWrite},
			},
		}, export)

		require.NoError(t, backend.RemovePolicy(ctx, "v1"))
		assert.True(t, errors.IsNotFoundError(backend.RemovePolicy(ctx, "v1")))
	})
}

func TestSnapshotLifecycle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend storage.Backend) {
		createVolume(t, backend, "v1")

		created, err := backend.CreateSnapshot(ctx, "v1", "s1")
		require.NoError(t, err)
		assert.Equal(t, "s1", created.Name)
		assert.Equal(t, "v1", created.Volume)

		_, err = backend.CreateSnapshot(ctx, "v1", "s1")
		assert.True(t, errors.IsAlreadyExistsError(err))

		found, err := backend.GetSnapshot(ctx, "node1:/node1/v1", "s1")
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(created, found))

		_, err = backend.CreateSnapshot(ctx, "v1", "s2")
		require.NoError(t, err)
		require.NoError(t, backend.RollbackVolume(ctx, "v1", "s1"))
		snapshots, err := backend.Snapshots(ctx, "v1")
		require.NoError(t, err)
		assert.Equal(t, []*storage.Snapshot{created}, snapshots)

		require.NoError(t, backend.DeleteSnapshot(ctx, "v1", "s1"))
		_, err = backend.GetSnapshot(ctx, "v1", "s1")
		assert.True(t, errors.IsNotFoundError(err))
		assert.True(t, errors.IsNotFoundError(backend.DeleteSnapshot(ctx, "v1", "s1")))
	})
}

func TestCloneAndRestrict(t *testing.T) {
	forEachBackend(t, func(t *testing.T, backend storage.Backend) {
		source := createVolume(t, backend, "v1")
		_, err := backend.CreateSnapshot(ctx, "v1", "s1")
		require.NoError(t, err)

		clone, err := backend.CloneVolume(ctx, "v1", "v1_clone", "s1")
		require.NoError(t, err)
		assert.Equal(t, "/node1/v1_clone", clone.JunctionPath)
		assert.Empty(t, cmp.Diff(source, clone,
			cmpopts.IgnoreFields(storage.Volume{}, "Name", "UUID", "JunctionPath")))

		_, err = backend.CloneVolume(ctx, "v1", "v1_clone", "")
		assert.True(t, errors.IsAlreadyExistsError(err))

		require.NoError(t, backend.RestrictVolume(ctx, "v1_clone"))
		require.NoError(t, backend.RestrictVolume(ctx, "/node1/v1_clone"))
		restricted, err := backend.GetVolume(ctx, "v1_clone")
		require.NoError(t, err)
		assert.True(t, restricted.Restricted())

		volumes, err := backend.Volumes(ctx)
		require.NoError(t, err)
		names := make([]string, 0, len(volumes))
		for _, v := range volumes {
			names = append(names, v.Name)
		}
		assert.Equal(t, []string{"v1", "v1_clone"}, names)
	})
}
