// Copyright 2025 NetApp, Inc. All Rights Reserved.

package factory

import (
	"context"
	"io"
	"os"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mockapi "github.com/netapp/storage-api/mocks/mock_storage_drivers/mock_ontap"
	drivers "github.com/netapp/storage-api/storage_drivers"
	"github.com/netapp/storage-api/storage_drivers/ontap"
	"github.com/netapp/storage-api/storage_drivers/ontap/api"
	fakeapi "github.com/netapp/storage-api/storage_drivers/ontap/api/fake"
	"github.com/netapp/storage-api/utils/errors"
)

func TestMain(m *testing.M) {
	// Disable any standard log output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func ontapConfig(driverName string) map[string]string {
	return map[string]string{
		drivers.KeyStorageDriverName: driverName,
		drivers.KeyHost:              "127.0.0.1",
		drivers.KeyVserver:           "svm1",
		drivers.KeyUsername:          "admin",
		drivers.KeyPassword:          "secret",
	}
}

func TestNewStorageBackendForConfig_Fake(t *testing.T) {
	backend, err := NewStorageBackendForConfig(context.Background(), map[string]string{
		drivers.KeyStorageDriverName: drivers.FakeStorageDriverName,
		drivers.KeyNode:              "node7",
	})

	require.NoError(t, err)
	assert.Equal(t, drivers.FakeStorageDriverName, backend.Name())
	assert.True(t, backend.Initialized())
}

func TestNewStorageBackendForConfig_Simulator(t *testing.T) {
	backend, err := NewStorageBackendForConfig(context.Background(),
		ontapConfig(drivers.OntapNASSimulatorStorageDriverName))
	require.NoError(t, err)

	driver, ok := backend.(*ontap.NASStorageDriver)
	require.True(t, ok)
	assert.True(t, driver.Initialized())
	assert.Equal(t, "svm1", driver.API.SVMName())
	assert.IsType(t, &fakeapi.Array{}, driver.API)
}

func TestNewStorageBackendForConfig_OntapClientFactory(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	mockAPI := mockapi.NewMockOntapAPI(mockCtrl)
	mockAPI.EXPECT().AggregateList(gomock.Any()).Return(fakeapi.DefaultAggregates(), nil)

	var seen *drivers.OntapStorageDriverConfig
	backend, err := NewStorageBackendForConfig(context.Background(), ontapConfig(drivers.OntapNASStorageDriverName),
		WithOntapClientFactory(func(_ context.Context, config *drivers.OntapStorageDriverConfig) (api.OntapAPI, error) {
			seen = config
			return mockAPI, nil
		}))

	require.NoError(t, err)
	assert.True(t, backend.Initialized())
	require.NotNil(t, seen)
	assert.Equal(t, "127.0.0.1", seen.ManagementLIF)
	assert.Equal(t, "svm1", seen.SVM)
}

func TestNewStorageBackendForConfig_OntapWithoutClient(t *testing.T) {
	_, err := NewStorageBackendForConfig(context.Background(), ontapConfig(drivers.OntapNASStorageDriverName))

	assert.True(t, errors.IsValidationError(err))
}

func TestNewStorageBackendForConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		config map[string]string
	}{
		{"missing driver", map[string]string{}},
		{"unknown driver", map[string]string{drivers.KeyStorageDriverName: "eseries-iscsi"}},
		{"missing credentials", map[string]string{drivers.KeyStorageDriverName: drivers.OntapNASSimulatorStorageDriverName}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			backend, err := NewStorageBackendForConfig(context.Background(), test.config)

			assert.Nil(t, backend)
			assert.True(t, errors.IsValidationError(err), err)
		})
	}
}

// TestInitializeRecovery passes a client factory that panics to test the factory's ability
// to recover.
func TestInitializeRecovery(t *testing.T) {
	backend, err := NewStorageBackendForConfig(context.Background(), ontapConfig(drivers.OntapNASStorageDriverName),
		WithOntapClientFactory(func(context.Context, *drivers.OntapStorageDriverConfig) (api.OntapAPI, error) {
			panic("bogus connection parameters")
		}))

	assert.Nil(t, backend)
	assert.ErrorContains(t, err, "unable to instantiate backend")
}

func TestParseBackendConfig(t *testing.T) {
	tests := []struct {
		name     string
		document string
		expected map[string]string
	}{
		{
			name:     "json",
			document: `{"storageDriverName": "ontap-nas", "apiRetries": 5, "debugTraceFlags": ["method", "api"]}`,
			expected: map[string]string{
				"storageDriverName": "ontap-nas",
				"apiRetries":        "5",
				"debugTraceFlags":   "method,api",
			},
		},
		{
			name:     "yaml",
			document: "storageDriverName: fake\nnode: node2\nunused: null\n",
			expected: map[string]string{
				"storageDriverName": "fake",
				"node":              "node2",
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config, err := ParseBackendConfig(test.document)

			require.NoError(t, err)
			assert.Equal(t, test.expected, config)
		})
	}
}

func TestParseBackendConfig_Invalid(t *testing.T) {
	_, err := ParseBackendConfig("- a\n- b\n")
	assert.True(t, errors.IsValidationError(err))

	_, err = ParseBackendConfig("backend:\n  nested: true\n")
	assert.True(t, errors.IsValidationError(err))

	_, err = ParseBackendConfig("{not yaml")
	assert.True(t, errors.IsValidationError(err))
}
