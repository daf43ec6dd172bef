// Copyright 2025 NetApp, Inc. All Rights Reserved.

package factory

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/ghodss/yaml"

	. "github.com/netapp/storage-api/logging"
	"github.com/netapp/storage-api/storage"
	drivers "github.com/netapp/storage-api/storage_drivers"
	"github.com/netapp/storage-api/storage_drivers/fake"
	"github.com/netapp/storage-api/storage_drivers/ontap"
	"github.com/netapp/storage-api/storage_drivers/ontap/api"
	fakeapi "github.com/netapp/storage-api/storage_drivers/ontap/api/fake"
	"github.com/netapp/storage-api/utils/errors"
)

type options struct {
	ontapClientFactory ontap.ClientFactory
}

// Option customizes backend construction.
type Option func(*options)

// WithOntapClientFactory supplies the session factory used by the ontap-nas backend.
func WithOntapClientFactory(factory ontap.ClientFactory) Option {
	return func(o *options) {
		o.ontapClientFactory = factory
	}
}

// ParseBackendConfig converts a JSON or YAML document into the flat backend mapping.
// Scalar values are rendered as strings; nested values are rejected.
func ParseBackendConfig(document string) (map[string]string, error) {
	configJSON, err := yaml.YAMLToJSON([]byte(document))
	if err != nil {
		return nil, errors.ValidationError("backend", "invalid config format; %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(configJSON, &raw); err != nil {
		return nil, errors.ValidationError("backend", "config must be a mapping; %v", err)
	}

	config := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			config[key] = v
		case bool, float64:
			config[key] = strings.TrimSpace(fmt.Sprint(v))
		case []any:
			parts := make([]string, 0, len(v))
			for _, part := range v {
				parts = append(parts, fmt.Sprint(part))
			}
			config[key] = strings.Join(parts, ",")
		default:
			return nil, errors.ValidationError(key, "nested values are not supported")
		}
	}
	return config, nil
}

// NewStorageBackendForConfig constructs and initializes the backend named by the
// storageDriverName key of config.
func NewStorageBackendForConfig(
	ctx context.Context, config map[string]string, opts ...Option,
) (backend storage.Backend, err error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	// Some drivers may panic during initialize if given invalid parameters,
	// so catch any panics that might occur and return an error.
	defer func() {
		if r := recover(); r != nil {
			Logc(ctx).WithField("stackTrace", string(debug.Stack())).Error("Unable to instantiate backend.")
			backend = nil
			err = fmt.Errorf("unable to instantiate backend: %v", r)
		}
	}()

	driverName := strings.TrimSpace(config[drivers.KeyStorageDriverName])

	switch driverName {
	case drivers.FakeStorageDriverName:
		backend = &fake.StorageDriver{}
	case drivers.OntapNASStorageDriverName:
		backend = ontap.NewNASStorageDriver(o.ontapClientFactory)
	case drivers.OntapNASSimulatorStorageDriverName:
		backend = ontap.NewNASStorageDriver(simulatorClientFactory)
	case "":
		return nil, errors.ValidationError(drivers.KeyStorageDriverName, "missing storage driver name in configuration")
	default:
		return nil, errors.ValidationError(drivers.KeyStorageDriverName, "unknown storage driver: %v", driverName)
	}

	Logc(ctx).WithField("driver", driverName).Debug("Initializing storage driver.")

	if err = backend.Initialize(ctx, config); err != nil {
		Logc(ctx).WithField("driver", driverName).WithError(err).Error("Could not initialize storage driver.")
		return nil, fmt.Errorf("problem initializing storage driver '%s'; %w", driverName, err)
	}

	Logc(ctx).WithField("driver", driverName).Info("Storage driver initialized.")
	return backend, nil
}

// simulatorClientFactory returns a fresh simulated SVM for the configured vserver.
func simulatorClientFactory(_ context.Context, config *drivers.OntapStorageDriverConfig) (api.OntapAPI, error) {
	return fakeapi.NewArray(config.SVM), nil
}
