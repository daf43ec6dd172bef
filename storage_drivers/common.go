// Copyright 2025 NetApp, Inc. All Rights Reserved.

package storagedrivers

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	. "github.com/netapp/storage-api/logging"
	"github.com/netapp/storage-api/utils/errors"
)

var ontapConfigRedactList = [...]string{"Username", "Password"}

func GetOntapConfigRedactList() []string {
	clone := ontapConfigRedactList
	return clone[:]
}

// ValidateCommonSettings decodes the settings shared by every driver from the flat backend mapping.
func ValidateCommonSettings(ctx context.Context, config map[string]string) (*CommonStorageDriverConfig, error) {
	common := &CommonStorageDriverConfig{
		StorageDriverName: strings.TrimSpace(config[KeyStorageDriverName]),
		BackendName:       strings.TrimSpace(config[KeyBackendName]),
		DebugTraceFlags:   ParseDebugTraceFlags(config[KeyDebugTraceFlags]),
	}

	if common.StorageDriverName == "" {
		return nil, errors.ValidationError(KeyStorageDriverName, "missing storage driver name in configuration")
	}
	if common.BackendName == "" {
		common.BackendName = common.StorageDriverName
	}

	Logc(ctx).WithFields(LogFields{
		"driverName":      common.StorageDriverName,
		"backendName":     common.BackendName,
		"debugTraceFlags": common.DebugTraceFlags,
	}).Debug("Parsed common config.")

	return common, nil
}

// ParseDebugTraceFlags parses a comma separated list such as "method,api".
func ParseDebugTraceFlags(value string) map[string]bool {
	flags := make(map[string]bool)
	for _, flag := range strings.Split(value, ",") {
		if flag = strings.TrimSpace(flag); flag != "" {
			flags[strings.ToLower(flag)] = true
		}
	}
	return flags
}

// NewFakeStorageDriverConfig decodes the reference driver's settings.
func NewFakeStorageDriverConfig(
	common *CommonStorageDriverConfig, config map[string]string,
) *FakeStorageDriverConfig {
	c := &FakeStorageDriverConfig{
		CommonStorageDriverConfig: common,
		Node:                      strings.TrimSpace(config[KeyNode]),
		Aggregate:                 strings.TrimSpace(config[KeyAggregate]),
	}
	if c.Node == "" {
		c.Node = DefaultNodeName
	}
	if c.Aggregate == "" {
		c.Aggregate = DefaultAggregateName
	}
	return c
}

// NewOntapStorageDriverConfig decodes the ONTAP driver's settings. The array address, SVM and
// credentials are required.
func NewOntapStorageDriverConfig(
	common *CommonStorageDriverConfig, config map[string]string,
) (*OntapStorageDriverConfig, error) {
	c := &OntapStorageDriverConfig{
		CommonStorageDriverConfig: common,
		ManagementLIF:             strings.TrimSpace(config[KeyHost]),
		SVM:                       strings.TrimSpace(config[KeyVserver]),
		Username:                  config[KeyUsername],
		Password:                  config[KeyPassword],
		Aggregate:                 strings.TrimSpace(config[KeyAggregate]),
		ProbeTimeout:              DefaultProbeTimeout,
		APIRetries:                DefaultAPIRetries,
	}

	var errs []error
	for key, value := range map[string]string{
		KeyHost:     c.ManagementLIF,
		KeyVserver:  c.SVM,
		KeyUsername: c.Username,
		KeyPassword: c.Password,
	} {
		if value == "" {
			errs = append(errs, errors.ValidationError(key, "is required"))
		}
	}

	if raw := strings.TrimSpace(config[KeyProbeTimeout]); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			errs = append(errs, errors.ValidationError(KeyProbeTimeout, "invalid duration %q", raw))
		} else {
			c.ProbeTimeout = timeout
		}
	}
	if raw := strings.TrimSpace(config[KeyAPIRetries]); raw != "" {
		retries, err := strconv.Atoi(raw)
		if err != nil || retries < 0 {
			errs = append(errs, errors.ValidationError(KeyAPIRetries, "invalid retry count %q", raw))
		} else {
			c.APIRetries = retries
		}
	}

	if len(errs) > 0 {
		return nil, errors.Combine(errs...)
	}
	return c, nil
}

// ToString returns a string representation of a config struct with the fields named in
// redactList replaced by <REDACTED>.
func ToString(config any, redactList []string, configToRedact map[string]any) string {
	elements := reflect.ValueOf(config).Elem()
	var b strings.Builder
	b.WriteString("{")
	for i := 0; i < elements.NumField(); i++ {
		name := elements.Type().Field(i).Name
		value := elements.Field(i).Interface()
		for _, redact := range redactList {
			if name == redact {
				value = "<REDACTED>"
			}
		}
		if replacement, ok := configToRedact[name]; ok {
			value = replacement
		}
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s:%v", name, value)
	}
	b.WriteString("}")
	return b.String()
}
