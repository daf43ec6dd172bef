// Copyright 2025 NetApp, Inc. All Rights Reserved.

package ontap

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"k8s.io/utils/ptr"

	"github.com/netapp/storage-api/config"
	. "github.com/netapp/storage-api/logging"
	"github.com/netapp/storage-api/storage"
	"github.com/netapp/storage-api/storage/validation"
	drivers "github.com/netapp/storage-api/storage_drivers"
	"github.com/netapp/storage-api/storage_drivers/ontap/api"
	"github.com/netapp/storage-api/utils/errors"
)

var (
	arrayCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.MetricsNamespace,
			Subsystem: "ontap",
			Name:      "api_calls_total",
			Help:      "The total number of ONTAP API calls by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	// Root aggregates hold the node's root volume and never receive data volumes
	rootAggregateRegex = regexp.MustCompile(`^aggr0`)
)

const outcomeSuccess = "success"

// handleOntapException translates an array failure into the domain error taxonomy. Errors
// that already belong to the taxonomy are returned unchanged.
func handleOntapException(err error, op, resource string) error {
	if err == nil {
		return nil
	}

	var apiErr api.ApiError
	switch {
	case api.IsTransportError(err):
		return errors.BackendUnavailableError(err, op, resource)
	case api.ExceptionIsErrorCode(err, api.EOBJECTNOTFOUND, api.EVOLUMEDOESNOTEXIST, api.ESNAPSHOTDOESNOTEXIST,
		api.EEXPORTPOLICYNOTFOUND, api.ENOLOCK):
		return errors.WrapWithNotFoundError(err, "%s not found", resource)
	case api.ExceptionIsErrorCode(err, api.EDUPLICATEENTRY, api.EVOLUMEEXISTS, api.ESNAPSHOTEXISTS,
		api.EEXPORTRULEEXISTS):
		return errors.WrapWithAlreadyExistsError(err, "%s already exists", resource)
	case api.ExceptionIsErrorCode(err, api.ELOCKHELD):
		return errors.WrapWithForbiddenError(err, "%s is locked by another host", resource)
	case api.ExceptionIsErrorCode(err, api.EINVALIDINPUT) && errors.As(err, &apiErr):
		return errors.ValidationError("request", "%s rejected by the array: %s", op, apiErr.Reason())
	case isDomainError(err):
		return err
	default:
		return errors.UnmappedBackendError(err, op, resource)
	}
}

func isDomainError(err error) bool {
	return errors.KindOf(err) != errors.KindUnmapped || errors.IsUnmappedBackendError(err)
}

func outcomeOf(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	return string(errors.KindOf(err))
}

// invoke runs one array call and translates its failure.
func (d *NASStorageDriver) invoke(ctx context.Context, op, resource string, call func() error) error {
	if d.Config.DebugTraceFlags[drivers.TraceAPI] {
		fields := LogFields{"op": op, "resource": resource, "svm": d.Config.SVM}
		Logc(ctx).WithFields(fields).Trace(">>>> " + op)
		defer Logc(ctx).WithFields(fields).Trace("<<<< " + op)
	}

	err := handleOntapException(call(), op, resource)
	arrayCallsTotal.WithLabelValues(op, outcomeOf(err)).Inc()
	if err != nil {
		Logc(ctx).WithFields(LogFields{
			"op":       op,
			"resource": resource,
			"kind":     errors.KindOf(err),
		}).WithError(err).Debug("Array call failed.")
	}
	return err
}

// read runs a read-only array call, retrying while the array is unavailable. Retries stop
// as soon as ctx is done.
func (d *NASStorageDriver) read(ctx context.Context, op, resource string, call func() error) error {
	attempt := func() error {
		if ctx.Err() != nil {
			return backoff.Permanent(errors.BackendUnavailableError(ctx.Err(), op, resource))
		}
		err := d.invoke(ctx, op, resource, call)
		if err != nil && (!errors.IsRetryable(err) || ctx.Err() != nil) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, duration time.Duration) {
		Logc(ctx).WithFields(LogFields{
			"op":        op,
			"increment": duration,
		}).Debug("Array unavailable, waiting.")
	}

	retries := d.Config.APIRetries
	if retries < 0 {
		retries = 0
	}
	readBackoff := backoff.WithContext(backoff.WithMaxRetries(d.newBackOff(), uint64(retries)), ctx)
	if err := backoff.RetryNotify(attempt, readBackoff, notify); err != nil {
		if !isDomainError(err) {
			return errors.BackendUnavailableError(err, op, resource)
		}
		return err
	}
	return nil
}

func defaultReadBackOff() backoff.BackOff {
	readBackoff := backoff.NewExponentialBackOff()
	readBackoff.InitialInterval = 250 * time.Millisecond
	readBackoff.Multiplier = 2
	readBackoff.RandomizationFactor = 0.1
	readBackoff.MaxElapsedTime = 10 * time.Second
	return readBackoff
}

// probeForVolume waits for an asynchronously created volume to become visible.
func (d *NASStorageDriver) probeForVolume(ctx context.Context, name string) (*api.Volume, error) {
	var volume *api.Volume
	checkVolumeExists := func() error {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		volumes, err := d.listVolumes(ctx, api.VolumeFilter{Name: name}, name)
		if err != nil {
			if errors.IsRetryable(err) && ctx.Err() == nil {
				return err
			}
			return backoff.Permanent(err)
		}
		if len(volumes) == 0 {
			return fmt.Errorf("volume %v does not yet exist", name)
		}
		volume = volumes[0]
		return nil
	}
	volumeExistsNotify := func(err error, duration time.Duration) {
		Logc(ctx).WithField("increment", duration).Debug("Volume not yet present, waiting.")
	}

	volumeBackoff := backoff.WithContext(d.newProbeBackOff(), ctx)
	if err := backoff.RetryNotify(checkVolumeExists, volumeBackoff, volumeExistsNotify); err != nil {
		Logc(ctx).WithField("volume", name).Warnf("Could not find volume after %v.", d.Config.ProbeTimeout)
		if isDomainError(err) {
			return nil, err
		}
		return nil, errors.BackendUnavailableError(err, "probeForVolume", name)
	}
	Logc(ctx).WithField("volume", name).Debug("Volume found.")
	return volume, nil
}

func (d *NASStorageDriver) defaultProbeBackOff() backoff.BackOff {
	volumeBackoff := backoff.NewExponentialBackOff()
	volumeBackoff.InitialInterval = 1 * time.Second
	volumeBackoff.Multiplier = 2
	volumeBackoff.RandomizationFactor = 0.1
	volumeBackoff.MaxElapsedTime = d.Config.ProbeTimeout
	if volumeBackoff.MaxElapsedTime <= 0 {
		volumeBackoff.MaxElapsedTime = drivers.DefaultProbeTimeout
	}
	return volumeBackoff
}

// selectAggregate picks the data aggregate with the most available space.
func selectAggregate(ctx context.Context, aggregates api.Aggregates) (string, error) {
	sorted := append(api.Aggregates{}, aggregates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].AvailableBytes == sorted[j].AvailableBytes {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].AvailableBytes > sorted[j].AvailableBytes
	})

	for _, aggr := range sorted {
		if rootAggregateRegex.MatchString(aggr.Name) {
			Logc(ctx).WithField("aggregate", aggr.Name).Debug("Skipping root aggregate.")
			continue
		}
		Logc(ctx).WithFields(LogFields{
			"aggregate": aggr.Name,
			"available": humanize.IBytes(uint64(max(aggr.AvailableBytes, 0))),
		}).Info("Picked aggregate with the most free space.")
		return aggr.Name, nil
	}
	return "", errors.ValidationError(validation.FieldAggregateName, "could not find a suitable aggregate")
}

// ///////////////////////////////////////////////////////////////////////////
// Shape translation
// ///////////////////////////////////////////////////////////////////////////

func kbToBytes(kb *int64) int64 {
	return ptr.Deref(kb, 0) * 1024
}

func bytesToKB(b int64) int64 {
	return (b + 1023) / 1024
}

// formatVolume converts the array's view of a volume. Missing optional values become zero
// values.
func formatVolume(v *api.Volume) *storage.Volume {
	state := storage.VolumeStateOnline
	switch v.State {
	case api.VolumeStateRestricted, api.VolumeStateOffline:
		state = storage.VolumeStateRestricted
	}
	return &storage.Volume{
		Name:              v.Name,
		UUID:              v.UUID,
		Node:              v.NodeName,
		AggregateName:     v.Aggregate,
		JunctionPath:      v.JunctionPath,
		SizeTotal:         kbToBytes(v.SizeTotalKB),
		SizeUsed:          kbToBytes(v.SizeUsedKB),
		ActivePolicyName:  v.ExportPolicy,
		State:             state,
		Compression:       ptr.Deref(v.Compression, false),
		AutosizeEnabled:   ptr.Deref(v.AutosizeEnabled, false),
		AutosizeIncrement: kbToBytes(v.AutosizeIncrementKB),
		MaxAutosize:       kbToBytes(v.MaxAutosizeKB),
	}
}

// formatPolicy converts an export policy and its rules. Rules are ordered by rule index,
// blank client matches are dropped and the remaining ones canonicalized.
func formatPolicy(name string, rules api.ExportRules) *storage.Policy {
	sorted := append(api.ExportRules{}, rules...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	policy := &storage.Policy{Name: name, Rules: []string{}}
	for _, rule := range sorted {
		clientMatch := canonicalClientMatch(rule.ClientMatch)
		if clientMatch == "" || policy.HasRule(clientMatch) {
			continue
		}
		policy.Rules = append(policy.Rules, clientMatch)
	}
	return policy
}

func canonicalClientMatch(clientMatch string) string {
	clientMatch = strings.TrimSpace(clientMatch)
	if clientMatch == "" {
		return ""
	}
	if normalized, err := validation.NormalizeRule(clientMatch); err == nil {
		return normalized
	}
	return clientMatch
}

func formatSnapshot(volume string, s api.Snapshot) *storage.Snapshot {
	return &storage.Snapshot{Name: s.Name, Volume: volume, Created: s.CreateTime}
}

func formatLock(l api.Lock) *storage.Lock {
	return &storage.Lock{Volume: l.Volume, Host: l.ClientAddress}
}
