// Copyright 2025 NetApp, Inc. All Rights Reserved.

package validation

import (
	"fmt"
	"strings"

	"github.com/netapp/storage-api/utils/errors"
)

// Volume payload keys.
const (
	FieldName              = "name"
	FieldUUID              = "uuid"
	FieldNode              = "node"
	FieldAggregateName     = "aggregate_name"
	FieldJunctionPath      = "junction_path"
	FieldSizeTotal         = "size_total"
	FieldSizeUsed          = "size_used"
	FieldActivePolicyName  = "active_policy_name"
	FieldState             = "state"
	FieldCompression       = "compression"
	FieldAutosizeEnabled   = "autosize_enabled"
	FieldAutosizeIncrement = "autosize_increment"
	FieldMaxAutosize       = "max_autosize"
	FieldRules             = "rules"
	FieldSnapshot          = "snapshot"
	FieldHost              = "host"
	FieldRule              = "rule"
)

// MinimumVolumeSizeBytes is the smallest volume the array accepts.
const MinimumVolumeSizeBytes = 20971520 // 20 MiB

func checkVolumeName(field string, value any) (any, error) {
	return value, ValidateVolumeName(field, value.(string))
}

func checkNode(field string, value any) (any, error) {
	return value, ValidateHost(field, value.(string))
}

func checkJunctionPath(field string, value any) (any, error) {
	path := value.(string)
	if !strings.HasPrefix(path, "/") {
		return nil, errors.ValidationError(field, "must be an absolute path")
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path, nil
}

func checkOptionalPolicyName(field string, value any) (any, error) {
	name := value.(string)
	if name == "" {
		return name, nil
	}
	return name, ValidatePolicyName(field, name)
}

func checkRules(field string, value any) (any, error) {
	rules := value.([]string)
	seen := make(map[string]struct{}, len(rules))
	out := make([]string, 0, len(rules))
	for i, rule := range rules {
		normalized, err := ValidateRule(fmt.Sprintf("%s[%d]", field, i), rule)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out, nil
}

func autosizeBounds(values map[string]any) error {
	maxAutosize, hasMax := values[FieldMaxAutosize].(int64)
	size, hasSize := values[FieldSizeTotal].(int64)
	if hasMax && hasSize && maxAutosize != 0 && maxAutosize < size {
		return errors.ValidationError(FieldMaxAutosize, "must not be smaller than %s", FieldSizeTotal)
	}
	return nil
}

var tunableFields = []Field{
	{Name: FieldCompression, Kind: Boolean},
	{Name: FieldAutosizeEnabled, Kind: Boolean},
	{Name: FieldAutosizeIncrement, Kind: Bytes},
	{Name: FieldMaxAutosize, Kind: Bytes},
	{Name: FieldActivePolicyName, Kind: String, Check: checkOptionalPolicyName},
}

// VolumeCreate accepts a volume creation request. Which of name, node and junction_path
// are required depends on how the volume is addressed and is checked by the caller.
var VolumeCreate = &Schema{
	Name: "volume create",
	Fields: append([]Field{
		{Name: FieldName, Kind: String, Check: checkVolumeName},
		{Name: FieldNode, Kind: String, Check: checkNode},
		{Name: FieldJunctionPath, Kind: String, Check: checkJunctionPath},
		{Name: FieldAggregateName, Kind: String},
		{Name: FieldSizeTotal, Kind: Bytes, Required: true, Min: Int64(MinimumVolumeSizeBytes)},
		{Name: FieldUUID, Kind: String, ReadOnly: true},
		{Name: FieldSizeUsed, Kind: Bytes, ReadOnly: true},
		{Name: FieldState, Kind: String, ReadOnly: true},
	}, tunableFields...),
	Rules: []Rule{autosizeBounds},
}

// VolumePatch accepts a partial volume update.
var VolumePatch = &Schema{
	Name: "volume patch",
	Fields: append([]Field{
		{Name: FieldName, Kind: String, ReadOnly: true},
		{Name: FieldUUID, Kind: String, ReadOnly: true},
		{Name: FieldNode, Kind: String, ReadOnly: true},
		{Name: FieldAggregateName, Kind: String, ReadOnly: true},
		{Name: FieldJunctionPath, Kind: String, ReadOnly: true},
		{Name: FieldSizeUsed, Kind: Bytes, ReadOnly: true},
		{Name: FieldState, Kind: String, ReadOnly: true},
		{Name: FieldSizeTotal, Kind: Bytes, Min: Int64(MinimumVolumeSizeBytes)},
	}, tunableFields...),
	Rules: []Rule{autosizeBounds},
}

// PolicyCreate accepts a policy creation request.
var PolicyCreate = &Schema{
	Name: "policy create",
	Fields: []Field{
		{Name: FieldName, Kind: String, Required: true, Check: func(field string, value any) (any, error) {
			return value, ValidatePolicyName(field, value.(string))
		}},
		{Name: FieldRules, Kind: StringList, Check: checkRules},
	},
}

// ValidatePolicyRules normalizes and deduplicates rules, preserving order.
func ValidatePolicyRules(rules []string) ([]string, error) {
	out, err := checkRules(FieldRules, rules)
	if err != nil {
		return nil, err
	}
	return out.([]string), nil
}
