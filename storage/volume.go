// Copyright 2025 NetApp, Inc. All Rights Reserved.

package storage

import (
	"github.com/brunoga/deep"

	"github.com/netapp/storage-api/storage/validation"
)

type VolumeState string

const (
	VolumeStateOnline     = VolumeState("online")
	VolumeStateRestricted = VolumeState("restricted")
)

// Volume is the backend-neutral representation of a NAS volume. Sizes are in bytes.
type Volume struct {
	Name              string      `json:"name"`
	UUID              string      `json:"uuid"`
	Node              string      `json:"node"`
	AggregateName     string      `json:"aggregate_name"`
	JunctionPath      string      `json:"junction_path"`
	SizeTotal         int64       `json:"size_total"`
	SizeUsed          int64       `json:"size_used"`
	ActivePolicyName  string      `json:"active_policy_name"`
	State             VolumeState `json:"state"`
	Compression       bool        `json:"compression"`
	AutosizeEnabled   bool        `json:"autosize_enabled"`
	AutosizeIncrement int64       `json:"autosize_increment"`
	MaxAutosize       int64       `json:"max_autosize"`
}

func (v *Volume) Restricted() bool {
	return v.State == VolumeStateRestricted
}

// PatchableFields returns the current values of the fields a patch may change.
func (v *Volume) PatchableFields() map[string]any {
	return map[string]any{
		validation.FieldSizeTotal:         v.SizeTotal,
		validation.FieldCompression:       v.Compression,
		validation.FieldAutosizeEnabled:   v.AutosizeEnabled,
		validation.FieldAutosizeIncrement: v.AutosizeIncrement,
		validation.FieldMaxAutosize:       v.MaxAutosize,
		validation.FieldActivePolicyName:  v.ActivePolicyName,
	}
}

// ConstructClone returns a deep copy of the volume.
func (v *Volume) ConstructClone() *Volume {
	clone, err := deep.Copy(v)
	if err != nil {
		return &Volume{}
	}
	return clone
}

// VolumeSpec is a validated volume creation request.
type VolumeSpec struct {
	Name              string
	Node              string
	JunctionPath      string
	AggregateName     string
	SizeTotal         int64
	ActivePolicyName  string
	Compression       bool
	AutosizeEnabled   bool
	AutosizeIncrement int64
	MaxAutosize       int64
}

// NewVolumeSpec validates a creation request addressed by id. A plain name requires a node in
// the payload and defaults the junction path to /<node>/<name>. A junction-path address
// ("node:/path" or "/path") requires an explicit name in the payload.
func NewVolumeSpec(id string, payload map[string]any) (*VolumeSpec, error) {
	ref, err := ParseVolumeName(id)
	if err != nil {
		return nil, err
	}

	values, err := validation.VolumeCreate.Validate(payload)
	if err != nil {
		return nil, err
	}

	spec := &VolumeSpec{}
	if s, ok := values[validation.FieldName].(string); ok {
		spec.Name = s
	}
	if s, ok := values[validation.FieldNode].(string); ok {
		spec.Node = s
	}
	if s, ok := values[validation.FieldJunctionPath].(string); ok {
		spec.JunctionPath = s
	}
	if s, ok := values[validation.FieldAggregateName].(string); ok {
		spec.AggregateName = s
	}
	if s, ok := values[validation.FieldActivePolicyName].(string); ok {
		spec.ActivePolicyName = s
	}
	spec.SizeTotal, _ = values[validation.FieldSizeTotal].(int64)
	spec.Compression, _ = values[validation.FieldCompression].(bool)
	spec.AutosizeEnabled, _ = values[validation.FieldAutosizeEnabled].(bool)
	spec.AutosizeIncrement, _ = values[validation.FieldAutosizeIncrement].(int64)
	spec.MaxAutosize, _ = values[validation.FieldMaxAutosize].(int64)

	if ref.IsPath() {
		if spec.Name == "" {
			return nil, validation.RequiredError(validation.FieldName, "volumes addressed by junction path need an explicit name")
		}
		if spec.JunctionPath != "" && spec.JunctionPath != ref.JunctionPath {
			return nil, validation.MismatchError(validation.FieldJunctionPath, spec.JunctionPath, ref.JunctionPath)
		}
		spec.JunctionPath = ref.JunctionPath
		if ref.Node != "" {
			if spec.Node != "" && spec.Node != ref.Node {
				return nil, validation.MismatchError(validation.FieldNode, spec.Node, ref.Node)
			}
			spec.Node = ref.Node
		}
		if spec.Node == "" {
			return nil, validation.RequiredError(validation.FieldNode, "no node given in the address or payload")
		}
		return spec, nil
	}

	if spec.Name != "" && spec.Name != ref.Name {
		return nil, validation.MismatchError(validation.FieldName, spec.Name, ref.Name)
	}
	if err := validation.ValidateVolumeName(validation.FieldName, ref.Name); err != nil {
		return nil, err
	}
	spec.Name = ref.Name
	if spec.Node == "" {
		return nil, validation.RequiredError(validation.FieldNode, "volumes addressed by name need a node")
	}
	if spec.JunctionPath == "" {
		spec.JunctionPath = NodeJunctionPath(spec.Node, spec.Name)
	}
	return spec, nil
}
