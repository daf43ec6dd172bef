// Copyright 2025 NetApp, Inc. All Rights Reserved.

package storage

import (
	"fmt"
	"strings"

	"github.com/netapp/storage-api/utils/errors"
)

// VolumeRef is a parsed volume address. Exactly one of Name or JunctionPath is set.
type VolumeRef struct {
	Name         string
	Node         string
	JunctionPath string
}

// IsPath reports whether the volume is addressed by junction path.
func (r VolumeRef) IsPath() bool {
	return r.JunctionPath != ""
}

func (r VolumeRef) String() string {
	switch {
	case r.Node != "" && r.IsPath():
		return r.Node + ":" + r.JunctionPath
	case r.IsPath():
		return r.JunctionPath
	default:
		return r.Name
	}
}

// ParseVolumeName splits a volume identifier. "vol1" addresses a volume by name,
// "node1:/path/to/vol" by node and junction path and "/path/to/vol" by junction path alone.
func ParseVolumeName(id string) (VolumeRef, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return VolumeRef{}, errors.ValidationError("name", "volume identifier must not be empty")
	}

	if strings.HasPrefix(id, "/") {
		return VolumeRef{JunctionPath: cleanJunctionPath(id)}, nil
	}

	if node, path, found := strings.Cut(id, ":"); found {
		if node == "" {
			return VolumeRef{}, errors.ValidationError("name", "missing node in %q", id)
		}
		if !strings.HasPrefix(path, "/") {
			return VolumeRef{}, errors.ValidationError("junction_path", "junction path in %q must be absolute", id)
		}
		return VolumeRef{Node: node, JunctionPath: cleanJunctionPath(path)}, nil
	}

	if strings.Contains(id, "/") {
		return VolumeRef{}, errors.ValidationError("name", "volume name %q must not contain '/'", id)
	}
	return VolumeRef{Name: id}, nil
}

// NodeJunctionPath returns the default junction path of a volume created on node.
func NodeJunctionPath(node, name string) string {
	return fmt.Sprintf("/%s/%s", node, name)
}

func cleanJunctionPath(path string) string {
	if len(path) > 1 {
		return strings.TrimRight(path, "/")
	}
	return path
}
