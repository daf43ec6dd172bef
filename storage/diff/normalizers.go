// Copyright 2025 NetApp, Inc. All Rights Reserved.

package diff

import (
	"golang.org/x/text/cases"

	"github.com/netapp/storage-api/storage/validation"
)

var folder = cases.Fold()

// Bytes normalizes sizes to int64 bytes.
func Bytes(value any) (any, error) {
	return validation.ToBytes(value)
}

// Bool normalizes booleans and their textual forms.
func Bool(value any) (any, error) {
	return validation.ToBool(value)
}

// TrimmedString normalizes strings by trimming surrounding whitespace.
func TrimmedString(value any) (any, error) {
	return validation.ToString(value)
}

// FoldCase compares strings case-insensitively.
func FoldCase(value any) any {
	if s, ok := value.(string); ok {
		return folder.String(s)
	}
	return value
}

// VolumeEngine covers the patchable fields of a volume.
var VolumeEngine = NewEngine(
	FieldSpec{Name: validation.FieldSizeTotal, Normalize: Bytes},
	FieldSpec{Name: validation.FieldCompression, Normalize: Bool},
	FieldSpec{Name: validation.FieldAutosizeEnabled, Normalize: Bool},
	FieldSpec{Name: validation.FieldAutosizeIncrement, Normalize: Bytes},
	FieldSpec{Name: validation.FieldMaxAutosize, Normalize: Bytes},
	FieldSpec{Name: validation.FieldActivePolicyName, Normalize: TrimmedString, Key: FoldCase},
)
