// Copyright 2025 NetApp, Inc. All Rights Reserved.

// Package diff computes the minimal set of field changes between the current representation
// of a resource and a partial, declarative update of it.
package diff

import (
	"encoding/json"
	"reflect"
	"sort"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/netapp/storage-api/utils/errors"
)

// Normalizer converts a raw value into the canonical value that is applied.
type Normalizer func(value any) (any, error)

// KeyFunc maps a canonical value to the key two values are compared by.
type KeyFunc func(value any) any

// FieldSpec describes how one field is normalized and compared.
type FieldSpec struct {
	Name      string
	Normalize Normalizer
	Key       KeyFunc
	// Ignorable fields are dropped from the delta without error.
	Ignorable bool
}

// Change is a single field whose desired value differs from its current value.
type Change struct {
	Field string
	From  any
	To    any
}

// Delta is the ordered set of changes a patch amounts to.
type Delta struct {
	changes []Change
}

// Engine computes deltas for a fixed set of fields.
type Engine struct {
	specs        map[string]FieldSpec
	order        []string
	allowUnknown bool
}

// NewEngine returns an engine for the given fields. Deltas list changes in the order the
// fields are given here.
func NewEngine(specs ...FieldSpec) *Engine {
	e := &Engine{specs: make(map[string]FieldSpec, len(specs))}
	for _, spec := range specs {
		e.specs[spec.Name] = spec
		e.order = append(e.order, spec.Name)
	}
	return e
}

// AllowUnknown makes the engine skip unknown fields instead of rejecting them.
func (e *Engine) AllowUnknown() *Engine {
	e.allowUnknown = true
	return e
}

// Fields returns the names of the fields the engine knows about.
func (e *Engine) Fields() []string {
	return append([]string(nil), e.order...)
}

// Compute returns the fields of desired whose normalized value differs from the normalized
// value in current. Unknown or unnormalizable fields fail the whole computation.
func (e *Engine) Compute(current, desired map[string]any) (*Delta, error) {
	var errs []error

	unknown := make([]string, 0)
	for field := range desired {
		if _, ok := e.specs[field]; !ok && !e.allowUnknown {
			unknown = append(unknown, field)
		}
	}
	sort.Strings(unknown)
	for _, field := range unknown {
		errs = append(errs, errors.ValidationError(field, "unknown field"))
	}

	delta := &Delta{}
	for _, field := range e.order {
		raw, ok := desired[field]
		if !ok {
			continue
		}
		spec := e.specs[field]
		if spec.Ignorable {
			continue
		}

		to, err := spec.normalize(raw)
		if err != nil {
			errs = append(errs, errors.ValidationError(field, "%s", err.Error()))
			continue
		}

		var from any
		if currentRaw, exists := current[field]; exists && currentRaw != nil {
			if from, err = spec.normalize(currentRaw); err != nil {
				// The stored value cannot be compared, so it is always replaced.
				from = currentRaw
				delta.changes = append(delta.changes, Change{Field: field, From: from, To: to})
				continue
			}
			if equal(spec.key(from), spec.key(to)) {
				continue
			}
		}
		delta.changes = append(delta.changes, Change{Field: field, From: from, To: to})
	}

	if len(errs) > 0 {
		return nil, errors.Combine(errs...)
	}
	return delta, nil
}

func (s FieldSpec) normalize(value any) (any, error) {
	if s.Normalize == nil {
		return value, nil
	}
	return s.Normalize(value)
}

func (s FieldSpec) key(value any) any {
	if s.Key == nil {
		return value
	}
	return s.Key(value)
}

// equal compares scalars directly and composite values by structural hash.
func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable() {
		return a == b
	}
	hashA, errA := hashstructure.Hash(a, hashstructure.FormatV2, nil)
	hashB, errB := hashstructure.Hash(b, hashstructure.FormatV2, nil)
	if errA != nil || errB != nil {
		return reflect.DeepEqual(a, b)
	}
	return hashA == hashB
}

// Empty reports whether the patch changes nothing.
func (d *Delta) Empty() bool {
	return d == nil || len(d.changes) == 0
}

// Changes returns the changes in field order.
func (d *Delta) Changes() []Change {
	if d == nil {
		return nil
	}
	return append([]Change(nil), d.changes...)
}

// Fields returns the names of the changed fields.
func (d *Delta) Fields() []string {
	fields := make([]string, 0, len(d.Changes()))
	for _, c := range d.Changes() {
		fields = append(fields, c.Field)
	}
	return fields
}

// Has reports whether field changes.
func (d *Delta) Has(field string) bool {
	_, ok := d.Value(field)
	return ok
}

// Value returns the desired value of a changed field.
func (d *Delta) Value(field string) (any, bool) {
	for _, c := range d.Changes() {
		if c.Field == field {
			return c.To, true
		}
	}
	return nil, false
}

// Values returns the desired values keyed by field.
func (d *Delta) Values() map[string]any {
	values := make(map[string]any, len(d.Changes()))
	for _, c := range d.Changes() {
		values[c.Field] = c.To
	}
	return values
}

// MergePatch renders the delta as an RFC 7386 JSON merge patch document.
func (d *Delta) MergePatch() ([]byte, error) {
	return json.Marshal(d.Values())
}
