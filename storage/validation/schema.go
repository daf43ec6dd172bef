// Copyright 2025 NetApp, Inc. All Rights Reserved.

package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/netapp/storage-api/utils/errors"
)

// Kind is the type a field value is coerced to.
type Kind int

const (
	String Kind = iota
	Integer
	Bytes
	Boolean
	StringList
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Bytes:
		return "size"
	case Boolean:
		return "boolean"
	case StringList:
		return "list"
	default:
		return "unknown"
	}
}

// Field declares one key of a payload.
type Field struct {
	Name      string
	Kind      Kind
	Required  bool
	ReadOnly  bool
	MinLength int
	Min       *int64
	Max       *int64
	// Allowed restricts string values; matching is case-insensitive and yields the listed spelling.
	Allowed []string
	Pattern *regexp.Regexp
	// Check runs after coercion and may replace the value.
	Check func(field string, value any) (any, error)
}

// Rule is a cross-field constraint, run only when every field is valid.
type Rule func(values map[string]any) error

// Schema is a declarative description of an accepted payload.
type Schema struct {
	Name         string
	Fields       []Field
	AllowUnknown bool
	Rules        []Rule
}

// Int64 returns a pointer to v, for Field bounds.
func Int64(v int64) *int64 {
	return &v
}

// Field returns the named field declaration.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks payload against the schema and returns a normalized copy. Every field is
// checked and all failures are returned together; nothing is returned on failure.
func (s *Schema) Validate(payload map[string]any) (map[string]any, error) {
	var errs []error
	normalized := make(map[string]any, len(payload))

	for _, key := range sortedKeys(payload) {
		if _, ok := s.Field(key); !ok {
			if s.AllowUnknown {
				normalized[key] = payload[key]
				continue
			}
			errs = append(errs, errors.ValidationError(key, "unknown field"))
		}
	}

	for _, field := range s.Fields {
		raw, present := payload[field.Name]
		if !present || raw == nil {
			if field.Required {
				errs = append(errs, errors.ValidationError(field.Name, "is required"))
			}
			continue
		}
		if field.ReadOnly {
			errs = append(errs, errors.ValidationError(field.Name, "is read-only"))
			continue
		}
		value, err := field.coerce(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		normalized[field.Name] = value
	}

	if len(errs) > 0 {
		return nil, errors.Combine(errs...)
	}

	for _, rule := range s.Rules {
		if err := rule(normalized); err != nil {
			return nil, err
		}
	}

	return normalized, nil
}

func (f *Field) coerce(raw any) (any, error) {
	var value any

	switch f.Kind {
	case String:
		s, err := ToString(raw)
		if err != nil {
			return nil, errors.ValidationError(f.Name, "%s", err.Error())
		}
		if f.Required && s == "" {
			return nil, errors.ValidationError(f.Name, "is required")
		}
		if len(s) < f.MinLength {
			return nil, errors.ValidationError(f.Name, "must be at least %d characters", f.MinLength)
		}
		if len(f.Allowed) > 0 {
			matched := ""
			for _, allowed := range f.Allowed {
				if strings.EqualFold(allowed, s) {
					matched = allowed
					break
				}
			}
			if matched == "" {
				return nil, errors.ValidationError(f.Name, "must be one of [%s]", strings.Join(f.Allowed, ", "))
			}
			s = matched
		}
		if f.Pattern != nil && s != "" && !f.Pattern.MatchString(s) {
			return nil, errors.ValidationError(f.Name, "must match %s", f.Pattern.String())
		}
		value = s

	case Integer, Bytes:
		var (
			i   int64
			err error
		)
		if f.Kind == Bytes {
			i, err = ToBytes(raw)
		} else {
			i, err = ToInt64(raw)
		}
		if err != nil {
			return nil, errors.ValidationError(f.Name, "%s", err.Error())
		}
		if f.Min != nil && i < *f.Min {
			return nil, errors.ValidationError(f.Name, "must be greater than or equal to %d", *f.Min)
		}
		if f.Max != nil && i > *f.Max {
			return nil, errors.ValidationError(f.Name, "must be less than or equal to %d", *f.Max)
		}
		value = i

	case Boolean:
		b, err := ToBool(raw)
		if err != nil {
			return nil, errors.ValidationError(f.Name, "%s", err.Error())
		}
		value = b

	case StringList:
		list, err := ToStringList(raw)
		if err != nil {
			return nil, errors.ValidationError(f.Name, "%s", err.Error())
		}
		value = list

	default:
		return nil, fmt.Errorf("field %s has unsupported kind %v", f.Name, f.Kind)
	}

	if f.Check != nil {
		return f.Check(f.Name, value)
	}
	return value, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RequiredError reports a missing field with some context on why it is needed.
func RequiredError(field, detail string) error {
	return errors.ValidationError(field, "is required; %s", detail)
}

// MismatchError reports a payload field that contradicts the resource address.
func MismatchError(field, got, want string) error {
	return errors.ValidationError(field, "%q does not match the address %q", got, want)
}
