// Copyright 2025 NetApp, Inc. All Rights Reserved.

package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-openapi/swag"
)

var falseValues = map[string]struct{}{
	"false":    {},
	"f":        {},
	"0":        {},
	"no":       {},
	"n":        {},
	"off":      {},
	"disabled": {},
}

// ToString accepts only string values and trims surrounding whitespace.
func ToString(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("expected a string, got %T", value)
	}
	return strings.TrimSpace(s), nil
}

// ToInt64 coerces integers, integral floats, JSON numbers and numeric strings.
func ToInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("value %d is out of range", v)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, fmt.Errorf("expected an integer, got %v", v)
		}
		return int64(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %q", v.String())
		}
		return ToInt64(f)
	case string:
		i, err := swag.ConvertInt64(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %q", v)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("expected an integer, got %T", value)
	}
}

// SizeGranularityBytes is the allocation unit of volume sizes. The array reports sizes in
// whole KiB, so every size is rounded up to it.
const SizeGranularityBytes = 1024

// ToBytes coerces a size to bytes, rounded up to SizeGranularityBytes. Numbers are taken as
// bytes; strings may carry a unit ("10GiB", "500 MB", "1g").
func ToBytes(value any) (int64, error) {
	var size int64
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if i, err := swag.ConvertInt64(s); err == nil {
			size = i
		} else {
			parsed, err := humanize.ParseBytes(s)
			if err != nil {
				return 0, fmt.Errorf("invalid size %q", s)
			}
			if parsed > math.MaxInt64 {
				return 0, fmt.Errorf("size %q is out of range", s)
			}
			size = int64(parsed)
		}
	} else {
		i, err := ToInt64(value)
		if err != nil {
			return 0, err
		}
		size = i
	}
	if size < 0 {
		return 0, fmt.Errorf("size must be greater than or equal to 0")
	}
	if size > math.MaxInt64-(SizeGranularityBytes-1) {
		return 0, fmt.Errorf("size %d is out of range", size)
	}
	return (size + SizeGranularityBytes - 1) / SizeGranularityBytes * SizeGranularityBytes, nil
}

// ToBool coerces booleans, 0/1 and the usual textual forms.
func ToBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		if _, ok := falseValues[s]; ok {
			return false, nil
		}
		if b, _ := swag.ConvertBool(s); b {
			return true, nil
		}
		return false, fmt.Errorf("expected a boolean, got %q", v)
	default:
		i, err := ToInt64(value)
		if err != nil || (i != 0 && i != 1) {
			return false, fmt.Errorf("expected a boolean, got %v", value)
		}
		return i == 1, nil
	}
}

// ToStringList accepts a list of strings in either []string or decoded JSON form.
func ToStringList(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		out := make([]string, 0, len(v))
		for _, s := range v {
			out = append(out, strings.TrimSpace(s))
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d: expected a string, got %T", i, item)
			}
			out = append(out, strings.TrimSpace(s))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", value)
	}
}
