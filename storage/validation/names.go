// Copyright 2025 NetApp, Inc. All Rights Reserved.

package validation

import (
	"fmt"
	"net/netip"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/netapp/storage-api/utils/errors"
)

const (
	MaxVolumeNameLength   = 203
	MaxSnapshotNameLength = 255
	MaxPolicyNameLength   = 256
	MaxHostLength         = 255
)

var (
	volumeNameRegex   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	snapshotNameRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.\-]*$`)
	policyNameRegex   = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.\-]*$`)
	hostRegex         = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.\-:]*$`)
	ruleHostRegex     = regexp.MustCompile(`^@?[A-Za-z0-9_*][A-Za-z0-9_.\-*]*$`)

	fold = cases.Fold()
)

// ValidateVolumeName checks an array volume name.
func ValidateVolumeName(field, name string) error {
	return matchName(field, name, MaxVolumeNameLength, volumeNameRegex,
		"must start with a letter or underscore and contain only letters, digits and underscores")
}

// ValidateSnapshotName checks a snapshot name.
func ValidateSnapshotName(field, name string) error {
	return matchName(field, name, MaxSnapshotNameLength, snapshotNameRegex,
		"may contain only letters, digits, '_', '-' and '.'")
}

// ValidatePolicyName checks a policy name.
func ValidatePolicyName(field, name string) error {
	return matchName(field, name, MaxPolicyNameLength, policyNameRegex,
		"may contain only letters, digits, '_', '-' and '.'")
}

// ValidateHost checks a lock holder's host identifier.
func ValidateHost(field, host string) error {
	return matchName(field, host, MaxHostLength, hostRegex, "is not a valid host name or address")
}

func matchName(field, value string, maxLength int, regex *regexp.Regexp, reason string) error {
	switch {
	case value == "":
		return errors.ValidationError(field, "is required")
	case len(value) > maxLength:
		return errors.ValidationError(field, "must be at most %d characters", maxLength)
	case !regex.MatchString(value):
		return errors.ValidationError(field, "%s", reason)
	}
	return nil
}

// FoldName returns the case-insensitive comparison key of a name.
func FoldName(name string) string {
	return fold.String(strings.TrimSpace(name))
}

// NormalizeRule canonicalizes an export rule's client match. Addresses and prefixes are
// printed in canonical form; host names and netgroups are case folded.
func NormalizeRule(rule string) (string, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return "", fmt.Errorf("rule must not be empty")
	}
	if strings.Contains(rule, "/") {
		prefix, err := netip.ParsePrefix(rule)
		if err != nil {
			return "", fmt.Errorf("invalid network %q", rule)
		}
		return prefix.Masked().String(), nil
	}
	if addr, err := netip.ParseAddr(rule); err == nil {
		return addr.String(), nil
	}
	if !ruleHostRegex.MatchString(rule) {
		return "", fmt.Errorf("invalid client match %q", rule)
	}
	return fold.String(rule), nil
}

// ValidateRule returns the canonical form of rule or a validation error for field.
func ValidateRule(field, rule string) (string, error) {
	normalized, err := NormalizeRule(rule)
	if err != nil {
		return "", errors.ValidationError(field, "%s", err.Error())
	}
	return normalized, nil
}
