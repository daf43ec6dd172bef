// Copyright 2025 NetApp, Inc. All Rights Reserved.

package storage

// ExportAccessReadWrite is the access granted by every rule managed through this API.
const ExportAccessReadWrite = "rw"

// Policy is a named, ordered and duplicate-free list of client-match rules.
type Policy struct {
	Name  string   `json:"name"`
	Rules []string `json:"rules"`
}

// HasRule reports whether the policy contains the already normalized rule.
func (p *Policy) HasRule(rule string) bool {
	return p.RuleIndex(rule) > 0
}

// RuleIndex returns the 1-based position of rule, or 0.
func (p *Policy) RuleIndex(rule string) int {
	for i, r := range p.Rules {
		if r == rule {
			return i + 1
		}
	}
	return 0
}

// ExportRule is one rule of a volume's export, identified by its position in the policy.
type ExportRule struct {
	Index       int    `json:"index"`
	ClientMatch string `json:"client_match"`
	Access      string `json:"access"`
}

// Export is the read-only view of how a volume is exported.
type Export struct {
	Volume string       `json:"volume"`
	Policy string       `json:"policy"`
	Rules  []ExportRule `json:"rules"`
}

// NewExport builds the export view of volume from its assigned policy.
func NewExport(volume string, policy *Policy) *Export {
	export := &Export{Volume: volume, Policy: policy.Name, Rules: make([]ExportRule, 0, len(policy.Rules))}
	for i, rule := range policy.Rules {
		export.Rules = append(export.Rules, ExportRule{
			Index:       i + 1,
			ClientMatch: rule,
			Access:      ExportAccessReadWrite,
		})
	}
	return export
}
