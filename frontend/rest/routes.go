// Copyright 2025 NetApp, Inc. All Rights Reserved.

package rest

import (
	"net/http"

	"github.com/netapp/storage-api/config"
)

type Route struct {
	Name    string
	Method  string
	Pattern string
	// Admin routes mutate state and require membership in the admin group.
	Admin       bool
	HandlerFunc http.HandlerFunc
}

type Routes []Route

// routes returns the route table bound to h. Path variables carry URL-escaped identifiers, so a
// junction path such as /node1/vol1 is addressed as %2Fnode1%2Fvol1.
func (h *Handlers) routes() Routes {
	return Routes{
		{"GetVersion", "GET", config.VersionURL, false, h.GetVersion},

		{"ListVolumes", "GET", config.BaseURL + "/volumes", false, h.ListVolumes},
		{"GetVolume", "GET", config.BaseURL + "/volumes/{volume}", false, h.GetVolume},
		{"CreateVolume", "POST", config.BaseURL + "/volumes/{volume}", true, h.CreateVolume},
		{"PatchVolume", "PATCH", config.BaseURL + "/volumes/{volume}", true, h.PatchVolume},
		{"RestrictVolume", "POST", config.BaseURL + "/volumes/{volume}/restrict", true, h.RestrictVolume},
		{"CloneVolume", "POST", config.BaseURL + "/volumes/{volume}/clone", true, h.CloneVolume},
		{"RollbackVolume", "POST", config.BaseURL + "/volumes/{volume}/rollback", true, h.RollbackVolume},

		{"ListSnapshots", "GET", config.BaseURL + "/volumes/{volume}/snapshots", false, h.ListSnapshots},
		{"GetSnapshot", "GET", config.BaseURL + "/volumes/{volume}/snapshots/{snapshot}", false, h.GetSnapshot},
		{"CreateSnapshot", "POST", config.BaseURL + "/volumes/{volume}/snapshots/{snapshot}", true, h.CreateSnapshot},
		{"DeleteSnapshot", "DELETE", config.BaseURL + "/volumes/{volume}/snapshots/{snapshot}", true, h.DeleteSnapshot},

		{"ListLocks", "GET", config.BaseURL + "/volumes/{volume}/locks", false, h.ListLocks},
		{"CreateLock", "PUT", config.BaseURL + "/volumes/{volume}/locks/{host}", true, h.CreateLock},
		{"RemoveLock", "DELETE", config.BaseURL + "/volumes/{volume}/locks/{host}", true, h.RemoveLock},

		{"SetPolicy", "PUT", config.BaseURL + "/volumes/{volume}/policy", true, h.SetPolicy},
		{"RemovePolicy", "DELETE", config.BaseURL + "/volumes/{volume}/policy", true, h.RemovePolicy},
		{"GetExport", "GET", config.BaseURL + "/volumes/{volume}/export", false, h.GetExport},

		{"ListPolicies", "GET", config.BaseURL + "/policies", false, h.ListPolicies},
		{"GetPolicy", "GET", config.BaseURL + "/policies/{policy}", false, h.GetPolicy},
		{"CreatePolicy", "POST", config.BaseURL + "/policies/{policy}", true, h.CreatePolicy},
		{"EnsurePolicyRulePresent", "PUT", config.BaseURL + "/policies/{policy}/rules/{rule}", true, h.EnsurePolicyRulePresent},
		{"EnsurePolicyRuleAbsent", "DELETE", config.BaseURL + "/policies/{policy}/rules/{rule}", true, h.EnsurePolicyRuleAbsent},
	}
}
