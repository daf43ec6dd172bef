// Copyright 2025 NetApp, Inc. All Rights Reserved.

package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/netapp/storage-api/config"
)

var clientOnly bool

type Version struct {
	Version    string `json:"version"`
	APIVersion string `json:"apiVersion,omitempty"`
	Backend    string `json:"backend,omitempty"`
	GoVersion  string `json:"goVersion,omitempty"`
}

type Versions struct {
	Server *Version `json:"server,omitempty"`
	Client *Version `json:"client"`
}

func init() {
	RootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&clientOnly, "client", false, "Client version only (no server required).")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of the storage API",
	RunE: func(cmd *cobra.Command, args []string) error {
		versions := Versions{Client: getClientVersion()}

		if !clientOnly {
			serverVersion, err := newClient().GetVersion(commandContext(cmd))
			if err != nil {
				return fmt.Errorf("could not get server version; %w", err)
			}
			versions.Server = &Version{
				Version:    serverVersion.Version,
				APIVersion: serverVersion.APIVersion,
				Backend:    serverVersion.Backend,
			}
		}

		writeVersions(cmd.OutOrStdout(), versions)
		return nil
	},
}

func getClientVersion() *Version {
	return &Version{
		Version:    config.OrchestratorVersion,
		APIVersion: config.OrchestratorAPIVersion,
		GoVersion:  runtime.Version(),
	}
}

func writeVersions(out io.Writer, versions Versions) {
	switch OutputFormat {
	case FormatJSON:
		WriteJSON(out, versions)
	case FormatYAML:
		WriteYAML(out, versions)
	default:
		table := tablewriter.NewWriter(out)
		if versions.Server == nil {
			table.SetHeader([]string{"Client Version"})
			table.Append([]string{versions.Client.Version})
		} else {
			table.SetHeader([]string{"Server Version", "Backend", "Client Version"})
			table.Append([]string{versions.Server.Version, versions.Server.Backend, versions.Client.Version})
		}
		table.Render()
	}
}
