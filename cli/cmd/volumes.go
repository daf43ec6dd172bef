// Copyright 2025 NetApp, Inc. All Rights Reserved.

package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/netapp/storage-api/storage"
)

type MultipleVolumeResponse struct {
	Items []*storage.Volume `json:"items"`
}

type MultiplePolicyResponse struct {
	Items []*storage.Policy `json:"items"`
}

func init() {
	RootCmd.AddCommand(volumesCmd)
	RootCmd.AddCommand(policiesCmd)
}

var volumesCmd = &cobra.Command{
	Use:     "volumes [<name>|<node>:<junction path>|<junction path>...]",
	Short:   "Get one or more volumes",
	Aliases: []string{"v", "volume"},
	RunE: func(cmd *cobra.Command, args []string) error {
		volumes, err := volumeList(commandContext(cmd), args)
		if err != nil {
			return err
		}
		WriteVolumes(cmd.OutOrStdout(), volumes)
		return nil
	},
}

var policiesCmd = &cobra.Command{
	Use:     "policies [<name>...]",
	Short:   "Get one or more export policies",
	Aliases: []string{"policy"},
	RunE: func(cmd *cobra.Command, args []string) error {
		policies, err := policyList(commandContext(cmd), args)
		if err != nil {
			return err
		}
		WritePolicies(cmd.OutOrStdout(), policies)
		return nil
	},
}

func volumeList(ctx context.Context, ids []string) ([]*storage.Volume, error) {
	client := newClient()

	// If no volumes were specified, we'll get all of them
	if len(ids) == 0 {
		volumes, err := client.ListVolumes(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not get volumes; %w", err)
		}
		sort.Slice(volumes, func(i, j int) bool { return volumes[i].Name < volumes[j].Name })
		return volumes, nil
	}

	volumes := make([]*storage.Volume, 0, len(ids))
	for _, id := range ids {
		volume, err := client.GetVolume(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("could not get volume %s; %w", id, err)
		}
		volumes = append(volumes, volume)
	}
	return volumes, nil
}

func policyList(ctx context.Context, names []string) ([]*storage.Policy, error) {
	policies, err := newClient().ListPolicies(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get policies; %w", err)
	}
	sort.Slice(policies, func(i, j int) bool { return policies[i].Name < policies[j].Name })

	if len(names) == 0 {
		return policies, nil
	}

	selected := make([]*storage.Policy, 0, len(names))
	for _, name := range names {
		found := false
		for _, policy := range policies {
			if strings.EqualFold(policy.Name, name) {
				selected = append(selected, policy)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("policy %s not found", name)
		}
	}
	return selected, nil
}

func WriteVolumes(out io.Writer, volumes []*storage.Volume) {
	switch OutputFormat {
	case FormatJSON:
		WriteJSON(out, MultipleVolumeResponse{volumes})
	case FormatYAML:
		WriteYAML(out, MultipleVolumeResponse{volumes})
	case FormatName:
		writeVolumeNames(out, volumes)
	case FormatWide:
		writeWideVolumeTable(out, volumes)
	default:
		writeVolumeTable(out, volumes)
	}
}

func writeVolumeTable(out io.Writer, volumes []*storage.Volume) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Name", "Node", "Junction Path", "Size", "Used", "Policy", "State"})

	for _, volume := range volumes {
		table.Append([]string{
			volume.Name,
			volume.Node,
			volume.JunctionPath,
			humanize.IBytes(uint64(volume.SizeTotal)),
			humanize.IBytes(uint64(volume.SizeUsed)),
			volume.ActivePolicyName,
			string(volume.State),
		})
	}

	table.Render()
}

func writeWideVolumeTable(out io.Writer, volumes []*storage.Volume) {
	table := tablewriter.NewWriter(out)
	header := []string{
		"Name",
		"UUID",
		"Node",
		"Aggregate",
		"Junction Path",
		"Size",
		"Used",
		"Policy",
		"State",
		"Compression",
		"Autosize",
		"Max Autosize",
	}
	table.SetHeader(header)

	for _, volume := range volumes {
		autosize := "disabled"
		if volume.AutosizeEnabled {
			autosize = "+" + humanize.IBytes(uint64(volume.AutosizeIncrement))
		}
		table.Append([]string{
			volume.Name,
			volume.UUID,
			volume.Node,
			volume.AggregateName,
			volume.JunctionPath,
			humanize.IBytes(uint64(volume.SizeTotal)),
			humanize.IBytes(uint64(volume.SizeUsed)),
			volume.ActivePolicyName,
			string(volume.State),
			strconv.FormatBool(volume.Compression),
			autosize,
			humanize.IBytes(uint64(volume.MaxAutosize)),
		})
	}

	table.Render()
}

func writeVolumeNames(out io.Writer, volumes []*storage.Volume) {
	for _, volume := range volumes {
		_, _ = fmt.Fprintln(out, volume.Name)
	}
}

func WritePolicies(out io.Writer, policies []*storage.Policy) {
	switch OutputFormat {
	case FormatJSON:
		WriteJSON(out, MultiplePolicyResponse{policies})
	case FormatYAML:
		WriteYAML(out, MultiplePolicyResponse{policies})
	case FormatName:
		for _, policy := range policies {
			_, _ = fmt.Fprintln(out, policy.Name)
		}
	default:
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Name", "Rules"})
		for _, policy := range policies {
			table.Append([]string{policy.Name, strings.Join(policy.Rules, ", ")})
		}
		table.Render()
	}
}
