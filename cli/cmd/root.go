// Copyright 2025 NetApp, Inc. All Rights Reserved.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"

	"github.com/netapp/storage-api/config"
	"github.com/netapp/storage-api/frontend/rest"
	"github.com/netapp/storage-api/logging"
)

const (
	FormatJSON = "json"
	FormatName = "name"
	FormatWide = "wide"
	FormatYAML = "yaml"

	DefaultServer = config.DefaultRESTAddress + ":" + config.DefaultRESTPort
	ServerEnvVar  = config.ConfigEnvPrefix + "SERVER"

	clientTimeout = 30 * time.Second
)

var (
	Debug        bool
	Server       string
	OutputFormat string
)

var RootCmd = &cobra.Command{
	SilenceUsage: true,
	Use:          config.OrchestratorName,
	Short:        "A uniform management API for NAS volumes",
	Long: `A uniform management API for NAS volumes, snapshots, locks and export policies,
backed by an in-memory reference store or an ONTAP array.`,
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&Debug, "debug", "d", false, "Debug output")
	RootCmd.PersistentFlags().StringVarP(&Server, "server", "s", "",
		fmt.Sprintf("Address/port of the REST interface (default %s, or $%s)", DefaultServer, ServerEnvVar))
	RootCmd.PersistentFlags().StringVarP(&OutputFormat, "output", "o", "",
		"Output format. One of json|yaml|name|wide|ps (default)")
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := RootCmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// serverAddress resolves the REST endpoint from the flag, then the environment.
func serverAddress() string {
	if Server != "" {
		return Server
	}
	if envServer := os.Getenv(ServerEnvVar); envServer != "" {
		return envServer
	}
	return DefaultServer
}

func newClient() *rest.Client {
	return rest.NewClient(serverAddress(), clientTimeout)
}

func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.GenerateRequestContext(ctx, "", logging.ContextSourceCLI)
}

func WriteJSON(out io.Writer, v interface{}) {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ")
	_, _ = fmt.Fprintln(out, string(jsonBytes))
}

func WriteYAML(out io.Writer, v interface{}) {
	jsonBytes, _ := json.Marshal(v)
	yamlBytes, _ := yaml.JSONToYAML(jsonBytes)
	_, _ = fmt.Fprintln(out, string(yamlBytes))
}
