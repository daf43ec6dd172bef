// Copyright 2025 NetApp, Inc. All Rights Reserved.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/netapp/storage-api/config"
	"github.com/netapp/storage-api/frontend/rest"
	. "github.com/netapp/storage-api/logging"
	"github.com/netapp/storage-api/storage/factory"
)

var (
	configPath        string
	backendConfigPath string
)

func init() {
	RootCmd.AddCommand(serveCmd)
	addServeFlags(serveCmd.Flags())
}

func addServeFlags(flags *pflag.FlagSet) {
	flags.StringVar(&configPath, "config", config.DefaultConfigPath, "Path to the service configuration file.")
	flags.StringVar(&backendConfigPath, "backend-config", "",
		"Path to a JSON or YAML backend definition merged over the configured backend.")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storage API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		serviceConfig, err := loadServeConfig(afero.NewOsFs())
		if err != nil {
			return err
		}

		if err = InitLogging(serviceConfig.Logging.Debug, serviceConfig.Logging.Level,
			serviceConfig.Logging.Format); err != nil {
			return fmt.Errorf("could not initialize logging; %w", err)
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServer(ctx, serviceConfig)
	},
}

// loadServeConfig reads the service configuration and merges the optional backend definition.
func loadServeConfig(fs afero.Fs) (*config.ServiceConfig, error) {
	serviceConfig, err := config.LoadServiceConfig(fs, configPath)
	if err != nil {
		return nil, err
	}

	if backendConfigPath != "" {
		document, err := afero.ReadFile(fs, backendConfigPath)
		if err != nil {
			return nil, fmt.Errorf("could not read backend config %s; %w", backendConfigPath, err)
		}
		backendConfig, err := factory.ParseBackendConfig(string(document))
		if err != nil {
			return nil, err
		}
		for key, value := range backendConfig {
			serviceConfig.Backend[key] = value
		}
	}

	if Debug {
		serviceConfig.Logging.Debug = true
	}
	return serviceConfig, nil
}

// runServer serves the REST API for the configured backend until ctx is done.
func runServer(ctx context.Context, serviceConfig *config.ServiceConfig) error {
	Logc(ctx).WithFields(LogFields{
		"version": config.OrchestratorVersion,
		"config":  serviceConfig.String(),
	}).Info("Starting storage API.")

	backend, err := factory.NewStorageBackendForConfig(ctx, serviceConfig.Backend)
	if err != nil {
		return err
	}
	defer backend.Terminate(ctx)

	handlers := rest.NewHandlers(backend, rest.NewHeaderAuthorizer(serviceConfig.Auth.GroupHeader),
		serviceConfig.Auth.AdminGroup)
	server := rest.NewHTTPServer(handlers, serviceConfig.REST)
	if err = server.Activate(); err != nil {
		return err
	}

	Logc(ctx).WithFields(LogFields{
		"address": server.Addr(),
		"backend": backend.Name(),
	}).Info("Storage API is running.")

	<-ctx.Done()

	Logc(ctx).Info("Shutting down.")
	return server.Deactivate()
}
