// Copyright 2025 NetApp, Inc. All Rights Reserved.

package main

import (
	"io"
	"os"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/netapp/storage-api/cli/cmd"
)

func TestMain(m *testing.M) {
	// Disable any standard log output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "volumes", "policies", "version"} {
		command, _, err := cmd.RootCmd.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, command.Name())
		}
	}
}
