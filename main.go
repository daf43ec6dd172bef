// Copyright 2025 NetApp, Inc. All Rights Reserved.

package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/netapp/storage-api/cli/cmd"
	"github.com/netapp/storage-api/logging"
)

func main() {
	// Commands other than serve log to stderr in text form until configured otherwise
	log.SetOutput(os.Stderr)
	if err := logging.InitLogFormat(logging.TextFormat); err != nil {
		log.Fatal(err)
	}

	os.Exit(cmd.Execute(context.Background()))
}
