// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/config"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/transformer"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/util/log"
	"github.com/rezhaque35/wifi-location-data-pipeline-sub007/pkg/version"
)

var (
	// transformerCmd is the root command
	transformerCmd = &cobra.Command{
		Use:   "wifi-transformer [command]",
		Short: "WiFi scan measurement transformer at your service.",
		Long: `
The transformer consumes object-created notifications from a queue, streams the
referenced objects line by line, decodes and reshapes each WiFi scan into flat
measurement records, and publishes them to a delivery stream in batches.`,
	}

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the transformer",
		Long:  `Runs the transformer in the foreground`,
		RunE:  start,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Long:  ``,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(fmt.Sprintf("WiFi Transformer %s - Commit: %s", version.TransformerVersion, version.Commit))
		},
	}

	confPath string
)

const (
	// loggerName is the name of the transformer logger
	loggerName config.LoggerName = "WST"
)

func init() {
	// attach the commands to the root
	transformerCmd.AddCommand(startCmd)
	transformerCmd.AddCommand(versionCmd)

	// local flags
	startCmd.Flags().StringVarP(&confPath, "cfgpath", "c", "", "path to the wifi-transformer.yaml config file")
}

func start(cmd *cobra.Command, args []string) error {
	// Main context passed to components
	mainCtx, mainCtxCancel := context.WithCancel(context.Background())
	defer mainCtxCancel() // Calling cancel twice is safe

	// a path to a config file was passed
	if len(confPath) != 0 {
		config.Transformer.SetConfigFile(confPath)
		if err := config.Load(config.Transformer); err != nil {
			log.Error(err)
		}
	} else {
		log.Infof("config will be read from env variables")
	}

	// Setup logger
	err := config.SetupLogger(
		loggerName,
		config.Transformer.GetString("log_level"),
		config.Transformer.GetString("log_file"),
		config.Transformer.GetBool("log_to_console"),
		config.Transformer.GetBool("log_format_json"),
	)
	if err != nil {
		log.Criticalf("unable to setup logger: %s", err)
		return err
	}

	t, err := transformer.New(mainCtx, config.Transformer)
	if err != nil {
		log.Criticalf("unable to start the transformer: %s", err)
		log.Flush()
		return err
	}
	t.Start()
	log.Infof("wifi-transformer %s started", version.TransformerVersion)

	// Setup a channel to catch OS signals
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	// Block here until we receive the interrupt signal
	sig := <-signalCh
	log.Infof("received signal '%s', shutting down", sig)

	mainCtxCancel()
	t.Stop()
	log.Info("see ya!")
	log.Flush()
	return nil
}

func main() {
	if err := transformerCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(-1)
	}
}
