package clirundashboard

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ethernal-Tech/bridge-transparency/bridgetransparency"
	"github.com/Ethernal-Tech/bridge-transparency/common"
	loggerInfra "github.com/Ethernal-Tech/cardano-infrastructure/logger"
	"github.com/spf13/cobra"
)

var paramsData = &runDashboardParams{}

func GetRunDashboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run-dashboard",
		Short:   "periodically refreshes bridge backing data and serves it over the api",
		PreRunE: runPreRun,
		Run:     runCommand,
	}

	paramsData.setFlags(cmd)

	return cmd
}

func runPreRun(_ *cobra.Command, _ []string) error {
	return paramsData.validateFlags()
}

func runCommand(cmd *cobra.Command, _ []string) {
	outputter := common.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	appConfig, assets, err := LoadConfigs(paramsData.config, paramsData.bridgeAssets)
	if err != nil {
		outputter.SetError(err)

		return
	}

	logger, err := loggerInfra.NewLogger(appConfig.Logger)
	if err != nil {
		outputter.SetError(err)

		return
	}

	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	bridgeTransparency, err := bridgetransparency.NewBridgeTransparency(
		ctx, appConfig, assets, paramsData.runAPI, logger)
	if err != nil {
		logger.Error("bridge transparency creation failed", "err", err)
		outputter.SetError(err)

		return
	}

	if err := bridgeTransparency.Start(); err != nil {
		logger.Error("bridge transparency start failed", "err", err)
		outputter.SetError(err)

		return
	}

	signalChannel := make(chan os.Signal, 1)
	// Notify the signalChannel when the interrupt signal is received (Ctrl+C)
	signal.Notify(signalChannel, os.Interrupt, syscall.SIGTERM)

	<-signalChannel

	if err := bridgeTransparency.Dispose(); err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(&cmdResult{
		tokens:     len(assets.BaseTokens),
		generation: bridgeTransparency.Dashboard().Snapshot().Generation,
	})
}
