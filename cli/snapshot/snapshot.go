package clisnapshot

import (
	"context"
	"fmt"

	"github.com/Ethernal-Tech/bridge-transparency/api/model/response"
	"github.com/Ethernal-Tech/bridge-transparency/bridgetransparency"
	clirundashboard "github.com/Ethernal-Tech/bridge-transparency/cli/rundashboard"
	"github.com/Ethernal-Tech/bridge-transparency/common"
	"github.com/Ethernal-Tech/bridge-transparency/core"
	loggerInfra "github.com/Ethernal-Tech/cardano-infrastructure/logger"
	"github.com/spf13/cobra"
)

var paramsData = &snapshotParams{}

func GetSnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Short:   "runs one refresh cycle and prints the backing of every token",
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

	result, err := takeSnapshot(cmd.Context())
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(result)
}

func takeSnapshot(ctx context.Context) (*snapshotResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	appConfig, assets, err := clirundashboard.LoadConfigs(paramsData.config, paramsData.bridgeAssets)
	if err != nil {
		return nil, err
	}

	if paramsData.token != "" {
		token, exists := assets.GetToken(paramsData.token)
		if !exists {
			return nil, fmt.Errorf("unknown token: %s", paramsData.token)
		}

		assets.BaseTokens = []core.BaseTokenConfig{token}
	}

	logger, err := loggerInfra.NewLogger(appConfig.Logger)
	if err != nil {
		return nil, err
	}

	bridgeTransparency, err := bridgetransparency.NewBridgeTransparency(ctx, appConfig, assets, false, logger)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := bridgeTransparency.Dispose(); err != nil {
			logger.Warn("failed to dispose bridge transparency", "err", err)
		}
	}()

	ctx, cancelCtx := context.WithTimeout(ctx, paramsData.timeout)
	defer cancelCtx()

	bridgeTransparency.Dashboard().RunCycle(ctx)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("snapshot not finished: %w", err)
	}

	snapshot := bridgeTransparency.Dashboard().Snapshot()

	return &snapshotResult{
		Tokens:    response.NewTokensResponse(snapshot),
		Portfolio: response.NewPortfolioResponse(snapshot),
	}, nil
}
