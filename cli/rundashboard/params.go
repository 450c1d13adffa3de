package clirundashboard

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	configFlag       = "config"
	bridgeAssetsFlag = "bridge-assets"
	runAPIFlag       = "run-api"

	configFlagDesc       = "path to config json file (default dashboard_config.json next to the executable)"
	bridgeAssetsFlagDesc = "path to bridge assets json file, overrides bridgeAssetsPath from the config"
	runAPIFlagDesc       = "specifies whether the api should be run"
)

type runDashboardParams struct {
	config       string
	bridgeAssets string
	runAPI       bool
}

func (ip *runDashboardParams) validateFlags() error {
	for _, p := range []string{ip.config, ip.bridgeAssets} {
		if p == "" {
			continue
		}

		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("invalid path %s: %w", p, err)
		}
	}

	return nil
}

func (ip *runDashboardParams) setFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&ip.config,
		configFlag,
		"",
		configFlagDesc,
	)

	cmd.Flags().StringVar(
		&ip.bridgeAssets,
		bridgeAssetsFlag,
		"",
		bridgeAssetsFlagDesc,
	)

	cmd.Flags().BoolVar(
		&ip.runAPI,
		runAPIFlag,
		true,
		runAPIFlagDesc,
	)
}
