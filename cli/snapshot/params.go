package clisnapshot

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
)

const (
	configFlag       = "config"
	bridgeAssetsFlag = "bridge-assets"
	timeoutFlag      = "timeout"
	tokenFlag        = "token"

	configFlagDesc       = "path to config json file (default dashboard_config.json next to the executable)"
	bridgeAssetsFlagDesc = "path to bridge assets json file, overrides bridgeAssetsPath from the config"
	timeoutFlagDesc      = "upper bound for fetching every upstream source"
	tokenFlagDesc        = "show only the token with this id"

	defaultTimeout = time.Minute
)

type snapshotParams struct {
	config       string
	bridgeAssets string
	timeout      time.Duration
	token        string
}

func (ip *snapshotParams) validateFlags() error {
	if ip.timeout <= 0 {
		return errors.New("timeout must be greater than zero")
	}

	return nil
}

func (ip *snapshotParams) setFlags(cmd *cobra.Command) {
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

	cmd.Flags().DurationVar(
		&ip.timeout,
		timeoutFlag,
		defaultTimeout,
		timeoutFlagDesc,
	)

	cmd.Flags().StringVar(
		&ip.token,
		tokenFlag,
		"",
		tokenFlagDesc,
	)
}
