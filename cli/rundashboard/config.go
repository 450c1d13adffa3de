package clirundashboard

import (
	"fmt"

	"github.com/Ethernal-Tech/bridge-transparency/bridgetransparency"
	"github.com/Ethernal-Tech/bridge-transparency/common"
	"github.com/Ethernal-Tech/bridge-transparency/core"
)

const configPrefix = "dashboard"

// LoadConfigs loads, fills out and validates the app config and the bridge assets it points to
func LoadConfigs(configPath, bridgeAssetsPath string) (*core.AppConfig, *core.BridgeAssetsConfig, error) {
	appConfig, err := common.LoadConfig[core.AppConfig](configPath, configPrefix)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	appConfig.FillOut()

	if bridgeAssetsPath != "" {
		appConfig.BridgeAssetsPath = bridgeAssetsPath
		configPath = ""
	}

	if err := appConfig.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	assets, err := bridgetransparency.LoadBridgeAssets(configPath, appConfig)
	if err != nil {
		return nil, nil, err
	}

	return appConfig, assets, nil
}
