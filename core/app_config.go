package core

import (
	"errors"
	"fmt"
	"time"

	apiCore "github.com/Ethernal-Tech/bridge-transparency/api/core"
	"github.com/Ethernal-Tech/bridge-transparency/common"
	ersCore "github.com/Ethernal-Tech/bridge-transparency/exchange_rate_service/core"
	"github.com/Ethernal-Tech/bridge-transparency/telemetry"
	"github.com/Ethernal-Tech/cardano-infrastructure/logger"
)

const (
	DefaultKleverAPIURL           = "https://api.mainnet.klever.org"
	DefaultRefreshIntervalMilis   = 60_000
	DefaultBridgeAssetsConfigName = "bridge-assets.json"
)

type KleverAPIConfig struct {
	URL          string             `json:"url"`
	TimeoutMilis uint64             `json:"timeoutMilis"`
	Retry        common.RetryConfig `json:"retry"`
}

func (c KleverAPIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMilis) * time.Millisecond
}

type AppConfig struct {
	BridgeAssetsPath     string                            `json:"bridgeAssetsPath"`
	RefreshIntervalMilis uint64                            `json:"refreshInterval"`
	KleverAPI            KleverAPIConfig                   `json:"kleverApi"`
	PriceFeed            ersCore.ExchangeRateServiceConfig `json:"priceFeed"`
	EvmRPCURLs           map[string]string                 `json:"evmRpcUrls"`
	TronAPIURLs          map[string]string                 `json:"tronApiUrls"`
	TronTimeoutMilis     uint64                            `json:"tronTimeoutMilis"`
	APIConfig            apiCore.APIConfig                 `json:"api"`
	Telemetry            telemetry.TelemetryConfig         `json:"telemetry"`
	Logger               logger.LoggerConfig               `json:"logger"`
}

func (appConfig *AppConfig) RefreshInterval() time.Duration {
	return time.Duration(appConfig.RefreshIntervalMilis) * time.Millisecond
}

// TronTimeout bounds a single TronGrid request
func (appConfig *AppConfig) TronTimeout() time.Duration {
	return time.Duration(appConfig.TronTimeoutMilis) * time.Millisecond
}

// FillOut sets defaults for every field left empty
func (appConfig *AppConfig) FillOut() {
	if appConfig.BridgeAssetsPath == "" {
		appConfig.BridgeAssetsPath = DefaultBridgeAssetsConfigName
	}

	if appConfig.RefreshIntervalMilis == 0 {
		appConfig.RefreshIntervalMilis = DefaultRefreshIntervalMilis
	}

	if appConfig.KleverAPI.URL == "" {
		appConfig.KleverAPI.URL = DefaultKleverAPIURL
	}

	if appConfig.KleverAPI.TimeoutMilis == 0 {
		appConfig.KleverAPI.TimeoutMilis = uint64(common.DefaultHTTPTimeout.Milliseconds())
	}

	if appConfig.TronTimeoutMilis == 0 {
		appConfig.TronTimeoutMilis = uint64(common.DefaultHTTPTimeout.Milliseconds())
	}

	if appConfig.KleverAPI.Retry == (common.RetryConfig{}) {
		appConfig.KleverAPI.Retry = common.RetryConfig{
			MaxRetries: 3,
			BaseDelay:  time.Second,
			MaxDelay:   30 * time.Second,
		}
	}

	appConfig.PriceFeed.FillOut()
	appConfig.APIConfig.FillOut()
	appConfig.Telemetry.FillOut()
}

func (appConfig *AppConfig) Validate() error {
	if appConfig.BridgeAssetsPath == "" {
		return errors.New("bridge assets path not specified")
	}

	if appConfig.RefreshIntervalMilis == 0 {
		return errors.New("refresh interval must be greater than zero")
	}

	if !common.IsValidHTTPSURL(appConfig.KleverAPI.URL) {
		return fmt.Errorf("klever api url must be a valid https url: %s", appConfig.KleverAPI.URL)
	}

	if err := appConfig.PriceFeed.Validate(); err != nil {
		return fmt.Errorf("invalid price feed config: %w", err)
	}

	for chainID, rpcURL := range appConfig.EvmRPCURLs {
		if !common.IsValidURL(rpcURL) {
			return fmt.Errorf("invalid rpc url for evm chain %s: %s", chainID, rpcURL)
		}
	}

	for network, apiURL := range appConfig.TronAPIURLs {
		if !common.IsValidURL(apiURL) {
			return fmt.Errorf("invalid api url for tron network %s: %s", network, apiURL)
		}
	}

	return nil
}

// ValidateAgainstAssets checks that every enabled source chain has an endpoint to read from
func (appConfig *AppConfig) ValidateAgainstAssets(assets *BridgeAssetsConfig) error {
	var errs []error

	for _, token := range assets.BaseTokens {
		for _, sc := range token.EnabledSourceChains() {
			chainType, network, _ := sc.Network()

			switch chainType {
			case ChainTypeEVM:
				if _, exists := appConfig.EvmRPCURLs[network]; !exists {
					errs = append(errs, fmt.Errorf("no rpc url for evm chain %s (%s)", network, sc.ChainID))
				}
			case ChainTypeTron:
				if _, exists := appConfig.TronAPIURLs[network]; !exists {
					errs = append(errs, fmt.Errorf("no api url for tron network %s (%s)", network, sc.ChainID))
				}
			}
		}
	}

	return errors.Join(errs...)
}
