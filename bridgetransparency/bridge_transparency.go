package bridgetransparency

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ethernal-Tech/bridge-transparency/aggregator"
	"github.com/Ethernal-Tech/bridge-transparency/api"
	apiCore "github.com/Ethernal-Tech/bridge-transparency/api/core"
	apiUtils "github.com/Ethernal-Tech/bridge-transparency/api/utils"
	"github.com/Ethernal-Tech/bridge-transparency/api/controllers"
	"github.com/Ethernal-Tech/bridge-transparency/common"
	"github.com/Ethernal-Tech/bridge-transparency/core"
	"github.com/Ethernal-Tech/bridge-transparency/eth"
	ratefetcher "github.com/Ethernal-Tech/bridge-transparency/exchange_rate_service"
	"github.com/Ethernal-Tech/bridge-transparency/klever"
	"github.com/Ethernal-Tech/bridge-transparency/sourcechain"
	"github.com/Ethernal-Tech/bridge-transparency/telemetry"
	"github.com/Ethernal-Tech/bridge-transparency/tron"
	"github.com/hashicorp/go-hclog"
)

type BridgeTransparencyImpl struct {
	ctx          context.Context
	cancelFunc   context.CancelFunc
	shouldRunAPI bool
	evmClients   *eth.ClientWrapper
	dashboard    *aggregator.Dashboard
	api          apiCore.API
	telemetry    *telemetry.Telemetry
	logger       hclog.Logger
	dashboardCh  chan struct{}
}

// LoadBridgeAssets loads and validates the bridge assets document. A relative path is resolved against configPath.
func LoadBridgeAssets(configPath string, appConfig *core.AppConfig) (*core.BridgeAssetsConfig, error) {
	assetsPath := appConfig.BridgeAssetsPath
	if configPath != "" {
		assetsPath = common.ResolveRelativePath(configPath, assetsPath)
	}

	assets, err := common.LoadJson[core.BridgeAssetsConfig](assetsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load bridge assets: %w", err)
	}

	if err := assets.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bridge assets %s: %w", assetsPath, err)
	}

	if err := appConfig.ValidateAgainstAssets(assets); err != nil {
		return nil, fmt.Errorf("config does not cover bridge assets: %w", err)
	}

	return assets, nil
}

func NewBridgeTransparency(
	ctx context.Context,
	appConfig *core.AppConfig,
	assets *core.BridgeAssetsConfig,
	shouldRunAPI bool,
	logger hclog.Logger,
) (*BridgeTransparencyImpl, error) {
	evmClients := eth.NewClientWrapper(appConfig.EvmRPCURLs, logger.Named("evm_clients"))

	sourceReader := sourcechain.NewReader(
		map[core.ChainType]core.ChainBalanceReader{
			core.ChainTypeEVM: eth.NewBalanceReader(evmClients, logger),
			core.ChainTypeTron: tron.NewBalanceReader(
				appConfig.TronAPIURLs, appConfig.TronTimeout(), logger),
		},
		assets.Chains, logger)

	priceService, err := ratefetcher.NewPriceService(&appConfig.PriceFeed, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create price service: %w", err)
	}

	dashboard := aggregator.NewDashboard(
		assets, sourceReader, klever.NewClient(appConfig.KleverAPI, logger), priceService,
		appConfig.PriceFeed.Stablecoins, appConfig.RefreshInterval(), logger)

	var apiObj *api.APIImpl

	if shouldRunAPI {
		apiLogger, err := apiUtils.NewAPILogger(appConfig.Logger)
		if err != nil {
			return nil, err
		}

		apiControllers := []apiCore.APIController{
			controllers.NewDashboardController(dashboard, apiLogger.Named("dashboard_controller")),
		}

		apiObj, err = api.NewAPI(ctx, appConfig.APIConfig, apiControllers, apiLogger.Named("api"))
		if err != nil {
			return nil, fmt.Errorf("failed to create api: %w", err)
		}
	}

	ctx, cancelFunc := context.WithCancel(ctx)

	return &BridgeTransparencyImpl{
		ctx:          ctx,
		cancelFunc:   cancelFunc,
		shouldRunAPI: shouldRunAPI,
		evmClients:   evmClients,
		dashboard:    dashboard,
		api:          apiObj,
		telemetry:    telemetry.NewTelemetry(appConfig.Telemetry, logger.Named("telemetry")),
		logger:       logger,
	}, nil
}

func (b *BridgeTransparencyImpl) Start() error {
	b.logger.Debug("Starting BridgeTransparency")

	if err := b.telemetry.Start(); err != nil {
		return fmt.Errorf("failed to start telemetry: %w", err)
	}

	b.dashboardCh = make(chan struct{})

	go func() {
		defer close(b.dashboardCh)

		b.dashboard.Start(b.ctx)
	}()

	if b.shouldRunAPI {
		go b.api.Start()
	}

	b.logger.Debug("Started BridgeTransparency")

	return nil
}

func (b *BridgeTransparencyImpl) Dashboard() *aggregator.Dashboard {
	return b.dashboard
}

func (b *BridgeTransparencyImpl) Dispose() error {
	b.logger.Info("Disposing BridgeTransparency")

	errs := make([]error, 0)

	if b.shouldRunAPI {
		if err := b.api.Dispose(); err != nil {
			b.logger.Error("error while disposing api", "err", err)
			errs = append(errs, fmt.Errorf("error while disposing api. err: %w", err))
		}
	}

	b.cancelFunc()

	if b.dashboardCh != nil {
		<-b.dashboardCh
	}

	b.evmClients.Close()

	if err := b.telemetry.Close(context.Background()); err != nil {
		b.logger.Error("Failed to close telemetry", "err", err)
		errs = append(errs, fmt.Errorf("failed to close telemetry. err: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while disposing bridge transparency. errors: %w", errors.Join(errs...))
	}

	b.logger.Info("BridgeTransparency disposed")

	return nil
}
