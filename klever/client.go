package klever

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/Ethernal-Tech/bridge-transparency/amounts"
	"github.com/Ethernal-Tech/bridge-transparency/common"
	"github.com/Ethernal-Tech/bridge-transparency/core"
	"github.com/Ethernal-Tech/bridge-transparency/telemetry"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
)

const (
	maxPrecision      = 18
	maxAPIErrorLength = 100
)

func ValidateAssetID(assetID string) error {
	if assetID == "" {
		return ErrAssetIDRequired
	}

	if !core.IsValidAssetID(assetID) {
		return fmt.Errorf("%w: %s", ErrInvalidAssetID, assetID)
	}

	return nil
}

// Client reads assets from the KleverChain asset api
type Client struct {
	config core.KleverAPIConfig
	logger hclog.Logger
}

var _ core.AssetFetcher = (*Client)(nil)

func NewClient(config core.KleverAPIConfig, logger hclog.Logger) *Client {
	return &Client{
		config: config,
		logger: logger.Named("klever_client"),
	}
}

// FetchAsset returns the asset supply merged with its holders and transactions counts.
// Counts that could not be fetched are left nil.
func (c *Client) FetchAsset(ctx context.Context, assetID string) (*core.KleverAssetData, error) {
	if err := ValidateAssetID(assetID); err != nil {
		return nil, err
	}

	var (
		asset             *core.KleverAssetData
		holdersCount      *uint64
		transactionsCount *uint64
	)

	wg, ctx := errgroup.WithContext(ctx)

	wg.Go(func() (err error) {
		asset, err = c.fetchAssetWithRetry(ctx, assetID)

		return err
	})

	wg.Go(func() error {
		holdersCount, transactionsCount = c.FetchAssetStats(ctx, assetID)

		return nil
	})

	if err := wg.Wait(); err != nil {
		telemetry.UpdateFetchFailures(telemetry.SourceKlever)

		return nil, err
	}

	asset.HoldersCount = holdersCount
	asset.TransactionsCount = transactionsCount

	return asset, nil
}

// FetchAssets fetches assets concurrently. Placeholder ids are skipped, failed assets are logged and omitted.
func (c *Client) FetchAssets(ctx context.Context, assetIDs []string) map[string]*core.KleverAssetData {
	var (
		lock   sync.Mutex
		wg     sync.WaitGroup
		result = make(map[string]*core.KleverAssetData, len(assetIDs))
	)

	for _, assetID := range assetIDs {
		if core.IsPlaceholderAssetID(assetID) {
			continue
		}

		wg.Add(1)

		go func() {
			defer wg.Done()

			asset, err := c.FetchAsset(ctx, assetID)
			if err != nil {
				c.logger.Warn("Failed to fetch asset", "asset", assetID, "err", err)

				return
			}

			lock.Lock()
			result[assetID] = asset
			lock.Unlock()
		}()
	}

	wg.Wait()

	return result
}

func (c *Client) FetchAssetHoldersCount(ctx context.Context, assetID string) (uint64, error) {
	if err := ValidateAssetID(assetID); err != nil {
		return 0, err
	}

	return c.fetchTotalRecords(ctx, fmt.Sprintf("%s/v1.0/assets/holders/%s?limit=0",
		common.TrimURL(c.config.URL), url.PathEscape(assetID)))
}

func (c *Client) FetchAssetTransactionsCount(ctx context.Context, assetID string) (uint64, error) {
	if err := ValidateAssetID(assetID); err != nil {
		return 0, err
	}

	return c.fetchTotalRecords(ctx, fmt.Sprintf("%s/v1.0/transaction/list?asset=%s&limit=0",
		common.TrimURL(c.config.URL), url.QueryEscape(assetID)))
}

// FetchAssetStats returns holders and transactions counts, nil for every count that failed
func (c *Client) FetchAssetStats(ctx context.Context, assetID string) (holdersCount *uint64, transactionsCount *uint64) {
	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		holdersCount = c.fetchCount(ctx, assetID, "holders", c.FetchAssetHoldersCount)
	}()

	go func() {
		defer wg.Done()

		transactionsCount = c.fetchCount(ctx, assetID, "transactions", c.FetchAssetTransactionsCount)
	}()

	wg.Wait()

	return holdersCount, transactionsCount
}

func (c *Client) fetchCount(
	ctx context.Context, assetID string, name string,
	fn func(ctx context.Context, assetID string) (uint64, error),
) *uint64 {
	count, err := fn(ctx, assetID)
	if err != nil {
		if !common.IsContextDoneErr(err) {
			c.logger.Warn("Failed to fetch asset count", "asset", assetID, "count", name, "err", err)
		}

		return nil
	}

	return &count
}

func (c *Client) fetchTotalRecords(ctx context.Context, requestURL string) (uint64, error) {
	response, err := common.HTTPGet[paginatedResponse](ctx, requestURL, common.WithHTTPTimeout(c.config.Timeout()))
	if err != nil {
		return 0, err
	}

	if response.Pagination == nil || response.Pagination.TotalRecords == nil {
		return 0, fmt.Errorf("%w: pagination.totalRecords is missing", ErrSchemaValidation)
	}

	return *response.Pagination.TotalRecords, nil
}

func (c *Client) fetchAssetWithRetry(ctx context.Context, assetID string) (*core.KleverAssetData, error) {
	return common.ExecuteWithRetry(ctx, c.config.Retry, func(ctx context.Context) (*core.KleverAssetData, error) {
		return c.fetchAsset(ctx, assetID)
	}, isRecoverableError)
}

func (c *Client) fetchAsset(ctx context.Context, assetID string) (*core.KleverAssetData, error) {
	requestURL := fmt.Sprintf("%s/v1.0/assets/%s", common.TrimURL(c.config.URL), url.PathEscape(assetID))

	response, err := common.HTTPGet[assetResponse](ctx, requestURL, common.WithHTTPTimeout(c.config.Timeout()))
	if err != nil {
		if errors.Is(err, common.ErrInvalidResponse) {
			return nil, fmt.Errorf("%w: asset %s: %w", ErrSchemaValidation, assetID, err)
		}

		return nil, fmt.Errorf("failed to fetch asset %s: %w", assetID, err)
	}

	asset, err := validateAssetResponse(response)
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w", assetID, err)
	}

	return asset, nil
}

// validateAssetResponse surfaces only validated fields, everything else is dropped
func validateAssetResponse(response assetResponse) (*core.KleverAssetData, error) {
	schemaErr := func(field string, err error) error {
		return fmt.Errorf("%w: %s: %w", ErrSchemaValidation, field, err)
	}

	if response.Error == nil {
		return nil, schemaErr("error", errFieldMissing)
	}

	if response.Code == nil {
		return nil, schemaErr("code", errFieldMissing)
	}

	if *response.Error != "" {
		message := *response.Error
		if len(message) > maxAPIErrorLength {
			message = message[:maxAPIErrorLength]
		}

		return nil, fmt.Errorf("%w: %s", ErrAPIError, message)
	}

	if response.Data == nil || response.Data.Asset == nil {
		return nil, schemaErr("data.asset", errFieldMissing)
	}

	payload := response.Data.Asset

	if payload.AssetID == nil {
		return nil, schemaErr("data.asset.assetId", errFieldMissing)
	}

	precision, err := parsePrecision(payload.Precision)
	if err != nil {
		return nil, schemaErr("data.asset.precision", err)
	}

	circulatingSupply, err := parseSupply(payload.CirculatingSupply)
	if err != nil {
		return nil, schemaErr("data.asset.circulatingSupply", err)
	}

	maxSupply, err := parseSupply(payload.MaxSupply)
	if err != nil {
		return nil, schemaErr("data.asset.maxSupply", err)
	}

	optionalNumbers := map[string]json.RawMessage{
		"data.asset.initialSupply": payload.InitialSupply,
		"data.asset.mintedValue":   payload.MintedValue,
		"data.asset.burnedValue":   payload.BurnedValue,
	}

	for field, raw := range optionalNumbers {
		if len(raw) == 0 {
			continue
		}

		if _, err := parseNumber(raw); err != nil {
			return nil, schemaErr(field, err)
		}
	}

	asset := &core.KleverAssetData{
		AssetID:                    *payload.AssetID,
		CirculatingSupply:          circulatingSupply,
		MaxSupply:                  maxSupply,
		FormattedCirculatingSupply: amounts.FormatBalance(circulatingSupply, precision),
		Precision:                  precision,
	}

	if payload.Name != nil {
		asset.Name = *payload.Name
	}

	if payload.Ticker != nil {
		asset.Ticker = *payload.Ticker
	}

	return asset, nil
}

// isRecoverableError reports transient transport failures. Schema, input and api errors are permanent.
func isRecoverableError(err error) bool {
	if errors.Is(err, ErrSchemaValidation) || errors.Is(err, ErrAPIError) ||
		errors.Is(err, ErrInvalidAssetID) || errors.Is(err, ErrAssetIDRequired) {
		return false
	}

	return common.IsRetryableHTTPError(err)
}
