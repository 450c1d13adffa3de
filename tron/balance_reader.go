package tron

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Ethernal-Tech/bridge-transparency/common"
	"github.com/Ethernal-Tech/bridge-transparency/core"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
)

const (
	balanceOfSelector     = "balanceOf(address)"
	maxConcurrentRequests = 8
)

var (
	ErrUnknownNetwork   = errors.New("no api url configured for tron network")
	ErrContractCallFail = errors.New("tron constant contract call failed")
)

type triggerConstantContractRequest struct {
	OwnerAddress     string `json:"owner_address"`
	ContractAddress  string `json:"contract_address"`
	FunctionSelector string `json:"function_selector"`
	Parameter        string `json:"parameter"`
	Visible          bool   `json:"visible"`
}

type triggerConstantContractResponse struct {
	Result struct {
		Result  bool   `json:"result"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"result"`
	ConstantResult []string `json:"constant_result"`
}

// BalanceReader reads trc20 balances through the http api of a tron full node.
// Tron has no multicall so every request is sent on its own, concurrently.
type BalanceReader struct {
	apiURLs map[string]string
	timeout time.Duration
	logger  hclog.Logger
}

var _ core.ChainBalanceReader = (*BalanceReader)(nil)

func NewBalanceReader(apiURLs map[string]string, timeout time.Duration, logger hclog.Logger) *BalanceReader {
	if timeout == 0 {
		timeout = common.DefaultHTTPTimeout
	}

	return &BalanceReader{
		apiURLs: apiURLs,
		timeout: timeout,
		logger:  logger.Named("tron_balance_reader"),
	}
}

func (r *BalanceReader) ReadBalances(
	ctx context.Context, network string, requests []core.BalanceRequest,
) []core.BalanceResult {
	results := make([]core.BalanceResult, len(requests))

	apiURL, exists := r.apiURLs[network]
	if !exists {
		err := fmt.Errorf("%w: %s", ErrUnknownNetwork, network)
		for i := range results {
			results[i] = common.Failure[*big.Int](err)
		}

		return results
	}

	var wg errgroup.Group

	wg.SetLimit(maxConcurrentRequests)

	for i, request := range requests {
		wg.Go(func() error {
			balance, err := r.readBalance(ctx, apiURL, request)
			if err != nil {
				r.logger.Warn("failed to read balance", "network", network,
					"token", request.TokenContract, "account", request.Account, "err", err)
			}

			results[i] = common.NewResult[*big.Int](balance, err)

			return nil
		})
	}

	_ = wg.Wait()

	return results
}

func (r *BalanceReader) readBalance(
	ctx context.Context, apiURL string, request core.BalanceRequest,
) (*big.Int, error) {
	if !IsValidAddress(request.TokenContract) {
		return nil, fmt.Errorf("token contract: %w", ErrInvalidAddress)
	}

	account, err := DecodeAddress(request.Account)
	if err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}

	response, err := common.HTTPPost[triggerConstantContractResponse](ctx,
		common.TrimURL(apiURL)+"/wallet/triggerconstantcontract",
		triggerConstantContractRequest{
			OwnerAddress:     request.Account,
			ContractAddress:  request.TokenContract,
			FunctionSelector: balanceOfSelector,
			Parameter:        hex.EncodeToString(ethcommon.LeftPadBytes(account, 32)),
			Visible:          true,
		},
		common.WithHTTPTimeout(r.timeout))
	if err != nil {
		return nil, err
	}

	if !response.Result.Result || len(response.ConstantResult) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrContractCallFail, response.Result.Code, decodeMessage(response.Result.Message))
	}

	raw, err := hex.DecodeString(response.ConstantResult[0])
	if err != nil || len(raw) != 32 {
		return nil, fmt.Errorf("%w: malformed constant result", common.ErrInvalidResponse)
	}

	return new(big.Int).SetBytes(raw), nil
}

// decodeMessage turns the hex encoded node message into text when possible
func decodeMessage(message string) string {
	if decoded, err := hex.DecodeString(message); err == nil {
		return string(decoded)
	}

	return message
}
