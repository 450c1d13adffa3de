package eth

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Ethernal-Tech/bridge-transparency/common"
	"github.com/Ethernal-Tech/bridge-transparency/core"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/hashicorp/go-hclog"
)

const erc20BalanceOfABI = `[{
	"constant": true,
	"inputs": [{"name": "account", "type": "address"}],
	"name": "balanceOf",
	"outputs": [{"name": "", "type": "uint256"}],
	"stateMutability": "view",
	"type": "function"
}]`

var (
	ErrInvalidAddress = errors.New("invalid evm address")

	erc20ABI = mustParseABI(erc20BalanceOfABI)
)

// BalanceReader reads erc20 balances with a single json-rpc batch of eth_call requests per network
type BalanceReader struct {
	clients *ClientWrapper
	logger  hclog.Logger
}

var _ core.ChainBalanceReader = (*BalanceReader)(nil)

func NewBalanceReader(clients *ClientWrapper, logger hclog.Logger) *BalanceReader {
	return &BalanceReader{
		clients: clients,
		logger:  logger.Named("evm_balance_reader"),
	}
}

func (r *BalanceReader) ReadBalances(
	ctx context.Context, network string, requests []core.BalanceRequest,
) []core.BalanceResult {
	results := make([]core.BalanceResult, len(requests))

	client, err := r.clients.GetClient(ctx, network)
	if err != nil {
		r.logger.Warn("failed to get rpc client", "network", network, "err", err)

		return fillFailures(results, err)
	}

	batch := make([]rpc.BatchElem, 0, len(requests))
	batchIndices := make([]int, 0, len(requests))

	for i, request := range requests {
		elem, err := newBalanceOfCall(request)
		if err != nil {
			results[i] = common.Failure[*big.Int](err)

			continue
		}

		batch = append(batch, elem)
		batchIndices = append(batchIndices, i)
	}

	if len(batch) == 0 {
		return results
	}

	if err := client.BatchCallContext(ctx, batch); err != nil {
		err = r.clients.ProcessError(network, fmt.Errorf("batch call failed: %w", err))

		r.logger.Warn("failed to read balances", "network", network, "err", err)

		for _, idx := range batchIndices {
			results[idx] = common.Failure[*big.Int](err)
		}

		return results
	}

	for j, elem := range batch {
		idx := batchIndices[j]

		if elem.Error != nil {
			results[idx] = common.Failure[*big.Int](
				fmt.Errorf("balanceOf %s on %s: %w", requests[idx].TokenContract, network, elem.Error))

			continue
		}

		raw, _ := elem.Result.(*hexutil.Bytes)
		results[idx] = common.NewResult[*big.Int](unpackBalance(*raw))
	}

	return results
}

func newBalanceOfCall(request core.BalanceRequest) (rpc.BatchElem, error) {
	if !common.IsValidHexAddress(request.TokenContract) || !common.IsValidHexAddress(request.Account) {
		return rpc.BatchElem{}, fmt.Errorf("%w: token %s, account %s",
			ErrInvalidAddress, request.TokenContract, request.Account)
	}

	data, err := erc20ABI.Pack("balanceOf", common.HexToAddress(request.Account))
	if err != nil {
		return rpc.BatchElem{}, fmt.Errorf("failed to pack balanceOf: %w", err)
	}

	to := common.HexToAddress(request.TokenContract)

	return rpc.BatchElem{
		Method: "eth_call",
		Args: []interface{}{
			map[string]interface{}{
				"to":   to,
				"data": hexutil.Bytes(data),
			},
			"latest",
		},
		Result: new(hexutil.Bytes),
	}, nil
}

func unpackBalance(raw []byte) (*big.Int, error) {
	values, err := erc20ABI.Unpack("balanceOf", raw)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack balanceOf: %w", err)
	}

	if len(values) != 1 {
		return nil, fmt.Errorf("unexpected balanceOf output count: %d", len(values))
	}

	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf output type: %T", values[0])
	}

	return balance, nil
}

func fillFailures(results []core.BalanceResult, err error) []core.BalanceResult {
	for i := range results {
		results[i] = common.Failure[*big.Int](err)
	}

	return results
}

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(err)
	}

	return parsed
}
