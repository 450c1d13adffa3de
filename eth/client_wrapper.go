package eth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/Ethernal-Tech/bridge-transparency/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/hashicorp/go-hclog"
)

var ErrUnknownNetwork = errors.New("no rpc url configured for network")

// ClientWrapper lazily dials one rpc client per evm chain id and drops it after connection level errors
type ClientWrapper struct {
	rpcURLs map[string]string
	clients map[string]*rpc.Client
	lock    sync.Mutex
	logger  hclog.Logger
}

func NewClientWrapper(rpcURLs map[string]string, logger hclog.Logger) *ClientWrapper {
	return &ClientWrapper{
		rpcURLs: rpcURLs,
		clients: make(map[string]*rpc.Client, len(rpcURLs)),
		logger:  logger,
	}
}

func (e *ClientWrapper) GetClient(ctx context.Context, network string) (*rpc.Client, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if client, exists := e.clients[network]; exists {
		return client, nil
	}

	rpcURL, exists := e.rpcURLs[network]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, network)
	}

	client, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("error while dialing %s: %w", network, err)
	}

	e.clients[network] = client

	e.logger.Debug("rpc client created", "network", network)

	return client, nil
}

// ProcessError resets the client of the network on connection level errors and returns err unchanged
func (e *ClientWrapper) ProcessError(network string, err error) error {
	var netErr net.Error

	if errors.Is(err, net.ErrClosed) || common.IsContextDoneErr(err) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		e.lock.Lock()

		if client, exists := e.clients[network]; exists {
			client.Close()
			delete(e.clients, network)

			e.logger.Debug("rpc client reset", "network", network, "err", err)
		}

		e.lock.Unlock()
	}

	return err
}

func (e *ClientWrapper) Close() {
	e.lock.Lock()
	defer e.lock.Unlock()

	for network, client := range e.clients {
		client.Close()
		delete(e.clients, network)
	}
}
