package core

import (
	"context"

	"github.com/Ethernal-Tech/bridge-transparency/exchange_rate_service/model"
	"github.com/stretchr/testify/mock"
)

type ExchangeRateFetcherMock struct {
	mock.Mock
}

var _ ExchangeRateFetcher = (*ExchangeRateFetcherMock)(nil)

func (m *ExchangeRateFetcherMock) FetchPrices(
	ctx context.Context, params model.FetchPricesParams,
) (map[string]model.FeedPrice, error) {
	args := m.Called(ctx, params)
	arg0, _ := args.Get(0).(map[string]model.FeedPrice)

	return arg0, args.Error(1)
}
