package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

type ExchangeProvider int

const (
	CoinGecko ExchangeProvider = iota
	Binance
	Dummy
)

func (e ExchangeProvider) String() string {
	switch e {
	case CoinGecko:
		return "CoinGecko"
	case Binance:
		return "Binance"
	case Dummy:
		return "Dummy"
	default:
		return "Unknown"
	}
}

func ParseExchangeProvider(value string) (ExchangeProvider, error) {
	switch strings.ToLower(value) {
	case "", "coingecko":
		return CoinGecko, nil
	case "binance":
		return Binance, nil
	case "dummy":
		return Dummy, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedProvider, value)
	}
}

func (e ExchangeProvider) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(e.String()))
}

func (e *ExchangeProvider) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	provider, err := ParseExchangeProvider(value)
	if err != nil {
		return err
	}

	*e = provider

	return nil
}
