package core

import "errors"

var (
	ErrPriceFeedTimeout    = errors.New("price feed timeout")
	ErrPriceFeedSchema     = errors.New("price feed response failed schema validation")
	ErrUnsupportedProvider = errors.New("unsupported exchange provider")
)
