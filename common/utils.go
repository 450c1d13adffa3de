package common

import (
	"context"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

func IsValidURL(input string) bool {
	_, err := url.ParseRequestURI(input)
	return err == nil
}

// IsValidHTTPSURL returns true only for absolute https urls with a host
func IsValidHTTPSURL(input string) bool {
	u, err := url.ParseRequestURI(input)
	if err != nil {
		return false
	}

	return u.Scheme == "https" && u.Host != ""
}

func IsValidHexAddress(s string) bool {
	return common.IsHexAddress(s)
}

func HexToAddress(s string) common.Address {
	return common.HexToAddress(s)
}

func DecodeHex(s string) ([]byte, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}

	return hex.DecodeString(s)
}

func IsContextDoneErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// TrimURL removes trailing slashes so paths can be appended safely
func TrimURL(u string) string {
	return strings.TrimRight(u, "/")
}
