package tron

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
)

const (
	addressVersion = 0x41
	addressLength  = 20
)

var ErrInvalidAddress = errors.New("invalid tron address")

// DecodeAddress returns the 20 byte account of a base58check tron address (T...)
func DecodeAddress(address string) ([]byte, error) {
	decoded, version, err := base58.CheckDecode(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidAddress, address, err)
	}

	if version != addressVersion || len(decoded) != addressLength {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}

	return decoded, nil
}

func IsValidAddress(address string) bool {
	_, err := DecodeAddress(address)

	return err == nil
}

// EncodeAddress is the inverse of DecodeAddress
func EncodeAddress(account []byte) string {
	return base58.CheckEncode(account, addressVersion)
}
