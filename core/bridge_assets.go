package core

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Ethernal-Tech/bridge-transparency/common"
)

type ChainType string

const (
	ChainTypeEVM    ChainType = "evm"
	ChainTypeTron   ChainType = "tron"
	ChainTypeKlever ChainType = "klever"

	// decimals above this value do not fit into a uint256 amount
	maxDecimals = 77
)

var assetIDRegex = regexp.MustCompile(`^[A-Z0-9]+-[A-Z0-9]+$`)

// IsValidAssetID reports whether id has the KleverChain asset id shape, e.g. USDT-1A2B
func IsValidAssetID(id string) bool {
	return assetIDRegex.MatchString(id)
}

// ChainConfig is the display descriptor of a chain
type ChainConfig struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        ChainType `json:"type"`
	EvmChainID  *uint64   `json:"evmChainId,omitempty"`
	TronNetwork string    `json:"tronNetwork,omitempty"`
	Explorer    string    `json:"explorer"`
	Logo        string    `json:"logo"`
}

type KleverChainToken struct {
	BaseTokenID string `json:"baseTokenId"`
}

type LiquidityToken struct {
	ChainID     string `json:"chainId"`
	KdaID       string `json:"kdaId"`
	Description string `json:"description,omitempty"`
}

// SourceChainConfig identifies where collateral of one token is locked on one chain
type SourceChainConfig struct {
	ChainID        string  `json:"chainId"`
	ChainName      string  `json:"chainName"`
	EvmChainID     *uint64 `json:"evmChainId,omitempty"`
	TronNetwork    string  `json:"tronNetwork,omitempty"`
	BridgeContract string  `json:"bridgeContract"`
	TokenContract  string  `json:"tokenContract"`
	Decimals       uint8   `json:"decimals"`
	Enabled        bool    `json:"enabled"`
}

// Network returns the chain type and the network identifier used to route reads.
// ok is false when the network cannot be resolved.
func (c SourceChainConfig) Network() (chainType ChainType, network string, ok bool) {
	switch {
	case c.EvmChainID != nil:
		return ChainTypeEVM, strconv.FormatUint(*c.EvmChainID, 10), true
	case c.TronNetwork != "":
		return ChainTypeTron, c.TronNetwork, true
	default:
		return "", "", false
	}
}

type BaseTokenConfig struct {
	ID              string              `json:"id"`
	Symbol          string              `json:"symbol"`
	Name            string              `json:"name"`
	Decimals        uint8               `json:"decimals"`
	Logo            string              `json:"logo"`
	KleverChain     KleverChainToken    `json:"kleverChain"`
	LiquidityTokens []LiquidityToken    `json:"liquidityTokens"`
	SourceChains    []SourceChainConfig `json:"sourceChains"`
}

// EnabledSourceChains returns enabled source chains with a resolvable network, in config order
func (t BaseTokenConfig) EnabledSourceChains() []SourceChainConfig {
	result := make([]SourceChainConfig, 0, len(t.SourceChains))

	for _, sc := range t.SourceChains {
		if _, _, ok := sc.Network(); sc.Enabled && ok {
			result = append(result, sc)
		}
	}

	return result
}

type BridgeAssetsConfig struct {
	Version     string                 `json:"version"`
	LastUpdated string                 `json:"lastUpdated"`
	BaseTokens  []BaseTokenConfig      `json:"baseTokens"`
	Chains      map[string]ChainConfig `json:"chains"`
}

func (c *BridgeAssetsConfig) GetToken(tokenID string) (BaseTokenConfig, bool) {
	for _, token := range c.BaseTokens {
		if token.ID == tokenID {
			return token, true
		}
	}

	return BaseTokenConfig{}, false
}

func (c *BridgeAssetsConfig) TokenIDs() []string {
	ids := make([]string, len(c.BaseTokens))
	for i, token := range c.BaseTokens {
		ids[i] = token.ID
	}

	return ids
}

func (c *BridgeAssetsConfig) Validate() error {
	if len(c.BaseTokens) == 0 {
		return errors.New("no base tokens configured")
	}

	for chainID, chain := range c.Chains {
		if chain.ID != "" && chain.ID != chainID {
			return fmt.Errorf("chain %s has mismatched id %s", chainID, chain.ID)
		}

		switch chain.Type {
		case ChainTypeEVM, ChainTypeTron, ChainTypeKlever:
		default:
			return fmt.Errorf("chain %s has invalid type: %s", chainID, chain.Type)
		}
	}

	tokenIDs := make(map[string]bool, len(c.BaseTokens))

	for _, token := range c.BaseTokens {
		if token.ID == "" {
			return errors.New("base token without id")
		}

		if tokenIDs[token.ID] {
			return fmt.Errorf("duplicated base token: %s", token.ID)
		}

		tokenIDs[token.ID] = true

		if err := c.validateToken(token); err != nil {
			return fmt.Errorf("invalid base token %s: %w", token.ID, err)
		}
	}

	return nil
}

func (c *BridgeAssetsConfig) validateToken(token BaseTokenConfig) error {
	if token.Decimals > maxDecimals {
		return fmt.Errorf("decimals out of range: %d", token.Decimals)
	}

	if !IsValidAssetID(token.KleverChain.BaseTokenID) && !IsPlaceholderAssetID(token.KleverChain.BaseTokenID) {
		return fmt.Errorf("invalid kleverchain base token id: %s", token.KleverChain.BaseTokenID)
	}

	for _, lt := range token.LiquidityTokens {
		if !IsValidAssetID(lt.KdaID) && !IsPlaceholderAssetID(lt.KdaID) {
			return fmt.Errorf("invalid liquidity token id: %s", lt.KdaID)
		}

		if _, exists := c.Chains[lt.ChainID]; !exists {
			return fmt.Errorf("liquidity token %s references unknown chain: %s", lt.KdaID, lt.ChainID)
		}
	}

	for _, sc := range token.SourceChains {
		if _, exists := c.Chains[sc.ChainID]; !exists {
			return fmt.Errorf("source chain references unknown chain: %s", sc.ChainID)
		}

		if sc.Decimals > maxDecimals {
			return fmt.Errorf("source chain %s decimals out of range: %d", sc.ChainID, sc.Decimals)
		}

		if !sc.Enabled {
			continue
		}

		chainType, _, ok := sc.Network()
		if !ok {
			continue
		}

		if chainType == ChainTypeEVM &&
			(!common.IsValidHexAddress(sc.BridgeContract) || !common.IsValidHexAddress(sc.TokenContract)) {
			return fmt.Errorf("source chain %s has invalid contract address", sc.ChainID)
		}
	}

	return nil
}

// IsPlaceholderAssetID reports ids that are not deployed yet, e.g. USDC-XXXX
func IsPlaceholderAssetID(id string) bool {
	return id == "" || strings.Contains(id, "XXXX")
}
