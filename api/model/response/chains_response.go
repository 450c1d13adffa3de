package response

import "github.com/Ethernal-Tech/bridge-transparency/core"

type ChainsResponse struct {
	Chains map[string]core.ChainConfig `json:"chains"`
}

func NewChainsResponse(chains map[string]core.ChainConfig) *ChainsResponse {
	return &ChainsResponse{
		Chains: chains,
	}
}

type RefreshResponse struct {
	Accepted bool `json:"accepted"`
}
