package tron

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ethernal-Tech/bridge-transparency/core"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tokenAddress    = EncodeAddress(bytes.Repeat([]byte{0x01}, 20))
	revertedAddress = EncodeAddress(bytes.Repeat([]byte{0x02}, 20))
	accountAddress  = EncodeAddress(bytes.Repeat([]byte{0x03}, 20))
)

func TestAddress(t *testing.T) {
	account := bytes.Repeat([]byte{0xab}, 20)
	encoded := EncodeAddress(account)

	assert.Equal(t, byte('T'), encoded[0])

	decoded, err := DecodeAddress(encoded)
	require.NoError(t, err)
	assert.Equal(t, account, decoded)

	// USDT contract on tron mainnet
	assert.True(t, IsValidAddress("TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"))
	assert.False(t, IsValidAddress("TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6u"))
	assert.False(t, IsValidAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"))
	assert.False(t, IsValidAddress(""))
}

func TestBalanceReader_ReadBalances(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wallet/triggerconstantcontract", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var request triggerConstantContractRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&request)) {
			return
		}

		assert.Equal(t, "balanceOf(address)", request.FunctionSelector)
		assert.Equal(t, accountAddress, request.OwnerAddress)
		assert.True(t, request.Visible)
		assert.Equal(t, "000000000000000000000000"+hex.EncodeToString(bytes.Repeat([]byte{0x03}, 20)), request.Parameter)

		switch request.ContractAddress {
		case tokenAddress:
			fmt.Fprintf(w, `{"result":{"result":true},"constant_result":["%064x"]}`, big.NewInt(2_500_000))
		default:
			fmt.Fprintf(w, `{"result":{"code":"CONTRACT_VALIDATE_ERROR","message":"%s"}}`,
				hex.EncodeToString([]byte("contract does not exist")))
		}
	}))
	defer server.Close()

	reader := NewBalanceReader(map[string]string{"mainnet": server.URL}, 0, hclog.NewNullLogger())

	t.Run("per request results", func(t *testing.T) {
		results := reader.ReadBalances(context.Background(), "mainnet", []core.BalanceRequest{
			{TokenContract: tokenAddress, Account: accountAddress},
			{TokenContract: revertedAddress, Account: accountAddress},
			{TokenContract: tokenAddress, Account: "not-an-address"},
		})

		require.Len(t, results, 3)

		require.True(t, results[0].IsSuccess())
		assert.Equal(t, big.NewInt(2_500_000), results[0].Value)

		require.ErrorIs(t, results[1].Err, ErrContractCallFail)
		assert.ErrorContains(t, results[1].Err, "contract does not exist")

		require.ErrorIs(t, results[2].Err, ErrInvalidAddress)
	})

	t.Run("unknown network", func(t *testing.T) {
		results := reader.ReadBalances(context.Background(), "nile", []core.BalanceRequest{
			{TokenContract: tokenAddress, Account: accountAddress},
		})

		require.Len(t, results, 1)
		require.ErrorIs(t, results[0].Err, ErrUnknownNetwork)
	})
}
