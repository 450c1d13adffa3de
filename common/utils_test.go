package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidHTTPSURL(t *testing.T) {
	assert.True(t, IsValidHTTPSURL("https://api.mainnet.klever.org"))
	assert.True(t, IsValidHTTPSURL("https://api.coingecko.com/api/v3"))
	assert.False(t, IsValidHTTPSURL("http://api.mainnet.klever.org"))
	assert.False(t, IsValidHTTPSURL("https://"))
	assert.False(t, IsValidHTTPSURL("api.mainnet.klever.org"))
	assert.False(t, IsValidHTTPSURL(""))
}

func TestDecodeHex(t *testing.T) {
	b, err := DecodeHex("0x0aff")
	require.NoError(t, err)
	require.Equal(t, []byte{0x0a, 0xff}, b)

	b, err = DecodeHex("0aff")
	require.NoError(t, err)
	require.Equal(t, []byte{0x0a, 0xff}, b)

	_, err = DecodeHex("0xzz")
	require.Error(t, err)
}

func TestIsContextDoneErr(t *testing.T) {
	assert.True(t, IsContextDoneErr(context.Canceled))
	assert.True(t, IsContextDoneErr(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
	assert.False(t, IsContextDoneErr(errors.New("some error")))
	assert.False(t, IsContextDoneErr(nil))
}

func TestTrimURL(t *testing.T) {
	assert.Equal(t, "https://api.trongrid.io", TrimURL("https://api.trongrid.io//"))
	assert.Equal(t, "https://api.trongrid.io", TrimURL("https://api.trongrid.io"))
}

func TestResolveRelativePath(t *testing.T) {
	assert.Equal(t, "/etc/dashboard/bridge-assets.json",
		ResolveRelativePath("/etc/dashboard/config.json", "bridge-assets.json"))
	assert.Equal(t, "/abs/assets.json", ResolveRelativePath("/etc/dashboard/config.json", "/abs/assets.json"))
	assert.Equal(t, "", ResolveRelativePath("/etc/dashboard/config.json", ""))
}
