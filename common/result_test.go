package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	ok := NewResult(5, nil)
	require.True(t, ok.IsSuccess())
	require.Equal(t, 5, ok.ValueOr(7))

	failed := NewResult(5, errors.New("boom"))
	require.False(t, failed.IsSuccess())
	require.Equal(t, 7, failed.ValueOr(7))
	require.ErrorContains(t, failed.Err, "boom")

	require.True(t, Success("x").IsSuccess())
	require.False(t, Failure[string](errors.New("y")).IsSuccess())
}
