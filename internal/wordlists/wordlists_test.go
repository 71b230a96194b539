package wordlists

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommonPicksSmallestCoveringList(t *testing.T) {
	list, err := Common(10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(list), 10)
	require.Contains(t, list, "123456")
}

func TestCommonPicksLargerListWhenRequested(t *testing.T) {
	list, err := Common(50)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(list), 50)
}

func TestCommonErrorsAboveLargestList(t *testing.T) {
	_, err := Common(1_000_000)
	require.ErrorIs(t, err, ErrNoList)
}
