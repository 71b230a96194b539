package crack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartitionRoundRobinCoversExactly(t *testing.T) {
	candidates := []string{"a", "b", "c", "d", "e", "f", "g"}
	parts := Partition(candidates, 3)
	require.Len(t, parts, 3)

	var all []string
	for _, p := range parts {
		all = append(all, p...)
	}
	require.ElementsMatch(t, candidates, all)

	// round-robin: worker 0 gets indices 0,3,6; worker 1 gets 1,4; worker 2 gets 2,5
	require.Equal(t, []string{"a", "d", "g"}, parts[0])
	require.Equal(t, []string{"b", "e"}, parts[1])
	require.Equal(t, []string{"c", "f"}, parts[2])
}

func TestPartitionEmptyInput(t *testing.T) {
	parts := Partition(nil, 4)
	require.Len(t, parts, 4)
	for _, p := range parts {
		require.Empty(t, p)
	}
}

func TestPartitionClampsNonPositiveWorkers(t *testing.T) {
	parts := Partition([]string{"x"}, 0)
	require.Len(t, parts, 1)
	require.Equal(t, []string{"x"}, parts[0])
}
