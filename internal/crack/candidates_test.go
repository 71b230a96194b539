package crack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"forgecrack/internal/ports"
)

func TestAppendTriedManyDedupesAgainstExistingAndWithinBatch(t *testing.T) {
	ctx := context.Background()
	store := ports.NewMemoryArtifactStore()

	require.NoError(t, store.PutAttribute(ctx, "obj-1", ports.AttrTriedPassword, "aaa,bbb"))
	require.NoError(t, AppendTriedMany(ctx, store, "obj-1", []string{"bbb", "ccc", "ccc"}))

	raw, ok, err := store.GetAttribute(ctx, "obj-1", ports.AttrTriedPassword)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "aaa,bbb,ccc", raw)
}

func TestAppendTriedManyOnEmptyStoreWritesBatchAsIs(t *testing.T) {
	ctx := context.Background()
	store := ports.NewMemoryArtifactStore()

	require.NoError(t, AppendTriedMany(ctx, store, "obj-2", []string{"aaa", "bbb"}))

	raw, ok, err := store.GetAttribute(ctx, "obj-2", ports.AttrTriedPassword)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "aaa,bbb", raw)
}

func TestAppendTriedManyNoopOnEmptyInput(t *testing.T) {
	ctx := context.Background()
	store := ports.NewMemoryArtifactStore()

	require.NoError(t, AppendTriedMany(ctx, store, "obj-3", nil))

	_, ok, err := store.GetAttribute(ctx, "obj-3", ports.AttrTriedPassword)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSubtractTriedRemovesAlreadyTriedCandidates(t *testing.T) {
	ctx := context.Background()
	store := ports.NewMemoryArtifactStore()
	require.NoError(t, store.PutAttribute(ctx, "obj-4", ports.AttrTriedPassword, "aaa,bbb"))

	remaining, err := SubtractTried(ctx, store, "obj-4", []string{"aaa", "bbb", "ccc"})
	require.NoError(t, err)
	require.Equal(t, []string{"ccc"}, remaining)
}
