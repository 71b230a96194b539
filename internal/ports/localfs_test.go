package ports

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalFileStoreOpenReadsRealFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret.txt")
	require.NoError(t, os.WriteFile(path, []byte("hunter2"), 0o644))

	fs := NewLocalFileStore()
	rc, err := fs.Open(context.Background(), FileID(path))
	require.NoError(t, err)
	defer rc.Close()

	ext, err := fs.ExtensionOf(context.Background(), FileID(path))
	require.NoError(t, err)
	require.Equal(t, ".txt", ext)

	mime, err := fs.MimeOf(context.Background(), FileID(path))
	require.NoError(t, err)
	require.Equal(t, "text/plain", mime)
}

func TestLocalArtifactStoreRoundTripsThroughSidecarFile(t *testing.T) {
	dir := t.TempDir()
	objectPath := filepath.Join(dir, "archive.zip")
	require.NoError(t, os.WriteFile(objectPath, []byte("pk"), 0o644))

	store := NewLocalArtifactStore()
	ctx := context.Background()

	_, ok, err := store.GetAttribute(ctx, FileID(objectPath), AttrFoundPassword)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.PutAttribute(ctx, FileID(objectPath), AttrFoundPassword, "hunter2"))

	v, ok, err := store.GetAttribute(ctx, FileID(objectPath), AttrFoundPassword)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hunter2", v)

	_, err = os.Stat(objectPath + ".forgecrack.json")
	require.NoError(t, err)
}

func TestLocalTagStoreAlwaysEmpty(t *testing.T) {
	store := NewLocalTagStore()
	ids, err := store.FilesTagged(context.Background(), "anything")
	require.NoError(t, err)
	require.Empty(t, ids)
}
