package strfind

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanPrintableRunsDropsShortRuns(t *testing.T) {
	raw := []byte("ab\x00\x01hunter2\x00\x00xy\x00password123")
	got := scanPrintableRuns(raw)
	require.Equal(t, []string{"hunter2", "password123"}, got)
}

func TestScanPrintableRunsHandlesTrailingRun(t *testing.T) {
	raw := []byte("\x00\x00opensesame")
	require.Equal(t, []string{"opensesame"}, scanPrintableRuns(raw))
}

func TestHarvestFileUsesRegisteredExtractorAndGenericScan(t *testing.T) {
	Register("test-format", func(raw []byte) (string, error) {
		return "alpha beta", nil
	})
	mimeKeys["application/x-test-format"] = "test-format"

	raw := []byte("ignored\x00zzzzz")
	got := HarvestFile(raw, "application/x-test-format")
	require.Contains(t, got, "alpha")
	require.Contains(t, got, "beta")
	require.Contains(t, got, "zzzzz")
}

func TestHarvestFileFallsBackToGenericScanForUnknownMime(t *testing.T) {
	raw := []byte("\x00secretvalue\x00")
	got := HarvestFile(raw, "application/octet-stream")
	require.Equal(t, []string{"secretvalue"}, got)
}

func TestSplitWordsDropsWhitespaceRuns(t *testing.T) {
	got := splitWords("  hello   world\t\nfoo  ")
	require.Equal(t, []string{"hello", "world", "foo"}, got)
}
