package crack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"forgecrack/internal/descriptor"
	"forgecrack/internal/ports"
)

// buildZipCryptoDesc reproduces the ZipCrypto encryption-header math
// (see internal/verify/zipcrypto_test.go's encryptZipCryptoHeader) so
// this package's integration test doesn't need a real archive on disk:
// with ArchivePath left empty, the verifier's library-assisted recheck
// fails to open the file and that failure is swallowed per spec §4.5
// step 5, so the fast check alone determines the outcome here.
func buildZipCryptoDesc(password string) descriptor.ZipCryptoDesc {
	type keys struct{ k0, k1, k2 uint32 }
	k := keys{0x12345678, 0x23456789, 0x34567890}
	crc32Table := crcTable()
	update := func(b byte) {
		k.k0 = (k.k0 >> 8) ^ crc32Table[byte(k.k0)^b]
		k.k1 = (k.k1+(k.k0&0xFF))*134775813 + 1
		k.k2 = (k.k2 >> 8) ^ crc32Table[byte(k.k2)^byte(k.k1>>24)]
	}
	for i := 0; i < len(password); i++ {
		update(password[i])
	}
	plain := [12]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 0xAA}
	var cipher [12]byte
	for i, p := range plain {
		temp := uint16(k.k2) | 2
		c := p ^ byte((temp*(temp^1))>>8)
		update(p)
		cipher[i] = c
	}
	return descriptor.ZipCryptoDesc{
		CheckByte:       plain[11],
		EncryptedHeader: cipher,
	}
}

func crcTable() [256]uint32 {
	var table [256]uint32
	for i := range table {
		c := uint32(i)
		for k := 0; k < 8; k++ {
			if c&1 != 0 {
				c = 0xEDB88320 ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		table[i] = c
	}
	return table
}

type recordingNotifier struct {
	infos []string
}

func (r *recordingNotifier) Info(title, detail string) { r.infos = append(r.infos, title) }
func (r *recordingNotifier) Warn(string, string)        {}
func (r *recordingNotifier) Error(string, string)       {}

func TestOrchestrateFindsPasswordFromUserWordlist(t *testing.T) {
	fs := ports.NewMemoryFileStore()
	fs.Put("wordlist-1", []byte("aaa\nbbb\nhunter2\nccc\n"), "text/plain", ".txt")
	artifacts := ports.NewMemoryArtifactStore()
	tags := ports.NewMemoryTagStore()
	notifier := &recordingNotifier{}

	desc := buildZipCryptoDesc("hunter2")

	result, err := Orchestrate(context.Background(), RunConfig{
		Config: Config{
			Descriptor: desc,
			ObjectID:   "object-1",
			Workers:    2,
			Sources: CandidateSources{
				UserWordlist: "wordlist-1",
			},
		},
		FileStore:     fs,
		ArtifactStore: artifacts,
		TagStore:      tags,
		Notifier:      notifier,
		Progress:      ports.NullProgress{},
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeFound, result.Outcome)
	require.Equal(t, "hunter2", result.Password)

	found, ok, err := artifacts.GetAttribute(context.Background(), "object-1", ports.AttrFoundPassword)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hunter2", found)

	tried, ok, err := artifacts.GetAttribute(context.Background(), "object-1", ports.AttrTriedPassword)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, tried, "hunter2")

	require.Contains(t, notifier.infos, "Password found")
}

func TestOrchestrateNotFoundWhenWordlistMisses(t *testing.T) {
	fs := ports.NewMemoryFileStore()
	fs.Put("wordlist-1", []byte("aaa\nbbb\nccc\n"), "text/plain", ".txt")
	artifacts := ports.NewMemoryArtifactStore()
	tags := ports.NewMemoryTagStore()
	notifier := &recordingNotifier{}

	desc := buildZipCryptoDesc("hunter2")

	result, err := Orchestrate(context.Background(), RunConfig{
		Config: Config{
			Descriptor: desc,
			ObjectID:   "object-2",
			Workers:    1,
			Sources: CandidateSources{
				UserWordlist: "wordlist-1",
			},
		},
		FileStore:     fs,
		ArtifactStore: artifacts,
		TagStore:      tags,
		Notifier:      notifier,
		Progress:      ports.NullProgress{},
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeNotFound, result.Outcome)

	tried, ok, err := artifacts.GetAttribute(context.Background(), "object-2", ports.AttrTriedPassword)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, tried, "aaa")
	require.Contains(t, tried, "bbb")
	require.Contains(t, tried, "ccc")
}

// TestOrchestrateRetryAfterNotFoundSkipsExhaustedCandidates exercises
// spec §3 Lifecycle / §5: a second run against the same object must not
// re-test a candidate the first run already exhausted, even though the
// first run never found a password.
func TestOrchestrateRetryAfterNotFoundSkipsExhaustedCandidates(t *testing.T) {
	fs := ports.NewMemoryFileStore()
	fs.Put("wordlist-1", []byte("aaa\nbbb\nccc\n"), "text/plain", ".txt")
	artifacts := ports.NewMemoryArtifactStore()
	tags := ports.NewMemoryTagStore()

	desc := buildZipCryptoDesc("hunter2")
	cfg := func() RunConfig {
		return RunConfig{
			Config: Config{
				Descriptor: desc,
				ObjectID:   "object-2b",
				Workers:    1,
				Sources: CandidateSources{
					UserWordlist: "wordlist-1",
				},
			},
			FileStore:     fs,
			ArtifactStore: artifacts,
			TagStore:      tags,
			Notifier:      &recordingNotifier{},
			Progress:      ports.NullProgress{},
		}
	}

	result, err := Orchestrate(context.Background(), cfg())
	require.NoError(t, err)
	require.Equal(t, OutcomeNotFound, result.Outcome)

	candidates, err := BuildCandidates(context.Background(), fs, tags, CandidateSources{UserWordlist: "wordlist-1"})
	require.NoError(t, err)
	remaining, err := SubtractTried(context.Background(), artifacts, "object-2b", candidates)
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestOrchestrateRejectsNonPlainTextWordlist(t *testing.T) {
	fs := ports.NewMemoryFileStore()
	fs.Put("wordlist-1", []byte("binary junk"), "application/octet-stream", ".bin")
	artifacts := ports.NewMemoryArtifactStore()
	tags := ports.NewMemoryTagStore()

	desc := buildZipCryptoDesc("hunter2")

	_, err := Orchestrate(context.Background(), RunConfig{
		Config: Config{
			Descriptor: desc,
			ObjectID:   "object-3",
			Workers:    1,
			Sources: CandidateSources{
				UserWordlist: "wordlist-1",
			},
		},
		FileStore:     fs,
		ArtifactStore: artifacts,
		TagStore:      tags,
		Notifier:      &recordingNotifier{},
		Progress:      ports.NullProgress{},
	})
	require.ErrorIs(t, err, ErrNotPlainText)
}
