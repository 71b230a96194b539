package byteutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEndianReaders(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	le16, err := LE16(b, 0)
	require.NoError(t, err)
	require.Equal(t, uint16(0x0201), le16)

	be16, err := BE16(b, 0)
	require.NoError(t, err)
	require.Equal(t, uint16(0x0102), be16)

	le32, err := LE32(b, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(0x04030201), le32)

	be32, err := BE32(b, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(0x01020304), be32)

	le64, err := LE64(b, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0807060504030201), le64)

	be64, err := BE64(b, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), be64)

	_, err = LE32(b, 6)
	require.ErrorIs(t, err, ErrShortBuffer)
}

func TestHexRoundTrip(t *testing.T) {
	raw := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x0A}
	enc := BytesToHex(raw)
	require.Equal(t, "deadbeef000a", enc)

	dec, err := HexToBytes("DEADBEEF000A")
	require.NoError(t, err)
	require.Equal(t, raw, dec)

	dec2, err := HexToBytes(enc)
	require.NoError(t, err)
	require.Equal(t, raw, dec2)

	_, err = HexToBytes("abc")
	require.Error(t, err)
	_, err = HexToBytes("zz")
	require.Error(t, err)
}

func TestBinRoundTrip(t *testing.T) {
	raw := []byte{0xFF, 0x00, 0x0F}
	enc := BytesToBin(raw)
	require.Equal(t, "111111110000000000001111", enc)

	dec, err := BinToBytes(enc)
	require.NoError(t, err)
	require.Equal(t, raw, dec)

	_, err = BinToBytes("101")
	require.Error(t, err)
	_, err = BinToBytes("1012")
	require.Error(t, err)
}

// R1: dos_time_decode(dos_time_encode(h:m:s)) = h:m:s for even seconds.
func TestDOSTimeRoundTripEvenSeconds(t *testing.T) {
	for s := 0; s < 60; s += 2 {
		tm := time.Date(2024, time.March, 15, 13, 37, s, 0, time.UTC)
		dt, dd := EncodeDOSTime(tm)
		got := DecodeDOSTime(dt, dd)
		require.Equal(t, 2024, got.Year)
		require.Equal(t, 3, got.Month)
		require.Equal(t, 15, got.Day)
		require.Equal(t, 13, got.Hour)
		require.Equal(t, 37, got.Minute)
		require.Equal(t, s, got.Second)
	}
}

func TestDOSTimeEncodeDropsOddSecondBit(t *testing.T) {
	tm := time.Date(2024, time.March, 15, 13, 37, 41, 0, time.UTC)
	dt, _ := EncodeDOSTime(tm)
	got := DecodeDOSTime(dt, 0)
	require.Equal(t, 40, got.Second)
}

func TestFiletimeToUnix(t *testing.T) {
	// 2024-01-01T00:00:00Z in Windows FILETIME.
	const ft2024 = 133485408000000000
	got := FiletimeToUnix(ft2024)
	want := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
	require.Equal(t, want, got)

	require.Equal(t, int64(0), FiletimeToUnix(0))
}
