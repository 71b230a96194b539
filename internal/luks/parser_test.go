package luks

import (
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func padField(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}

func buildV1Header(cipher, mode, hash, uuid string, keyBytes uint32, activeSlots []int) []byte {
	raw := make([]byte, v1KeySlotStart+v1NumKeySlots*v1KeySlotLen)
	copy(raw[0:4], luksSignature[:])
	binary.BigEndian.PutUint16(raw[6:8], 1)

	copy(raw[v1OffCipherName:v1OffCipherName+v1FieldLen], padField(cipher, v1FieldLen))
	copy(raw[v1OffCipherMode:v1OffCipherMode+v1FieldLen], padField(mode, v1FieldLen))
	copy(raw[v1OffHash:v1OffHash+v1FieldLen], padField(hash, v1FieldLen))
	binary.BigEndian.PutUint32(raw[v1OffKeyBytes:v1OffKeyBytes+4], keyBytes)
	copy(raw[v1OffUUID:v1OffUUID+v1UUIDLen], padField(uuid, v1UUIDLen))

	active := map[int]bool{}
	for _, s := range activeSlots {
		active[s] = true
	}
	for i := 0; i < v1NumKeySlots; i++ {
		slotOff := v1KeySlotStart + i*v1KeySlotLen
		marker := uint32(0x0000DEAD)
		if active[i] {
			marker = v1KeySlotActive
		}
		binary.BigEndian.PutUint32(raw[slotOff:slotOff+4], marker)
	}
	return raw
}

func TestParseLUKS1Header(t *testing.T) {
	raw := buildV1Header("aes", "xts-plain64", "sha256", "11111111-2222-3333-4444-555555555555", 64, []int{0, 2})

	info, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, 1, info.Version)
	require.Equal(t, "aes", info.Cipher)
	require.Equal(t, "xts-plain64", info.Mode)
	require.Equal(t, "sha256", info.Hash)
	require.Equal(t, 512, info.KeySizeBits)
	require.Equal(t, "11111111-2222-3333-4444-555555555555", info.GUID)
	require.Equal(t, []int{0, 2}, info.ActiveSlots)
}

func TestParseRejectsNonLUKSSignature(t *testing.T) {
	raw := make([]byte, 16)
	_, err := Parse(raw)
	require.ErrorIs(t, err, ErrNotLUKS)
}

func TestParseRejectsUnsupportedVersion(t *testing.T) {
	raw := make([]byte, 16)
	copy(raw[0:4], luksSignature[:])
	binary.BigEndian.PutUint16(raw[6:8], 3)
	_, err := Parse(raw)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func buildV2Header(jsonBody map[string]any) []byte {
	body, _ := json.Marshal(jsonBody)
	areaSize := 8192
	padded := make([]byte, areaSize)
	copy(padded, body)

	raw := make([]byte, v2JSONOffset+areaSize)
	copy(raw[0:4], luksSignature[:])
	binary.BigEndian.PutUint16(raw[6:8], 2)
	binary.BigEndian.PutUint64(raw[v2OffJSONSize:v2OffJSONSize+8], uint64(areaSize))
	copy(raw[v2JSONOffset:], padded)
	return raw
}

func TestParseLUKS2Header(t *testing.T) {
	raw := buildV2Header(map[string]any{
		"keyslots": map[string]any{
			"0": map[string]any{"key_size": 32},
		},
		"segments": map[string]any{
			"0": map[string]any{"encryption": "aes-xts-plain64"},
		},
		"digests": map[string]any{
			"0": map[string]any{"hash": "sha256"},
		},
	})

	info, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, 2, info.Version)
	require.Equal(t, "aes", info.Cipher)
	require.Equal(t, "xts-plain64", info.Mode)
	require.Equal(t, "sha256", info.Hash)
	require.Equal(t, 256, info.KeySizeBits)
	require.Equal(t, []int{0}, info.ActiveSlots)
}
