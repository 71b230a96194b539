// Package luks extracts header metadata from a LUKS1 or LUKS2 volume
// (spec.md §4.4 / C7): cipher, mode, hash, key size, active key slots,
// and volume UUID. Like bitlocker, there is no password verifier here —
// LUKS password cracking is an explicit non-goal; this is read-only
// metadata extraction.
//
// The LUKS2 JSON metadata area is parsed with the standard library's
// encoding/json rather than a LUKS-aware decrypt library: the one LUKS
// library found in the retrieved corpus (containers/luksy, used by
// jesseduffield/lazydocker's vendor tree) is built around opening and
// decrypting a live dm-crypt volume through a io.ReaderAt, which is a
// materially larger contract than this package needs. Its on-disk
// header layout is still what grounds the byte offsets below.
package luks

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"strings"

	"forgecrack/internal/descriptor"
)

var (
	// ErrNotLUKS is returned when the 4-byte "LUKS" signature is absent.
	ErrNotLUKS = errors.New("luks: signature not found")
	// ErrUnsupportedVersion covers any version other than 1 or 2.
	ErrUnsupportedVersion = errors.New("luks: unsupported header version")
	ErrTruncated          = errors.New("luks: header truncated")
)

var luksSignature = [4]byte{0x4C, 0x55, 0x4B, 0x53} // "LUKS"

const (
	v1OffCipherName = 8
	v1OffCipherMode = 40
	v1OffHash       = 72
	v1OffKeyBytes   = 108
	v1OffUUID       = 168
	v1FieldLen      = 32
	v1UUIDLen       = 40
	v1KeySlotStart  = 208
	v1KeySlotLen    = 48
	v1KeySlotActive = 0x00AC71F3
	v1NumKeySlots   = 8

	v2OffJSONSize = 8
	v2JSONOffset  = 4096
)

// Parse reads LUKS header metadata from raw volume bytes.
func Parse(raw []byte) (descriptor.LuksInfo, error) {
	if len(raw) < 8 {
		return descriptor.LuksInfo{}, ErrTruncated
	}
	if !equalBytes(raw[0:4], luksSignature[:]) {
		return descriptor.LuksInfo{}, ErrNotLUKS
	}
	version := binary.BigEndian.Uint16(raw[6:8])

	switch version {
	case 1:
		return parseV1(raw)
	case 2:
		return parseV2(raw)
	default:
		return descriptor.LuksInfo{}, ErrUnsupportedVersion
	}
}

func parseV1(raw []byte) (descriptor.LuksInfo, error) {
	if len(raw) < v1KeySlotStart+v1NumKeySlots*v1KeySlotLen {
		return descriptor.LuksInfo{}, ErrTruncated
	}

	info := descriptor.LuksInfo{Version: 1}
	info.Cipher = trimASCIIField(raw[v1OffCipherName : v1OffCipherName+v1FieldLen])
	info.Mode = trimASCIIField(raw[v1OffCipherMode : v1OffCipherMode+v1FieldLen])
	info.Hash = trimASCIIField(raw[v1OffHash : v1OffHash+v1FieldLen])
	info.KeySizeBits = int(binary.BigEndian.Uint32(raw[v1OffKeyBytes:v1OffKeyBytes+4])) * 8
	info.GUID = trimASCIIField(raw[v1OffUUID : v1OffUUID+v1UUIDLen])

	for i := 0; i < v1NumKeySlots; i++ {
		slotOff := v1KeySlotStart + i*v1KeySlotLen
		marker := binary.BigEndian.Uint32(raw[slotOff : slotOff+4])
		if marker == v1KeySlotActive {
			info.ActiveSlots = append(info.ActiveSlots, i)
		}
	}
	return info, nil
}

// luks2Header mirrors the handful of fields this package reads out of
// the LUKS2 JSON metadata area; cryptsetup's full schema carries far
// more (tokens, config, per-segment integrity settings) that metadata
// extraction here has no use for.
type luks2Header struct {
	Keyslots map[string]struct {
		KeySize int `json:"key_size"`
	} `json:"keyslots"`
	Segments map[string]struct {
		Encryption string `json:"encryption"`
	} `json:"segments"`
	Digests map[string]struct {
		Hash string `json:"hash"`
	} `json:"digests"`
}

func parseV2(raw []byte) (descriptor.LuksInfo, error) {
	if len(raw) < v2OffJSONSize+8 {
		return descriptor.LuksInfo{}, ErrTruncated
	}
	jsonSize := binary.BigEndian.Uint64(raw[v2OffJSONSize : v2OffJSONSize+8])
	start := v2JSONOffset
	end := start + int(jsonSize)
	if end > len(raw) || start > len(raw) {
		return descriptor.LuksInfo{}, ErrTruncated
	}
	jsonBlob := raw[start:end]
	// The JSON area is NUL-padded to its declared size; json.Unmarshal
	// rejects trailing bytes after the value, so the padding is trimmed
	// first.

	var hdr luks2Header
	if err := json.Unmarshal(trimTrailingNULs(jsonBlob), &hdr); err != nil {
		return descriptor.LuksInfo{}, errWrap(ErrTruncated, err)
	}

	info := descriptor.LuksInfo{Version: 2}

	for idxStr, slot := range hdr.Keyslots {
		idx, err := parseSlotIndex(idxStr)
		if err != nil {
			continue
		}
		info.ActiveSlots = append(info.ActiveSlots, idx)
		if info.KeySizeBits == 0 {
			info.KeySizeBits = slot.KeySize * 8
		}
	}
	sortInts(info.ActiveSlots)

	if seg, ok := firstSegment(hdr.Segments); ok {
		cipher, mode, _ := strings.Cut(seg, "-")
		info.Cipher = cipher
		info.Mode = mode
	}
	if hash, ok := firstDigestHash(hdr.Digests); ok {
		info.Hash = hash
	}
	return info, nil
}

func firstSegment(m map[string]struct {
	Encryption string `json:"encryption"`
}) (string, bool) {
	for _, idx := range sortedKeys(m) {
		return m[idx].Encryption, true
	}
	return "", false
}

func firstDigestHash(m map[string]struct {
	Hash string `json:"hash"`
}) (string, bool) {
	for _, idx := range sortedKeys(m) {
		return m[idx].Hash, true
	}
	return "", false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func parseSlotIndex(s string) (int, error) {
	n := 0
	if s == "" {
		return 0, ErrTruncated
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, ErrTruncated
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func trimASCIIField(b []byte) string {
	i := 0
	for i < len(b) && b[i] != 0 {
		i++
	}
	return string(b[:i])
}

func trimTrailingNULs(b []byte) []byte {
	i := len(b)
	for i > 0 && b[i-1] == 0 {
		i--
	}
	return b[:i]
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func errWrap(sentinel, cause error) error {
	return errors.New(sentinel.Error() + ": " + cause.Error())
}
