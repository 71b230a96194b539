package zipfmt

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"forgecrack/internal/descriptor"
)

// zipBuilder hand-assembles a minimal, single-entry ZIP archive so the
// parser can be exercised without a real compressor/encryptor: every
// field the classifier reads is under direct control of the test.
type zipBuilder struct {
	name        string
	gpFlag      uint16
	method      uint16
	crc32       uint32
	dosTime     uint16
	dosDate     uint16
	payload     []byte
	extra       []byte
}

func (b zipBuilder) build() []byte {
	var buf []byte
	le16 := func(v uint16) { buf = binary.LittleEndian.AppendUint16(buf, v) }
	le32 := func(v uint32) { buf = binary.LittleEndian.AppendUint32(buf, v) }

	localOffset := 0
	le32(0x04034b50)
	le16(20)
	le16(b.gpFlag)
	le16(b.method)
	le16(b.dosTime)
	le16(b.dosDate)
	le32(b.crc32)
	le32(uint32(len(b.payload)))
	le32(uint32(len(b.payload)))
	le16(uint16(len(b.name)))
	le16(uint16(len(b.extra)))
	buf = append(buf, b.name...)
	buf = append(buf, b.extra...)
	buf = append(buf, b.payload...)

	cdOffset := len(buf)
	le32(0x02014b50)
	le16(20)
	le16(20)
	le16(b.gpFlag)
	le16(b.method)
	le16(b.dosTime)
	le16(b.dosDate)
	le32(b.crc32)
	le32(uint32(len(b.payload)))
	le32(uint32(len(b.payload)))
	le16(uint16(len(b.name)))
	le16(uint16(len(b.extra)))
	le16(0) // comment len
	le16(0) // disk number start
	le16(0) // internal attrs
	le32(0) // external attrs
	le32(uint32(localOffset))
	buf = append(buf, b.name...)
	buf = append(buf, b.extra...)
	cdSize := len(buf) - cdOffset

	le32(0x06054b50)
	le16(0)
	le16(0)
	le16(1)
	le16(1)
	le32(uint32(cdSize))
	le32(uint32(cdOffset))
	le16(0) // comment len

	return buf
}

func TestParseZipCryptoCRCCheckByte(t *testing.T) {
	data := zipBuilder{
		name:    "secret.txt",
		gpFlag:  0x0001, // encrypted, no data descriptor
		method:  0,
		crc32:   0xAABBCCDD,
		payload: make([]byte, 12+4),
	}.build()

	arc, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, arc.Entries, 1)

	e := arc.Entries[0]
	require.Equal(t, "secret.txt", e.Name)
	require.Equal(t, EncryptionZipCrypto, e.Encryption)

	desc, err := BuildZipCryptoDescriptor("archive.zip", data, e)
	require.NoError(t, err)
	require.False(t, desc.UsesDataDescriptor)
	require.Equal(t, byte(0xAA), desc.CheckByte)
}

func TestParseZipCryptoDataDescriptorUsesDOSTimeHighByte(t *testing.T) {
	data := zipBuilder{
		name:    "secret.txt",
		gpFlag:  0x0001 | 0x0008, // encrypted + streaming data descriptor
		method:  0,
		dosTime: 0xBEEF,
		crc32:   0xAABBCCDD,
		payload: make([]byte, 12),
	}.build()

	arc, err := Parse(data)
	require.NoError(t, err)
	e := arc.Entries[0]

	desc, err := BuildZipCryptoDescriptor("archive.zip", data, e)
	require.NoError(t, err)
	require.True(t, desc.UsesDataDescriptor)
	require.Equal(t, byte(0xBE), desc.CheckByte)
}

func TestParseStrongEncryptionClassifiedNotCrackable(t *testing.T) {
	data := zipBuilder{
		name:    "vault.bin",
		gpFlag:  0x0001 | 0x0040, // encrypted + strong encryption bit
		method:  0,
		payload: make([]byte, 12),
	}.build()

	arc, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, EncryptionStrong, arc.Entries[0].Encryption)
}

func TestParseAESExtraField(t *testing.T) {
	// 0x9901 extra record: id(2) size(2) version(2) "AE"(2) strength(1) method(2)
	extra := make([]byte, 0, 11)
	extra = binary.LittleEndian.AppendUint16(extra, 0x9901)
	extra = binary.LittleEndian.AppendUint16(extra, 7)
	extra = binary.LittleEndian.AppendUint16(extra, 2)
	extra = append(extra, 'A', 'E')
	extra = append(extra, 3) // AES-256
	extra = binary.LittleEndian.AppendUint16(extra, 8)

	data := zipBuilder{
		name:    "cipher.bin",
		gpFlag:  0x0001,
		method:  99,
		extra:   extra,
		payload: make([]byte, 16+2),
	}.build()

	arc, err := Parse(data)
	require.NoError(t, err)
	e := arc.Entries[0]
	require.Equal(t, EncryptionAES, e.Encryption)
	require.Equal(t, descriptor.AES256, e.AESStrength)
	require.Equal(t, uint16(8), e.CompressionMethod)

	desc, err := BuildZipAESDescriptor("archive.zip", data, e)
	require.NoError(t, err)
	require.Len(t, desc.Salt, 16)
	require.Equal(t, descriptor.AES256, desc.Strength)
}

func TestParseRejectsMissingEOCD(t *testing.T) {
	_, err := Parse([]byte("not a zip"))
	require.ErrorIs(t, err, ErrMalformedArchive)
}

func TestParseRejectsZip64Sentinel(t *testing.T) {
	data := zipBuilder{name: "a.txt", payload: []byte("hi")}.build()
	// Corrupt the EOCD's cd-records-total field to the Zip64 sentinel.
	eocdOff := len(data) - eocdMinLen
	binary.LittleEndian.PutUint16(data[eocdOff+10:], 0xFFFF)
	_, err := Parse(data)
	require.ErrorIs(t, err, ErrUnsupported)
}
