// Package zipfmt locates the EOCD and central directory of a ZIP archive
// and classifies each entry's encryption without decompressing payloads,
// per spec.md §4.1 / APPNOTE §§4.3.7, 4.3.12, 4.3.16.
//
// The byte-offset walk here is adapted from the teacher's
// internal/verifier/zipheader.go, generalized from "find the single
// smallest ZipCrypto entry" to "classify every entry" so AES, strong,
// and plain entries are all represented.
package zipfmt

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"forgecrack/internal/byteutil"
	"forgecrack/internal/descriptor"
)

const (
	sigEOCD       = 0x06054b50
	sigCentralDir = 0x02014b50
	sigLocalFile  = 0x04034b50

	eocdMinLen = 22
	cdEntryLen = 46
	aesExtraID = 0x9901
)

// Encryption classifies how an entry's payload is protected.
type Encryption int

const (
	EncryptionNone Encryption = iota
	EncryptionZipCrypto
	EncryptionStrong // bit 6 set: PKWARE Strong Encryption, metadata only
	EncryptionAES    // compression method 99 + 0x9901 extra field
)

// Entry is one classified central-directory record.
type Entry struct {
	Name               string
	IsDir              bool
	CompressionMethod  uint16 // real method, resolved from the AES extra field when applicable
	GeneralPurposeFlag uint16
	CRC32              uint32
	DOSTime            uint16
	DOSDate            uint16
	UncompressedSize   uint32
	LocalHeaderOffset  uint32
	FileNameLen        uint16
	ExtraLen           uint16

	Encryption  Encryption
	AESStrength descriptor.AESStrength // valid iff Encryption == EncryptionAES
}

// Archive is the parsed shape of a ZIP file: every central-directory
// entry plus the EOCD comment.
type Archive struct {
	Entries []Entry
	Comment []byte
}

// Parse scans data (a whole ZIP file in memory) and returns its
// classified entries. It never decompresses payload bytes.
func Parse(data []byte) (*Archive, error) {
	eocdOff, err := findEOCD(data)
	if err != nil {
		return nil, err
	}

	diskNum, err := byteutil.LE16(data, eocdOff+4)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedArchive, "truncated EOCD")
	}
	cdDiskNum, _ := byteutil.LE16(data, eocdOff+6)
	cdRecordsOnDisk, _ := byteutil.LE16(data, eocdOff+8)
	cdRecordsTotal, _ := byteutil.LE16(data, eocdOff+10)
	cdSize, _ := byteutil.LE32(data, eocdOff+12)
	cdOffset, _ := byteutil.LE32(data, eocdOff+16)
	commentLen, _ := byteutil.LE16(data, eocdOff+20)

	if cdRecordsOnDisk != cdRecordsTotal ||
		diskNum == 0xFFFF || cdDiskNum == 0xFFFF ||
		cdRecordsOnDisk == 0xFFFF || cdRecordsTotal == 0xFFFF ||
		cdSize == 0xFFFFFFFF || cdOffset == 0xFFFFFFFF {
		return nil, errors.Wrap(ErrUnsupported, "split archive or Zip64 sentinel present")
	}

	commentStart := eocdOff + eocdMinLen
	var comment []byte
	if commentStart+int(commentLen) <= len(data) {
		comment = data[commentStart : commentStart+int(commentLen)]
	}

	entries := make([]Entry, 0, cdRecordsTotal)
	off := int(cdOffset)
	for i := uint16(0); i < cdRecordsTotal; i++ {
		if off+cdEntryLen > len(data) {
			return nil, errors.Wrap(ErrMalformedArchive, "central directory truncated")
		}
		sig, _ := byteutil.LE32(data, off)
		if sig != sigCentralDir {
			return nil, errors.Wrap(ErrMalformedArchive, "missing central directory signature")
		}

		gpFlag, _ := byteutil.LE16(data, off+8)
		method, _ := byteutil.LE16(data, off+10)
		dosTime, _ := byteutil.LE16(data, off+12)
		dosDate, _ := byteutil.LE16(data, off+14)
		crc32v, _ := byteutil.LE32(data, off+16)
		uncompSize, _ := byteutil.LE32(data, off+24)
		fileNameLen, _ := byteutil.LE16(data, off+28)
		extraLen, _ := byteutil.LE16(data, off+30)
		commentLen2, _ := byteutil.LE16(data, off+32)
		localHdrOffset, _ := byteutil.LE32(data, off+42)

		nameStart := off + cdEntryLen
		if nameStart+int(fileNameLen) > len(data) {
			return nil, errors.Wrap(ErrMalformedArchive, "truncated file name")
		}
		name := string(data[nameStart : nameStart+int(fileNameLen)])

		extraStart := nameStart + int(fileNameLen)
		var extra []byte
		if extraStart+int(extraLen) <= len(data) {
			extra = data[extraStart : extraStart+int(extraLen)]
		}

		e := Entry{
			Name:               name,
			IsDir:              len(name) > 0 && name[len(name)-1] == '/',
			CompressionMethod:  method,
			GeneralPurposeFlag: gpFlag,
			CRC32:              crc32v,
			DOSTime:            dosTime,
			DOSDate:            dosDate,
			UncompressedSize:   uncompSize,
			LocalHeaderOffset:  localHdrOffset,
			FileNameLen:        fileNameLen,
			ExtraLen:           extraLen,
		}
		classifyEncryption(&e, extra)
		entries = append(entries, e)

		off = extraStart + int(extraLen) + int(commentLen2)
	}

	return &Archive{Entries: entries, Comment: comment}, nil
}

// classifyEncryption fills Entry.Encryption (and AESStrength) per
// spec §4.1 step 5.
func classifyEncryption(e *Entry, extra []byte) {
	if e.GeneralPurposeFlag&0x01 == 0 {
		e.Encryption = EncryptionNone
		return
	}
	if e.GeneralPurposeFlag&0x40 != 0 {
		e.Encryption = EncryptionStrong
		return
	}
	if e.CompressionMethod == 99 {
		strength, realMethod, ok := parseAESExtra(extra)
		if ok {
			e.Encryption = EncryptionAES
			e.AESStrength = strength
			e.CompressionMethod = realMethod
			return
		}
		// Declared AES but no 0x9901 record found: classify as
		// EncryptionStrong (uncrackable here) rather than silently
		// dropping encryption.
		e.Encryption = EncryptionStrong
		return
	}
	e.Encryption = EncryptionZipCrypto
}

// parseAESExtra scans the variable-length extra field for the WinZip AES
// header (id 0x9901, little-endian) per spec §4.1 step 5.
func parseAESExtra(extra []byte) (strength descriptor.AESStrength, realMethod uint16, ok bool) {
	off := 0
	for off+4 <= len(extra) {
		id := binary.LittleEndian.Uint16(extra[off:])
		size := binary.LittleEndian.Uint16(extra[off+2:])
		dataStart := off + 4
		dataEnd := dataStart + int(size)
		if dataEnd > len(extra) {
			return 0, 0, false
		}
		if id == aesExtraID && size >= 7 {
			block := extra[dataStart:dataEnd]
			// version (2) | "AE" vendor id (2) | strength byte (1) | actual compression method (2)
			strengthByte := block[4]
			switch strengthByte {
			case 1:
				strength = descriptor.AES128
			case 2:
				strength = descriptor.AES192
			case 3:
				strength = descriptor.AES256
			default:
				return 0, 0, false
			}
			realMethod = binary.LittleEndian.Uint16(block[5:7])
			return strength, realMethod, true
		}
		off = dataEnd
	}
	return 0, 0, false
}

// findEOCD scans backward from file_size-22 for the EOCD signature,
// continuing further back when a comment is present, per spec §4.1
// step 1. Passing offset 0 without a match is ErrMalformedArchive.
func findEOCD(data []byte) (int, error) {
	if len(data) < eocdMinLen {
		return 0, errors.Wrap(ErrMalformedArchive, "file shorter than minimum EOCD length")
	}
	for i := len(data) - eocdMinLen; i >= 0; i-- {
		v, err := byteutil.LE32(data, i)
		if err != nil {
			continue
		}
		if v == sigEOCD {
			return i, nil
		}
	}
	return 0, errors.Wrap(ErrMalformedArchive, "end of central directory not found")
}

// LocalHeaderDataOffset returns the byte offset of an entry's payload
// (the 12-byte ZipCrypto header or AES salt+verifier for encrypted
// entries), i.e. just past the local file header's fixed fields, file
// name, and extra field.
func LocalHeaderDataOffset(data []byte, e Entry) (int, error) {
	off := int(e.LocalHeaderOffset)
	if off+30 > len(data) {
		return 0, errors.Wrap(ErrMalformedArchive, "local header offset out of range")
	}
	sig, _ := byteutil.LE32(data, off)
	if sig != sigLocalFile {
		return 0, errors.Wrap(ErrMalformedArchive, "missing local file header signature")
	}
	fileNameLen, _ := byteutil.LE16(data, off+26)
	extraLen, _ := byteutil.LE16(data, off+28)
	return off + 30 + int(fileNameLen) + int(extraLen), nil
}

// BuildZipCryptoDescriptor extracts the C8 verifier's inputs for an
// EncryptionZipCrypto entry, per spec §3's invariant: the check byte is
// the CRC high byte unless bit 3 (streaming data descriptor) is set, in
// which case it's the DOS-time high byte.
func BuildZipCryptoDescriptor(archivePath string, data []byte, e Entry) (descriptor.ZipCryptoDesc, error) {
	usesDataDescriptor := e.GeneralPurposeFlag&0x08 != 0
	var checkByte byte
	if usesDataDescriptor {
		checkByte = byte(e.DOSTime >> 8)
	} else {
		checkByte = byte(e.CRC32 >> 24)
	}

	dataOff, err := LocalHeaderDataOffset(data, e)
	if err != nil {
		return descriptor.ZipCryptoDesc{}, err
	}
	if dataOff+12 > len(data) {
		return descriptor.ZipCryptoDesc{}, errors.Wrap(ErrMalformedArchive, "truncated ZipCrypto header")
	}
	var hdr [12]byte
	copy(hdr[:], data[dataOff:dataOff+12])

	return descriptor.ZipCryptoDesc{
		ArchivePath:        archivePath,
		EntryPath:          e.Name,
		LocalHdrOffset:     e.LocalHeaderOffset,
		GPFlagBits:         e.GeneralPurposeFlag,
		CheckByte:          checkByte,
		UsesDataDescriptor: usesDataDescriptor,
		EncryptedHeader:    hdr,
	}, nil
}

// BuildZipAESDescriptor extracts the C9 verifier's inputs (salt, 2-byte
// password-verification value) for an EncryptionAES entry.
func BuildZipAESDescriptor(archivePath string, data []byte, e Entry) (descriptor.ZipAESDesc, error) {
	dataOff, err := LocalHeaderDataOffset(data, e)
	if err != nil {
		return descriptor.ZipAESDesc{}, err
	}
	saltLen := e.AESStrength.SaltLen()
	if dataOff+saltLen+2 > len(data) {
		return descriptor.ZipAESDesc{}, errors.Wrap(ErrMalformedArchive, "truncated AES salt/verifier")
	}
	salt := make([]byte, saltLen)
	copy(salt, data[dataOff:dataOff+saltLen])
	var pv [2]byte
	copy(pv[:], data[dataOff+saltLen:dataOff+saltLen+2])
	return descriptor.ZipAESDesc{
		ArchivePath:    archivePath,
		EntryPath:      e.Name,
		LocalHdrOffset: e.LocalHeaderOffset,
		Strength:       e.AESStrength,
		Salt:           salt,
		Verifier:       pv,
	}, nil
}
