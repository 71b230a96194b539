// Package descriptor defines the tagged FormatDescriptor variant produced
// by the format parsers (zipfmt, pdf, office, bitlocker, luks) and
// consumed by the matching verifier and the crack orchestrator.
//
// Go has no sum types, so the variant is modeled the way the teacher
// models its worker/verifier split: one capability interface (Kind,
// implemented by every concrete descriptor) plus a dispatch on Kind() in
// the orchestrator and the verifier registry. There is no virtual method
// table to build — every switch is a plain type switch.
package descriptor

// Kind tags which container format a descriptor describes.
type Kind int

const (
	KindZipCrypto Kind = iota
	KindZipAES
	KindPDFv4
	KindPDFv6
	KindOffice
	KindBitlocker
	KindLUKS
)

func (k Kind) String() string {
	switch k {
	case KindZipCrypto:
		return "ZipCrypto"
	case KindZipAES:
		return "ZipAES"
	case KindPDFv4:
		return "PDF-R2-R4"
	case KindPDFv6:
		return "PDF-R6"
	case KindOffice:
		return "Office"
	case KindBitlocker:
		return "BitLocker"
	case KindLUKS:
		return "LUKS"
	default:
		return "Unknown"
	}
}

// Descriptor is implemented by every concrete FormatDescriptor. It is
// intentionally minimal: the verifiers type-switch on the concrete type,
// not on this interface, to keep field access typed.
type Descriptor interface {
	Kind() Kind
}

// AESStrength is the ZIP-AES key size in bits, per spec §3.
type AESStrength int

const (
	AES128 AESStrength = 128
	AES192 AESStrength = 192
	AES256 AESStrength = 256
)

// SaltLen returns the expected salt length in bytes for the strength,
// per spec invariant "salt.len == aes_strength / 16".
func (s AESStrength) SaltLen() int { return int(s) / 16 }

// ZipCryptoDesc describes a PKWARE traditional-encryption ZIP entry.
type ZipCryptoDesc struct {
	ArchivePath    string
	EntryPath      string
	LocalHdrOffset uint32
	GPFlagBits     uint16
	// CheckByte is either the CRC-32's high byte or the DOS-time high
	// byte, per spec invariant: exactly one of those two is the source,
	// selected by GPFlagBits bit 3 (the streaming data-descriptor bit).
	CheckByte byte
	// UsesDataDescriptor records which of the two the CheckByte came
	// from, purely for diagnostics; verification only needs CheckByte.
	UsesDataDescriptor bool
	// EncryptedHeader is the 12-byte ZipCrypto encryption header read
	// from ArchivePath at LocalHdrOffset+30+filename+extra, captured at
	// parse time so the verifier's fast path never touches the disk.
	EncryptedHeader [12]byte
}

func (ZipCryptoDesc) Kind() Kind { return KindZipCrypto }

// ZipAESDesc describes a WinZip AE-1/AE-2 entry.
type ZipAESDesc struct {
	ArchivePath    string
	EntryPath      string
	LocalHdrOffset uint32
	Strength       AESStrength
	Salt           []byte // len == Strength.SaltLen()
	Verifier       [2]byte
}

func (ZipAESDesc) Kind() Kind { return KindZipAES }

// PDFDescV4 describes a PDF Standard security handler, revisions 2-4.
type PDFDescV4 struct {
	Revision          int // 2, 3, or 4
	KeyLengthBits     int
	OKey              [32]byte
	UKey              [32]byte
	Permissions       [4]byte
	DocumentID        []byte
	MetadataEncrypted bool
}

func (PDFDescV4) Kind() Kind { return KindPDFv4 }

// PDFDescV6 describes a PDF Standard security handler, revision 6
// (ISO 32000-2). Permissions (/P, /Perms) are not carried: verification
// uses only the O and U entries and does not check permissions.
type PDFDescV6 struct {
	OKey [48]byte
	UKey [48]byte
}

func (PDFDescV6) Kind() Kind { return KindPDFv6 }

// OfficeDesc describes an OLE-wrapped encrypted OOXML document.
type OfficeDesc struct {
	CipherAlgorithm string
	HashAlgorithm   string
	EncryptionMode  string // "standard" or "agile"
	// FilePath is the original OLE compound file on disk; the verifier
	// re-opens it through the delegate OOXML encryption library rather
	// than re-deriving keys itself (spec §4.9 / C12).
	FilePath string
}

func (OfficeDesc) Kind() Kind { return KindOffice }

// KeyProtector is one way to unseal a BitLocker volume master key.
type KeyProtector struct {
	GUID           string
	ProtectionType string
}

// BitlockerInfo describes a BitLocker / BitLocker-To-Go volume's FVE
// metadata. There is no password verifier for this format: metadata
// extraction only, per spec non-goals.
type BitlockerInfo struct {
	ToGo             bool
	EncryptionMethod string
	CreationEpoch    int64
	Description      string
	KeyProtectors    []KeyProtector
}

// LuksInfo describes a LUKS1 or LUKS2 volume header. Like BitLocker,
// there is no password verifier: metadata extraction only.
type LuksInfo struct {
	Version      int // 1 or 2
	Cipher       string
	Mode         string
	Hash         string
	KeySizeBits  int
	ActiveSlots  []int
	GUID         string
}
