// Package office extracts password-protection metadata from OOXML
// documents wrapped in an OLE2 (CFB) compound file — the container
// Microsoft Office writes for a password-protected .docx/.xlsx/.pptx —
// without attempting to derive or verify a key itself (spec.md §4.9 /
// C5 and C12). Key derivation and verification is delegated entirely to
// xuri/excelize/v2 at crack time (internal/verify.OfficeVerifier); this
// package's job is just to recognize the container and describe which
// encryption mechanism it uses, grounded on how the excelize CFB reader
// (github.com/richardlehane/mscfb) walks the same streams.
package office

import (
	"bytes"
	"encoding/binary"
	"encoding/xml"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/richardlehane/mscfb"

	"forgecrack/internal/descriptor"
	"forgecrack/internal/strfind"
)

func init() {
	strfind.Register("ooxml", ExtractText)
}

var (
	// ErrNotOLE is returned when the file isn't a CFB/OLE2 compound
	// document at all (a plain, unencrypted OOXML zip, or garbage).
	ErrNotOLE = errors.New("office: not an OLE2 compound file")
	// ErrNoEncryptionInfo is returned when the CFB container has neither
	// an "EncryptionInfo" nor "EncryptedPackage" stream, i.e. it's an
	// OLE file but not one MS-OFFCRYPTO wrapped for password protection.
	ErrNoEncryptionInfo = errors.New("office: no EncryptionInfo/EncryptedPackage stream")
	// ErrUnsupportedMechanism covers the "extensible" MS-OFFCRYPTO
	// mechanism (custom third-party crypto providers), which no known
	// library in the ecosystem handles generically.
	ErrUnsupportedMechanism = errors.New("office: unsupported (extensible) encryption mechanism")
)

var algIDNames = map[uint32]string{
	0x0000660E: "AES-128",
	0x0000660F: "AES-192",
	0x00006610: "AES-256",
	0x00006801: "RC4",
}

// Parse opens path as an OLE2 compound file, locates its EncryptionInfo
// stream, and classifies the Office encryption mechanism (standard or
// agile) and cipher/hash pair without touching EncryptedPackage.
func Parse(path string) (descriptor.OfficeDesc, error) {
	f, err := os.Open(path)
	if err != nil {
		return descriptor.OfficeDesc{}, errors.Wrap(err, "office: open")
	}
	defer f.Close()

	desc, err := ParseReader(f)
	if err != nil {
		return descriptor.OfficeDesc{}, err
	}
	desc.FilePath = path
	return desc, nil
}

// ParseReader is Parse's core, operating on an already-open reader
// instead of a path — used by detect when the caller has already read
// the candidate file into memory to test its signature.
func ParseReader(r io.Reader) (descriptor.OfficeDesc, error) {
	doc, err := mscfb.New(r)
	if err != nil {
		return descriptor.OfficeDesc{}, errors.Wrap(ErrNotOLE, err.Error())
	}

	var encryptionInfo []byte
	sawEncryptedPackage := false
	for entry, rerr := doc.Next(); rerr == nil; entry, rerr = doc.Next() {
		switch entry.Name {
		case "EncryptionInfo":
			buf := make([]byte, entry.Size)
			_, _ = io.ReadFull(doc, buf)
			encryptionInfo = buf
		case "EncryptedPackage":
			sawEncryptedPackage = true
		}
	}
	if encryptionInfo == nil || !sawEncryptedPackage {
		return descriptor.OfficeDesc{}, ErrNoEncryptionInfo
	}

	mode, err := classifyMechanism(encryptionInfo)
	if err != nil {
		return descriptor.OfficeDesc{}, err
	}

	desc := descriptor.OfficeDesc{
		EncryptionMode: mode,
	}
	switch mode {
	case "standard":
		desc.CipherAlgorithm, desc.HashAlgorithm = standardHeaderAlgs(encryptionInfo)
	case "agile":
		desc.CipherAlgorithm, desc.HashAlgorithm = agileHeaderAlgs(encryptionInfo)
	}
	return desc, nil
}

// classifyMechanism reads the 4-byte EncryptionInfo version header
// (MS-OFFCRYPTO §2.1.4) and returns "standard" or "agile".
func classifyMechanism(info []byte) (string, error) {
	if len(info) < 4 {
		return "", ErrNoEncryptionInfo
	}
	versionMajor := binary.LittleEndian.Uint16(info[0:2])
	versionMinor := binary.LittleEndian.Uint16(info[2:4])
	switch {
	case versionMajor == 4 && versionMinor == 4:
		return "agile", nil
	case versionMajor >= 2 && versionMajor <= 4 && versionMinor == 2:
		return "standard", nil
	case (versionMajor == 3 || versionMajor == 4) && versionMinor == 3:
		return "", ErrUnsupportedMechanism
	default:
		return "", ErrUnsupportedMechanism
	}
}

// standardHeaderAlgs reads the fixed EncryptionHeader that follows the
// 8-byte version+flags prefix in the standard (non-agile) mechanism,
// and maps its AlgID to a cipher name. The hash algorithm for the
// standard mechanism is always SHA-1 (MS-OFFCRYPTO §2.3.4.5).
func standardHeaderAlgs(info []byte) (cipher, hash string) {
	if len(info) < 12 {
		return "unknown", "unknown"
	}
	headerSize := binary.LittleEndian.Uint32(info[8:12])
	start := 12
	end := start + int(headerSize)
	if end > len(info) || start+12 > len(info) {
		return "unknown", "SHA-1"
	}
	block := info[start:end]
	if len(block) < 12 {
		return "unknown", "SHA-1"
	}
	algID := binary.LittleEndian.Uint32(block[8:12])
	name, ok := algIDNames[algID]
	if !ok {
		name = "RC4"
	}
	return name, "SHA-1"
}

// agileEncryptionXML is the minimal subset of the MS-OFFCRYPTO agile
// <encryption><keyData .../></encryption> schema this package needs;
// full parsing (key encryptors, data integrity) is excelize's job.
type agileEncryptionXML struct {
	KeyData struct {
		CipherAlgorithm string `xml:"cipherAlgorithm,attr"`
		HashAlgorithm   string `xml:"hashAlgorithm,attr"`
	} `xml:"keyData"`
}

func agileHeaderAlgs(info []byte) (cipher, hash string) {
	if len(info) < 8 {
		return "unknown", "unknown"
	}
	var enc agileEncryptionXML
	if err := xml.Unmarshal(info[8:], &enc); err != nil {
		return "unknown", "unknown"
	}
	if enc.KeyData.CipherAlgorithm == "" {
		enc.KeyData.CipherAlgorithm = "unknown"
	}
	if enc.KeyData.HashAlgorithm == "" {
		enc.KeyData.HashAlgorithm = "unknown"
	}
	return enc.KeyData.CipherAlgorithm, enc.KeyData.HashAlgorithm
}

// ExtractText gives strfind a crude readable-text scan over the raw OLE
// bytes: an encrypted Office file's visible text lives inside
// EncryptedPackage and is unreadable without the password, so this just
// harvests whatever plaintext metadata streams (SummaryInformation,
// core.xml properties left outside the encrypted package on some
// writers) happen to be present. It never attempts decryption.
func ExtractText(raw []byte) (string, error) {
	doc, err := mscfb.New(bytes.NewReader(raw))
	if err != nil {
		return "", errors.Wrap(ErrNotOLE, err.Error())
	}
	var out bytes.Buffer
	for entry, rerr := doc.Next(); rerr == nil; entry, rerr = doc.Next() {
		if entry.Name == "EncryptedPackage" || entry.Name == "EncryptionInfo" {
			continue
		}
		buf := make([]byte, entry.Size)
		n, _ := io.ReadFull(doc, buf)
		out.Write(buf[:n])
		out.WriteByte(' ')
	}
	return out.String(), nil
}
