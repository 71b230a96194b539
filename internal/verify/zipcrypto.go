package verify

import (
	"bytes"
	"errors"
	"hash/crc32"
	"io"
	"os"

	yzip "github.com/yeka/zip"

	"forgecrack/internal/descriptor"
)

// zipCryptoKeys is the three-word PKWARE stream-cipher state, per
// APPNOTE §6.1 and spec §4.5. The CRC-32 table is the stdlib's, computed
// once at package init via crc32.IEEETable rather than per verify call.
type zipCryptoKeys struct {
	k0, k1, k2 uint32
}

func newZipCryptoKeys() zipCryptoKeys {
	return zipCryptoKeys{k0: 0x12345678, k1: 0x23456789, k2: 0x34567890}
}

func crc32Step(crc uint32, b byte) uint32 {
	return (crc >> 8) ^ crc32.IEEETable[byte(crc)^b]
}

func (k *zipCryptoKeys) update(b byte) {
	k.k0 = crc32Step(k.k0, b)
	k.k1 = (k.k1+(k.k0&0xFF))*134775813 + 1
	k.k2 = crc32Step(k.k2, byte(k.k1>>24))
}

// decryptStreamByte produces one plaintext byte from one ciphertext
// byte and advances the key schedule with the plaintext, per APPNOTE
// §6.1.1-6.1.4.
func (k *zipCryptoKeys) decryptStreamByte(c byte) byte {
	temp := uint16(k.k2) | 2
	p := c ^ byte((temp*(temp^1))>>8)
	k.update(p)
	return p
}

// ZipCryptoVerifier implements C8.
type ZipCryptoVerifier struct {
	desc descriptor.ZipCryptoDesc
}

func NewZipCrypto(desc descriptor.ZipCryptoDesc) *ZipCryptoVerifier {
	return &ZipCryptoVerifier{desc: desc}
}

// Verify runs the fast 12-byte header check (spec §4.5 steps 1-4), and on
// a match, the library-assisted full decrypt (step 5) to rule out the
// ~1/256 false-positive rate inherent in the 1-byte check.
func (v *ZipCryptoVerifier) Verify(password string) (bool, error) {
	if !v.fastCheck(password) {
		return false, nil
	}
	ok, err := v.libraryCheck(password)
	if err != nil {
		// A non-wrong-password failure is swallowed per spec §4.5 step 5:
		// the fast check's acceptance stands, the caller performs the
		// final semantic check.
		return true, nil
	}
	return ok, nil
}

// fastCheck performs the PKWARE key schedule over password, decrypts the
// 12-byte encryption header, and compares the last decrypted byte to the
// descriptor's stored check byte.
func (v *ZipCryptoVerifier) fastCheck(password string) bool {
	keys := newZipCryptoKeys()
	for i := 0; i < len(password); i++ {
		keys.update(password[i])
	}
	var lastPlain byte
	for i, c := range v.desc.EncryptedHeader {
		p := keys.decryptStreamByte(c)
		if i == 11 {
			lastPlain = p
		}
	}
	return lastPlain == v.desc.CheckByte
}

// libraryCheck re-opens the archive through yeka/zip (the teacher's
// dependency) and fully decrypts the target entry, the arbiter the fast
// check alone cannot be per spec §4.5 step 5.
func (v *ZipCryptoVerifier) libraryCheck(password string) (bool, error) {
	raw, err := os.ReadFile(v.desc.ArchivePath)
	if err != nil {
		return false, &CryptoError{Format: "ZipCrypto", Err: err}
	}
	zr, err := yzip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return false, &CryptoError{Format: "ZipCrypto", Err: err}
	}
	f := findEntry(zr, v.desc.EntryPath)
	if f == nil {
		return false, &CryptoError{Format: "ZipCrypto", Err: errEntryNotFound(v.desc.EntryPath)}
	}
	f.SetPassword(password)
	rc, err := f.Open()
	if err != nil {
		if isWrongPassword(err) {
			return false, nil
		}
		return false, err
	}
	defer rc.Close()
	_, err = io.Copy(io.Discard, rc)
	if err != nil {
		if isWrongPassword(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Decrypt writes the entry's plaintext to a scratch file in a new
// temporary directory and returns its path.
func (v *ZipCryptoVerifier) Decrypt(password string) (string, error) {
	return decryptZipEntry(v.desc.ArchivePath, v.desc.EntryPath, password)
}

func findEntry(zr *yzip.Reader, name string) *yzip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// isWrongPassword reports whether err is one of yeka/zip's wrong-password
// sentinels as opposed to some other I/O or format failure. A bad
// ZipCrypto/AES password surfaces from Open/Read as ErrChecksum ("zip:
// checksum error") or ErrDecryption ("zip: decryption error"), not an
// error whose text names "password"; matching on those sentinels is
// the only reliable signal the library exposes for this case.
func isWrongPassword(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, yzip.ErrChecksum) || errors.Is(err, yzip.ErrDecryption)
}

type errEntryNotFoundT string

func (e errEntryNotFoundT) Error() string { return "verify: entry not found: " + string(e) }
func errEntryNotFound(name string) error  { return errEntryNotFoundT(name) }
