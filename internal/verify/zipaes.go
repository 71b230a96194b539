package verify

import (
	"crypto/sha1"
	"crypto/subtle"

	"golang.org/x/crypto/pbkdf2"

	"forgecrack/internal/descriptor"
)

// ZipAESVerifier implements C9: WinZip AE-1/AE-2 (spec §4.6).
type ZipAESVerifier struct {
	desc descriptor.ZipAESDesc
}

func NewZipAES(desc descriptor.ZipAESDesc) *ZipAESVerifier {
	return &ZipAESVerifier{desc: desc}
}

// Verify derives PBKDF2-HMAC-SHA1(password, salt, 1000 iterations) and
// compares its trailing 2 bytes to the stored password-verification
// value, then runs the library-assisted secondary check on a match, as
// with ZipCrypto (spec §4.6 step 2).
func (v *ZipAESVerifier) Verify(password string) (bool, error) {
	if !v.fastCheck(password) {
		return false, nil
	}
	ok, err := v.libraryCheck(password)
	if err != nil {
		return true, nil
	}
	return ok, nil
}

func (v *ZipAESVerifier) fastCheck(password string) bool {
	outLen := 2*(int(v.desc.Strength)/8) + 2
	derived := pbkdf2.Key([]byte(password), v.desc.Salt, 1000, outLen, sha1.New)
	pv := derived[len(derived)-2:]
	return subtle.ConstantTimeCompare(pv, v.desc.Verifier[:]) == 1
}

func (v *ZipAESVerifier) libraryCheck(password string) (bool, error) {
	ver := &ZipCryptoVerifier{desc: zipCryptoDescFromAES(v.desc)}
	return ver.libraryCheck(password)
}

// zipCryptoDescFromAES reuses the ZIP library-assisted open/decrypt path
// by borrowing only the archive/entry addressing fields; the AES
// verifier never touches the ZipCrypto-specific fields.
func zipCryptoDescFromAES(d descriptor.ZipAESDesc) descriptor.ZipCryptoDesc {
	return descriptor.ZipCryptoDesc{ArchivePath: d.ArchivePath, EntryPath: d.EntryPath}
}

func (v *ZipAESVerifier) Decrypt(password string) (string, error) {
	return decryptZipEntry(v.desc.ArchivePath, v.desc.EntryPath, password)
}
