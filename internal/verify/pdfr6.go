package verify

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/sha512"
	"math/big"

	"forgecrack/internal/descriptor"
)

// PDFv6Verifier implements C11: ISO 32000-2 Algorithm 2.B plus the
// user/owner entry points (Algorithms 11, 12), for PDF revision 6.
// Passwords are raw UTF-8 bytes; there is no 32-byte padding step.
type PDFv6Verifier struct {
	desc descriptor.PDFDescV6
}

func NewPDFv6(desc descriptor.PDFDescV6) *PDFv6Verifier {
	return &PDFv6Verifier{desc: desc}
}

func (v *PDFv6Verifier) Verify(password string) (bool, error) {
	pass := []byte(password)
	if len(pass) > 127 {
		pass = pass[:127]
	}

	// Algorithm 11: user password check.
	userSalt := v.desc.UKey[32:40]
	userHash := alg2b(append(append([]byte{}, pass...), userSalt...), pass, nil)
	if constEqual(userHash, v.desc.UKey[:32]) {
		return true, nil
	}

	// Algorithm 12: owner password check.
	ownerSalt := v.desc.OKey[32:40]
	ownerInput := append(append([]byte{}, pass...), ownerSalt...)
	ownerInput = append(ownerInput, v.desc.UKey[:48]...)
	ownerHash := alg2b(ownerInput, pass, v.desc.UKey[:48])
	if constEqual(ownerHash, v.desc.OKey[:32]) {
		return true, nil
	}
	return false, nil
}

// alg2b is ISO 32000-2 Algorithm 2.B: the iterated hash-then-AES-CBC
// password hash used by both the user and owner checks. extra is the
// 48-byte U string appended for the owner variant (nil for the user
// variant), per spec §4.8.
func alg2b(initialInput, pass, extra []byte) []byte {
	K := sha256Sum(initialInput)

	for round := 0; ; round++ {
		k0 := make([]byte, 0, len(pass)+len(K)+len(extra))
		k0 = append(k0, pass...)
		k0 = append(k0, K...)
		k0 = append(k0, extra...)

		k1 := make([]byte, len(k0)*64)
		for i := 0; i < 64; i++ {
			copy(k1[i*len(k0):], k0)
		}

		block, err := aes.NewCipher(K[0:16])
		if err != nil {
			return nil
		}
		cbc := cipher.NewCBCEncrypter(block, K[16:32])
		e := make([]byte, len(k1))
		cbc.CryptBlocks(e, k1)

		mod := new(big.Int).Mod(new(big.Int).SetBytes(e[0:16]), big.NewInt(3)).Int64()
		switch mod {
		case 0:
			K = sha256Sum(e)
		case 1:
			K = sha384Sum(e)
		default:
			K = sha512Sum(e)
		}

		if round >= 64 && int(e[len(e)-1]) <= round-32 {
			break
		}
	}
	return K[:32]
}

func sha256Sum(b []byte) []byte { s := sha256.Sum256(b); return s[:] }
func sha384Sum(b []byte) []byte { s := sha512.Sum384(b); return s[:] }
func sha512Sum(b []byte) []byte { s := sha512.Sum512(b); return s[:] }

func constEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}

func (v *PDFv6Verifier) Decrypt(password string) (string, error) {
	return "", ErrDecryptUnsupported
}
