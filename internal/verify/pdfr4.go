package verify

import (
	"bytes"
	"crypto/md5"
	"crypto/rc4"

	"forgecrack/internal/descriptor"
)

// pdfPadding is the fixed 32-byte password pad of ISO 32000-1 Algorithm 2,
// reused verbatim by every revision-2-through-4 operation below.
var pdfPadding = [32]byte{
	0x28, 0xBF, 0x4E, 0x5E, 0x4E, 0x75, 0x8A, 0x41, 0x64, 0x00, 0x4E,
	0x56, 0xFF, 0xFA, 0x01, 0x08, 0x2E, 0x2E, 0x00, 0xB6, 0xD0, 0x68,
	0x3E, 0x80, 0x2F, 0x0C, 0xA9, 0xFE, 0x64, 0x53, 0x69, 0x7A,
}

// PDFv4Verifier implements C10: ISO 32000-1 Algorithms 2-7, revisions 2-4.
type PDFv4Verifier struct {
	desc descriptor.PDFDescV4
}

func NewPDFv4(desc descriptor.PDFDescV4) *PDFv4Verifier {
	return &PDFv4Verifier{desc: desc}
}

// Verify checks password first as a user password, then as an owner
// password (spec §4.7): a wrong answer on one side doesn't preclude the
// other, and either succeeding authenticates the candidate.
func (v *PDFv4Verifier) Verify(password string) (bool, error) {
	if v.checkUserPassword([]byte(password)) {
		return true, nil
	}
	return v.checkOwnerPassword([]byte(password)), nil
}

// padPassword takes the first 32 bytes of pass, right-padding with the
// leading bytes of pdfPadding when shorter (Algorithm 2 step a).
func padPassword(pass []byte) []byte {
	out := make([]byte, 32)
	n := copy(out, pass)
	if n > 32 {
		n = 32
	}
	copy(out[n:], pdfPadding[:32-n])
	return out
}

// alg2 computes the file encryption key for a candidate user password
// (Algorithm 2).
func (v *PDFv4Verifier) alg2(pass []byte) []byte {
	d := v.desc
	h := md5.New()
	h.Write(padPassword(pass))
	h.Write(d.OKey[:])
	h.Write(d.Permissions[:])
	h.Write(d.DocumentID)
	if d.Revision >= 4 && !d.MetadataEncrypted {
		h.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	}
	sum := h.Sum(nil)

	keyLen := 5
	if d.Revision >= 3 {
		keyLen = d.KeyLengthBits / 8
		for i := 0; i < 50; i++ {
			h2 := md5.New()
			h2.Write(sum[:keyLen])
			sum = h2.Sum(nil)
		}
	}
	return sum[:keyLen]
}

// alg3Key derives the RC4 key used to wrap/unwrap the owner password
// (Algorithm 3 steps a-b), keyed on pass as given.
func (v *PDFv4Verifier) alg3Key(pass []byte) []byte {
	h := md5.New()
	h.Write(padPassword(pass))
	sum := h.Sum(nil)
	if v.desc.Revision >= 3 {
		for i := 0; i < 50; i++ {
			h2 := md5.New()
			h2.Write(sum)
			sum = h2.Sum(nil)
		}
	}
	if v.desc.Revision == 2 {
		return sum[:5]
	}
	return sum[:v.desc.KeyLengthBits/8]
}

// alg4 computes computed-U for revision 2 (Algorithm 4): RC4(key, pad).
func alg4(fileKey []byte) ([]byte, error) {
	c, err := rc4.NewCipher(fileKey)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 32)
	c.XORKeyStream(out, pdfPadding[:])
	return out, nil
}

// alg5 computes computed-U for revision >= 3 (Algorithm 5): MD5(pad, ID),
// RC4 with fileKey, then 19 rounds of RC4 with fileKey XOR round index.
func alg5(fileKey []byte, documentID []byte) ([]byte, error) {
	h := md5.New()
	h.Write(pdfPadding[:])
	h.Write(documentID)
	digest := h.Sum(nil)

	c, err := rc4.NewCipher(fileKey)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 16)
	c.XORKeyStream(out, digest)

	round := make([]byte, len(fileKey))
	for i := 1; i <= 19; i++ {
		for j := range fileKey {
			round[j] = fileKey[j] ^ byte(i)
		}
		rc, err := rc4.NewCipher(round)
		if err != nil {
			return nil, err
		}
		rc.XORKeyStream(out, out)
	}
	return out, nil
}

// checkUserPassword implements Algorithm 6.
func (v *PDFv4Verifier) checkUserPassword(pass []byte) bool {
	fileKey := v.alg2(pass)
	var computed []byte
	var err error
	if v.desc.Revision == 2 {
		computed, err = alg4(fileKey)
	} else {
		computed, err = alg5(fileKey, v.desc.DocumentID)
	}
	if err != nil {
		return false
	}
	if v.desc.Revision >= 3 {
		return bytes.Equal(computed[:16], v.desc.UKey[:16])
	}
	return bytes.Equal(computed, v.desc.UKey[:])
}

// checkOwnerPassword implements Algorithm 7: unwrap O with the owner
// RC4 key schedule (run in reverse round order for R>=3) to recover the
// candidate user password, then re-run the user-password check on it.
func (v *PDFv4Verifier) checkOwnerPassword(pass []byte) bool {
	encKey := v.alg3Key(pass)
	decrypted := make([]byte, 32)
	copy(decrypted, v.desc.OKey[:])

	if v.desc.Revision == 2 {
		c, err := rc4.NewCipher(encKey)
		if err != nil {
			return false
		}
		c.XORKeyStream(decrypted, decrypted)
	} else {
		round := make([]byte, len(encKey))
		for i := 19; i >= 0; i-- {
			for j := range encKey {
				round[j] = encKey[j] ^ byte(i)
			}
			c, err := rc4.NewCipher(round)
			if err != nil {
				return false
			}
			c.XORKeyStream(decrypted, decrypted)
		}
	}
	return v.checkUserPassword(decrypted)
}

func (v *PDFv4Verifier) Decrypt(password string) (string, error) {
	return "", ErrDecryptUnsupported
}
