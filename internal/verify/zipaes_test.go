package verify

import (
	"crypto/sha1"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"

	"forgecrack/internal/descriptor"
)

func derivePV(password string, salt []byte, strength descriptor.AESStrength) [2]byte {
	outLen := 2*(int(strength)/8) + 2
	derived := pbkdf2.Key([]byte(password), salt, 1000, outLen, sha1.New)
	var pv [2]byte
	copy(pv[:], derived[len(derived)-2:])
	return pv
}

func TestZipAESFastCheckAcceptsCorrectPassword(t *testing.T) {
	salt := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	pv := derivePV("p@ssw0rd!", salt, descriptor.AES256)

	v := NewZipAES(descriptor.ZipAESDesc{
		Strength: descriptor.AES256,
		Salt:     salt,
		Verifier: pv,
	})
	require.True(t, v.fastCheck("p@ssw0rd!"))
	require.False(t, v.fastCheck("p@ssw0rd"))
}

func TestZipAESSaltLengthMatchesStrength(t *testing.T) {
	require.Equal(t, 8, descriptor.AES128.SaltLen())
	require.Equal(t, 12, descriptor.AES192.SaltLen())
	require.Equal(t, 16, descriptor.AES256.SaltLen())
}

func TestZipAESVerifySwallowsLibraryCheckIOError(t *testing.T) {
	salt := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	pv := derivePV("correct-horse", salt, descriptor.AES128)

	v := NewZipAES(descriptor.ZipAESDesc{
		ArchivePath: "/nonexistent/archive.zip",
		EntryPath:   "cipher.bin",
		Strength:    descriptor.AES128,
		Salt:        salt,
		Verifier:    pv,
	})
	ok, err := v.Verify("correct-horse")
	require.NoError(t, err)
	require.True(t, ok)
}
