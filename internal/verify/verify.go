package verify

import (
	"fmt"

	"forgecrack/internal/descriptor"
)

// Verifier is the single capability every format-specific checker
// implements: a password check plus a best-effort decrypt hook. Spec §9
// models "inheritance of verifiers" as a tagged variant of this one
// interface rather than a class hierarchy; Go already expresses that as
// an interface with one implementation per descriptor.Kind, dispatched
// by a type switch in New.
type Verifier interface {
	// Verify reports whether password is correct for the bound
	// descriptor. It has no observable side effects on the descriptor
	// (spec P3) and caches nothing between calls, so verifying the same
	// candidate twice costs the same both times (spec P4).
	Verify(password string) (bool, error)

	// Decrypt is a best-effort hook that reproduces the payload once a
	// password is known. Per spec.md's non-goals this is not specified
	// in detail; formats that don't support it return ErrDecryptUnsupported.
	Decrypt(password string) (artifactPath string, err error)
}

// ErrDecryptUnsupported is returned by Decrypt on verifiers that only
// implement the password check.
var ErrDecryptUnsupported = fmt.Errorf("verify: decrypt not supported for this format")

// New builds the Verifier matching desc's concrete type.
func New(desc descriptor.Descriptor) (Verifier, error) {
	switch d := desc.(type) {
	case descriptor.ZipCryptoDesc:
		return NewZipCrypto(d), nil
	case descriptor.ZipAESDesc:
		return NewZipAES(d), nil
	case descriptor.PDFDescV4:
		return NewPDFv4(d), nil
	case descriptor.PDFDescV6:
		return NewPDFv6(d), nil
	case descriptor.OfficeDesc:
		return NewOffice(d), nil
	default:
		return nil, fmt.Errorf("verify: no verifier for descriptor kind %v", desc.Kind())
	}
}
