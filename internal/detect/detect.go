// Package detect is the ingest-time dispatcher that decides which
// format parser (C3-C7) to run against a file's raw bytes, producing
// zero or more FormatDescriptors for its encrypted objects. The source
// this module is distilled from treats container detection as a side
// effect of file-system ingest; here it's a pure function of bytes plus
// a path hint, so both the CLI and a future embedder can call it the
// same way.
package detect

import (
	"bytes"

	"github.com/pkg/errors"

	"forgecrack/internal/bitlocker"
	"forgecrack/internal/descriptor"
	"forgecrack/internal/luks"
	"forgecrack/internal/office"
	"forgecrack/internal/pdf"
	"forgecrack/internal/zipfmt"
)

// Found is one encrypted object located inside a scanned file: its
// descriptor plus enough addressing information for the orchestrator
// to report results against (the entry path inside an archive, when
// the container is multi-object).
type Found struct {
	Descriptor descriptor.Descriptor
	EntryPath  string
}

// ErrNoContainer is returned when no known encrypted-container format
// matched the file's signature.
var ErrNoContainer = errors.New("detect: no recognized encrypted container")

// File inspects raw against every signature this module knows, in
// order of how unambiguous each signature is (ZIP and PDF signatures
// can't collide; BitLocker and LUKS are whole-volume formats normally
// only seen against a raw disk image, checked last). path is not used
// for detection; it is recorded in the ZIP descriptors' ArchivePath and
// the Office descriptor's FilePath for the verifiers' library checks.
func File(path string, raw []byte) ([]Found, error) {
	switch {
	case isZip(raw):
		return detectZip(path, raw)
	case bytes.HasPrefix(raw, []byte("%PDF-")):
		return detectPDF(raw)
	case isOLE(raw):
		return detectOffice(path, raw)
	case looksLikeBitlocker(raw):
		return detectBitlocker(raw)
	case looksLikeLUKS(raw):
		return detectLUKS(raw)
	default:
		return nil, ErrNoContainer
	}
}

func isZip(raw []byte) bool {
	return bytes.HasPrefix(raw, []byte{'P', 'K', 0x03, 0x04}) ||
		bytes.HasPrefix(raw, []byte{'P', 'K', 0x05, 0x06})
}

func isOLE(raw []byte) bool {
	return bytes.HasPrefix(raw, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
}

func looksLikeBitlocker(raw []byte) bool {
	return len(raw) > 512+3 && bytes.Equal(raw[3:3+8], []byte("-FVE-FS-"))
}

func looksLikeLUKS(raw []byte) bool {
	return bytes.HasPrefix(raw, []byte("LUKS\xba\xbe"))
}

func detectZip(path string, raw []byte) ([]Found, error) {
	arc, err := zipfmt.Parse(raw)
	if err != nil {
		return nil, err
	}
	var out []Found
	for _, e := range arc.Entries {
		switch e.Encryption {
		case zipfmt.EncryptionZipCrypto:
			d, err := zipfmt.BuildZipCryptoDescriptor(path, raw, e)
			if err != nil {
				continue
			}
			out = append(out, Found{Descriptor: d, EntryPath: e.Name})
		case zipfmt.EncryptionAES:
			d, err := zipfmt.BuildZipAESDescriptor(path, raw, e)
			if err != nil {
				continue
			}
			out = append(out, Found{Descriptor: d, EntryPath: e.Name})
		}
	}
	return out, nil
}

func detectPDF(raw []byte) ([]Found, error) {
	d, err := pdf.Parse(raw)
	if err != nil {
		return nil, err
	}
	return []Found{{Descriptor: d}}, nil
}

func detectOffice(path string, raw []byte) ([]Found, error) {
	d, err := office.ParseReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	d.FilePath = path
	return []Found{{Descriptor: d}}, nil
}

func detectBitlocker(raw []byte) ([]Found, error) {
	d, err := bitlocker.Parse(raw)
	if err != nil {
		return nil, err
	}
	return []Found{{Descriptor: descriptorForBitlocker(d)}}, nil
}

func detectLUKS(raw []byte) ([]Found, error) {
	d, err := luks.Parse(raw)
	if err != nil {
		return nil, err
	}
	return []Found{{Descriptor: descriptorForLUKS(d)}}, nil
}

// descriptorForBitlocker and descriptorForLUKS exist because
// BitlockerInfo/LuksInfo (spec §3's metadata-only volume descriptors)
// don't implement descriptor.Descriptor themselves — they're not
// password-crackable per spec.md's non-goals, just reported — so they
// are wrapped for a uniform Found slice rather than forcing detect's
// callers to type-switch on two different result shapes.
type bitlockerDescriptor struct {
	descriptor.BitlockerInfo
}

func (bitlockerDescriptor) Kind() descriptor.Kind { return descriptor.KindBitlocker }

type luksDescriptor struct {
	descriptor.LuksInfo
}

func (luksDescriptor) Kind() descriptor.Kind { return descriptor.KindLUKS }

func descriptorForBitlocker(d descriptor.BitlockerInfo) descriptor.Descriptor {
	return bitlockerDescriptor{d}
}

func descriptorForLUKS(d descriptor.LuksInfo) descriptor.Descriptor {
	return luksDescriptor{d}
}
