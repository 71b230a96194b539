// Package strfind implements C2, the string/text harvester: extracting
// printable strings from arbitrary files for use as crack candidates,
// with format-specific extractors dispatched by mime type where one is
// registered (PDF, OOXML), plus a generic printable-run scan that always
// runs.
//
// The generic scan follows the classic Unix strings(1) algorithm: scan
// raw bytes for maximal runs of printable ASCII at least minRunLength
// long. No library in the corpus does this, so it's built directly on
// a byte range check (0x20-0x7E).
package strfind

import "unicode"

// minRunLength is the shortest byte run treated as a candidate string,
// matching strings(1)'s conventional default.
const minRunLength = 4

// Extractor pulls a format's embedded text out of its raw bytes (for
// example PDF literal strings, or an OLE file's non-encrypted streams).
// Registered extractors are tried before the generic scan.
type Extractor func(raw []byte) (string, error)

var extractors = map[string]Extractor{}

// Register installs an Extractor for the given mime/format key. Called
// from each format package's init().
func Register(key string, fn Extractor) {
	extractors[key] = fn
}

// mimeKeys maps a MIME type to the registered extractor key that
// understands it.
var mimeKeys = map[string]string{
	"application/pdf": "pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "ooxml",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       "ooxml",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "ooxml",
}

// HarvestFile extracts candidate strings from raw. If mime matches a
// registered format extractor, its output is tokenized on whitespace
// and returned alongside the generic scan; otherwise only the generic
// scan runs.
func HarvestFile(raw []byte, mime string) []string {
	var out []string
	if key, ok := mimeKeys[mime]; ok {
		if fn, ok := extractors[key]; ok {
			if text, err := fn(raw); err == nil {
				out = append(out, splitWords(text)...)
			}
		}
	}
	out = append(out, scanPrintableRuns(raw)...)
	return out
}

// scanPrintableRuns returns every maximal run of printable ASCII bytes
// at least minRunLength long, the generic fallback for files with no
// registered format extractor.
func scanPrintableRuns(raw []byte) []string {
	var out []string
	start := -1
	flush := func(end int) {
		if start >= 0 && end-start >= minRunLength {
			out = append(out, string(raw[start:end]))
		}
		start = -1
	}
	for i, b := range raw {
		if isPrintableASCII(b) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(raw))
	return out
}

func isPrintableASCII(b byte) bool {
	return b >= 0x20 && b < 0x7F
}

// splitWords tokenizes extracted document text into whitespace-
// separated words, dropping anything not printable.
func splitWords(text string) []string {
	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range text {
		if unicode.IsSpace(r) {
			flush()
			continue
		}
		cur = append(cur, r)
	}
	flush()
	return out
}
