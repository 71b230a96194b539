// Package pdf locates and extracts the /Encrypt dictionary of a PDF
// file without a password, per spec.md §4.2 / ISO 32000-2 §§7.6.4.3-4.
//
// A PDF cannot be parsed through a normal object graph without the
// password it doesn't yet have, so this is deliberately a minimal
// text-level scanner rather than a full object model: it locates the
// indirect object the trailer's /Encrypt key points to, slices out its
// dictionary, and pulls the handful of fields C4 needs by regexp. A full
// object graph (as in benedoc-inc/pdfer or seehuhn-go-pdf) is out of
// scope here — decrypting and re-parsing the rest of the document is a
// non-goal (spec.md §1).
package pdf

import (
	"bytes"
	"regexp"
	"strconv"

	"forgecrack/internal/descriptor"
	"forgecrack/internal/strfind"
)

func init() {
	strfind.Register("pdf", ExtractText)
}

var (
	reEncryptRef  = regexp.MustCompile(`/Encrypt\s+(\d+)\s+(\d+)\s+R`)
	reIndirectObj = func(num, gen int) *regexp.Regexp {
		return regexp.MustCompile(`(?s)\b` + strconv.Itoa(num) + `\s+` + strconv.Itoa(gen) + `\s+obj(.*?)endobj`)
	}
	reFilter   = regexp.MustCompile(`/Filter\s*/(\w+)`)
	reInt      = func(key string) *regexp.Regexp { return regexp.MustCompile(`/` + key + `\s+(-?\d+)`) }
	reHexOrLit = func(key string) *regexp.Regexp {
		return regexp.MustCompile(`/` + key + `\s*(?:<([0-9A-Fa-f\s]*)>|\(([^)]*)\))`)
	}
	reEncryptMetadata = regexp.MustCompile(`/EncryptMetadata\s+(true|false)`)
	reTrailerID       = regexp.MustCompile(`(?s)trailer.*?/ID\s*\[\s*<([0-9A-Fa-f\s]*)>`)
)

// FindEncryptRef locates every `/Encrypt N G R` occurrence in raw and
// returns the last one, per spec §4.2 step 1 ("by spec they must all
// refer to the same dictionary — pick the last").
func FindEncryptRef(raw []byte) (num, gen int, found bool) {
	matches := reEncryptRef.FindAllSubmatch(raw, -1)
	if len(matches) == 0 {
		return 0, 0, false
	}
	last := matches[len(matches)-1]
	n, _ := strconv.Atoi(string(last[1]))
	g, _ := strconv.Atoi(string(last[2]))
	return n, g, true
}

// EraseEncryptReferences returns a copy of raw with every
// `/Encrypt N G R` occurrence blanked out (spec §4.2 step 2), so a
// standard PDF reader that demands a password to resolve the trailer's
// /Encrypt key can instead be pointed at the stripped copy.
func EraseEncryptReferences(raw []byte) []byte {
	return reEncryptRef.ReplaceAllFunc(raw, func(m []byte) []byte {
		return bytes.Repeat([]byte{' '}, len(m))
	})
}

// encryptDict is the raw field set read off the /Encrypt dictionary,
// ahead of being split into a PDFDescV4 or PDFDescV6.
type encryptDict struct {
	filter            string
	v, length, r       int
	o, u, oe, ue       []byte
	p                  int
	perms              []byte
	encryptMetadata    bool
	encryptMetadataSet bool
}

func parseEncryptDict(body []byte) (encryptDict, error) {
	var d encryptDict
	d.encryptMetadata = true // default per ISO 32000-1 Table 20

	if m := reFilter.FindSubmatch(body); m != nil {
		d.filter = string(m[1])
	}
	if m := reInt("V").FindSubmatch(body); m != nil {
		d.v, _ = strconv.Atoi(string(m[1]))
	}
	if m := reInt("Length").FindSubmatch(body); m != nil {
		d.length, _ = strconv.Atoi(string(m[1]))
	} else {
		d.length = 40
	}
	if m := reInt("R").FindSubmatch(body); m != nil {
		d.r, _ = strconv.Atoi(string(m[1]))
	}
	if m := reInt("P").FindSubmatch(body); m != nil {
		d.p, _ = strconv.Atoi(string(m[1]))
	}
	var err error
	if d.o, err = extractHexOrLit(body, "O"); err != nil {
		return d, err
	}
	if d.u, err = extractHexOrLit(body, "U"); err != nil {
		return d, err
	}
	d.oe, _ = extractHexOrLit(body, "OE")
	d.ue, _ = extractHexOrLit(body, "UE")
	d.perms, _ = extractHexOrLit(body, "Perms")
	if m := reEncryptMetadata.FindSubmatch(body); m != nil {
		d.encryptMetadata = string(m[1]) == "true"
		d.encryptMetadataSet = true
	}
	return d, nil
}

func extractHexOrLit(body []byte, key string) ([]byte, error) {
	m := reHexOrLit(key).FindSubmatch(body)
	if m == nil {
		return nil, nil
	}
	if len(m[1]) > 0 {
		return hexDecode(bytes.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}
			return r
		}, m[1]))
	}
	return append([]byte{}, m[2]...), nil
}

func hexDecode(h []byte) ([]byte, error) {
	if len(h)%2 != 0 {
		h = append(h, '0')
	}
	out := make([]byte, len(h)/2)
	for i := range out {
		hi, lo := hexVal(h[2*i]), hexVal(h[2*i+1])
		if hi < 0 || lo < 0 {
			return nil, ErrMalformed
		}
		out[i] = byte(hi)<<4 | byte(lo)
	}
	return out, nil
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}

// documentID returns the first element of the trailer's /ID array.
func documentID(raw []byte) []byte {
	m := reTrailerID.FindSubmatch(raw)
	if m == nil {
		return nil
	}
	clean := bytes.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, m[1])
	id, _ := hexDecode(clean)
	return id
}

// Parse extracts the /Encrypt dictionary from a whole PDF file's raw
// bytes and returns the matching FormatDescriptor.
func Parse(raw []byte) (descriptor.Descriptor, error) {
	num, gen, found := FindEncryptRef(raw)
	if !found {
		return nil, ErrNoEncryptDict
	}
	objMatch := reIndirectObj(num, gen).FindSubmatch(EraseEncryptReferences(raw))
	if objMatch == nil {
		// The object may legitimately still contain its own
		// `/Encrypt N G R`-shaped text only if self-referential, which
		// never happens in practice; retry against the original bytes
		// before treating a miss as malformed.
		objMatch = reIndirectObj(num, gen).FindSubmatch(raw)
	}
	if objMatch == nil {
		return nil, ErrMalformed
	}
	body := objMatch[1]

	d, err := parseEncryptDict(body)
	if err != nil {
		return nil, err
	}
	if d.filter != "" && d.filter != "Standard" {
		return nil, ErrUnsupportedFilter
	}

	switch d.r {
	case 2, 3, 4:
		var desc descriptor.PDFDescV4
		desc.Revision = d.r
		desc.KeyLengthBits = d.length
		copy(desc.OKey[:], d.o)
		copy(desc.UKey[:], d.u)
		putLE32(desc.Permissions[:], uint32(d.p))
		desc.DocumentID = documentID(raw)
		desc.MetadataEncrypted = d.encryptMetadata
		return desc, nil
	case 6:
		var desc descriptor.PDFDescV6
		copy(desc.OKey[:], d.o)
		copy(desc.UKey[:], d.u)
		return desc, nil
	default:
		return nil, ErrUnsupportedRevision
	}
}

// putLE32 writes v as 4 little-endian bytes: spec §4.7 Algorithm 2 feeds
// P into MD5 "lower order byte first", i.e. little-endian despite PDF's
// /P being a big-endian-looking signed integer literal in the dict.
func putLE32(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}

// ExtractText is a best-effort readable-text extractor used by strfind
// when harvesting candidate passwords from PDF files: it strips PDF
// syntax (operators, object delimiters) and returns parenthesized
// literal strings (without nested parentheses or backslash escapes)
// joined by spaces; hex strings are not extracted. It makes no
// attempt to resolve content streams' compression or encoding beyond
// that — a full content-stream interpreter is out of scope per spec.md's
// non-goals around payload recovery.
func ExtractText(raw []byte) (string, error) {
	var out bytes.Buffer
	for _, m := range reLiteralString.FindAllSubmatch(raw, -1) {
		out.Write(m[1])
		out.WriteByte(' ')
	}
	return out.String(), nil
}

var reLiteralString = regexp.MustCompile(`\(([^()\\]*)\)`)
