package zipfmt

import "errors"

// Error kinds per spec §7: Malformed (signature missing / structure
// inconsistent) and Unsupported (Zip64, split archives, strong
// encryption, anything the parser recognizes but declines to verify).
var (
	ErrMalformedArchive = errors.New("zipfmt: malformed archive")
	ErrUnsupported      = errors.New("zipfmt: unsupported archive feature")
)
