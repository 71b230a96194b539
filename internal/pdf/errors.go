package pdf

import "errors"

var (
	// ErrNoEncryptDict is returned when no /Encrypt reference is found;
	// the document is not password-protected (or isn't a PDF).
	ErrNoEncryptDict = errors.New("pdf: no /Encrypt dictionary found")
	// ErrUnsupportedFilter is raised when /Filter isn't /Standard, per
	// spec §4.2 step 3. Metadata extraction stops; the caller (a
	// scanner walking many files) should skip, not abort, the object.
	ErrUnsupportedFilter = errors.New("pdf: unsupported /Filter (not /Standard)")
	// ErrUnsupportedRevision is raised when R is outside {2,3,4,6}.
	ErrUnsupportedRevision = errors.New("pdf: unsupported encryption revision")
	ErrMalformed           = errors.New("pdf: malformed encryption dictionary")
)
