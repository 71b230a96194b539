// Package ports declares the host interfaces the cracker core depends
// on, replacing the global file-manager/tag-manager/blackboard services
// of a monolithic tool with explicit, mockable boundaries (spec.md §6 /
// §9 "Global services... are replaced by explicit Port structs passed
// to the orchestrator at construction").
package ports

import (
	"context"
	"io"
)

// FileID identifies a file within the host's FileStore. Its concrete
// representation (path, database row id, content hash) is the host's
// business; the core only ever round-trips it.
type FileID string

// Scope selects which files a "strings from scope" candidate source
// draws from (spec §4.10 step 1).
type Scope int

const (
	ScopeFolder Scope = iota
	ScopeDataSource
	ScopeHostname
	ScopeAll
)

// FileStore is the host's read-only file access surface.
type FileStore interface {
	Open(ctx context.Context, id FileID) (io.ReadCloser, error)
	FindFiles(ctx context.Context, scope Scope, glob string) ([]FileID, error)
	Parent(ctx context.Context, id FileID) (FileID, bool, error)
	MimeOf(ctx context.Context, id FileID) (string, error)
	ExtensionOf(ctx context.Context, id FileID) (string, error)
}

// Well-known ArtifactStore attribute names the core reads and writes.
// Values are described in spec §6's FORGE_* table.
const (
	AttrZipFileEncryptionMethod = "FORGE_ZIP_FILE_ENCRYPTION_METHOD"
	AttrPDFRevision             = "FORGE_PDF_REVISION"
	AttrFoundPassword           = "FORGE_FOUND_PASSWORD"
	AttrTriedPassword           = "FORGE_TRIED_PASSWORD"
)

// ArtifactStore persists attributes against an object (a file, volume,
// or archive entry) the orchestrator is working on.
type ArtifactStore interface {
	GetAttribute(ctx context.Context, objectID FileID, name string) (value string, ok bool, err error)
	PutAttribute(ctx context.Context, objectID FileID, name, value string) error
	DeleteAndReplace(ctx context.Context, objectID FileID, artifactPath string) error
}

// TagName is the well-known tag name identifying "Cracker source" files
// (spec §4.10 step 1, "Tagged files").
const TagName = "FORGE Cracker Source"

// TagStore resolves which files carry a given tag.
type TagStore interface {
	FilesTagged(ctx context.Context, tagName string) ([]FileID, error)
}

// Notifier surfaces analyst-facing messages; it never blocks the core.
type Notifier interface {
	Info(title, detail string)
	Warn(title, detail string)
	Error(title, detail string)
}

// Progress reports job progress to whatever UI is attached (spec §6).
type Progress interface {
	Start(label string)
	Determinate(total uint64)
	Indeterminate(label string)
	Advance(n uint64, label string)
	Finish()
	OnCancel(callback func())
}
