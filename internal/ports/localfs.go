package ports

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LocalFileStore is a FileStore backed directly by the filesystem, for
// running the cracker core as a standalone CLI rather than embedded in
// a forensic platform that already owns a case's file graph. A FileID
// is simply an absolute or relative path.
type LocalFileStore struct{}

func NewLocalFileStore() LocalFileStore { return LocalFileStore{} }

func (LocalFileStore) Open(_ context.Context, id FileID) (io.ReadCloser, error) {
	return os.Open(string(id))
}

// FindFiles walks glob non-recursively relative to the current
// directory; Scope is accepted for interface compatibility but every
// scope resolves the same way standalone (there is no case/hostname
// graph to restrict to).
func (LocalFileStore) FindFiles(_ context.Context, _ Scope, glob string) ([]FileID, error) {
	matches, err := filepath.Glob(glob)
	if err != nil {
		return nil, err
	}
	out := make([]FileID, 0, len(matches))
	for _, m := range matches {
		out = append(out, FileID(m))
	}
	return out, nil
}

// Parent always reports "no parent": a standalone file on disk isn't
// nested inside another object the way an archive entry is.
func (LocalFileStore) Parent(_ context.Context, _ FileID) (FileID, bool, error) {
	return "", false, nil
}

func (LocalFileStore) MimeOf(_ context.Context, id FileID) (string, error) {
	ext := filepath.Ext(string(id))
	if t := mime.TypeByExtension(ext); t != "" {
		return stripParams(t), nil
	}
	return "", nil
}

func (LocalFileStore) ExtensionOf(_ context.Context, id FileID) (string, error) {
	return filepath.Ext(string(id)), nil
}

func stripParams(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		return strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}

// LocalArtifactStore persists attributes in a JSON sidecar file next to
// each object (objectID + ".forgecrack.json"), the simplest durable
// stand-in for a case-management database when running headless.
type LocalArtifactStore struct {
	mu sync.Mutex
}

func NewLocalArtifactStore() *LocalArtifactStore { return &LocalArtifactStore{} }

func sidecarPath(objectID FileID) string {
	return string(objectID) + ".forgecrack.json"
}

func (s *LocalArtifactStore) load(objectID FileID) (map[string]string, error) {
	raw, err := os.ReadFile(sidecarPath(objectID))
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	attrs := map[string]string{}
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

func (s *LocalArtifactStore) save(objectID FileID, attrs map[string]string) error {
	raw, err := json.MarshalIndent(attrs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(sidecarPath(objectID), raw, 0o644)
}

func (s *LocalArtifactStore) GetAttribute(_ context.Context, objectID FileID, name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attrs, err := s.load(objectID)
	if err != nil {
		return "", false, err
	}
	v, ok := attrs[name]
	return v, ok, nil
}

func (s *LocalArtifactStore) PutAttribute(_ context.Context, objectID FileID, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	attrs, err := s.load(objectID)
	if err != nil {
		return err
	}
	attrs[name] = value
	return s.save(objectID, attrs)
}

// DeleteAndReplace records the decrypted artifact's path as an
// attribute; standalone mode has no case object to swap the payload
// into, so surfacing the path for the operator is the best it can do.
func (s *LocalArtifactStore) DeleteAndReplace(ctx context.Context, objectID FileID, artifactPath string) error {
	return s.PutAttribute(ctx, objectID, "FORGE_DECRYPTED_ARTIFACT", artifactPath)
}

// LocalTagStore has no tagging concept standalone; FilesTagged always
// returns an empty set.
type LocalTagStore struct{}

func NewLocalTagStore() LocalTagStore { return LocalTagStore{} }

func (LocalTagStore) FilesTagged(_ context.Context, _ string) ([]FileID, error) {
	return nil, nil
}
