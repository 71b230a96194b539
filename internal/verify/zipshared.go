package verify

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	yzip "github.com/yeka/zip"
)

// decryptZipEntry is the shared best-effort Decrypt implementation for
// both ZIP verifiers: it re-opens archivePath, decrypts entryPath with
// password via yeka/zip, and writes the plaintext into a scratch file
// in a fresh directory created with os.MkdirTemp under the system temp
// directory. Per spec §5's resource discipline,
// callers are responsible for cleaning up the scratch directory.
func decryptZipEntry(archivePath, entryPath, password string) (string, error) {
	raw, err := os.ReadFile(archivePath)
	if err != nil {
		return "", &CryptoError{Format: "zip", Err: err}
	}
	zr, err := yzip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", &CryptoError{Format: "zip", Err: err}
	}
	f := findEntry(zr, entryPath)
	if f == nil {
		return "", errEntryNotFound(entryPath)
	}
	f.SetPassword(password)
	rc, err := f.Open()
	if err != nil {
		return "", &CryptoError{Format: "zip", Err: err}
	}
	defer rc.Close()

	scratchDir, err := os.MkdirTemp("", "forgecrack-zip-*")
	if err != nil {
		return "", err
	}
	outPath := filepath.Join(scratchDir, filepath.Base(entryPath))
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return "", fmt.Errorf("verify: decrypt %s: %w", entryPath, err)
	}
	return outPath, nil
}
