// Package storage persists uploaded profile pictures on local disk and
// hands back storage-relative paths that double as public URL paths.
package storage

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

// DiskStore writes files under a single directory. File names derive from
// the owner's email address, so a re-upload for the same address overwrites
// the previous file in place.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the upload directory if needed and returns a store
// rooted there.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory files are stored in.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save writes src to disk and returns the storage-relative path (forward
// slashes) the file is addressable under. ext must include the leading dot.
// An existing file for the same email is truncated and replaced.
func (s *DiskStore) Save(email, ext string, src io.Reader) (string, error) {
	name := FileName(email, ext)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("write file: %w", err)
	}

	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}

	return filepath.ToSlash(filepath.Join(s.dir, name)), nil
}

// FileName derives the stored name for an upload: the email with every
// non-alphanumeric byte replaced by '_', plus the original extension. When
// no email is available a unique fallback name is generated instead.
func FileName(email, ext string) string {
	if email == "" {
		return fmt.Sprintf("profile-%d-%d%s", time.Now().UnixNano(), rand.Intn(1_000_000_000), ext)
	}

	sanitized := make([]byte, len(email))
	for i := 0; i < len(email); i++ {
		c := email[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			sanitized[i] = c
		} else {
			sanitized[i] = '_'
		}
	}

	return string(sanitized) + ext
}
