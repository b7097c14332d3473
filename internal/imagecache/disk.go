package imagecache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const maxFileNameLen = 200

// diskTier stores raw image payloads, one file per identity. Nothing here
// ever evicts; the directory lives under the user cache dir and the OS may
// reclaim it.
type diskTier struct {
	dir string
}

func newDiskTier(dir string) (*diskTier, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image cache dir: %w", err)
	}
	return &diskTier{dir: dir}, nil
}

func (d *diskTier) path(identity string) string {
	return filepath.Join(d.dir, FileName(identity))
}

func (d *diskTier) read(identity string) ([]byte, bool) {
	data, err := os.ReadFile(d.path(identity))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (d *diskTier) write(identity string, data []byte) error {
	tmp, err := os.CreateTemp(d.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp image file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write image file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close image file: %w", err)
	}
	if err := os.Rename(tmp.Name(), d.path(identity)); err != nil {
		return fmt.Errorf("store image file: %w", err)
	}
	return nil
}

func (d *diskTier) remove(identity string) {
	_ = os.Remove(d.path(identity))
}

// FileName is the filesystem-safe encoding of an identity: every byte
// outside [A-Za-z0-9] is percent-encoded. Encodings that would exceed a
// safe file name length fall back to a sha256 digest.
func FileName(identity string) string {
	var b strings.Builder
	b.Grow(len(identity))
	for i := 0; i < len(identity); i++ {
		c := identity[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	if b.Len() == 0 || b.Len() > maxFileNameLen {
		sum := sha256.Sum256([]byte(identity))
		return "sha256-" + hex.EncodeToString(sum[:])
	}
	return b.String()
}

type DiskStats struct {
	Files int
	Bytes int64
}

// Stats walks the disk tier rooted at dir.
func Stats(dir string) (DiskStats, error) {
	var st DiskStats
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return st, nil
		}
		return st, fmt.Errorf("read image cache dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".tmp-") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		st.Files++
		st.Bytes += info.Size()
	}
	return st, nil
}

// Clear removes every cached image file under dir.
func Clear(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read image cache dir: %w", err)
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return removed, fmt.Errorf("remove %s: %w", e.Name(), err)
		}
		removed++
	}
	return removed, nil
}
