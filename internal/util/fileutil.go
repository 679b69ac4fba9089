package util

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// AtomicWrite writes r to dst through a temp file in the same directory,
// so a crash mid-copy never leaves a truncated save behind.
func AtomicWrite(dst string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create parent dir: %w", err)
	}

	tmp := dst + ".savesync.tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename: %w", err)
	}

	return nil
}

// CopyFile copies src to dst byte for byte via AtomicWrite.
func CopyFile(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}

	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	return AtomicWrite(dst, f)
}

const equalChunkSize = 64 * 1024

// FilesEqual reports whether the two files have identical content. Sizes
// are compared first so the common different-save case never reads data.
func FilesEqual(path1, path2 string) (bool, error) {
	info1, err := os.Stat(path1)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path1, err)
	}

	info2, err := os.Stat(path2)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path2, err)
	}

	if info1.Size() != info2.Size() {
		return false, nil
	}

	f1, err := os.Open(path1)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path1, err)
	}

	defer func(f *os.File) {
		_ = f.Close()
	}(f1)

	f2, err := os.Open(path2)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path2, err)
	}

	defer func(f *os.File) {
		_ = f.Close()
	}(f2)

	buf1 := make([]byte, equalChunkSize)
	buf2 := make([]byte, equalChunkSize)

	for {
		n1, err1 := io.ReadFull(f1, buf1)
		n2, err2 := io.ReadFull(f2, buf2)

		if !bytes.Equal(buf1[:n1], buf2[:n2]) {
			return false, nil
		}

		eof1 := err1 == io.EOF || err1 == io.ErrUnexpectedEOF
		eof2 := err2 == io.EOF || err2 == io.ErrUnexpectedEOF

		switch {
		case err1 != nil && !eof1:
			return false, fmt.Errorf("failed to read %s: %w", path1, err1)
		case err2 != nil && !eof2:
			return false, fmt.Errorf("failed to read %s: %w", path2, err2)
		case eof1 || eof2:
			return eof1 == eof2 && n1 == n2, nil
		}
	}
}

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}

	if path == "~" {
		return home, nil
	}

	return filepath.Join(home, path[2:]), nil
}
