package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// maxUniqueNames bounds the suffixes WriteUnique tries.
const maxUniqueNames = 100

// WriteAtomic writes through a hidden temporary sibling and renames it over
// path once write succeeds, so readers never see a partial file.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	tmp, err := writeTemp(path, write)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename into place: %w", err)
	}
	return nil
}

// WriteUnique is WriteAtomic that never overwrites. When path is taken it
// tries name_1.ext, name_2.ext and so on, and returns the path it wrote.
func WriteUnique(path string, write func(w io.Writer) error) (string, error) {
	tmp, err := writeTemp(path, write)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp)

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 0; i < maxUniqueNames; i++ {
		candidate := path
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		err := os.Link(tmp, candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("failed to link into place: %w", err)
		}
	}
	return "", fmt.Errorf("no free file name for %s", filepath.Base(path))
}

func writeTemp(path string, write func(w io.Writer) error) (tmp string, err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate temp name: %w", err)
	}
	tmp = filepath.Join(dir, "."+filepath.Base(path)+"."+id+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err = write(f); err != nil {
		return "", err
	}
	if err = f.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync %s: %w", tmp, err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", tmp, err)
	}
	return tmp, nil
}

// CopyFileAtomic copies src to dst through WriteAtomic.
func CopyFileAtomic(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	return WriteAtomic(dst, CopyFrom(in))
}

// CopyFrom adapts r to the write callback of WriteAtomic and WriteUnique.
func CopyFrom(r io.Reader) func(w io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.Copy(w, r)
		return err
	}
}

func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// RemoveIfExists ignores a missing file.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
