package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// File stores each key as a JSON file under rootDir.
type File struct {
	rootDir string
}

func NewFile(rootDir string) *File {
	return &File{
		rootDir: rootDir,
	}
}

func (f *File) filePath(key string) string {
	return filepath.Join(f.rootDir, fileName(key)+".json")
}

// fileName maps a key to a portable file name; "teacherlee:study-events" becomes
// "teacherlee_study-events".
func fileName(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, key)
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	file, err := os.Open(f.filePath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("os.Open > %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	contents, err := io.ReadAll(file)
	if err != nil {
		return "", false, fmt.Errorf("io.ReadAll > %w", err)
	}
	return string(contents), true, nil
}

// Set replaces the file through a rename so a reader never sees a partial value.
func (f *File) Set(_ context.Context, key, value string) error {
	if err := os.MkdirAll(f.rootDir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", f.rootDir, err)
	}

	tmp, err := os.CreateTemp(f.rootDir, "."+fileName(key)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp > %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file.Write > %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file.Close > %w", err)
	}
	if err := os.Rename(tmpPath, f.filePath(key)); err != nil {
		return fmt.Errorf("os.Rename > %w", err)
	}
	return nil
}
