package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FileKV keeps one file per key in a private directory.
type FileKV struct {
	dir string
	log *zap.Logger
}

// NewFileKV returns a store rooted at dir. The directory is created on the
// first write.
func NewFileKV(dir string, log *zap.Logger) *FileKV {
	return &FileKV{dir: dir, log: log.Named("storage")}
}

func (s *FileKV) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get implements KV.
func (s *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage.Get %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set implements KV. The value is written to a temporary file and renamed
// into place so a crash never leaves a truncated record.
func (s *FileKV) Set(_ context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("storage.Set: create %s: %w", s.dir, err)
	}
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage.Set %s: %w", key, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("storage.Set %s: write: %w", key, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("storage.Set %s: chmod: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage.Set %s: close: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("storage.Set %s: rename: %w", key, err)
	}
	s.log.Debug("record written", zap.String("key", key))
	return nil
}

// Remove implements KV.
func (s *FileKV) Remove(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage.Remove %s: %w", key, err)
	}
	s.log.Debug("record removed", zap.String("key", key))
	return nil
}
