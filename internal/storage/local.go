package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"tvcharts/internal/logger"
)

// LocalStorageClient handles local file system storage operations
type LocalStorageClient struct {
	baseDir string
	log     *logger.Logger
}

// NewLocalStorageClient creates a new local storage client rooted at baseDir
func NewLocalStorageClient(baseDir string) (*LocalStorageClient, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}

	return &LocalStorageClient{
		baseDir: baseDir,
		log:     logger.WithComponent("storage"),
	}, nil
}

// BaseDir returns the root directory of the client.
func (l *LocalStorageClient) BaseDir() string {
	return l.baseDir
}

// Close is a no-op for local storage
func (l *LocalStorageClient) Close() error {
	return nil
}

func (l *LocalStorageClient) resolve(p string) (string, error) {
	cleaned, err := cleanPath(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.baseDir, filepath.FromSlash(cleaned)), nil
}

// CreateDir creates a directory below the base directory
func (l *LocalStorageClient) CreateDir(ctx context.Context, dirPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := l.resolve(dirPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(full, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", full, err)
	}
	return nil
}

// StoreFile writes fileData to filePath, creating parent directories as needed
func (l *LocalStorageClient) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cleaned, err := cleanPath(filePath)
	if err != nil {
		return err
	}
	if cleaned == "" {
		return fmt.Errorf("%w: empty file path", ErrInvalidPath)
	}
	full := filepath.Join(l.baseDir, filepath.FromSlash(cleaned))

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(full, fileData, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", full, err)
	}

	l.log.Debug("File stored", logger.Fields{"path": filePath, "bytes": len(fileData)})
	return nil
}

// GetFile retrieves a file from local storage
func (l *LocalStorageClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := l.resolve(filePath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// ListDir lists the files below dirPath. Paths are returned relative to the
// base directory, slash-separated and sorted. Directories are only listed
// when recursive is false.
func (l *LocalStorageClient) ListDir(ctx context.Context, dirPath string, recursive bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := l.resolve(dirPath)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(full); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var entries []string
	if !recursive {
		items, err := os.ReadDir(full)
		if err != nil {
			return nil, fmt.Errorf("failed to list directory %s: %w", dirPath, err)
		}
		for _, item := range items {
			rel, _ := filepath.Rel(l.baseDir, filepath.Join(full, item.Name()))
			name := filepath.ToSlash(rel)
			if item.IsDir() {
				name += "/"
			}
			entries = append(entries, name)
		}
		sort.Strings(entries)
		return entries, nil
	}

	err = filepath.WalkDir(full, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(l.baseDir, p)
		entries = append(entries, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}
	sort.Strings(entries)
	return entries, nil
}

// FileExists checks if a regular file exists at filePath
func (l *LocalStorageClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	full, err := l.resolve(filePath)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}
	return !info.IsDir(), nil
}
