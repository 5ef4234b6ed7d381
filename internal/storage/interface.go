package storage

import (
	"context"
	"errors"
)

// ErrInvalidPath is returned when a path escapes the storage root.
var ErrInvalidPath = errors.New("invalid storage path")

// StorageClient is where published chart snapshots end up: a local output
// directory or a GCS bucket. Paths are slash-separated and relative to the
// storage root, e.g. snapshots/2024/05/01/Snapshot-.../histogram.svg.
type StorageClient interface {
	// Close releases the underlying client
	Close() error

	// CreateDir prepares a snapshot folder. Object stores have no real
	// directories, so implementations may treat this as a no-op.
	CreateDir(ctx context.Context, dirPath string) error

	// StoreFile writes one snapshot artifact, replacing any previous content
	StoreFile(ctx context.Context, filePath string, fileData []byte) error

	// GetFile reads back a stored artifact
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// ListDir returns the sorted paths below dirPath, relative to the root.
	// A folder that does not exist yields an empty list, not an error.
	// Without recursive, sub-folders are listed once with a trailing slash.
	ListDir(ctx context.Context, dirPath string, recursive bool) ([]string, error)

	// FileExists reports whether an artifact is stored at filePath
	FileExists(ctx context.Context, filePath string) (bool, error)
}
