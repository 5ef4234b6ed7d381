package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// SnapshotRoot is the top-level prefix for published chart snapshots.
const SnapshotRoot = "snapshots"

// GenerateSnapshotFolderPath generates a consistent folder path for snapshots
// Format: snapshots/YYYY/MM/DD/Snapshot-YYYY-MM-DD-HH-MM-SS-mmm
func GenerateSnapshotFolderPath(timestamp time.Time) string {
	ts := timestamp.UTC()
	return fmt.Sprintf("%s/%04d/%02d/%02d/Snapshot-%04d-%02d-%02d-%02d-%02d-%02d-%03d",
		SnapshotRoot,
		ts.Year(), ts.Month(), ts.Day(),
		ts.Year(), ts.Month(), ts.Day(),
		ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond()/int(time.Millisecond))
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	case ".md":
		return "text/markdown"
	case ".csv":
		return "text/csv"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

// cleanPath normalizes a slash-separated object path and rejects any path
// that would climb above the storage root.
func cleanPath(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	cleaned := path.Clean("/" + p)
	if strings.Contains(p, "..") {
		for _, part := range strings.Split(p, "/") {
			if part == ".." {
				return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
			}
		}
	}
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", nil
	}
	return cleaned, nil
}
