package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Artifact is one file of a published snapshot.
type Artifact struct {
	Name string
	Data []byte
}

// maxFolderAttempts bounds the search for an unused snapshot folder
const maxFolderAttempts = 1000

// PublishSnapshot stores artifacts under a fresh snapshot folder derived from
// timestamp and returns that folder and the paths written, in artifact order.
// A folder that already holds files is never reused: the timestamp is advanced
// one millisecond at a time until an empty folder is found.
func PublishSnapshot(ctx context.Context, client StorageClient, timestamp time.Time, artifacts []Artifact) (string, []string, error) {
	if len(artifacts) == 0 {
		return "", nil, fmt.Errorf("no artifacts to publish")
	}
	folder, err := freeSnapshotFolder(ctx, client, timestamp)
	if err != nil {
		return "", nil, err
	}
	if err := client.CreateDir(ctx, folder); err != nil {
		return "", nil, err
	}

	seen := make(map[string]bool, len(artifacts))
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if a.Name == "" || seen[a.Name] {
			return folder, paths, fmt.Errorf("%w: artifact name %q", ErrInvalidPath, a.Name)
		}
		seen[a.Name] = true
		p := folder + "/" + a.Name
		if err := client.StoreFile(ctx, p, a.Data); err != nil {
			return folder, paths, fmt.Errorf("publish %s: %w", a.Name, err)
		}
		paths = append(paths, p)
	}
	return folder, paths, nil
}

func freeSnapshotFolder(ctx context.Context, client StorageClient, timestamp time.Time) (string, error) {
	for i := 0; i < maxFolderAttempts; i++ {
		folder := GenerateSnapshotFolderPath(timestamp.Add(time.Duration(i) * time.Millisecond))
		files, err := client.ListDir(ctx, folder, false)
		if err != nil {
			return "", err
		}
		if len(files) == 0 {
			return folder, nil
		}
	}
	return "", fmt.Errorf("no free snapshot folder near %s", GenerateSnapshotFolderPath(timestamp))
}

// SnapshotFiles lists the files of the snapshot folder, sorted.
func SnapshotFiles(ctx context.Context, client StorageClient, folder string) ([]string, error) {
	files, err := client.ListDir(ctx, folder, true)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// LatestSnapshot returns the most recent snapshot folder, or "" when none
// has been published.
func LatestSnapshot(ctx context.Context, client StorageClient) (string, error) {
	files, err := client.ListDir(ctx, SnapshotRoot, true)
	if err != nil {
		return "", err
	}
	latest := ""
	for _, f := range files {
		dir := f
		if i := strings.LastIndex(f, "/"); i >= 0 {
			dir = f[:i]
		}
		if dir > latest {
			latest = dir
		}
	}
	return latest, nil
}
