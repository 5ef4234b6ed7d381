package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"tvcharts/internal/config"
)

func TestGenerateSnapshotFolderPath(t *testing.T) {
	ts := time.Date(2024, 3, 7, 9, 5, 2, 42*int(time.Millisecond)+999, time.UTC)
	want := "snapshots/2024/03/07/Snapshot-2024-03-07-09-05-02-042"
	if got := GenerateSnapshotFolderPath(ts); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	// Non-UTC timestamps are normalized.
	east := time.FixedZone("east", 3*3600)
	if got := GenerateSnapshotFolderPath(ts.In(east)); got != want {
		t.Errorf("Expected %q for zoned time, got %q", want, got)
	}
}

func TestGetContentType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"histogram.svg", "image/svg+xml"},
		{"scatterplot.png", "image/png"},
		{"index.html", "text/html"},
		{"INDEX.HTML", "text/html"},
		{"summary.md", "text/markdown"},
		{"state.json", "application/json"},
		{"tvdata.csv", "text/csv"},
		{"photo.jpeg", "image/jpeg"},
		{"noext", "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := GetContentType(tt.filename); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"a/b.svg", "a/b.svg", false},
		{"/a//b.svg", "a/b.svg", false},
		{"./a/./b", "a/b", false},
		{"a\\b", "a/b", false},
		{"", "", false},
		{"../etc/passwd", "", true},
		{"a/../../b", "", true},
	}
	for _, tt := range tests {
		got, err := cleanPath(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidPath) {
				t.Errorf("cleanPath(%q): expected ErrInvalidPath, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("cleanPath(%q): unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("cleanPath(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestLocalStorageClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalStorageClient(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	defer client.Close()

	if err := client.StoreFile(ctx, "charts/histogram.svg", []byte("<svg/>")); err != nil {
		t.Fatalf("StoreFile failed: %v", err)
	}
	data, err := client.GetFile(ctx, "charts/histogram.svg")
	if err != nil {
		t.Fatalf("GetFile failed: %v", err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("Expected <svg/>, got %q", data)
	}

	exists, err := client.FileExists(ctx, "charts/histogram.svg")
	if err != nil || !exists {
		t.Errorf("Expected file to exist, got %v (err %v)", exists, err)
	}
	exists, err = client.FileExists(ctx, "charts/missing.svg")
	if err != nil || exists {
		t.Errorf("Expected missing file to not exist, got %v (err %v)", exists, err)
	}
	exists, _ = client.FileExists(ctx, "charts")
	if exists {
		t.Error("Expected directory to not count as a file")
	}

	if _, err := client.GetFile(ctx, "charts/missing.svg"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestLocalStorageClient_ListDir(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}

	for _, p := range []string{"a/one.svg", "a/two.png", "a/sub/three.html"} {
		if err := client.StoreFile(ctx, p, []byte("x")); err != nil {
			t.Fatalf("StoreFile(%s) failed: %v", p, err)
		}
	}

	flat, err := client.ListDir(ctx, "a", false)
	if err != nil {
		t.Fatalf("ListDir failed: %v", err)
	}
	want := []string{"a/one.svg", "a/sub/", "a/two.png"}
	if !reflect.DeepEqual(flat, want) {
		t.Errorf("Expected %v, got %v", want, flat)
	}

	deep, err := client.ListDir(ctx, "a", true)
	if err != nil {
		t.Fatalf("ListDir recursive failed: %v", err)
	}
	want = []string{"a/one.svg", "a/sub/three.html", "a/two.png"}
	if !reflect.DeepEqual(deep, want) {
		t.Errorf("Expected %v, got %v", want, deep)
	}
}

func TestLocalStorageClient_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}

	if err := client.StoreFile(ctx, "../escape.svg", []byte("x")); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Expected ErrInvalidPath, got %v", err)
	}
	if err := client.StoreFile(ctx, "", []byte("x")); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Expected ErrInvalidPath for empty path, got %v", err)
	}
}

func TestLocalStorageClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	if err := client.StoreFile(ctx, "a.svg", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestPublishSnapshot(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}

	if latest, err := LatestSnapshot(ctx, client); err != nil || latest != "" {
		t.Errorf("Expected no snapshot on empty store, got %q (err %v)", latest, err)
	}

	ts := time.Date(2024, 3, 7, 9, 5, 2, 0, time.UTC)
	folder, paths, err := PublishSnapshot(ctx, client, ts, []Artifact{
		{Name: "histogram.svg", Data: []byte("<svg/>")},
		{Name: "index.html", Data: []byte("<html/>")},
	})
	if err != nil {
		t.Fatalf("PublishSnapshot failed: %v", err)
	}
	if folder != "snapshots/2024/03/07/Snapshot-2024-03-07-09-05-02-000" {
		t.Errorf("Unexpected folder %s", folder)
	}
	want := []string{folder + "/histogram.svg", folder + "/index.html"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Expected %v, got %v", want, paths)
	}

	files, err := SnapshotFiles(ctx, client, folder)
	if err != nil {
		t.Fatalf("SnapshotFiles failed: %v", err)
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("Expected %v, got %v", want, files)
	}

	latest, err := LatestSnapshot(ctx, client)
	if err != nil {
		t.Fatalf("LatestSnapshot failed: %v", err)
	}
	if latest != folder {
		t.Errorf("Expected latest %q, got %q", folder, latest)
	}
}

func TestPublishSnapshot_SameInstant(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}

	ts := time.Date(2024, 3, 7, 9, 5, 2, 0, time.UTC)
	tests := []struct {
		data       string
		wantFolder string
	}{
		{"first", "snapshots/2024/03/07/Snapshot-2024-03-07-09-05-02-000"},
		{"second", "snapshots/2024/03/07/Snapshot-2024-03-07-09-05-02-001"},
		{"third", "snapshots/2024/03/07/Snapshot-2024-03-07-09-05-02-002"},
	}
	for _, tt := range tests {
		folder, _, err := PublishSnapshot(ctx, client, ts, []Artifact{{Name: "index.html", Data: []byte(tt.data)}})
		if err != nil {
			t.Fatalf("PublishSnapshot failed: %v", err)
		}
		if folder != tt.wantFolder {
			t.Errorf("Expected folder %s, got %s", tt.wantFolder, folder)
		}
	}

	// earlier snapshots keep their own content
	for _, tt := range tests {
		data, err := client.GetFile(ctx, tt.wantFolder+"/index.html")
		if err != nil {
			t.Fatalf("GetFile failed: %v", err)
		}
		if string(data) != tt.data {
			t.Errorf("Expected %q in %s, got %q", tt.data, tt.wantFolder, data)
		}
	}

	latest, err := LatestSnapshot(ctx, client)
	if err != nil {
		t.Fatalf("LatestSnapshot failed: %v", err)
	}
	if latest != tests[2].wantFolder {
		t.Errorf("Expected latest %s, got %s", tests[2].wantFolder, latest)
	}
}

func TestPublishSnapshot_Errors(t *testing.T) {
	ctx := context.Background()
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create LocalStorageClient: %v", err)
	}
	if _, _, err := PublishSnapshot(ctx, client, time.Now(), nil); err == nil {
		t.Error("Expected error for empty artifact list")
	}
	_, _, err = PublishSnapshot(ctx, client, time.Now(), []Artifact{
		{Name: "a.svg"}, {Name: "a.svg"},
	})
	if !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Expected ErrInvalidPath for duplicate name, got %v", err)
	}
}

func TestNewStorageClient(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots-out")
	client, err := NewStorageClient(context.Background(), &config.Config{
		DeploymentMode: config.ModeLocal,
		LocalOutputDir: dir,
	})
	if err != nil {
		t.Fatalf("Failed to create local storage client: %v", err)
	}
	defer client.Close()

	local, ok := client.(*LocalStorageClient)
	if !ok {
		t.Fatalf("Expected *LocalStorageClient, got %T", client)
	}
	if local.BaseDir() != dir {
		t.Errorf("Expected base dir %q, got %q", dir, local.BaseDir())
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Expected base dir to be created: %v", err)
	}

	if _, err := NewStorageClient(context.Background(), &config.Config{DeploymentMode: config.ModeGCS}); err == nil {
		t.Error("Expected error for gcs mode without bucket")
	}
	if _, err := NewStorageClient(context.Background(), &config.Config{DeploymentMode: "ftp"}); err == nil {
		t.Error("Expected error for unsupported mode")
	}
}
