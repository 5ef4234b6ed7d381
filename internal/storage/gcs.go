package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"tvcharts/internal/logger"
)

// GCSClient handles Google Cloud Storage operations
type GCSClient struct {
	client *storage.Client
	bucket string
	log    *logger.Logger
}

// NewGCSClient creates a new GCS client
func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSClient{
		client: client,
		bucket: bucketName,
		log:    logger.WithComponent("storage").With(logger.Fields{"bucket": bucketName}),
	}, nil
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// CreateDir is a no-op: GCS has no directories, only object prefixes.
func (g *GCSClient) CreateDir(ctx context.Context, dirPath string) error {
	_, err := cleanPath(dirPath)
	return err
}

// StoreFile uploads fileData to the object at filePath
func (g *GCSClient) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	objectPath, err := cleanPath(filePath)
	if err != nil {
		return err
	}
	if objectPath == "" {
		return fmt.Errorf("%w: empty object path", ErrInvalidPath)
	}

	g.log.Info("Storing file to GCS", logger.Fields{"object": objectPath, "bytes": len(fileData)})

	writer := g.client.Bucket(g.bucket).Object(objectPath).NewWriter(ctx)
	writer.ContentType = GetContentType(objectPath)
	writer.CacheControl = "public, max-age=3600"
	writer.Metadata = map[string]string{
		"generated-at": time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := writer.Write(fileData); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write file to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS file upload: %w", err)
	}
	return nil
}

// GetFile retrieves an object from GCS
func (g *GCSClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	objectPath, err := cleanPath(filePath)
	if err != nil {
		return nil, err
	}

	reader, err := g.client.Bucket(g.bucket).Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for file %s: %w", filePath, err)
	}
	defer reader.Close()

	fileData, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return fileData, nil
}

// ListDir lists objects under the dirPath prefix. Without recursive, only
// the immediate children are listed and sub-prefixes end with "/".
func (g *GCSClient) ListDir(ctx context.Context, dirPath string, recursive bool) ([]string, error) {
	prefix, err := cleanPath(dirPath)
	if err != nil {
		return nil, err
	}
	if prefix != "" {
		prefix += "/"
	}

	query := &storage.Query{Prefix: prefix}
	if !recursive {
		query.Delimiter = "/"
	}

	it := g.client.Bucket(g.bucket).Objects(ctx, query)
	var entries []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		if attrs.Prefix != "" {
			entries = append(entries, attrs.Prefix)
			continue
		}
		if strings.HasSuffix(attrs.Name, "/") {
			continue
		}
		entries = append(entries, attrs.Name)
	}
	sort.Strings(entries)
	return entries, nil
}

// FileExists checks if an object exists at filePath
func (g *GCSClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	objectPath, err := cleanPath(filePath)
	if err != nil {
		return false, err
	}
	_, err = g.client.Bucket(g.bucket).Object(objectPath).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat object %s: %w", filePath, err)
	}
	return true, nil
}
