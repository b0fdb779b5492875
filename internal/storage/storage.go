// Package storage archives compliance artifacts in S3-compatible object storage.
package storage

import (
	"context"
	"io"
	"path"
	"time"
)

// PutObjectOptions define optional parameters for uploading objects.
// Size is the exact byte count, or -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object store used for consent documents.
type Storage interface {
	// Put uploads an object under key, streaming from r.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get returns a streaming reader for the object alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}

// ConsentKey is the object key of a consent document.
func ConsentKey(entityID, consentID string) string {
	return path.Join("consents", entityID, consentID+".txt")
}
