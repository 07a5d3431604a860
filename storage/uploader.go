package storage

import (
	"context"
	"io"
)

const contentTypeJSON = "application/json"

// UploadResult describes a stored object. Location is empty when no public base URL is set.
type UploadResult struct {
	Key      string `json:"key"`
	Location string `json:"location,omitempty"`
	ETag     string `json:"etag,omitempty"`
}

// FileUploader is the object store behind the snapshot archive.
type FileUploader interface {
	// Upload overwrites key with the contents of reader.
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}
