package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

// SnapshotArchive keeps a JSON copy of the latest state of each bracket in object storage, so
// display clients can fetch a bracket without going through the API.
type SnapshotArchive interface {
	Archive(ctx context.Context, bracket *models.Bracket) (*UploadResult, error)
	Remove(ctx context.Context, bracketID string) error
}

type snapshotArchive struct {
	uploader FileUploader
	prefix   string
}

func NewSnapshotArchive(uploader FileUploader, prefix string) SnapshotArchive {
	if prefix == "" {
		prefix = "brackets"
	}
	return &snapshotArchive{uploader: uploader, prefix: prefix}
}

// SnapshotKey is the object key of the latest snapshot of a bracket.
func SnapshotKey(prefix, bracketID string) string {
	return fmt.Sprintf("%s/%s/latest.json", prefix, bracketID)
}

func (a *snapshotArchive) Archive(ctx context.Context, bracket *models.Bracket) (*UploadResult, error) {
	body, err := json.Marshal(bracket)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot of bracket %s: %w", bracket.ID, err)
	}
	return a.uploader.Upload(ctx, SnapshotKey(a.prefix, bracket.ID), contentTypeJSON, bytes.NewReader(body))
}

func (a *snapshotArchive) Remove(ctx context.Context, bracketID string) error {
	return a.uploader.Delete(ctx, SnapshotKey(a.prefix, bracketID))
}
