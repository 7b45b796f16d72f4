package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"view-sync/core/sectioned"
)

const snapshotPrefix = "snapshots/"

// snapshotDocument is the wire form of a sectioned model.
type snapshotDocument struct {
	TakenAt  time.Time         `json:"taken_at"`
	Sections []snapshotSection `json:"sections"`
}

type snapshotSection struct {
	Title string `json:"title"`
	Items []any  `json:"items"`
}

// SnapshotStore persists sectioned models as JSON objects in a bucket.
type SnapshotStore struct {
	client Client
	bucket string
	region string
	log    *zap.Logger
}

// NewSnapshotStore creates a snapshot store over the given client.
func NewSnapshotStore(client Client, cfg Config, log *zap.Logger) *SnapshotStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &SnapshotStore{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		log:    log,
	}
}

// EnsureBucket creates the snapshot bucket if it does not exist yet.
func (s *SnapshotStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	if err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", s.bucket, err)
	}

	s.log.Info("created snapshot bucket", zap.String("bucket", s.bucket))
	return nil
}

// Save serializes the model and uploads it under snapshots/<name>.json.
func (s *SnapshotStore) Save(ctx context.Context, name string, model *sectioned.Model) error {
	if model == nil {
		return fmt.Errorf("cannot snapshot a nil model")
	}

	doc := snapshotDocument{TakenAt: time.Now().UTC()}
	for _, sec := range model.Sections() {
		items := sec.Items
		if items == nil {
			items = []any{}
		}
		doc.Sections = append(doc.Sections, snapshotSection{
			Title: sec.Title,
			Items: items,
		})
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot %q: %w", name, err)
	}

	objectName := snapshotObjectName(name)
	_, err = s.client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot %q: %w", name, err)
	}

	s.log.Info("saved snapshot",
		zap.String("name", name),
		zap.Int("sections", len(doc.Sections)),
		zap.Int("bytes", len(payload)))
	return nil
}

// Load downloads snapshots/<name>.json and rebuilds a sectioned model from it.
// Item payloads come back as decoded JSON values, not the concrete types the
// snapshot was taken from.
func (s *SnapshotStore) Load(ctx context.Context, name string) (*sectioned.Model, error) {
	objectName := snapshotObjectName(name)
	reader, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download snapshot %q: %w", name, err)
	}
	defer reader.Close()

	var doc snapshotDocument
	if err := json.NewDecoder(reader).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %q: %w", name, err)
	}

	model := sectioned.NewModel()
	for i, sec := range doc.Sections {
		if err := model.InsertSection(i, sectioned.Section{Title: sec.Title, Items: sec.Items}); err != nil {
			return nil, fmt.Errorf("failed to rebuild snapshot %q: %w", name, err)
		}
	}

	s.log.Info("loaded snapshot",
		zap.String("name", name),
		zap.Int("sections", len(doc.Sections)))
	return model, nil
}

// List returns the names of all stored snapshots.
func (s *SnapshotStore) List(ctx context.Context) ([]string, error) {
	names := []string{}
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    snapshotPrefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", object.Err)
		}
		name := strings.TrimPrefix(object.Key, snapshotPrefix)
		name = strings.TrimSuffix(name, ".json")
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// Delete removes a stored snapshot.
func (s *SnapshotStore) Delete(ctx context.Context, name string) error {
	objectName := snapshotObjectName(name)
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete snapshot %q: %w", name, err)
	}
	s.log.Info("deleted snapshot", zap.String("name", name))
	return nil
}

func snapshotObjectName(name string) string {
	return snapshotPrefix + name + ".json"
}
