package services

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"plant-shop/storage"
)

// ObjectBucket ist das Ziel für Exporte, in Produktion ein storage.S3Bucket.
type ObjectBucket interface {
	PutObject(ctx context.Context, key string, data []byte) (string, error)
	ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	DeleteObject(ctx context.Context, key string) error
}

// ExportResult beschreibt einen abgeschlossenen Export.
type ExportResult struct {
	Key     string
	Link    string
	Plants  int
	Deleted []string
}

// ExportService schreibt Snapshots der plants-Tabelle als gzip-JSON in einen Bucket
// und rotiert alte Snapshots.
type ExportService struct {
	Store  storage.PlantStore
	Bucket ObjectBucket
	Logger *zap.Logger
	Prefix string
	Keep   int
	Now    func() time.Time
}

// NewExportService erstellt eine neue Instanz des ExportService.
func NewExportService(store storage.PlantStore, bucket ObjectBucket, logger *zap.Logger, prefix string, keep int) *ExportService {
	return &ExportService{
		Store:  store,
		Bucket: bucket,
		Logger: logger,
		Prefix: prefix,
		Keep:   keep,
		Now:    time.Now,
	}
}

// SnapshotKey baut den Objekt-Key für einen Zeitpunkt.
func (e *ExportService) SnapshotKey(t time.Time) string {
	return fmt.Sprintf("%splants-%s.json.gz", e.Prefix, t.UTC().Format("2006-01-02T15-04-05Z"))
}

// Run exportiert alle Pflanzen und löscht danach alle bis auf die neuesten Keep Snapshots.
func (e *ExportService) Run(ctx context.Context) (*ExportResult, error) {
	plants, err := e.Store.ListPlants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plants: %w", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := json.NewEncoder(gz).Encode(plants); err != nil {
		return nil, fmt.Errorf("encode plants: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("compress plants: %w", err)
	}

	key := e.SnapshotKey(e.Now())
	link, err := e.Bucket.PutObject(ctx, key, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}
	e.Logger.Info("Plants export uploaded", zap.String("key", key), zap.Int("plants", len(plants)))

	deleted, err := e.rotate(ctx)
	if err != nil {
		return nil, fmt.Errorf("rotate exports: %w", err)
	}
	return &ExportResult{Key: key, Link: link, Plants: len(plants), Deleted: deleted}, nil
}

func (e *ExportService) rotate(ctx context.Context) ([]string, error) {
	objects, err := e.Bucket.ListObjects(ctx, e.Prefix)
	if err != nil {
		return nil, err
	}

	var snapshots []storage.ObjectInfo
	for _, obj := range objects {
		if strings.HasSuffix(obj.Key, ".json.gz") {
			snapshots = append(snapshots, obj)
		}
	}
	if len(snapshots) <= e.Keep {
		return nil, nil
	}

	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].LastModified.Equal(snapshots[j].LastModified) {
			return snapshots[i].Key > snapshots[j].Key
		}
		return snapshots[i].LastModified.After(snapshots[j].LastModified)
	})

	var deleted []string
	for _, obj := range snapshots[e.Keep:] {
		e.Logger.Info("Deleting old plants export", zap.String("key", obj.Key))
		if err := e.Bucket.DeleteObject(ctx, obj.Key); err != nil {
			e.Logger.Error("Failed to delete old plants export", zap.String("key", obj.Key), zap.Error(err))
			continue
		}
		deleted = append(deleted, obj.Key)
	}
	return deleted, nil
}
