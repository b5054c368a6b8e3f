package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ongsys-sync/core/ongsys"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archiver uploads the raw extracted batch of a run to object storage so
// a failed reconciliation can be replayed against the exact input it saw.
type Archiver struct {
	client Client
	bucket string
	log    *zap.Logger
}

// NewArchiver creates an archiver writing to the given bucket.
func NewArchiver(client Client, bucket string, log *zap.Logger) *Archiver {
	return &Archiver{client: client, bucket: bucket, log: log}
}

// EnsureBucket creates the snapshot bucket if it does not exist yet.
func (a *Archiver) EnsureBucket(ctx context.Context, region string) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	a.log.Info("Created snapshot bucket", zap.String("bucket", a.bucket))
	return nil
}

type snapshotDocument struct {
	RunID     string          `json:"run_id"`
	Job       string          `json:"job"`
	TakenAt   time.Time       `json:"taken_at"`
	Declared  int             `json:"declared"`
	Pages     int             `json:"pages"`
	Truncated bool            `json:"truncated"`
	Records   []ongsys.Record `json:"records"`
}

// Archive writes the extraction as one JSON object under
// snapshots/<job>/<runID>.json. Errors are returned for the caller to
// log; an archive failure never fails the sync run.
func (a *Archiver) Archive(ctx context.Context, runID, job string, ext *ongsys.Extraction) error {
	doc := snapshotDocument{
		RunID:     runID,
		Job:       job,
		TakenAt:   time.Now().UTC(),
		Declared:  ext.Declared,
		Pages:     ext.Pages,
		Truncated: ext.Truncated,
		Records:   ext.Records,
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	objectName := fmt.Sprintf("snapshots/%s/%s.json", job, runID)
	_, err = a.client.PutObject(ctx, a.bucket, objectName,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot %s: %w", objectName, err)
	}

	a.log.Info("Archived extraction snapshot",
		zap.String("object", objectName),
		zap.Int("records", len(ext.Records)),
		zap.Int("bytes", len(payload)))
	return nil
}
