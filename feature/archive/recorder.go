package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"sync/atomic"
	"time"

	"presence-sync/core/reconcile"
	"presence-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const (
	// Prefix is the object prefix every archived pass is written under.
	Prefix = "passes"

	defaultQueueSize = 64
)

// Recorder writes pass reports to object storage as JSON.
type Recorder struct {
	client  storage.Client
	bucket  string
	logger  *zap.Logger
	queue   chan reconcile.PassReport
	dropped atomic.Uint64
}

// NewRecorder creates a recorder. queueSize bounds how many reports may wait
// for upload before new ones are dropped.
func NewRecorder(client storage.Client, bucket string, logger *zap.Logger, queueSize int) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Recorder{
		client: client,
		bucket: bucket,
		logger: logger.With(zap.String("bucket", bucket)),
		queue:  make(chan reconcile.PassReport, queueSize),
	}
}

// Bucket returns the archive bucket name.
func (r *Recorder) Bucket() string {
	return r.bucket
}

// EnsureBucket creates the archive bucket if it does not exist.
func (r *Recorder) EnsureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", r.bucket, err)
	}
	if exists {
		return nil
	}
	if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", r.bucket, err)
	}
	r.logger.Info("Created archive bucket")
	return nil
}

// ObjectName returns where a report is stored: passes/YYYY/MM/DD/<id>.json.
func ObjectName(report reconcile.PassReport) string {
	return path.Join(dayPrefix(report.StartedAt), report.ID+".json")
}

func dayPrefix(day time.Time) string {
	return path.Join(Prefix, day.UTC().Format("2006/01/02")) + "/"
}

// Record uploads one report.
func (r *Recorder) Record(ctx context.Context, report reconcile.PassReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode pass %s: %w", report.ID, err)
	}
	name := ObjectName(report)
	_, err = r.client.PutObject(ctx, r.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return nil
}

// Hook returns a pass callback that queues reports without blocking the pass.
// Reports are dropped when the queue is full.
func (r *Recorder) Hook() func(reconcile.PassReport) {
	return func(report reconcile.PassReport) {
		select {
		case r.queue <- report:
		default:
			r.dropped.Add(1)
			r.logger.Warn("Archive queue full, dropping pass report", zap.String("pass_id", report.ID))
		}
	}
}

// Dropped returns how many reports were discarded because the queue was full.
func (r *Recorder) Dropped() uint64 {
	return r.dropped.Load()
}

// Run uploads queued reports until ctx is cancelled.
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case report := <-r.queue:
			if err := r.Record(ctx, report); err != nil {
				r.logger.Error("Failed to archive pass", zap.String("pass_id", report.ID), zap.Error(err))
			}
		}
	}
}

// List returns the archived object names for one UTC day, sorted, at most limit.
func (r *Recorder) List(ctx context.Context, day time.Time, limit int) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var names []string
	for obj := range r.client.ListObjects(ctx, r.bucket, minio.ListObjectsOptions{
		Prefix:    dayPrefix(day),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archive: %w", obj.Err)
		}
		names = append(names, obj.Key)
	}
	sort.Strings(names)
	if limit > 0 && len(names) > limit {
		names = names[len(names)-limit:]
	}
	return names, nil
}
