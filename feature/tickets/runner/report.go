package runner

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"ticketsync/core/storage"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
)

// ObjectReport uploads each summary as JSON to object storage.
type ObjectReport struct {
	Client storage.Client
	Bucket string
	// Object is the target object name. A trailing slash makes it a prefix and
	// the run id becomes the file name.
	Object string
}

// ObjectName returns where the summary of runID is stored.
func (r *ObjectReport) ObjectName(runID string) string {
	if r.Object == "" || strings.HasSuffix(r.Object, "/") {
		return r.Object + runID + ".json"
	}
	return r.Object
}

func (r *ObjectReport) Report(ctx context.Context, s Summary) error {
	exists, err := r.Client.BucketExists(ctx, r.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", r.Bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %s not found", r.Bucket)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	name := r.ObjectName(s.RunID)
	_, err = r.Client.PutObject(ctx, r.Bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload summary to %s/%s: %w", r.Bucket, name, err)
	}
	return nil
}
