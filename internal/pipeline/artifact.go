package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coursedeck/internal/storage"
)

// ArtifactStore writes run artifacts to object storage under
// artifacts/<run-id>/. Job logs go to jobs/<job-id>.log and the run report
// to report.json.
type ArtifactStore struct {
	store storage.Storage
}

// NewArtifactStore wraps an object storage client for artifact uploads.
func NewArtifactStore(store storage.Storage) *ArtifactStore {
	return &ArtifactStore{store: store}
}

func artifactKey(runID, name string) string {
	return fmt.Sprintf("artifacts/%s/%s", runID, name)
}

// UploadLog stores one job's combined output.
func (a *ArtifactStore) UploadLog(ctx context.Context, runID, jobID string, content []byte) (storage.ObjectInfo, error) {
	key := artifactKey(runID, "jobs/"+jobID+".log")
	return a.store.Put(ctx, key, bytes.NewReader(content), storage.PutObjectOptions{
		Size:        int64(len(content)),
		ContentType: "text/plain; charset=utf-8",
		Metadata:    map[string]string{"run-id": runID, "job-id": jobID},
	})
}

// UploadReport stores the run report as JSON.
func (a *ArtifactStore) UploadReport(ctx context.Context, report *RunReport) (storage.ObjectInfo, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("marshal run report: %w", err)
	}
	key := artifactKey(report.RunID, "report.json")
	return a.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: "application/json",
		Metadata:    map[string]string{"run-id": report.RunID, "workflow": report.Workflow},
	})
}

// List returns every artifact stored for a run.
func (a *ArtifactStore) List(ctx context.Context, runID string) ([]storage.ObjectInfo, error) {
	return a.store.ListPrefix(ctx, artifactKey(runID, ""))
}

// PresignReport returns a time-limited download URL for a run's report.
func (a *ArtifactStore) PresignReport(ctx context.Context, runID string, expiry time.Duration) (string, error) {
	return a.store.PresignGet(ctx, artifactKey(runID, "report.json"), expiry)
}
