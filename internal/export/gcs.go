package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"

	"expensecoach/internal/domain"
)

const uploadTimeout = 2 * time.Minute

// Archiver keeps a copy of each CSV export in a GCS bucket. It assumes
// Application Default Credentials are configured.
type Archiver struct {
	Bucket string
}

// NewArchiver creates an archiver targeting the given bucket.
func NewArchiver(bucket string) *Archiver {
	return &Archiver{Bucket: bucket}
}

// ArchiveCSV uploads the owner's expenses as a timestamped CSV object and
// returns the object name.
func (a *Archiver) ArchiveCSV(ctx context.Context, ownerID string, expenses []domain.Expense) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, expenses); err != nil {
		return "", fmt.Errorf("render csv: %w", err)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	objectName := fmt.Sprintf("exports/%s/expenses-%s.csv",
		ownerID, time.Now().UTC().Format("20060102-150405"))

	w := client.Bucket(a.Bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "text/csv"
	if _, err := io.Copy(w, &buf); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("copy csv to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}
	return objectName, nil
}
