package rapport

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"

	"github.com/agroverde/avotrace/internal/gcp"
)

// GCSPDFStore stores generated reports under rapports/pdfs/ in the
// given bucket.
type GCSPDFStore struct {
	client *storage.Client
	bucket string
}

// NewGCSPDFStore wraps an existing storage client and target bucket.
func NewGCSPDFStore(client *storage.Client, bucket string) *GCSPDFStore {
	return &GCSPDFStore{client: client, bucket: bucket}
}

func (s *GCSPDFStore) SavePDF(ctx context.Context, filename string, content []byte) (string, error) {
	object := fmt.Sprintf("rapports/pdfs/%s", filename)
	bucketHandle := s.client.Bucket(s.bucket)
	if err := gcp.SaveToGCSAtomically(ctx, bucketHandle, object, "application/pdf", content); err != nil {
		return "", fmt.Errorf("failed to store PDF %s: %w", filename, err)
	}
	return gcp.ObjectURL(s.bucket, object), nil
}
