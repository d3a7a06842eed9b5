package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/agroverde/avotrace/internal/gcp"
)

// GCSUploader implements Uploader on a Cloud Storage bucket.
type GCSUploader struct {
	client *storage.Client
	bucket string
	now    func() time.Time
}

// NewGCSUploader wraps an existing storage client and target bucket.
func NewGCSUploader(client *storage.Client, bucket string) *GCSUploader {
	return &GCSUploader{client: client, bucket: bucket, now: time.Now}
}

// Upload stores one file, retrying transient failures with doubling
// backoff. The returned URL is the object's public fetch URL. Size
// ceilings are enforced by the callers, which know whether the file is
// a calibre image or a box document.
func (u *GCSUploader) Upload(ctx context.Context, object string, f File) (string, error) {
	contentType := f.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(f.Content)
	}

	const maxRetries = 4
	backoff := 1 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := func() error {
			writeCtx, cancel := context.WithTimeout(ctx, time.Second*50)
			defer cancel()

			w := u.client.Bucket(u.bucket).Object(object).NewWriter(writeCtx)
			w.ContentType = contentType

			if _, err := io.Copy(w, bytes.NewReader(f.Content)); err != nil {
				_ = w.Close()
				return fmt.Errorf("io.Copy to GCS failed: %w", err)
			}
			if err := w.Close(); err != nil {
				return fmt.Errorf("failed to close GCS writer (finalize upload): %w", err)
			}
			return nil
		}()

		if err == nil {
			return gcp.ObjectURL(u.bucket, object), nil
		}

		lastErr = err
		if !shouldRetry(err) {
			slog.Error("Upload failed with a non-retryable error.", "gcsObject", object, "error", err)
			return "", fmt.Errorf("upload for %s failed: %w", object, err)
		}
		slog.Warn(
			"Upload failed, will retry.",
			"gcsObject", object,
			"attempt", i+1,
			"maxRetries", maxRetries,
			"backoff", backoff.String(),
			"error", err,
		)

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			slog.Error("Context cancelled during backoff. Aborting retries.", "gcsObject", object, "error", ctx.Err())
			return "", ctx.Err()
		}
	}
	slog.Error("Upload failed after all retries.", "gcsObject", object, "error", lastErr)
	return "", fmt.Errorf("upload for %s failed after all retries: %w", object, lastErr)
}

// shouldRetry reports whether an upload failure is worth another
// attempt. Permission or argument errors never heal on retry.
func shouldRetry(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusRequestTimeout ||
			gerr.Code == http.StatusTooManyRequests ||
			gerr.Code >= http.StatusInternalServerError
	}
	switch status.Code(err) {
	case codes.PermissionDenied, codes.Unauthenticated, codes.NotFound,
		codes.InvalidArgument, codes.FailedPrecondition:
		return false
	}
	return true
}

// UploadAll fans the batch out with a bounded errgroup. The whole batch
// shares one BatchTimeout; URLs come back in input order.
func (u *GCSUploader) UploadAll(ctx context.Context, category, ownerID, label string, files []File) ([]string, error) {
	batchCtx, cancel := context.WithTimeout(ctx, BatchTimeout)
	defer cancel()

	eg, gctx := errgroup.WithContext(batchCtx)
	eg.SetLimit(10)

	urls := make([]string, len(files))
	var mu sync.Mutex

	for i, f := range files {
		idx, file := i, f
		object := BuildObjectPath(category, ownerID, label, file.Name, u.now())
		eg.Go(func() error {
			url, err := u.Upload(gctx, object, file)
			if err != nil {
				return fmt.Errorf("file %s: %w", file.Name, err)
			}
			mu.Lock()
			urls[idx] = url
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
