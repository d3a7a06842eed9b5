// Package uploads stores calibre and test images in the blob store and
// hands back fetchable URLs. Paths are deterministic and timestamped so
// repeated uploads of the same filename never collide.
package uploads

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// Size ceilings. Calibre and test images use MaxImageBytes; the generic
// box-file flow allows larger documents.
const (
	MaxImageBytes   = 5 << 20
	MaxBoxFileBytes = 10 << 20
)

// BatchTimeout bounds a whole multi-image upload.
const BatchTimeout = 5 * time.Minute

// Upload categories under the quality_control/ prefix.
const (
	CategoryLots     = "lots"
	CategoryCalibres = "calibres"
	CategoryTests    = "tests"
)

// File is an in-memory file queued for upload.
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// CheckSize returns an error when the file exceeds limit bytes or is empty.
func (f File) CheckSize(limit int64) error {
	if len(f.Content) == 0 {
		return fmt.Errorf("file %s is empty", f.Name)
	}
	if int64(len(f.Content)) > limit {
		return fmt.Errorf("file %s exceeds the %d MB limit", f.Name, limit>>20)
	}
	return nil
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// SanitizeLabel strips every character outside [a-zA-Z0-9] so labels like
// "N/A" stay valid storage path segments ("NA").
func SanitizeLabel(label string) string {
	return nonAlphanumeric.ReplaceAllString(label, "")
}

// BuildObjectPath constructs the storage object path for one file:
// quality_control/<category>/<ownerID>/<sanitizedLabel>/<unixms>_<filename>.
func BuildObjectPath(category, ownerID, label, filename string, ts time.Time) string {
	return fmt.Sprintf("quality_control/%s/%s/%s/%d_%s",
		category, ownerID, SanitizeLabel(label), ts.UnixMilli(), filename)
}

// BuildBoxObjectPath constructs the storage path for a user box file:
// users/<uid>/boxes/<boxID>/files/<filename>. Box files carry the larger
// MaxBoxFileBytes ceiling.
func BuildBoxObjectPath(uid, boxID, filename string) string {
	return fmt.Sprintf("users/%s/boxes/%s/files/%s", uid, boxID, filename)
}

// Uploader stores files and returns their fetch URLs. Implementations:
// GCS for production, Memory for tests.
type Uploader interface {
	// Upload stores a single file at the given object path.
	Upload(ctx context.Context, object string, f File) (string, error)
	// UploadAll stores every file under the category/owner/label prefix
	// concurrently. The first failure fails the batch; files already
	// stored are not rolled back.
	UploadAll(ctx context.Context, category, ownerID, label string, files []File) ([]string, error)
}
