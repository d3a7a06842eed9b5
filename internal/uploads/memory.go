package uploads

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Memory is an in-memory Uploader suitable for tests. Objects are kept
// in a map keyed by path; URLs use a mem:// scheme.
type Memory struct {
	mu      sync.Mutex
	objects map[string]File
	fail    map[string]error
	now     func() time.Time
	seq     int64
}

// NewMemory returns an empty in-memory uploader with a deterministic clock.
func NewMemory() *Memory {
	var tick int64
	return &Memory{
		objects: make(map[string]File),
		fail:    make(map[string]error),
		now: func() time.Time {
			tick++
			return time.UnixMilli(tick)
		},
	}
}

// FailWith makes uploads of the named file fail with err.
func (m *Memory) FailWith(filename string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[filename] = err
}

// Object returns a stored file and whether it exists.
func (m *Memory) Object(path string) (File, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.objects[path]
	return f, ok
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func (m *Memory) Upload(ctx context.Context, object string, f File) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.fail[f.Name]; ok {
		return "", err
	}
	m.objects[object] = f
	return fmt.Sprintf("mem://%s", object), nil
}

func (m *Memory) UploadAll(ctx context.Context, category, ownerID, label string, files []File) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		m.mu.Lock()
		ts := m.now()
		m.mu.Unlock()
		object := BuildObjectPath(category, ownerID, label, f.Name, ts)
		url, err := m.Upload(ctx, object, f)
		if err != nil {
			return nil, fmt.Errorf("file %s: %w", f.Name, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}
