package uploads_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroverde/avotrace/internal/uploads"
)

func TestSanitizeLabel(t *testing.T) {
	cases := map[string]string{
		"N/A":        "NA",
		"12":         "12",
		"calibre 14": "calibre14",
		"a-b_c.d":    "abcd",
		"":           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, uploads.SanitizeLabel(in), "input %q", in)
	}
}

func TestBuildObjectPath(t *testing.T) {
	ts := time.UnixMilli(1700000000000)
	got := uploads.BuildObjectPath(uploads.CategoryCalibres, "lot-42", "N/A", "photo.jpg", ts)
	assert.Equal(t, "quality_control/calibres/lot-42/NA/1700000000000_photo.jpg", got)

	// Every segment between the owner id and the filename must stay
	// strictly alphanumeric.
	parts := strings.Split(got, "/")
	require.Len(t, parts, 5)
	for _, r := range parts[3] {
		assert.True(t, (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	}
}

func TestBuildBoxObjectPath(t *testing.T) {
	got := uploads.BuildBoxObjectPath("uid-7", "box-3", "facture.pdf")
	assert.Equal(t, "users/uid-7/boxes/box-3/files/facture.pdf", got)
}

func TestCheckSize(t *testing.T) {
	small := uploads.File{Name: "ok.jpg", Content: []byte("x")}
	assert.NoError(t, small.CheckSize(uploads.MaxImageBytes))

	empty := uploads.File{Name: "empty.jpg"}
	assert.Error(t, empty.CheckSize(uploads.MaxImageBytes))

	big := uploads.File{Name: "big.jpg", Content: make([]byte, uploads.MaxImageBytes+1)}
	assert.Error(t, big.CheckSize(uploads.MaxImageBytes))
	assert.NoError(t, big.CheckSize(uploads.MaxBoxFileBytes))
}

func TestMemoryUploadAll(t *testing.T) {
	mem := uploads.NewMemory()
	files := []uploads.File{
		{Name: "a.jpg", Content: []byte("a")},
		{Name: "b.jpg", Content: []byte("b")},
	}

	urls, err := mem.UploadAll(context.Background(), uploads.CategoryCalibres, "lot-1", "12", files)
	require.NoError(t, err)
	require.Len(t, urls, 2)
	assert.Equal(t, 2, mem.Len())
	for _, u := range urls {
		assert.True(t, strings.HasPrefix(u, "mem://quality_control/calibres/lot-1/12/"))
	}
}

func TestMemoryUploadAllStopsOnFailure(t *testing.T) {
	mem := uploads.NewMemory()
	boom := errors.New("backend unavailable")
	mem.FailWith("b.jpg", boom)

	files := []uploads.File{
		{Name: "a.jpg", Content: []byte("a")},
		{Name: "b.jpg", Content: []byte("b")},
		{Name: "c.jpg", Content: []byte("c")},
	}
	_, err := mem.UploadAll(context.Background(), uploads.CategoryCalibres, "lot-1", "12", files)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	// The file stored before the failure stays behind; there is no rollback.
	assert.Equal(t, 1, mem.Len())
}

func TestUploadLeavesSizeToCaller(t *testing.T) {
	mem := uploads.NewMemory()

	// A box document between the image and box ceilings must store fine;
	// only callers know which ceiling applies to the file at hand.
	object := uploads.BuildBoxObjectPath("uid-7", "box-3", "facture.pdf")
	url, err := mem.Upload(context.Background(), object, uploads.File{
		Name:    "facture.pdf",
		Content: make([]byte, 6<<20),
	})
	require.NoError(t, err)
	assert.Equal(t, "mem://"+object, url)
}
