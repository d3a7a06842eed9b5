package uploads

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestShouldRetry(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		retry bool
	}{
		{"service unavailable", &googleapi.Error{Code: http.StatusServiceUnavailable}, true},
		{"too many requests", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"forbidden", &googleapi.Error{Code: http.StatusForbidden}, false},
		{"bucket not found", &googleapi.Error{Code: http.StatusNotFound}, false},
		{"wrapped forbidden", fmt.Errorf("failed to close GCS writer (finalize upload): %w", &googleapi.Error{Code: http.StatusForbidden}), false},
		{"grpc permission denied", status.Error(codes.PermissionDenied, "denied"), false},
		{"grpc invalid argument", status.Error(codes.InvalidArgument, "bad bucket"), false},
		{"grpc unavailable", status.Error(codes.Unavailable, "try later"), true},
		{"plain network error", errors.New("connection reset by peer"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.retry, shouldRetry(tc.err))
		})
	}
}
