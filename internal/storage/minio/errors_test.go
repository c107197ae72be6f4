package minio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/andresuchdata/s3-file-manager/internal/config"
	"github.com/andresuchdata/s3-file-manager/internal/errs"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.Kind
	}{
		{
			name: "head on missing key",
			err:  miniogo.ErrorResponse{StatusCode: http.StatusNotFound, Code: "NotFound"},
			want: errs.KindNotFound,
		},
		{
			name: "no such key by code",
			err:  miniogo.ErrorResponse{Code: "NoSuchKey"},
			want: errs.KindNotFound,
		},
		{
			name: "wrapped no such bucket",
			err:  fmt.Errorf("get: %w", miniogo.ErrorResponse{Code: "NoSuchBucket"}),
			want: errs.KindNotFound,
		},
		{
			name: "access denied",
			err:  miniogo.ErrorResponse{StatusCode: http.StatusForbidden, Code: "AccessDenied"},
			want: errs.KindUpstream,
		},
		{
			name: "transport failure",
			err:  errors.New("dial tcp: connection refused"),
			want: errs.KindUpstream,
		},
		{
			name: "context cancelled",
			err:  context.Canceled,
			want: errs.KindUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "op")
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, tt.err, got.Cause)
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.Nil(t, mapError(nil, "op"))
}

func TestNew_DefaultsEndpoint(t *testing.T) {
	d, err := New(config.StorageConfig{
		AccessKey: "a",
		SecretKey: "b",
		Region:    "us-east-1",
		Bucket:    "uploads",
		UseSSL:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "uploads", d.Bucket())
	assert.Equal(t, "s3.amazonaws.com", d.client.EndpointURL().Host)
}

func TestNew_StripsScheme(t *testing.T) {
	d, err := New(config.StorageConfig{
		Endpoint: "http://localhost:9000",
		Bucket:   "uploads",
	})
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", d.client.EndpointURL().Host)
}
