package artifact

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource 记录 Open 调用次数
type countingSource struct {
	data  string
	err   error
	calls int
}

func (s *countingSource) Open(ctx context.Context, ref *Ref) (io.ReadCloser, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.data)), nil
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantScheme Scheme
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{name: "gcs", raw: "gs://models/plant.onnx", wantScheme: SchemeGCS, wantBucket: "models", wantKey: "plant.onnx"},
		{name: "minio nested key", raw: "minio://bucket/a/b/model.onnx", wantScheme: SchemeMinIO, wantBucket: "bucket", wantKey: "a/b/model.onnx"},
		{name: "https", raw: "https://example.com/m.onnx", wantScheme: SchemeHTTPS, wantKey: "https://example.com/m.onnx"},
		{name: "bare path", raw: "/mnt/models/m.onnx", wantScheme: SchemeLocal, wantKey: "/mnt/models/m.onnx"},
		{name: "file url", raw: "file:///mnt/m.onnx", wantScheme: SchemeLocal, wantKey: "/mnt/m.onnx"},
		{name: "missing key", raw: "gs://models", wantErr: true},
		{name: "unsupported", raw: "ftp://host/m.onnx", wantErr: true},
		{name: "empty", raw: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseRef(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantScheme, ref.Scheme)
			assert.Equal(t, tt.wantBucket, ref.Bucket)
			assert.Equal(t, tt.wantKey, ref.Key)
		})
	}
}

func TestFetcher_Ensure_ExistingFileSkipsDownload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.onnx")
	require.NoError(t, os.WriteFile(path, []byte("cached"), 0o600))

	src := &countingSource{data: "remote"}
	f := NewFetcher(WithSource(SchemeGCS, src))

	got, err := f.Ensure(context.Background(), path, "gs://models/model.onnx")
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, 0, src.calls)
}

func TestFetcher_Ensure_DownloadsOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "model.onnx")

	src := &countingSource{data: "weights"}
	f := NewFetcher(WithSource(SchemeGCS, src))

	for i := 0; i < 2; i++ {
		_, err := f.Ensure(context.Background(), path, "gs://models/model.onnx")
		require.NoError(t, err)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "weights", string(data))
	assert.Equal(t, 1, src.calls)
}

func TestFetcher_Ensure_Errors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.onnx")

	t.Run("no remote", func(t *testing.T) {
		_, err := NewFetcher().Ensure(context.Background(), path, "")
		assert.ErrorIs(t, err, ErrNoSource)
	})

	t.Run("unregistered scheme", func(t *testing.T) {
		_, err := NewFetcher().Ensure(context.Background(), path, "gs://models/model.onnx")
		assert.Error(t, err)
	})

	t.Run("source failure leaves no file", func(t *testing.T) {
		src := &countingSource{err: errors.New("boom")}
		_, err := NewFetcher(WithSource(SchemeMinIO, src)).Ensure(context.Background(), path, "minio://b/model.onnx")
		assert.Error(t, err)
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestHTTPSource(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/model.onnx" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("onnx-bytes"))
	}))
	defer ts.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "model.onnx")
	f := NewFetcher(WithSource(SchemeHTTP, NewHTTPSource(ts.Client())))

	_, err := f.Ensure(context.Background(), path, ts.URL+"/model.onnx")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "onnx-bytes", string(data))

	_, err = f.Ensure(context.Background(), filepath.Join(dir, "missing.onnx"), ts.URL+"/missing.onnx")
	assert.Error(t, err)
}
