package artifact

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// GCSSource Cloud Storage 源，使用默认凭据
type GCSSource struct {
	client *storage.Client
}

// NewGCSSource 创建 Cloud Storage 源
func NewGCSSource(ctx context.Context) (*GCSSource, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}
	return &GCSSource{client: client}, nil
}

// Open 读取对象
func (s *GCSSource) Open(ctx context.Context, ref *Ref) (io.ReadCloser, error) {
	reader, err := s.client.Bucket(ref.Bucket).Object(ref.Key).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read from storage",
			goerr.Value("bucket", ref.Bucket), goerr.Value("key", ref.Key))
	}
	return reader, nil
}

// Close 关闭客户端
func (s *GCSSource) Close() error {
	return s.client.Close()
}
