package artifact

import (
	"context"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOConfig MinIO 配置
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// MinIOSource MinIO / S3 兼容对象存储
type MinIOSource struct {
	client *minio.Client
}

// NewMinIOSource 创建 MinIO 源
func NewMinIOSource(cfg *MinIOConfig) (*MinIOSource, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize MinIO client", goerr.Value("endpoint", cfg.Endpoint))
	}
	return &MinIOSource{client: client}, nil
}

// Open 读取对象
func (s *MinIOSource) Open(ctx context.Context, ref *Ref) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, ref.Bucket, ref.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get object from MinIO",
			goerr.Value("bucket", ref.Bucket), goerr.Value("key", ref.Key))
	}
	// GetObject 是惰性的，Stat 才会暴露对象不存在等错误
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, goerr.Wrap(err, "failed to stat object in MinIO",
			goerr.Value("bucket", ref.Bucket), goerr.Value("key", ref.Key))
	}
	return obj, nil
}
