package artifact

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sirupsen/logrus"
)

// ErrNoSource 本地文件不存在且没有配置远端标识
var ErrNoSource = errors.New("artifact not found locally and no remote source configured")

// Fetcher 模型文件获取器
type Fetcher struct {
	sources map[Scheme]Source
}

// Option Fetcher 选项
type Option func(*Fetcher)

// WithSource 注册某种 scheme 的源
func WithSource(scheme Scheme, src Source) Option {
	return func(f *Fetcher) {
		f.sources[scheme] = src
	}
}

// NewFetcher 创建获取器，默认注册本地文件源
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		sources: map[Scheme]Source{
			SchemeLocal: LocalSource{},
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Ensure 确保 localPath 存在，不存在时从 remote 下载
// 下载先写临时文件再改名，中途失败不会留下半个模型文件
func (f *Fetcher) Ensure(ctx context.Context, localPath, remote string) (string, error) {
	if info, err := os.Stat(localPath); err == nil && !info.IsDir() {
		return localPath, nil
	}

	if remote == "" {
		return "", goerr.Wrap(ErrNoSource, "cannot resolve model artifact", goerr.Value("path", localPath))
	}

	ref, err := ParseRef(remote)
	if err != nil {
		return "", err
	}

	src, ok := f.sources[ref.Scheme]
	if !ok {
		return "", goerr.New("no source registered for scheme", goerr.Value("scheme", ref.Scheme))
	}

	logger := logrus.WithFields(logrus.Fields{
		"source": ref.Raw,
		"path":   localPath,
	})
	logger.Info("downloading model artifact")

	reader, err := src.Open(ctx, ref)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return "", goerr.Wrap(err, "failed to create artifact directory", goerr.Value("path", localPath))
	}

	tmp, err := os.CreateTemp(filepath.Dir(localPath), ".artifact-*")
	if err != nil {
		return "", goerr.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	n, err := io.Copy(tmp, reader)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", goerr.Wrap(err, "failed to write artifact", goerr.Value("path", localPath))
	}

	if err := os.Rename(tmpName, localPath); err != nil {
		return "", goerr.Wrap(err, "failed to move artifact into place", goerr.Value("path", localPath))
	}

	logger.WithField("bytes", n).Info("model artifact downloaded")
	return localPath, nil
}
