// Package artifact 负责模型文件的获取与本地缓存
// 本地不存在时按远端标识下载一次，之后直接复用本地文件
package artifact

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Scheme 远端存储类型
type Scheme string

const (
	SchemeLocal Scheme = "file"
	SchemeGCS   Scheme = "gs"
	SchemeMinIO Scheme = "minio"
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
)

// Source 远端模型文件读取接口
type Source interface {
	// Open 打开远端对象
	Open(ctx context.Context, ref *Ref) (io.ReadCloser, error)
}

// Ref 远端对象标识
type Ref struct {
	Raw    string
	Scheme Scheme
	Bucket string
	Key    string
}

// ParseRef 解析远端标识
// 支持 gs://bucket/key、minio://bucket/key、https://host/path、file:///path 以及裸路径
func ParseRef(raw string) (*Ref, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, goerr.New("empty artifact reference")
	}

	if !strings.Contains(raw, "://") {
		return &Ref{Raw: raw, Scheme: SchemeLocal, Key: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid artifact reference", goerr.Value("ref", raw))
	}

	ref := &Ref{Raw: raw, Scheme: Scheme(strings.ToLower(u.Scheme))}
	switch ref.Scheme {
	case SchemeGCS, SchemeMinIO:
		ref.Bucket = u.Host
		ref.Key = strings.TrimPrefix(u.Path, "/")
		if ref.Bucket == "" || ref.Key == "" {
			return nil, goerr.New("bucket and object key are required", goerr.Value("ref", raw))
		}
	case SchemeHTTP, SchemeHTTPS:
		ref.Key = raw
	case SchemeLocal:
		ref.Key = u.Path
	default:
		return nil, goerr.New("unsupported artifact scheme", goerr.Value("scheme", u.Scheme))
	}

	return ref, nil
}
