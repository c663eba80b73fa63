package artifact

import (
	"context"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
)

// HTTPSource 通过 HTTP(S) 下载
type HTTPSource struct {
	client *http.Client
}

// NewHTTPSource 创建 HTTP 源，client 为空时使用默认客户端
func NewHTTPSource(client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{client: client}
}

// Open 发起 GET 请求
func (s *HTTPSource) Open(ctx context.Context, ref *Ref) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.Raw, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build request", goerr.Value("url", ref.Raw))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download artifact", goerr.Value("url", ref.Raw))
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, goerr.New("unexpected status downloading artifact",
			goerr.Value("url", ref.Raw), goerr.Value("status", resp.StatusCode))
	}
	return resp.Body, nil
}
