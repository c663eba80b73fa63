package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"time"
)

// RedirectTransport 将所有请求改写到测试服务器，保留路径与查询参数
type RedirectTransport struct {
	target *url.URL
	next   http.RoundTripper
}

// NewRedirectTransport 创建重定向 Transport
func NewRedirectTransport(targetURL string) *RedirectTransport {
	u, _ := url.Parse(targetURL)
	return &RedirectTransport{target: u, next: http.DefaultTransport}
}

// RoundTrip 实现 http.RoundTripper
func (t *RedirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.URL.Scheme = t.target.Scheme
	cloned.URL.Host = t.target.Host
	cloned.Host = t.target.Host
	return t.next.RoundTrip(cloned)
}

// NewTestClient 创建指向测试服务器的 HTTP 客户端
func NewTestClient(ts *httptest.Server) *http.Client {
	return &http.Client{
		Timeout:   5 * time.Second,
		Transport: NewRedirectTransport(ts.URL),
	}
}
