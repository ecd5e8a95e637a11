// Package testutil 提供测试辅助工具
package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"time"
)

// RewriteTransport 将外部 API 请求改写到测试服务器
// hosts 为空时改写全部请求
type RewriteTransport struct {
	base  *url.URL
	hosts map[string]bool
	next  http.RoundTripper
}

// NewRewriteTransport 创建改写器，只改写 hosts 中列出的主机
func NewRewriteTransport(baseURL string, hosts ...string) *RewriteTransport {
	u, err := url.Parse(baseURL)
	if err != nil {
		u = &url.URL{}
	}
	set := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		set[h] = true
	}
	return &RewriteTransport{base: u, hosts: set, next: http.DefaultTransport}
}

// RoundTrip 实现 http.RoundTripper
func (t *RewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(t.hosts) == 0 || t.hosts[req.URL.Host] {
		cloned := req.Clone(req.Context())
		cloned.URL.Scheme = t.base.Scheme
		cloned.URL.Host = t.base.Host
		cloned.Host = t.base.Host
		req = cloned
	}
	return t.next.RoundTrip(req)
}

// NewTestClient 创建测试用 HTTP 客户端，所有请求都发往 ts
func NewTestClient(ts *httptest.Server) *http.Client {
	return &http.Client{
		Timeout:   5 * time.Second,
		Transport: NewRewriteTransport(ts.URL),
	}
}
