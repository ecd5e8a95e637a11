// Package websearch 网络搜索（eino-ext DuckDuckGo）
package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ashwinyue/travel-planner/internal/config"
	duckduckgo "github.com/cloudwego/eino-ext/components/tool/duckduckgo/v2"
	"github.com/cloudwego/eino/components/tool"
)

// ErrDisabled 网络搜索未启用
var ErrDisabled = errors.New("web search is disabled")

// Result 搜索结果
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary"`
}

// Searcher 网络搜索接口
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// DuckDuckGo 基于 DuckDuckGo 文本搜索工具的搜索器
type DuckDuckGo struct {
	tool    tool.InvokableTool
	timeout time.Duration
}

// New 创建搜索器，未启用时返回 ErrDisabled
func New(ctx context.Context, cfg config.WebSearchConfig) (*DuckDuckGo, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	t, err := duckduckgo.NewTextSearchTool(ctx, &duckduckgo.Config{
		ToolName:   "duckduckgo_text_search",
		ToolDesc:   "Search the web with DuckDuckGo.",
		MaxResults: maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create duckduckgo tool: %w", err)
	}
	return NewWithTool(t, time.Duration(cfg.Timeout)*time.Second), nil
}

// NewWithTool 使用已有的搜索工具创建搜索器
func NewWithTool(t tool.InvokableTool, timeout time.Duration) *DuckDuckGo {
	return &DuckDuckGo{tool: t, timeout: timeout}
}

// searchResponse DuckDuckGo 工具输出
type searchResponse struct {
	Message string   `json:"message"`
	Results []Result `json:"results"`
}

// Search 执行搜索
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query is required")
	}
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	args, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}
	out, err := d.tool.InvokableRun(ctx, string(args))
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}

	var resp searchResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode web search result: %w", err)
	}

	results := make([]Result, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, r)
	}
	return results, nil
}
