// Package weather WeatherAPI.com 天气查询
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ashwinyue/travel-planner/internal/apierr"
	"github.com/ashwinyue/travel-planner/internal/config"
)

// ErrNotConfigured 未配置 API Key
var ErrNotConfigured = apierr.NotConfigured("WEATHER_NOT_CONFIGURED", "Weather service is not configured.")

// Client WeatherAPI 客户端
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient 创建天气客户端
func NewClient(cfg config.WeatherConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := time.Duration(cfg.Timeout) * time.Second
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
	}
}

// Forecast 指定日期时查询预报，否则查询当前天气，返回原始 JSON
func (c *Client) Forecast(ctx context.Context, location, date string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	endpoint := "/current.json"
	params := url.Values{"key": {c.apiKey}, "q": {location}}
	if date != "" {
		endpoint = "/forecast.json"
		params.Set("dt", date)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apierr.Upstream("WEATHER_UPSTREAM_ERROR", fmt.Errorf("weather request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.Upstream("WEATHER_UPSTREAM_ERROR", fmt.Errorf("failed to read weather response: %w", err))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, apierr.Upstream("WEATHER_UPSTREAM_ERROR", fmt.Errorf("weather returned status %d", resp.StatusCode))
	}
	if !json.Valid(body) {
		return nil, apierr.Upstream("WEATHER_UPSTREAM_ERROR", fmt.Errorf("weather returned invalid json"))
	}
	return json.RawMessage(body), nil
}
