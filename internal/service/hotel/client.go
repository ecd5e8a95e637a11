package hotel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ashwinyue/travel-planner/internal/config"
	"github.com/ashwinyue/travel-planner/internal/logger"
)

// Upstream 酒店价格接口
type Upstream interface {
	Search(ctx context.Context, query string) ([]Hotel, error)
	Rates(ctx context.Context, q RatesQuery) ([]Rate, error)
}

// Client Xotelo（RapidAPI）客户端
type Client struct {
	apiKey  string
	host    string
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewClient 创建 Xotelo 客户端，httpClient 为 nil 时按配置超时创建
func NewClient(cfg config.HotelConfig, httpClient *http.Client, log *logger.Logger) *Client {
	if httpClient == nil {
		timeout := time.Duration(cfg.Timeout) * time.Second
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:  cfg.XoteloAPIKey,
		host:    cfg.XoteloHost,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

// Search 按关键字搜索酒店
func (c *Client) Search(ctx context.Context, query string) ([]Hotel, error) {
	var payload struct {
		Result struct {
			List []map[string]interface{} `json:"list"`
		} `json:"result"`
	}
	if err := c.get(ctx, "search", url.Values{"query": {query}}, &payload); err != nil {
		return nil, err
	}

	hotels := make([]Hotel, 0, len(payload.Result.List))
	for _, raw := range payload.Result.List {
		hotels = append(hotels, normalizeHotel(raw))
	}
	return hotels, nil
}

// Rates 查询酒店各渠道报价
func (c *Client) Rates(ctx context.Context, q RatesQuery) ([]Rate, error) {
	params := url.Values{
		"hotel_key": {q.HotelID},
		"chk_in":    {q.CheckInDate},
		"chk_out":   {q.CheckOutDate},
		"adults":    {strconv.Itoa(q.Adults)},
		"rooms":     {strconv.Itoa(q.Rooms)},
	}
	var payload struct {
		Result *struct {
			Rates []map[string]interface{} `json:"rates"`
		} `json:"result"`
	}
	if err := c.get(ctx, "rates", params, &payload); err != nil {
		return nil, err
	}
	if payload.Result == nil {
		return []Rate{}, nil
	}

	rates := make([]Rate, 0, len(payload.Result.Rates))
	for _, raw := range payload.Result.Rates {
		rates = append(rates, Rate{
			Code: stringField(raw, "code"),
			Name: stringField(raw, "name"),
			Rate: parseFloat(raw["rate"]),
		})
	}
	return rates, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}

	reqURL := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("x-rapidapi-host", c.host)
	req.Header.Set("x-rapidapi-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return upstreamError(fmt.Errorf("xotelo request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return upstreamError(fmt.Errorf("failed to read xotelo response: %w", err))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		c.log.Error("xotelo request failed",
			"endpoint", endpoint, "params", params.Encode(), "status", resp.StatusCode, "response", truncate(string(body), 500))
		return upstreamError(fmt.Errorf("xotelo returned status %d", resp.StatusCode))
	}

	var envelope struct {
		Error interface{} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return upstreamError(fmt.Errorf("failed to decode xotelo response: %w", err))
	}
	if isPresent(envelope.Error) {
		return upstreamError(fmt.Errorf("xotelo error: %v", envelope.Error))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return upstreamError(fmt.Errorf("failed to decode xotelo response: %w", err))
	}
	return nil
}

// normalizeHotel 统一上游字段名
func normalizeHotel(raw map[string]interface{}) Hotel {
	h := Hotel{
		HotelID:        firstString(raw, "hotelId", "hotel_id", "id", "hotel_key", "key"),
		HotelName:      firstString(raw, "hotelName", "name", "hotel_name", "hotel"),
		City:           stringField(raw, "city"),
		Country:        stringField(raw, "country"),
		PlaceName:      stringField(raw, "place_name"),
		ShortPlaceName: stringField(raw, "short_place_name"),
		Address:        firstString(raw, "address", "street_address"),
		Description:    stringField(raw, "description"),
		URL:            stringField(raw, "url"),
		ImageURL:       firstString(raw, "imageUrl", "image", "image_url"),
		Rating:         parseFloat(firstValue(raw, "rating", "review_rating")),
		LowestPrice:    parseFloat(firstValue(raw, "lowestPrice", "price")),
		Amenities:      []string{},
	}
	if list, ok := raw["amenities"].([]interface{}); ok {
		for _, a := range list {
			if s := fmt.Sprint(a); s != "" {
				h.Amenities = append(h.Amenities, s)
			}
		}
	}
	return h
}

func firstValue(raw map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := raw[k]; ok && isPresent(v) {
			return v
		}
	}
	return nil
}

func firstString(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s := stringField(raw, k); s != "" {
			return s
		}
	}
	return ""
}

func stringField(raw map[string]interface{}, key string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// parseFloat 无法解析时返回 0
func parseFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	case json.Number:
		f, _ := val.Float64()
		return f
	}
	return 0
}

func isPresent(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case map[string]interface{}:
		return len(val) > 0
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// IsNotConfigured 是否为缺少 API Key
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}
