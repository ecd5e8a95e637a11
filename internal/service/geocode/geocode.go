// Package geocode 地址地理编码（Nominatim 兼容接口）
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ashwinyue/travel-planner/internal/apierr"
	"github.com/ashwinyue/travel-planner/internal/config"
)

// ErrNoResult 地址无法定位
var ErrNoResult = apierr.NotFound("GEOCODE_NOT_FOUND", "No location found for that address.")

// Location 地理编码结果
type Location struct {
	Address     string  `json:"address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"displayName"`
	MapURL      string  `json:"mapUrl"`
}

// Client 地理编码客户端
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient 创建地理编码客户端
func NewClient(cfg config.GeocodeConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := time.Duration(cfg.Timeout) * time.Second
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      httpClient,
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode 地址转经纬度
func (c *Client) Geocode(ctx context.Context, address string) (*Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, apierr.BadRequest("GEOCODE_INVALID", errors.New("address is required"))
	}

	params := url.Values{"q": {address}, "format": {"json"}, "limit": {"1"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocode request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apierr.Upstream("GEOCODE_UPSTREAM_ERROR", fmt.Errorf("geocode request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, apierr.Upstream("GEOCODE_UPSTREAM_ERROR", fmt.Errorf("geocode returned status %d", resp.StatusCode))
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, apierr.Upstream("GEOCODE_UPSTREAM_ERROR", fmt.Errorf("failed to decode geocode response: %w", err))
	}
	if len(places) == 0 {
		return nil, ErrNoResult
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, apierr.Upstream("GEOCODE_UPSTREAM_ERROR", fmt.Errorf("invalid latitude %q", places[0].Lat))
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, apierr.Upstream("GEOCODE_UPSTREAM_ERROR", fmt.Errorf("invalid longitude %q", places[0].Lon))
	}

	return &Location{
		Address:     address,
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: places[0].DisplayName,
		MapURL:      fmt.Sprintf("https://www.openstreetmap.org/?mlat=%f&mlon=%f#map=16/%f/%f", lat, lon, lat, lon),
	}, nil
}
