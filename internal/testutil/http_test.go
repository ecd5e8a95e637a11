package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRewriteTransport(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, r.URL.Path+"?"+r.URL.RawQuery)
	}))
	defer ts.Close()

	client := NewTestClient(ts)
	resp, err := client.Get("https://api.weatherapi.com/v1/forecast.json?q=Paris")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "/v1/forecast.json?q=Paris" {
		t.Errorf("body = %q", body)
	}
}

func TestRewriteTransport_OnlyListedHosts(t *testing.T) {
	rt := NewRewriteTransport("http://127.0.0.1:1", "nominatim.openstreetmap.org")
	if !rt.hosts["nominatim.openstreetmap.org"] || rt.hosts["example.com"] {
		t.Errorf("hosts = %v", rt.hosts)
	}
	if rt.base.Host != "127.0.0.1:1" {
		t.Errorf("base = %v", rt.base)
	}
}
