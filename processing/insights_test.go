package processing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseISODuration(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"PT1M23S", 83},
		{"PT45S", 45},
		{"PT3M", 180},
		{"PT1H2M3S", 3723},
		{"PT0S", 0},
		{"", 0},
		{"P1D", 0},
		{"PT1X", 0},
	}
	for _, c := range cases {
		if got := ParseISODuration(c.in); got != c.want {
			t.Errorf("ParseISODuration(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestPromptBoostBaseline(t *testing.T) {
	a := &Analyzer{} // no redis, cold cache
	boost := a.PromptBoost(context.Background())

	if !strings.Contains(boost, "TITLE PATTERNS THAT PERFORM WELL") {
		t.Error("boost missing title patterns section")
	}
	for _, p := range ProvenPatterns {
		if !strings.Contains(boost, p) {
			t.Errorf("boost missing proven pattern %q", p)
		}
	}
	if strings.Contains(boost, "LEARNED FROM TOP CHANNELS") {
		t.Error("cold cache should not include learned patterns")
	}
}

func TestFetchChannel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/channels" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing API key in request")
		}
		w.Write([]byte(`{"items":[{
			"snippet":{"title":"Deep Facts"},
			"statistics":{"subscriberCount":"123456"},
			"contentDetails":{"relatedPlaylists":{"uploads":"UUabc123"}}
		}]}`))
	}))
	defer srv.Close()

	a := &Analyzer{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: &http.Client{Timeout: time.Second},
	}

	info, err := a.fetchChannel(context.Background(), "UCabc123")
	if err != nil {
		t.Fatalf("fetchChannel: %v", err)
	}
	if info.title != "Deep Facts" {
		t.Errorf("title = %q", info.title)
	}
	if info.subscribers != 123456 {
		t.Errorf("subscribers = %d", info.subscribers)
	}
	if info.uploadsPlaylist != "UUabc123" {
		t.Errorf("uploadsPlaylist = %q", info.uploadsPlaylist)
	}
}

func TestFetchPlaylistVideosSkipsLongVideos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/playlistItems":
			w.Write([]byte(`{"items":[
				{"contentDetails":{"videoId":"v1"}},
				{"contentDetails":{"videoId":"v2"}}
			]}`))
		case "/videos":
			w.Write([]byte(`{"items":[
				{"snippet":{"title":"Short one"},"contentDetails":{"duration":"PT58S"}},
				{"snippet":{"title":"Long documentary"},"contentDetails":{"duration":"PT12M30S"}}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	a := &Analyzer{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: &http.Client{Timeout: time.Second},
	}

	videos, err := a.fetchPlaylistVideos(context.Background(), "UUabc123", 20)
	if err != nil {
		t.Fatalf("fetchPlaylistVideos: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected 1 video after filtering, got %d", len(videos))
	}
	if videos[0].title != "Short one" || videos[0].durationSec != 58 {
		t.Errorf("unexpected video: %+v", videos[0])
	}
}
