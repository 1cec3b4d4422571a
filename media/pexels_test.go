package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestPexels(t *testing.T, handler http.HandlerFunc) (*PexelsClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &PexelsClient{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: &http.Client{Timeout: time.Second},
		CacheDir:   t.TempDir(),
	}, srv
}

func TestSearchPrefersHDPortrait(t *testing.T) {
	c, _ := newTestPexels(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/videos/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "test-key" {
			t.Error("missing Authorization header")
		}
		if r.URL.Query().Get("orientation") != "portrait" {
			t.Error("expected portrait orientation")
		}
		w.Write([]byte(`{"videos":[{
			"id":1,"width":1080,"height":1920,
			"video_files":[
				{"link":"http://cdn/landscape.mp4","width":1920,"height":1080,"quality":"hd"},
				{"link":"http://cdn/portrait_sd.mp4","width":540,"height":960,"quality":"sd"},
				{"link":"http://cdn/portrait_hd.mp4","width":1080,"height":1920,"quality":"hd"}
			]
		}]}`))
	})

	link, err := c.search(context.Background(), "dark cityscape")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if link != "http://cdn/portrait_hd.mp4" {
		t.Errorf("link = %q, want the hd portrait file", link)
	}
}

func TestSearchFallsBackToFirstFile(t *testing.T) {
	c, _ := newTestPexels(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"videos":[{
			"id":2,"width":1920,"height":1080,
			"video_files":[{"link":"http://cdn/only.mp4","width":1920,"height":1080,"quality":"sd"}]
		}]}`))
	})

	link, err := c.search(context.Background(), "abstract motion")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if link != "http://cdn/only.mp4" {
		t.Errorf("link = %q", link)
	}
}

func TestSearchNoResults(t *testing.T) {
	c, _ := newTestPexels(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"videos":[]}`))
	})

	if _, err := c.search(context.Background(), "nothing"); err == nil {
		t.Fatal("expected error for empty results")
	}
}

func TestClipForKeywordUsesCache(t *testing.T) {
	calls := 0
	c, _ := newTestPexels(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	cached := filepath.Join(c.CacheDir, "phrase_dark_cityscape_0.mp4")
	if err := os.WriteFile(cached, []byte("video bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	path, err := c.ClipForKeyword(context.Background(), "dark cityscape", 0)
	if err != nil {
		t.Fatalf("ClipForKeyword: %v", err)
	}
	if path != cached {
		t.Errorf("path = %q, want cached file %q", path, cached)
	}
	if calls != 0 {
		t.Errorf("cache hit should not call the API, got %d calls", calls)
	}
}

func TestClipForKeywordDownloads(t *testing.T) {
	c, _ := newTestPexels(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/videos/search":
			w.Write([]byte(`{"videos":[{
				"id":3,"width":1080,"height":1920,
				"video_files":[{"link":"http://` + r.Host + `/clip.mp4","width":1080,"height":1920,"quality":"hd"}]
			}]}`))
		case "/clip.mp4":
			w.Write([]byte("fake video payload"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	path, err := c.ClipForKeyword(context.Background(), "thinking person", 2)
	if err != nil {
		t.Fatalf("ClipForKeyword: %v", err)
	}
	if filepath.Base(path) != "phrase_thinking_person_2.mp4" {
		t.Errorf("unexpected file name: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fake video payload" {
		t.Errorf("unexpected file contents: %q", data)
	}
}

func TestClipForKeywordRequiresKey(t *testing.T) {
	c := &PexelsClient{CacheDir: t.TempDir()}
	if _, err := c.ClipForKeyword(context.Background(), "anything", 0); err == nil {
		t.Fatal("expected error when PEXELS_API_KEY is unset")
	}
}
