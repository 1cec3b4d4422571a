package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTagsForMood(t *testing.T) {
	if tags := TagsForMood("dramatic"); tags[0] != "epic" {
		t.Errorf("dramatic tags = %v", tags)
	}
	if tags := TagsForMood("no-such-mood"); tags[0] != "pop" {
		t.Errorf("unknown mood should resolve to default, got %v", tags)
	}
}

func TestMoodForText(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"How to become a millionaire by thirty", "energetic"},
		{"This habit will scare you forever", "dramatic"},
		{"If you had the power to become invisible", "fun"},
		{"Why your best friend knows you better than family", "chill"},
		{"Random facts about cheese", "fun"},
	}
	for _, c := range cases {
		if got := MoodForText(c.text); got != c.want {
			t.Errorf("MoodForText(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}

func TestCachedTrackPrefersMoodDir(t *testing.T) {
	dir := t.TempDir()
	moodDir := filepath.Join(dir, "chill")
	if err := os.MkdirAll(moodDir, 0755); err != nil {
		t.Fatal(err)
	}
	track := filepath.Join(moodDir, "jamendo_42.mp3")
	if err := os.WriteFile(track, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	f := &MusicFetcher{CacheDir: dir}
	if got := f.cachedTrack("chill"); got != track {
		t.Errorf("cachedTrack = %q, want %q", got, track)
	}
}

func TestCachedTrackFallsBackToCacheRoot(t *testing.T) {
	dir := t.TempDir()
	track := filepath.Join(dir, "jamendo_7.mp3")
	if err := os.WriteFile(track, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	f := &MusicFetcher{CacheDir: dir}
	if got := f.cachedTrack("dramatic"); got != track {
		t.Errorf("cachedTrack = %q, want %q", got, track)
	}
}

func TestCachedTrackEmpty(t *testing.T) {
	f := &MusicFetcher{CacheDir: t.TempDir()}
	if got := f.cachedTrack("fun"); got != "" {
		t.Errorf("expected no cached track, got %q", got)
	}
}

func TestFetchJamendo(t *testing.T) {
	audio := strings.Repeat("x", minMusicBytes+1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tracks":
			if got := r.URL.Query().Get("client_id"); got == "" {
				t.Error("missing client_id")
			}
			w.Write([]byte(`{"results":[{"id":101,"audio":"` + "http://" + r.Host + "/audio/101.mp3" + `"}]}`))
		case "/audio/101.mp3":
			w.Write([]byte(audio))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	f := &MusicFetcher{
		JamendoBaseURL: srv.URL,
		HTTPClient:     &http.Client{Timeout: time.Second},
		CacheDir:       t.TempDir(),
	}

	path, err := f.fetchJamendo(context.Background(), "dramatic")
	if err != nil {
		t.Fatalf("fetchJamendo: %v", err)
	}
	if filepath.Base(path) != "jamendo_101.mp3" {
		t.Errorf("unexpected file name: %s", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() <= minMusicBytes {
		t.Errorf("downloaded file too small: %d bytes", info.Size())
	}
}

func TestDownloadRejectsSmallFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not really an mp3"))
	}))
	defer srv.Close()

	f := &MusicFetcher{
		HTTPClient: &http.Client{Timeout: time.Second},
		CacheDir:   t.TempDir(),
	}

	if _, err := f.download(context.Background(), srv.URL, "jamendo_9", "fun"); err == nil {
		t.Fatal("expected error for undersized download")
	}
	if _, err := os.Stat(filepath.Join(f.CacheDir, "fun", "jamendo_9.mp3")); !os.IsNotExist(err) {
		t.Error("undersized download should have been removed")
	}
}

func TestFetchPixabayRequiresKey(t *testing.T) {
	f := &MusicFetcher{CacheDir: t.TempDir()}
	if _, err := f.fetchPixabay(context.Background(), "fun"); err == nil {
		t.Fatal("expected error when PIXABAY_API_KEY is unset")
	}
}

func TestFetchFallsThroughToPixabay(t *testing.T) {
	audio := strings.Repeat("x", minMusicBytes+1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/tracks":
			// Jamendo finds nothing, even on the instrumental retry
			w.Write([]byte(`{"results":[]}`))
		case r.URL.Path == "/pixabay":
			w.Write([]byte(`{"hits":[{"id":55,"videos":{"medium":{"url":"` + "http://" + r.Host + "/audio/55.mp3" + `"}}}]}`))
		case r.URL.Path == "/audio/55.mp3":
			w.Write([]byte(audio))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	f := &MusicFetcher{
		JamendoBaseURL: srv.URL,
		PixabayBaseURL: srv.URL + "/pixabay",
		PixabayKey:     "test-key",
		HTTPClient:     &http.Client{Timeout: time.Second},
		CacheDir:       t.TempDir(),
	}

	path, err := f.Fetch(context.Background(), "chill")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if filepath.Base(path) != "pixabay_55.mp3" {
		t.Errorf("unexpected file name: %s", path)
	}
}
