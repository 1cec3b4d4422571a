package upload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func newTestUploader(t *testing.T, handler http.Handler) *Uploader {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Uploader{
		APIKey:     "key",
		APISecret:  "secret",
		Username:   "user",
		Password:   "pass",
		BaseURL:    srv.URL,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestIsConfigured(t *testing.T) {
	u := &Uploader{APIKey: "k", APISecret: "s", Username: "u", Password: "p"}
	if !u.IsConfigured() {
		t.Error("expected configured")
	}
	u.Password = ""
	if u.IsConfigured() {
		t.Error("expected not configured with missing password")
	}
}

func TestAuthenticate(t *testing.T) {
	u := newTestUploader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/token" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("grant_type") != "password" {
			t.Errorf("grant_type = %q", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("scope") != "manage_videos" {
			t.Errorf("scope = %q", r.PostForm.Get("scope"))
		}
		w.Write([]byte(`{"access_token":"tok123"}`))
	}))

	if err := u.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u.accessToken != "tok123" {
		t.Errorf("accessToken = %q", u.accessToken)
	}
}

func TestAuthenticateUnconfigured(t *testing.T) {
	u := &Uploader{}
	if err := u.Authenticate(context.Background()); err == nil {
		t.Fatal("expected error without credentials")
	}
}

func TestUploadThreeSteps(t *testing.T) {
	video := filepath.Join(t.TempDir(), "out.mp4")
	if err := os.WriteFile(video, []byte("video bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	var uploadHost string
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"tok123"}`))
	})
	mux.HandleFunc("/file/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok123" {
			t.Error("missing bearer token on upload URL request")
		}
		w.Write([]byte(`{"upload_url":"http://` + uploadHost + `/upload"}`))
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart body: %v", err)
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		f.Close()
		w.Write([]byte(`{"url":"http://cdn/stored.mp4"}`))
	})
	mux.HandleFunc("/me/videos", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("url") != "http://cdn/stored.mp4" {
			t.Errorf("url = %q", r.PostForm.Get("url"))
		}
		if r.PostForm.Get("published") != "true" {
			t.Errorf("published = %q", r.PostForm.Get("published"))
		}
		if r.PostForm.Get("tags") != "viral,shorts" {
			t.Errorf("tags = %q", r.PostForm.Get("tags"))
		}
		w.Write([]byte(`{"id":"x8abcde"}`))
	})

	u := newTestUploader(t, mux)
	uploadHost = strings.TrimPrefix(u.BaseURL, "http://")

	id, err := u.Upload(context.Background(), video, "My Title", "A description", []string{"viral", "shorts"})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if id != "x8abcde" {
		t.Errorf("video ID = %q", id)
	}
}

func TestUploadMissingFile(t *testing.T) {
	u := newTestUploader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"tok123"}`))
	}))

	if _, err := u.Upload(context.Background(), "/nonexistent/video.mp4", "t", "d", nil); err == nil {
		t.Fatal("expected error for missing video file")
	}
}

func TestCreateVideoTruncatesMetadata(t *testing.T) {
	var gotTitle, gotDesc, gotTags string
	u := newTestUploader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		gotTitle = r.PostForm.Get("title")
		gotDesc = r.PostForm.Get("description")
		gotTags = r.PostForm.Get("tags")
		w.Write([]byte(`{"id":"x9fghij"}`))
	}))
	u.accessToken = "tok123"

	longTitle := strings.Repeat("t", 300)
	longDesc := strings.Repeat("d", 4000)
	manyTags := make([]string, 25)
	for i := range manyTags {
		manyTags[i] = "tag"
	}

	if _, err := u.createVideo(context.Background(), "http://cdn/f.mp4", longTitle, longDesc, manyTags); err != nil {
		t.Fatalf("createVideo: %v", err)
	}
	if len(gotTitle) != maxTitleChars {
		t.Errorf("title length = %d, want %d", len(gotTitle), maxTitleChars)
	}
	if len(gotDesc) != maxDescriptionChars {
		t.Errorf("description length = %d, want %d", len(gotDesc), maxDescriptionChars)
	}
	if got := len(strings.Split(gotTags, ",")); got != maxTags {
		t.Errorf("tag count = %d, want %d", got, maxTags)
	}
}

func TestTruncateRunesKeepsMultibyteCharactersWhole(t *testing.T) {
	long := strings.Repeat("é", maxTitleChars+50)
	got := truncateRunes(long, maxTitleChars)
	if utf8.RuneCountInString(got) != maxTitleChars {
		t.Errorf("rune count = %d, want %d", utf8.RuneCountInString(got), maxTitleChars)
	}
	if !utf8.ValidString(got) {
		t.Error("truncation produced invalid UTF-8")
	}
	if got != strings.Repeat("é", maxTitleChars) {
		t.Error("truncation split a multi-byte character")
	}

	if truncateRunes("short", maxTitleChars) != "short" {
		t.Error("short strings should pass through unchanged")
	}
}

func TestCreateVideoDefaultTags(t *testing.T) {
	var gotTags string
	u := newTestUploader(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		gotTags = r.PostForm.Get("tags")
		w.Write([]byte(`{"id":"x1"}`))
	}))
	u.accessToken = "tok123"

	if _, err := u.createVideo(context.Background(), "http://cdn/f.mp4", "t", "d", nil); err != nil {
		t.Fatalf("createVideo: %v", err)
	}
	if gotTags != "viral,shorts" {
		t.Errorf("tags = %q, want default tags", gotTags)
	}
}
