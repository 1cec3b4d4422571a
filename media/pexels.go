package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/asaadbalum2/QuizBot-Shorts/internal/platform"
)

// PexelsClient searches and downloads stock B-roll video. Downloads are
// cached on disk keyed by keyword, so repeated keywords across videos
// never hit the API twice.
type PexelsClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	CacheDir   string
}

// NewPexelsClient builds a client from PEXELS_API_KEY and the shared
// asset directory.
func NewPexelsClient() *PexelsClient {
	return &PexelsClient{
		APIKey:     os.Getenv("PEXELS_API_KEY"),
		BaseURL:    "https://api.pexels.com",
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		CacheDir:   filepath.Join(platform.AssetDir(), "broll"),
	}
}

type pexelsSearchResponse struct {
	Videos []struct {
		ID         int `json:"id"`
		Width      int `json:"width"`
		Height     int `json:"height"`
		VideoFiles []struct {
			Link    string `json:"link"`
			Width   int    `json:"width"`
			Height  int    `json:"height"`
			Quality string `json:"quality"`
		} `json:"video_files"`
	} `json:"videos"`
}

// ClipForKeyword returns a local path to a B-roll clip matching the
// keyword, downloading it if it isn't cached yet.
func (c *PexelsClient) ClipForKeyword(ctx context.Context, keyword string, index int) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("PEXELS_API_KEY environment variable not set")
	}

	cacheFile := filepath.Join(c.CacheDir, fmt.Sprintf("phrase_%s_%d.mp4", strings.ReplaceAll(keyword, " ", "_"), index))
	if info, err := os.Stat(cacheFile); err == nil && info.Size() > 0 {
		log.Printf("Using cached B-roll: %s", cacheFile)
		return cacheFile, nil
	}

	link, err := c.search(ctx, keyword)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.CacheDir, 0755); err != nil {
		return "", err
	}
	if err := c.downloadFile(ctx, link, cacheFile); err != nil {
		return "", err
	}

	log.Printf("Downloaded B-roll for %q: %s", keyword, cacheFile)
	return cacheFile, nil
}

// search returns the download link of the best portrait match for the
// keyword. Landscape-only results are still used as a last resort since
// the renderer crops to 9:16 anyway.
func (c *PexelsClient) search(ctx context.Context, keyword string) (string, error) {
	q := url.Values{}
	q.Set("query", keyword)
	q.Set("per_page", "5")
	q.Set("orientation", "portrait")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/videos/search?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pexels search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pexels search returned %d", resp.StatusCode)
	}

	var result pexelsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result.Videos) == 0 {
		return "", fmt.Errorf("no pexels results for %q", keyword)
	}

	// Prefer an HD portrait file, fall back to the first file offered.
	for _, video := range result.Videos {
		for _, file := range video.VideoFiles {
			if file.Height > file.Width && file.Quality == "hd" {
				return file.Link, nil
			}
		}
	}
	first := result.Videos[0]
	if len(first.VideoFiles) == 0 {
		return "", fmt.Errorf("pexels result for %q has no files", keyword)
	}
	return first.VideoFiles[0].Link, nil
}

func (c *PexelsClient) downloadFile(ctx context.Context, link, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("pexels download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pexels download returned %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(dest)
		return err
	}
	return nil
}
