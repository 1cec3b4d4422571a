package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/asaadbalum2/QuizBot-Shorts/internal/platform"
)

// Music is fetched through an ordered fallback chain: disk cache first,
// then Jamendo (free, copyright-safe), then Pixabay. A miss on the whole
// chain is reported as an error but callers treat it as non-fatal: a
// video without background music still renders.

// minMusicBytes filters out truncated downloads and error pages.
const minMusicBytes = 10000

// jamendoClientID is the public free-tier client ID.
const jamendoClientID = "58c7c0f1"

// MoodTags maps a music mood to search tags for the music APIs.
var MoodTags = map[string][]string{
	"fun":        {"happy", "upbeat", "playful"},
	"dramatic":   {"epic", "cinematic", "dramatic"},
	"mysterious": {"ambient", "dark", "atmospheric"},
	"energetic":  {"energetic", "electronic", "dance"},
	"chill":      {"chill", "ambient", "calm"},
	"default":    {"pop", "electronic", "ambient"},
}

// TagsForMood resolves a mood to its search tags, defaulting for
// unknown moods.
func TagsForMood(mood string) []string {
	if tags, ok := MoodTags[mood]; ok {
		return tags
	}
	return MoodTags["default"]
}

// MusicFetcher retrieves background music matching a mood.
type MusicFetcher struct {
	JamendoBaseURL string
	PixabayBaseURL string
	PixabayKey     string
	HTTPClient     *http.Client
	CacheDir       string
}

// NewMusicFetcher builds a fetcher with production endpoints and the
// shared asset directory.
func NewMusicFetcher() *MusicFetcher {
	return &MusicFetcher{
		JamendoBaseURL: "https://api.jamendo.com/v3.0",
		PixabayBaseURL: "https://pixabay.com/api/",
		PixabayKey:     os.Getenv("PIXABAY_API_KEY"),
		HTTPClient:     &http.Client{Timeout: 60 * time.Second},
		CacheDir:       filepath.Join(platform.AssetDir(), "music"),
	}
}

// Fetch returns a local MP3 path for the mood, trying cache, Jamendo,
// then Pixabay.
func (f *MusicFetcher) Fetch(ctx context.Context, mood string) (string, error) {
	if cached := f.cachedTrack(mood); cached != "" {
		log.Printf("Using cached music: %s", cached)
		return cached, nil
	}

	path, err := f.fetchJamendo(ctx, mood)
	if err == nil {
		return path, nil
	}
	log.Printf("Jamendo fetch failed: %v", err)

	path, err = f.fetchPixabay(ctx, mood)
	if err == nil {
		return path, nil
	}
	log.Printf("Pixabay fetch failed: %v", err)

	return "", fmt.Errorf("no background music available for mood %q", mood)
}

// cachedTrack picks a random cached MP3 for the mood, or from the cache
// root when the mood directory is empty.
func (f *MusicFetcher) cachedTrack(mood string) string {
	for _, dir := range []string{filepath.Join(f.CacheDir, mood), f.CacheDir} {
		matches, err := filepath.Glob(filepath.Join(dir, "*.mp3"))
		if err != nil || len(matches) == 0 {
			continue
		}
		return matches[rand.Intn(len(matches))]
	}
	return ""
}

type jamendoResponse struct {
	Results []struct {
		ID    json.Number `json:"id"`
		Audio string      `json:"audio"`
	} `json:"results"`
}

func (f *MusicFetcher) fetchJamendo(ctx context.Context, mood string) (string, error) {
	tags := TagsForMood(mood)

	q := url.Values{}
	q.Set("client_id", jamendoClientID)
	q.Set("format", "json")
	q.Set("limit", "20")
	q.Set("tags", strings.Join(tags[:2], "+"))
	q.Set("order", "popularity_week")
	q.Set("audioformat", "mp32")
	q.Set("speed", "90_160") // mid-tempo for shorts

	tracks, err := f.jamendoTracks(ctx, q)
	if err != nil {
		return "", err
	}

	if len(tracks.Results) == 0 {
		// Fallback: instrumental/ambient
		q.Set("tags", "instrumental+ambient")
		tracks, err = f.jamendoTracks(ctx, q)
		if err != nil {
			return "", err
		}
	}
	if len(tracks.Results) == 0 {
		return "", fmt.Errorf("jamendo returned no tracks for mood %q", mood)
	}

	// Pick from the top 5 trending
	top := tracks.Results
	if len(top) > 5 {
		top = top[:5]
	}
	track := top[rand.Intn(len(top))]
	if track.Audio == "" {
		return "", fmt.Errorf("jamendo track %s has no audio URL", track.ID)
	}
	return f.download(ctx, track.Audio, "jamendo_"+track.ID.String(), mood)
}

func (f *MusicFetcher) jamendoTracks(ctx context.Context, q url.Values) (*jamendoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.JamendoBaseURL+"/tracks?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jamendo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jamendo returned %d", resp.StatusCode)
	}

	var result jamendoResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

type pixabayResponse struct {
	Hits []struct {
		ID     json.Number `json:"id"`
		Videos struct {
			Medium struct {
				URL string `json:"url"`
			} `json:"medium"`
		} `json:"videos"`
	} `json:"hits"`
}

func (f *MusicFetcher) fetchPixabay(ctx context.Context, mood string) (string, error) {
	if f.PixabayKey == "" {
		return "", fmt.Errorf("PIXABAY_API_KEY environment variable not set")
	}

	tags := TagsForMood(mood)
	q := url.Values{}
	q.Set("key", f.PixabayKey)
	q.Set("q", tags[0])
	q.Set("category", "music")
	q.Set("per_page", "10")
	q.Set("order", "popular")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.PixabayBaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pixabay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pixabay returned %d", resp.StatusCode)
	}

	var result pixabayResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result.Hits) == 0 {
		return "", fmt.Errorf("pixabay returned no tracks for mood %q", mood)
	}

	hit := result.Hits[rand.Intn(len(result.Hits))]
	if hit.Videos.Medium.URL == "" {
		return "", fmt.Errorf("pixabay hit %s has no audio URL", hit.ID)
	}
	return f.download(ctx, hit.Videos.Medium.URL, "pixabay_"+hit.ID.String(), mood)
}

// download caches a track under the mood directory, rejecting files too
// small to be a real MP3.
func (f *MusicFetcher) download(ctx context.Context, audioURL, trackID, mood string) (string, error) {
	moodDir := filepath.Join(f.CacheDir, mood)
	if err := os.MkdirAll(moodDir, 0755); err != nil {
		return "", err
	}

	dest := filepath.Join(moodDir, trackID+".mp3")
	if info, err := os.Stat(dest); err == nil && info.Size() > minMusicBytes {
		log.Printf("Using cached music: %s", dest)
		return dest, nil
	}

	log.Printf("Downloading music: %s...", trackID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("music download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("music download returned %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(dest)
		return "", err
	}

	info, err := os.Stat(dest)
	if err != nil || info.Size() <= minMusicBytes {
		os.Remove(dest)
		return "", fmt.Errorf("music download too small: %s", dest)
	}

	log.Printf("Music downloaded: %s", dest)
	return dest, nil
}

// MoodForText guesses a mood from narration text when the LLM didn't
// pick one.
func MoodForText(text string) string {
	text = strings.ToLower(text)
	switch {
	case containsAny(text, "money", "rich", "million", "billion", "wealthy"):
		return "energetic"
	case containsAny(text, "die", "death", "never", "forever", "scary"):
		return "dramatic"
	case containsAny(text, "super", "power", "fly", "invisible", "magic"):
		return "fun"
	case containsAny(text, "love", "relationship", "friend", "family"):
		return "chill"
	}
	return "fun"
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
