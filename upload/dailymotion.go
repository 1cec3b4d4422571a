package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// Dailymotion has a free public API, which makes it the one platform we
// can upload to without a manual review process. The upload is three
// steps: fetch an upload URL, POST the file to it, then create the
// video entry from the returned file URL.

const (
	maxTitleChars       = 255
	maxDescriptionChars = 3000
	maxTags             = 20
)

// Uploader pushes rendered videos to Dailymotion.
type Uploader struct {
	APIKey    string
	APISecret string
	Username  string
	Password  string

	BaseURL     string
	HTTPClient  *http.Client
	accessToken string
}

// NewUploader builds an Uploader from DAILYMOTION_* environment
// variables.
func NewUploader() *Uploader {
	return &Uploader{
		APIKey:     os.Getenv("DAILYMOTION_API_KEY"),
		APISecret:  os.Getenv("DAILYMOTION_API_SECRET"),
		Username:   os.Getenv("DAILYMOTION_USERNAME"),
		Password:   os.Getenv("DAILYMOTION_PASSWORD"),
		BaseURL:    "https://api.dailymotion.com",
		HTTPClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// IsConfigured reports whether all credentials are present.
func (u *Uploader) IsConfigured() bool {
	return u.APIKey != "" && u.APISecret != "" && u.Username != "" && u.Password != ""
}

// Authenticate obtains an access token via the password grant.
func (u *Uploader) Authenticate(ctx context.Context) error {
	if !u.IsConfigured() {
		return fmt.Errorf("dailymotion credentials not configured")
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", u.APIKey)
	form.Set("client_secret", u.APISecret)
	form.Set("username", u.Username)
	form.Set("password", u.Password)
	form.Set("scope", "manage_videos")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.BaseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("dailymotion auth: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("dailymotion auth failed: %s", strings.TrimSpace(string(body)))
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return err
	}
	if token.AccessToken == "" {
		return fmt.Errorf("dailymotion auth returned no access token")
	}

	u.accessToken = token.AccessToken
	log.Println("Dailymotion authenticated")
	return nil
}

// Upload pushes a video file and returns the remote video ID.
func (u *Uploader) Upload(ctx context.Context, videoPath, title, description string, tags []string) (string, error) {
	if u.accessToken == "" {
		if err := u.Authenticate(ctx); err != nil {
			return "", err
		}
	}

	if _, err := os.Stat(videoPath); err != nil {
		return "", fmt.Errorf("video not found: %s", videoPath)
	}

	// Step 1: get an upload URL
	uploadURL, err := u.getUploadURL(ctx)
	if err != nil {
		return "", err
	}

	// Step 2: upload the file
	fileURL, err := u.postFile(ctx, uploadURL, videoPath)
	if err != nil {
		return "", err
	}

	// Step 3: create the video entry
	videoID, err := u.createVideo(ctx, fileURL, title, description, tags)
	if err != nil {
		return "", err
	}

	log.Printf("Uploaded to Dailymotion: https://www.dailymotion.com/video/%s", videoID)
	return videoID, nil
}

func (u *Uploader) getUploadURL(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.BaseURL+"/file/upload", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+u.accessToken)

	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("get upload URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("get upload URL failed: %s", strings.TrimSpace(string(body)))
	}

	var result struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.UploadURL == "" {
		return "", fmt.Errorf("dailymotion returned no upload URL")
	}
	return result.UploadURL, nil
}

func (u *Uploader) postFile(ctx context.Context, uploadURL, videoPath string) (string, error) {
	f, err := os.Open(videoPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(videoPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("file upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("file upload failed: %s", strings.TrimSpace(string(body)))
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.URL == "" {
		return "", fmt.Errorf("dailymotion returned no file URL")
	}
	return result.URL, nil
}

// truncateRunes cuts s to at most max characters without splitting a
// multi-byte rune.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func (u *Uploader) createVideo(ctx context.Context, fileURL, title, description string, tags []string) (string, error) {
	title = truncateRunes(title, maxTitleChars)
	description = truncateRunes(description, maxDescriptionChars)
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	if len(tags) == 0 {
		tags = []string{"viral", "shorts"}
	}

	form := url.Values{}
	form.Set("url", fileURL)
	form.Set("title", title)
	form.Set("description", description)
	form.Set("tags", strings.Join(tags, ","))
	form.Set("published", "true")
	form.Set("is_created_for_kids", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.BaseURL+"/me/videos", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+u.accessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("create video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("create video failed: %s", strings.TrimSpace(string(body)))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("dailymotion returned no video ID")
	}
	return result.ID, nil
}

// LimitStatus queries the account's remaining daily upload allowance.
func (u *Uploader) LimitStatus(ctx context.Context) (map[string]interface{}, error) {
	if u.accessToken == "" {
		if err := u.Authenticate(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.BaseURL+"/me?fields=limits", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+u.accessToken)

	resp, err := u.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("limit status: %w", err)
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result, nil
}
