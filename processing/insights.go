package processing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// --- Viral Channel Insights ---
//
// The analyzer studies successful shorts channels via the YouTube Data
// API, extracts title/hook patterns with the LLM, and caches the result
// in redis. GenerateTopics folds the cached patterns into its prompt.

const patternsCacheKey = "viral:patterns"
const patternsCacheTTL = 24 * time.Hour

// ProvenPatterns are baseline patterns from manual research. They are
// always included in the prompt boost, learned patterns are appended.
var ProvenPatterns = []string{
	"{Number}% of people can't do this",
	"The truth about {topic} no one tells you",
	"You've been doing {action} wrong",
	"Watch till the end for the reveal",
	"Why {thing} is {adjective}er than you think",
}

var provenHooks = []string{
	"Pattern interrupt (STOP, WAIT, HOLD UP)",
	"Controversy hook (Everyone thinks X but actually Y)",
	"Curiosity gap (What I'm about to show you...)",
	"Social proof (Millions of people don't know this)",
}

// ChannelInsight holds patterns extracted from one reference channel.
type ChannelInsight struct {
	ChannelID       string   `json:"channel_id"`
	ChannelName     string   `json:"channel_name"`
	SubscriberCount int      `json:"subscriber_count"`
	TopTitles       []string `json:"top_titles"`
	TitlePatterns   []string `json:"title_patterns" jsonschema_description:"Recurring title structures, as reusable templates"`
	HookTechniques  []string `json:"hook_techniques" jsonschema_description:"Hook techniques these titles rely on"`
	AvgLengthSec    int      `json:"avg_length_sec"`
}

// extractedPatterns is the structured output of the LLM pattern pass
type extractedPatterns struct {
	TitlePatterns  []string `json:"title_patterns" jsonschema_description:"Recurring title structures, as reusable templates with {placeholders}"`
	HookTechniques []string `json:"hook_techniques" jsonschema_description:"Hook techniques these titles rely on"`
}

var extractedPatternsSchema = GenerateSchema[extractedPatterns]()

// Analyzer learns winning patterns from reference channels.
type Analyzer struct {
	RDB        *redis.Client
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewAnalyzer builds an Analyzer reading YOUTUBE_API_KEY from the env.
func NewAnalyzer(rdb *redis.Client) *Analyzer {
	return &Analyzer{
		RDB:        rdb,
		APIKey:     os.Getenv("YOUTUBE_API_KEY"),
		BaseURL:    "https://www.googleapis.com/youtube/v3",
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// PromptBoost returns the pattern block appended to the topic prompt:
// proven baseline patterns plus whatever the last RefreshPatterns run
// cached. Never fails, a cold cache just yields the baseline.
func (a *Analyzer) PromptBoost(ctx context.Context) string {
	var b strings.Builder
	b.WriteString("\nTITLE PATTERNS THAT PERFORM WELL:\n")
	for _, p := range ProvenPatterns {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	b.WriteString("HOOK TECHNIQUES THAT PERFORM WELL:\n")
	for _, h := range provenHooks {
		fmt.Fprintf(&b, "- %s\n", h)
	}

	if a.RDB != nil {
		raw, err := a.RDB.Get(ctx, patternsCacheKey).Result()
		if err == nil && raw != "" {
			var learned extractedPatterns
			if err := json.Unmarshal([]byte(raw), &learned); err == nil {
				if len(learned.TitlePatterns) > 0 {
					b.WriteString("PATTERNS LEARNED FROM TOP CHANNELS THIS WEEK:\n")
					for _, p := range learned.TitlePatterns {
						fmt.Fprintf(&b, "- %s\n", p)
					}
				}
			}
		}
	}
	return b.String()
}

// RefreshPatterns analyzes the configured reference channels and caches
// the merged patterns in redis. Channel IDs come from the
// REFERENCE_CHANNELS env var, comma separated.
func (a *Analyzer) RefreshPatterns(ctx context.Context) error {
	ids := strings.Split(os.Getenv("REFERENCE_CHANNELS"), ",")
	merged := extractedPatterns{}

	analyzed := 0
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		insight, err := a.AnalyzeChannel(ctx, id)
		if err != nil {
			log.Printf("Failed to analyze channel %s: %v", id, err)
			continue
		}
		merged.TitlePatterns = append(merged.TitlePatterns, insight.TitlePatterns...)
		merged.HookTechniques = append(merged.HookTechniques, insight.HookTechniques...)
		analyzed++
	}

	if analyzed == 0 {
		return fmt.Errorf("no reference channels analyzed")
	}

	payload, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	if err := a.RDB.Set(ctx, patternsCacheKey, payload, patternsCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache patterns: %w", err)
	}
	log.Printf("Cached patterns from %d reference channels", analyzed)
	return nil
}

// AnalyzeChannel pulls a channel's recent shorts and extracts the title
// patterns behind its best performers.
func (a *Analyzer) AnalyzeChannel(ctx context.Context, channelID string) (*ChannelInsight, error) {
	if a.APIKey == "" {
		return nil, fmt.Errorf("YOUTUBE_API_KEY environment variable not set")
	}

	channel, err := a.fetchChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}

	videos, err := a.fetchPlaylistVideos(ctx, channel.uploadsPlaylist, 20)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("channel %s has no uploads", channelID)
	}

	var titles []string
	totalSec := 0
	for _, v := range videos {
		titles = append(titles, v.title)
		totalSec += v.durationSec
	}

	patterns, err := a.extractPatterns(ctx, titles)
	if err != nil {
		return nil, err
	}

	return &ChannelInsight{
		ChannelID:       channelID,
		ChannelName:     channel.title,
		SubscriberCount: channel.subscribers,
		TopTitles:       titles,
		TitlePatterns:   patterns.TitlePatterns,
		HookTechniques:  patterns.HookTechniques,
		AvgLengthSec:    totalSec / len(videos),
	}, nil
}

type channelInfo struct {
	title           string
	subscribers     int
	uploadsPlaylist string
}

type videoInfo struct {
	title       string
	durationSec int
}

func (a *Analyzer) fetchChannel(ctx context.Context, channelID string) (*channelInfo, error) {
	q := url.Values{}
	q.Set("part", "snippet,statistics,contentDetails")
	q.Set("id", channelID)
	q.Set("key", a.APIKey)

	var resp struct {
		Items []struct {
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
			Statistics struct {
				SubscriberCount string `json:"subscriberCount"`
			} `json:"statistics"`
			ContentDetails struct {
				RelatedPlaylists struct {
					Uploads string `json:"uploads"`
				} `json:"relatedPlaylists"`
			} `json:"contentDetails"`
		} `json:"items"`
	}
	if err := a.getJSON(ctx, "/channels", q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("channel %s not found", channelID)
	}

	subs, _ := strconv.Atoi(resp.Items[0].Statistics.SubscriberCount)
	return &channelInfo{
		title:           resp.Items[0].Snippet.Title,
		subscribers:     subs,
		uploadsPlaylist: resp.Items[0].ContentDetails.RelatedPlaylists.Uploads,
	}, nil
}

func (a *Analyzer) fetchPlaylistVideos(ctx context.Context, playlistID string, maxResults int) ([]videoInfo, error) {
	q := url.Values{}
	q.Set("part", "snippet,contentDetails")
	q.Set("playlistId", playlistID)
	q.Set("maxResults", strconv.Itoa(maxResults))
	q.Set("key", a.APIKey)

	var listResp struct {
		Items []struct {
			ContentDetails struct {
				VideoID string `json:"videoId"`
			} `json:"contentDetails"`
		} `json:"items"`
	}
	if err := a.getJSON(ctx, "/playlistItems", q, &listResp); err != nil {
		return nil, err
	}

	var ids []string
	for _, item := range listResp.Items {
		ids = append(ids, item.ContentDetails.VideoID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	q = url.Values{}
	q.Set("part", "snippet,contentDetails")
	q.Set("id", strings.Join(ids, ","))
	q.Set("key", a.APIKey)

	var videosResp struct {
		Items []struct {
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
		} `json:"items"`
	}
	if err := a.getJSON(ctx, "/videos", q, &videosResp); err != nil {
		return nil, err
	}

	var videos []videoInfo
	for _, item := range videosResp.Items {
		sec := ParseISODuration(item.ContentDetails.Duration)
		// Shorts only: skip anything over 3 minutes
		if sec > 180 {
			continue
		}
		videos = append(videos, videoInfo{title: item.Snippet.Title, durationSec: sec})
	}
	return videos, nil
}

func (a *Analyzer) getJSON(ctx context.Context, path string, q url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube API returned %d for %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (a *Analyzer) extractPatterns(ctx context.Context, titles []string) (*extractedPatterns, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`You analyze video titles from a successful shorts channel.

Titles:
%s

Extract the recurring title structures as reusable templates with {placeholders}, and name the hook techniques they rely on. Only include patterns that appear more than once.`,
		"- "+strings.Join(titles, "\n- "))

	return getStructuredResponse[extractedPatterns](ctx, client, prompt, extractedPatternsSchema)
}

// ParseISODuration converts a YouTube ISO-8601 duration (PT1M23S) into
// seconds. Malformed input yields 0.
func ParseISODuration(d string) int {
	d = strings.TrimPrefix(d, "PT")
	total := 0
	num := ""
	for _, r := range d {
		switch {
		case r >= '0' && r <= '9':
			num += string(r)
		case r == 'H' || r == 'M' || r == 'S':
			n, err := strconv.Atoi(num)
			if err != nil {
				return 0
			}
			switch r {
			case 'H':
				total += n * 3600
			case 'M':
				total += n * 60
			case 'S':
				total += n
			}
			num = ""
		default:
			return 0
		}
	}
	return total
}
