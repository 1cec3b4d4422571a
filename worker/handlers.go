package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/asaadbalum2/QuizBot-Shorts/internal/platform"
	"github.com/asaadbalum2/QuizBot-Shorts/media"
	"github.com/asaadbalum2/QuizBot-Shorts/models"
	"github.com/asaadbalum2/QuizBot-Shorts/processing"
	"github.com/asaadbalum2/QuizBot-Shorts/render"
	"github.com/asaadbalum2/QuizBot-Shorts/tasks"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// targetPhrases caps how many B-roll segments a video gets.
const targetPhrases = 4

// narrationText is the text the voiceover speaks. Segmentation splits
// the same text, so the overlays and the audio never diverge.
func narrationText(video *models.Video) string {
	if video.Script != "" {
		return video.Script
	}
	return strings.TrimSpace(video.Hook + " " + video.Content)
}

// sortSegments restores narrative order after a load. Row updates
// relocate tuples, so the database returns segments in any order.
func sortSegments(segments []models.Segment) {
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Position < segments[j].Position
	})
}

// HandleTopicGeneration processes tasks from QueueVideoTopic.
func (p *Processor) HandleTopicGeneration(ctx context.Context, payload string) error {
	var task tasks.TopicTaskPayload
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		return err
	}

	log.Printf("Processing topic for video %d", task.VideoID)
	var video models.Video
	if err := p.DB.First(&video, task.VideoID).Error; err != nil {
		return err
	}

	var channel models.Channel
	if err := p.DB.First(&channel, video.ChannelID).Error; err != nil {
		p.DB.Model(&video).Update("status", "failed")
		return err
	}

	p.DB.Model(&video).Update("status", "processing_topic")

	// Topics already covered on this channel
	var existingVideos []models.Video
	p.DB.Where("channel_id = ? AND id != ?", video.ChannelID, video.ID).Find(&existingVideos)
	var existingTopics []string
	for _, v := range existingVideos {
		if v.Topic != "" {
			existingTopics = append(existingTopics, v.Topic)
		}
	}

	boost := p.Insights.PromptBoost(ctx)
	topics, err := processing.GenerateTopics(ctx, channel, 1, existingTopics, boost)
	if err != nil {
		p.DB.Model(&video).Update("status", "failed_topic")
		return err
	}
	topic := topics[0]

	mood := topic.MusicMood
	if mood == "" {
		mood = channel.DefaultMood
	}

	// Quality gate. An evaluation error is not fatal, a SKIP verdict is.
	verdict := ""
	eval, err := processing.EvaluateContent(ctx, topic.Hook, topic.Content, topic.VideoType)
	if err != nil {
		log.Printf("Evaluation failed for video %d, generating anyway: %v", video.ID, err)
	} else {
		verdict = eval.Verdict
		if !eval.ShouldGenerate() {
			log.Printf("Video %d skipped by quality gate: %v", video.ID, eval.Improvements)
			p.DB.Model(&video).Updates(map[string]interface{}{
				"topic":   topic.Topic,
				"hook":    topic.Hook,
				"verdict": verdict,
				"status":  "skipped_quality",
			})
			return nil
		}
	}

	updates := map[string]interface{}{
		"topic":          topic.Topic,
		"video_type":     topic.VideoType,
		"hook":           topic.Hook,
		"content":        topic.Content,
		"call_to_action": topic.CallToAction,
		"music_mood":     mood,
		"virality_score": topic.ViralityScore,
		"verdict":        verdict,
	}
	if err := p.DB.Model(&video).Updates(updates).Error; err != nil {
		return err
	}
	log.Printf("Generated topic for video %d: %s", video.ID, topic.Topic)

	nextTask := tasks.SegmentTaskPayload{VideoID: video.ID}
	if err := p.Enqueue(ctx, tasks.QueueSegmentation, nextTask); err != nil {
		p.DB.Model(&video).Update("status", "failed_queue_segments")
		return err
	}

	p.DB.Model(&video).Update("status", "pending_segments")
	return nil
}

// HandleSegmentation processes tasks from QueueSegmentation: narration
// rewrite, phrase split, and one B-roll keyword per phrase.
func (p *Processor) HandleSegmentation(ctx context.Context, payload string) error {
	var task tasks.SegmentTaskPayload
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		return err
	}

	log.Printf("Processing segments for video %d", task.VideoID)
	var video models.Video
	if err := p.DB.First(&video, task.VideoID).Error; err != nil {
		return err
	}

	if video.Content == "" {
		p.DB.Model(&video).Update("status", "failed_segments_no_content")
		return nil // Should not happen in normal flow, but prevent crash
	}

	p.DB.Model(&video).Update("status", "processing_segments")

	full := strings.TrimSpace(video.Hook + " " + video.Content)

	// Rewrite the narration for TTS pacing. On failure the raw content
	// narrates fine, just with less punch.
	script := full
	if vo, err := processing.GenerateVoiceoverScript(ctx, full); err != nil {
		log.Printf("Voiceover script rewrite failed for video %d, using raw content: %v", video.ID, err)
	} else {
		script = vo.Script
	}

	phrases := processing.SplitPhrases(script, targetPhrases)
	if len(phrases) == 0 {
		p.DB.Model(&video).Update("status", "failed_segments")
		return fmt.Errorf("video %d content produced no phrases", video.ID)
	}

	keywords := processing.KeywordsForPhrases(ctx, phrases)

	// Save script and segments in a single transaction
	err := p.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&video).Update("script", script).Error; err != nil {
			return err
		}
		for i, phrase := range phrases {
			segment := models.Segment{
				VideoID:  video.ID,
				Position: i + 1,
				Text:     phrase,
				Keyword:  keywords[i],
			}
			if err := tx.Create(&segment).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		p.DB.Model(&video).Update("status", "failed_save_segments")
		return err
	}

	log.Printf("Split video %d into %d phrases", video.ID, len(phrases))

	nextTask := tasks.AssetTaskPayload{VideoID: video.ID}
	if err := p.Enqueue(ctx, tasks.QueueAssetFetch, nextTask); err != nil {
		p.DB.Model(&video).Update("status", "failed_queue_assets")
		return err
	}

	p.DB.Model(&video).Update("status", "pending_assets")
	return nil
}

// HandleAssetFetch processes tasks from QueueAssetFetch: voiceover
// synthesis, per-phrase timing, B-roll downloads, and music.
func (p *Processor) HandleAssetFetch(ctx context.Context, payload string) error {
	var task tasks.AssetTaskPayload
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		return err
	}

	log.Printf("Fetching assets for video %d", task.VideoID)
	var video models.Video
	if err := p.DB.Preload("Segments").First(&video, task.VideoID).Error; err != nil {
		return err
	}
	sortSegments(video.Segments)

	p.DB.Model(&video).Update("status", "processing_assets")

	// Voiceover first: per-phrase durations need its length.
	voiceoverPath := filepath.Join(platform.OutputDir(), fmt.Sprintf("voiceover_%d.mp3", video.ID))
	if err := media.SynthesizeVoiceover(ctx, narrationText(&video), voiceoverPath); err != nil {
		p.DB.Model(&video).Update("status", "failed_voiceover")
		return err
	}

	voiceoverSec, err := render.ProbeDuration(voiceoverPath)
	if err != nil {
		p.DB.Model(&video).Update("status", "failed_voiceover")
		return err
	}
	log.Printf("Voiceover for video %d: %.1fs", video.ID, voiceoverSec)

	var texts []string
	for _, seg := range video.Segments {
		texts = append(texts, seg.Text)
	}
	durations := processing.PhraseDurations(texts, voiceoverSec)

	// A failed clip download degrades that segment to a solid
	// background instead of failing the video.
	for i := range video.Segments {
		seg := &video.Segments[i]
		clipPath, err := p.Pexels.ClipForKeyword(ctx, seg.Keyword, i)
		if err != nil {
			log.Printf("B-roll fetch failed for video %d segment %d (%q): %v", video.ID, seg.Position, seg.Keyword, err)
			clipPath = ""
		}
		updates := map[string]interface{}{
			"duration":  durations[i],
			"clip_path": clipPath,
		}
		if err := p.DB.Model(seg).Updates(updates).Error; err != nil {
			p.DB.Model(&video).Update("status", "failed_save_assets")
			return err
		}
	}

	// Music is optional: the chain is cache, Jamendo, Pixabay, none.
	mood := video.MusicMood
	if mood == "" {
		mood = media.MoodForText(video.Content)
	}
	musicPath, err := p.Music.Fetch(ctx, mood)
	if err != nil {
		log.Printf("No background music for video %d: %v", video.ID, err)
		musicPath = ""
	}

	updates := map[string]interface{}{
		"voiceover_path": voiceoverPath,
		"voiceover_sec":  voiceoverSec,
		"music_path":     musicPath,
	}
	if err := p.DB.Model(&video).Updates(updates).Error; err != nil {
		return err
	}

	nextTask := tasks.RenderTaskPayload{VideoID: video.ID}
	if err := p.Enqueue(ctx, tasks.QueueVideoRender, nextTask); err != nil {
		p.DB.Model(&video).Update("status", "failed_queue_render")
		return err
	}

	p.DB.Model(&video).Update("status", "pending_render")
	return nil
}

// HandleRenderVideo processes tasks from QueueVideoRender.
func (p *Processor) HandleRenderVideo(ctx context.Context, payload string) error {
	var task tasks.RenderTaskPayload
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		return err
	}

	var video models.Video
	if err := p.DB.Preload("Segments").First(&video, task.VideoID).Error; err != nil {
		return err
	}
	sortSegments(video.Segments)

	var channel models.Channel
	if err := p.DB.First(&channel, video.ChannelID).Error; err != nil {
		p.DB.Model(&video).Update("status", "failed")
		return err
	}

	log.Printf("Rendering video %d (%s)...", video.ID, video.Topic)
	p.DB.Model(&video).Update("status", "rendering")

	runID := uuid.NewString()[:8]
	spec := render.Spec{
		VoiceoverPath: video.VoiceoverPath,
		MusicPath:     video.MusicPath,
		OutputPath:    filepath.Join(platform.OutputDir(), fmt.Sprintf("%s_%d.mp4", video.VideoType, video.ID)),
		WorkDir:       filepath.Join(platform.OutputDir(), "runs", runID),
	}
	for _, seg := range video.Segments {
		spec.Segments = append(spec.Segments, render.SegmentSpec{
			Text:     seg.Text,
			ClipPath: seg.ClipPath,
			Duration: seg.Duration,
		})
	}

	if err := render.Compose(spec); err != nil {
		p.DB.Model(&video).Update("status", "failed_render")
		return err
	}

	if err := p.DB.Model(&video).Update("output_path", spec.OutputPath).Error; err != nil {
		return err
	}
	log.Printf("Rendered video %d: %s", video.ID, spec.OutputPath)

	if !channel.AutoUpload || !p.Uploader.IsConfigured() {
		p.DB.Model(&video).Update("status", "complete")
		log.Printf("Video %d complete (upload disabled)", video.ID)
		return nil
	}

	nextTask := tasks.UploadTaskPayload{VideoID: video.ID}
	if err := p.Enqueue(ctx, tasks.QueueVideoUpload, nextTask); err != nil {
		p.DB.Model(&video).Update("status", "failed_queue_upload")
		return err
	}

	p.DB.Model(&video).Update("status", "pending_upload")
	return nil
}

// HandleUpload processes tasks from QueueVideoUpload.
func (p *Processor) HandleUpload(ctx context.Context, payload string) error {
	var task tasks.UploadTaskPayload
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		return err
	}

	var video models.Video
	if err := p.DB.Preload("Segments").First(&video, task.VideoID).Error; err != nil {
		return err
	}
	sortSegments(video.Segments)

	if video.OutputPath == "" {
		p.DB.Model(&video).Update("status", "failed_upload_no_output")
		return nil
	}

	log.Printf("Uploading video %d...", video.ID)
	p.DB.Model(&video).Update("status", "uploading")

	title := video.Hook
	if title == "" {
		title = video.Topic
	}
	description := video.Content
	if video.CallToAction != "" {
		description += "\n\n" + video.CallToAction
	}

	tagSet := []string{"viral", "shorts", video.VideoType}
	for _, seg := range video.Segments {
		if seg.Keyword != "" {
			tagSet = append(tagSet, seg.Keyword)
		}
	}

	remoteID, err := p.Uploader.Upload(ctx, video.OutputPath, title, description, tagSet)
	if err != nil {
		p.DB.Model(&video).Update("status", "failed_upload")
		return err
	}

	updates := map[string]interface{}{
		"dailymotion_id": remoteID,
		"status":         "complete",
	}
	if err := p.DB.Model(&video).Updates(updates).Error; err != nil {
		return err
	}
	log.Printf("Completed video %d (dailymotion %s)", video.ID, remoteID)
	return nil
}
