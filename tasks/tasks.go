package tasks

import "encoding/json"

// ---
// QUEUE DEFINITIONS
// ---
// We define all queue names as constants here.
const (
	// QueueVideoTopic is the first step: generate topic, hook and content.
	QueueVideoTopic = "q_video_topic"

	// QueueSegmentation is the second step: split the narration into
	// phrases and pick a B-roll keyword for each.
	QueueSegmentation = "q_segmentation"

	// QueueAssetFetch is the third step: voiceover, B-roll clips, music.
	QueueAssetFetch = "q_asset_fetch"

	// QueueVideoRender is the fourth step: composite the final MP4.
	QueueVideoRender = "q_video_render"

	// QueueVideoUpload is the optional last step: push to Dailymotion.
	QueueVideoUpload = "q_video_upload"
)

// ChannelCreatedChannel is the Pub/Sub channel the API publishes on when
// a new content channel is created; the scheduler subscribes to it.
const ChannelCreatedChannel = "channel_created"

// ---
// TASK PAYLOADS
// ---
// These are the structs that will be JSON-marshalled and sent to Redis.

// TopicTaskPayload is the payload for QueueVideoTopic
type TopicTaskPayload struct {
	VideoID uint `json:"video_id"`
}

// SegmentTaskPayload is the payload for QueueSegmentation
type SegmentTaskPayload struct {
	VideoID uint `json:"video_id"`
}

// AssetTaskPayload is the payload for QueueAssetFetch
type AssetTaskPayload struct {
	VideoID uint `json:"video_id"`
}

// RenderTaskPayload is the payload for QueueVideoRender
type RenderTaskPayload struct {
	VideoID uint `json:"video_id"`
}

// UploadTaskPayload is the payload for QueueVideoUpload
type UploadTaskPayload struct {
	VideoID uint `json:"video_id"`
}

// ChannelCreatedMessage is published on ChannelCreatedChannel
type ChannelCreatedMessage struct {
	ChannelID   uint `json:"channel_id"`
	PostsPerDay int  `json:"posts_per_day"`
}

// ---
// HELPER FUNCTIONS
// ---

// Marshal creates a JSON payload for a task.
func Marshal(payload interface{}) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
