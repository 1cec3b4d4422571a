package models

import (
	"time"
)

// Video is a single short-form video moving through the generation
// pipeline. Status tracks the current step; each worker handler moves it
// forward or parks it in a failed_* state.
type Video struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ChannelID uint `gorm:"not null;index" json:"channel_id"`

	// Content fields filled by topic generation
	Topic         string `gorm:"size:255" json:"topic"`
	VideoType     string `gorm:"size:64" json:"video_type"`
	Hook          string `gorm:"size:255" json:"hook"`
	Content       string `gorm:"type:text" json:"content,omitempty"`
	CallToAction  string `gorm:"type:text" json:"call_to_action,omitempty"`
	MusicMood     string `gorm:"size:32" json:"music_mood"`
	Script        string `gorm:"type:text" json:"script,omitempty"`
	ViralityScore int    `json:"virality_score"`
	Verdict       string `gorm:"size:16" json:"verdict"`

	// Asset and output paths filled by later pipeline steps
	VoiceoverPath string  `json:"voiceover_path,omitempty"`
	VoiceoverSec  float64 `json:"voiceover_sec,omitempty"`
	MusicPath     string  `json:"music_path,omitempty"`
	OutputPath    string  `json:"output_path,omitempty"`

	// Remote ID after a successful Dailymotion upload
	DailymotionID string `gorm:"size:64" json:"dailymotion_id,omitempty"`

	Status    string    `gorm:"default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Segments []Segment `gorm:"foreignKey:VideoID" json:"segments,omitempty"`
}

func (Video) TableName() string {
	return "channelvideos"
}
