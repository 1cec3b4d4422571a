package models

import "time"

// Segment is one phrase of the narration with its own B-roll clip.
// Duration is proportional to the phrase's share of the narration text.
type Segment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	VideoID   uint      `gorm:"not null;index" json:"video_id"`
	Position  int       `gorm:"not null" json:"position"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Keyword   string    `gorm:"size:128" json:"keyword"`
	Duration  float64   `json:"duration"`
	ClipPath  string    `json:"clip_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Segment) TableName() string {
	return "video_segments"
}
