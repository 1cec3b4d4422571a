package models

import (
	"time"
)

// Channel is a user-owned content channel. Every active channel gets
// PostsPerDay videos generated and (optionally) uploaded each day.
type Channel struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	User        User   `gorm:"foreignKey:UserID" json:"-"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Niche       string `json:"niche"`
	PostsPerDay int    `gorm:"not null;default:1" json:"posts_per_day"`

	// DefaultMood seeds the music mood when the LLM doesn't pick one.
	DefaultMood string `gorm:"default:'dramatic'" json:"default_mood"`

	// AutoUpload chains the render step into a Dailymotion upload.
	AutoUpload bool `gorm:"default:false" json:"auto_upload"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Video count (computed field, not persisted)
	VideoCount int `gorm:"-" json:"video_count"`
}

func (Channel) TableName() string {
	return "channels"
}
