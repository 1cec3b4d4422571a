package channels

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/asaadbalum2/QuizBot-Shorts/models"
	"github.com/asaadbalum2/QuizBot-Shorts/tasks"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type Handler struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHandler(db *gorm.DB, rdb *redis.Client) *Handler {
	return &Handler{DB: db, Redis: rdb}
}

type CreateChannelRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Niche       string `json:"niche"`
	PostsPerDay int    `json:"posts_per_day" binding:"required,min=1,max=3"`
	DefaultMood string `json:"default_mood"`
	AutoUpload  bool   `json:"auto_upload"`
}

func (h *Handler) CreateChannel(c *gin.Context) {
	userID := c.GetUint("user_id")
	var req CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channel := models.Channel{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Niche:       req.Niche,
		PostsPerDay: req.PostsPerDay,
		DefaultMood: req.DefaultMood,
		AutoUpload:  req.AutoUpload,
	}
	if channel.DefaultMood == "" {
		channel.DefaultMood = "dramatic"
	}

	if err := h.DB.Create(&channel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create channel"})
		return
	}

	// Tell the scheduler about the new channel
	message := tasks.ChannelCreatedMessage{
		ChannelID:   channel.ID,
		PostsPerDay: channel.PostsPerDay,
	}
	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshalling json: %v", err)
	} else {
		err := h.Redis.Publish(c.Request.Context(), tasks.ChannelCreatedChannel, payload).Err()
		if err != nil {
			log.Printf("Error publishing to redis: %v", err)
		}
	}

	c.JSON(http.StatusOK, channel)
}

func (h *Handler) GetUserChannels(c *gin.Context) {
	userID := c.GetUint("user_id")
	var channels []models.Channel
	if err := h.DB.Where("user_id = ?", userID).Find(&channels).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve channels"})
		return
	}

	c.JSON(http.StatusOK, channels)
}

func (h *Handler) GetChannelVideos(c *gin.Context) {
	channelID, ok := h.ownedChannelID(c)
	if !ok {
		return
	}

	var videos []models.Video
	if err := h.DB.Where("channel_id = ?", channelID).Find(&videos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve videos"})
		return
	}

	c.JSON(http.StatusOK, videos)
}

// GenerateVideo queues one video for immediate generation, outside the
// daily schedule.
func (h *Handler) GenerateVideo(c *gin.Context) {
	channelID, ok := h.ownedChannelID(c)
	if !ok {
		return
	}

	video := models.Video{
		ChannelID: uint(channelID),
		Status:    "pending",
	}
	if err := h.DB.Create(&video).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create video"})
		return
	}

	task := tasks.TopicTaskPayload{VideoID: video.ID}
	payload, err := tasks.Marshal(task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue video"})
		return
	}
	if err := h.Redis.LPush(c.Request.Context(), tasks.QueueVideoTopic, payload).Err(); err != nil {
		log.Printf("Error pushing to queue %s: %v", tasks.QueueVideoTopic, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue video"})
		return
	}

	c.JSON(http.StatusOK, video)
}

// ownedChannelID parses the :id param and verifies the channel belongs
// to the authenticated user. Writes the error response on failure.
func (h *Handler) ownedChannelID(c *gin.Context) (uint64, bool) {
	channelIDStr := c.Param("id")
	channelID, err := strconv.ParseUint(channelIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel ID"})
		return 0, false
	}

	userID := c.GetUint("user_id")

	var channel models.Channel
	if err := h.DB.First(&channel, "id = ? AND user_id = ?", channelID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Channel not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return 0, false
	}
	return channelID, true
}
