package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/asaadbalum2/QuizBot-Shorts/internal/platform"
	"github.com/asaadbalum2/QuizBot-Shorts/models"
	"github.com/asaadbalum2/QuizBot-Shorts/processing"
	"github.com/asaadbalum2/QuizBot-Shorts/tasks"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

func main() {
	// Use the shared initializers
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()
	ctx := context.Background()

	// Create a new cron scheduler
	c := cron.New()
	c.Start()
	defer c.Stop()

	// Refresh learned viral patterns nightly so topic generation
	// stays current without blocking the pipeline.
	analyzer := processing.NewAnalyzer(rdb)
	if _, err := c.AddFunc("0 3 * * *", func() {
		if err := analyzer.RefreshPatterns(ctx); err != nil {
			log.Printf("Error refreshing viral patterns: %v", err)
		}
	}); err != nil {
		log.Printf("Error scheduling pattern refresh: %v", err)
	}

	// Start a goroutine to listen for new channels and schedule them
	go listenForNewChannels(ctx, db, rdb, c)

	log.Println("Scheduler started, waiting for messages...")
	// Keep the main thread alive
	select {}
}

// listenForNewChannels subscribes to `channel_created` and adds cron jobs.
// This uses Pub/Sub, so you should only run one instance of this service
// to avoid scheduling duplicate cron jobs.
func listenForNewChannels(ctx context.Context, db *gorm.DB, rdb *redis.Client, c *cron.Cron) {
	pubsub := rdb.Subscribe(ctx, tasks.ChannelCreatedChannel)
	defer pubsub.Close()
	ch := pubsub.Channel()

	log.Println("Scheduler listening for new channels...")

	for msg := range ch {
		var message tasks.ChannelCreatedMessage
		if err := json.Unmarshal([]byte(msg.Payload), &message); err != nil {
			log.Printf("Error unmarshalling %s message: %v", tasks.ChannelCreatedChannel, err)
			continue
		}

		log.Printf("Received new channel %d, scheduling %d posts per day", message.ChannelID, message.PostsPerDay)

		m := message

		// Schedule a daily job for this channel at midnight.
		_, err := c.AddFunc("@daily", func() {
			var channel models.Channel
			if err := db.First(&channel, m.ChannelID).Error; err != nil {
				log.Printf("Channel %d not found, skipping daily job: %v", m.ChannelID, err)
				return
			}
			if !channel.IsActive {
				log.Printf("Channel %d is inactive, skipping daily job", m.ChannelID)
				return
			}

			log.Printf("Running daily job for channel %d: queuing %d videos", m.ChannelID, m.PostsPerDay)

			for i := 0; i < m.PostsPerDay; i++ {
				video := models.Video{
					ChannelID: m.ChannelID,
					Status:    "pending",
				}
				if err := db.Create(&video).Error; err != nil {
					log.Printf("Error creating daily pending video record: %v", err)
					continue
				}

				payload, err := tasks.Marshal(tasks.TopicTaskPayload{VideoID: video.ID})
				if err != nil {
					log.Printf("Error marshalling daily video task: %v", err)
					continue
				}

				// Use LPUSH to add the task to the queue
				if err := rdb.LPush(ctx, tasks.QueueVideoTopic, payload).Err(); err != nil {
					log.Printf("Error pushing daily task to queue %s: %v", tasks.QueueVideoTopic, err)
				}
			}
		})
		if err != nil {
			log.Printf("Error scheduling cron job for channel %d: %v", message.ChannelID, err)
		}
	}
}
