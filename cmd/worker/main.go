package main

import (
	"context"
	"log"

	"github.com/asaadbalum2/QuizBot-Shorts/internal/platform"
	"github.com/asaadbalum2/QuizBot-Shorts/tasks"
	"github.com/asaadbalum2/QuizBot-Shorts/worker"
)

func main() {
	// Use the shared initializers
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()
	ctx := context.Background()

	p := worker.NewProcessor(db, rdb)

	// Each pipeline step is a queue; a handler finishes by pushing
	// the next step's task onto the next queue.
	p.Register(tasks.QueueVideoTopic, p.HandleTopicGeneration)
	p.Register(tasks.QueueSegmentation, p.HandleSegmentation)
	p.Register(tasks.QueueAssetFetch, p.HandleAssetFetch)
	p.Register(tasks.QueueVideoRender, p.HandleRenderVideo)
	p.Register(tasks.QueueVideoUpload, p.HandleUpload)

	log.Println("Worker started, waiting for queue tasks...")
	p.Listen(ctx,
		tasks.QueueVideoTopic,
		tasks.QueueSegmentation,
		tasks.QueueAssetFetch,
		tasks.QueueVideoRender,
		tasks.QueueVideoUpload,
	)
}
