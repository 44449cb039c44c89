package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/miapress/newsmill/app/publish"
)

type PublishPassTask struct {
	Task
	publisher *publish.Publisher
}

func NewPublishPassTask(publisher *publish.Publisher) *PublishPassTask {
	return &PublishPassTask{
		Task:      NewTask(TaskTypePublishPass, "drafts"),
		publisher: publisher,
	}
}

func (t *PublishPassTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.publisher.Run(ctx); err != nil {
		return fmt.Errorf("publish pass failed: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration())

	return nil
}
