package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/miapress/newsmill/app/sources"
	"github.com/miapress/newsmill/app/topics"
)

type IdeatePassTask struct {
	Task
	ideator    *topics.Ideator
	categories []sources.Category
}

func NewIdeatePassTask(ideator *topics.Ideator, categories []sources.Category) *IdeatePassTask {
	return &IdeatePassTask{
		Task:       NewTask(TaskTypeIdeatePass, "categories"),
		ideator:    ideator,
		categories: categories,
	}
}

func (t *IdeatePassTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if len(t.categories) == 0 {
		slog.Debug("No categories configured, skipping ideation")
		return nil
	}

	if err := t.ideator.Run(ctx, t.categories); err != nil {
		return fmt.Errorf("ideation pass failed: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"categories", len(t.categories))

	return nil
}
