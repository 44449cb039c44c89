package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/miapress/newsmill/app/generate"
)

type GeneratePassTask struct {
	Task
	generator *generate.Generator
}

func NewGeneratePassTask(generator *generate.Generator) *GeneratePassTask {
	return &GeneratePassTask{
		Task:      NewTask(TaskTypeGeneratePass, "items"),
		generator: generator,
	}
}

func (t *GeneratePassTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.generator.Run(ctx); err != nil {
		return fmt.Errorf("generation pass failed: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration())

	return nil
}

type ThemePassTask struct {
	Task
	generator *generate.ThemeGenerator
}

func NewThemePassTask(generator *generate.ThemeGenerator) *ThemePassTask {
	return &ThemePassTask{
		Task:      NewTask(TaskTypeThemePass, "themes"),
		generator: generator,
	}
}

func (t *ThemePassTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.generator.Run(ctx); err != nil {
		return fmt.Errorf("theme generation pass failed: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration())

	return nil
}
