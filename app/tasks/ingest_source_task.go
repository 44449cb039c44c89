package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/miapress/newsmill/app/ingest"
	"github.com/miapress/newsmill/app/sources"
)

type IngestSourceTask struct {
	Task
	SourceConfig *sources.Config
	ingester     *ingest.Ingester
}

func NewIngestSourceTask(sourceName string, sourceConfig *sources.Config, ingester *ingest.Ingester) *IngestSourceTask {
	return &IngestSourceTask{
		Task:         NewTask(TaskTypeIngestSource, sourceName),
		SourceConfig: sourceConfig,
		ingester:     ingester,
	}
}

func (t *IngestSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	newCount, knownCount, err := t.ingester.Run(ctx, t.SourceConfig)
	if err != nil {
		return fmt.Errorf("failed to ingest source: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.Subject,
		"duration", t.GetDuration(),
		"new", newCount,
		"known", knownCount)

	return nil
}
