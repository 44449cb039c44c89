package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/miapress/newsmill/app/database"
	"github.com/miapress/newsmill/app/generate"
	"github.com/miapress/newsmill/app/ingest"
	"github.com/miapress/newsmill/app/publish"
	"github.com/miapress/newsmill/app/sources"
	"github.com/miapress/newsmill/app/tasks"
	"github.com/miapress/newsmill/app/topics"
)

func NewHandler(configCache *sources.Cache, itemRepo database.ItemRepository,
	recordRepo database.RecordRepository, ingester *ingest.Ingester,
	generator *generate.Generator, themeGenerator *generate.ThemeGenerator,
	ideator *topics.Ideator, publisher *publish.Publisher,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		configCache:    configCache,
		itemRepo:       itemRepo,
		recordRepo:     recordRepo,
		ingester:       ingester,
		generator:      generator,
		themeGenerator: themeGenerator,
		ideator:        ideator,
		publisher:      publisher,
		scheduler:      scheduler,
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	health["loaded_sources"] = h.configCache.GetConfigCount()

	if _, _, _, err := h.itemRepo.GetItemStats(); err != nil {
		health["database"] = "unavailable"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	health["database"] = "ok"

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	unprocessed, succeeded, itemsRejected, err := h.itemRepo.GetItemStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_item_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	rejectedQuality, draft, published, err := h.recordRepo.GetRecordStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_record_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": gin.H{
			"unprocessed": unprocessed,
			"succeeded":   succeeded,
			"rejected":    itemsRejected,
		},
		"records": gin.H{
			"rejected_quality": rejectedQuality,
			"draft":            draft,
			"published":        published,
		},
		"sources": h.configCache.GetConfigCount(),
	})
}

func (h *Handler) ListSources(c *gin.Context) {
	configs := h.configCache.GetEnabledConfigs()

	sourceList := make([]map[string]interface{}, 0, len(configs))
	for _, sourceConfig := range configs {
		sourceList = append(sourceList, map[string]interface{}{
			"name":      sourceConfig.Name,
			"url":       sourceConfig.URL,
			"enabled":   sourceConfig.Settings.Enabled,
			"max_items": sourceConfig.Settings.MaxItems,
			"scrape":    sourceConfig.Settings.Scrape,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": sourceList,
		"total":   len(sourceList),
	})
}

// RunStage enqueues a single pipeline stage on demand. Useful for kicking a
// pass manually without waiting for the scheduler tick.
func (h *Handler) RunStage(c *gin.Context) {
	stage := c.Param("stage")

	var enqueued []gin.H

	switch stage {
	case "ingest":
		for _, sourceConfig := range h.configCache.GetEnabledConfigs() {
			task := tasks.NewIngestSourceTask(sourceConfig.Name, sourceConfig, h.ingester)
			if err := h.scheduler.EnqueueTask(task); err != nil {
				slog.Error("Error enqueueing ingest task", "source", sourceConfig.Name, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue task", "details": err.Error()})
				return
			}
			enqueued = append(enqueued, gin.H{"id": task.ID, "type": task.Type, "source": sourceConfig.Name})
		}
	case "generate":
		task := tasks.NewGeneratePassTask(h.generator)
		if err := h.scheduler.EnqueueTask(task); err != nil {
			slog.Error("Error enqueueing generate task", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue task", "details": err.Error()})
			return
		}
		enqueued = append(enqueued, gin.H{"id": task.ID, "type": task.Type})
	case "themes":
		task := tasks.NewThemePassTask(h.themeGenerator)
		if err := h.scheduler.EnqueueTask(task); err != nil {
			slog.Error("Error enqueueing theme task", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue task", "details": err.Error()})
			return
		}
		enqueued = append(enqueued, gin.H{"id": task.ID, "type": task.Type})
	case "ideate":
		task := tasks.NewIdeatePassTask(h.ideator, h.configCache.GetCategories())
		if err := h.scheduler.EnqueueTask(task); err != nil {
			slog.Error("Error enqueueing ideate task", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue task", "details": err.Error()})
			return
		}
		enqueued = append(enqueued, gin.H{"id": task.ID, "type": task.Type})
	case "publish":
		task := tasks.NewPublishPassTask(h.publisher)
		if err := h.scheduler.EnqueueTask(task); err != nil {
			slog.Error("Error enqueueing publish task", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue task", "details": err.Error()})
			return
		}
		enqueued = append(enqueued, gin.H{"id": task.ID, "type": task.Type})
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Unknown stage",
			"stages": []string{"ingest", "generate", "themes", "ideate", "publish"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stage":   stage,
		"tasks":   enqueued,
	})
}
