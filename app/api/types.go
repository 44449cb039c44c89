package api

import (
	"github.com/miapress/newsmill/app/database"
	"github.com/miapress/newsmill/app/generate"
	"github.com/miapress/newsmill/app/ingest"
	"github.com/miapress/newsmill/app/publish"
	"github.com/miapress/newsmill/app/sources"
	"github.com/miapress/newsmill/app/tasks"
	"github.com/miapress/newsmill/app/topics"
)

type Handler struct {
	configCache    *sources.Cache
	itemRepo       database.ItemRepository
	recordRepo     database.RecordRepository
	ingester       *ingest.Ingester
	generator      *generate.Generator
	themeGenerator *generate.ThemeGenerator
	ideator        *topics.Ideator
	publisher      *publish.Publisher
	scheduler      tasks.TaskSchedulerInterface
}
