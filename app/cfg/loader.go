package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBHost     string `long:"db-host" env:"DB_HOST" default:"localhost" description:"Database host"`
	DBPort     string `long:"db-port" env:"DB_PORT" default:"5432" description:"Database port"`
	DBUser     string `long:"db-user" env:"DB_USER" default:"newsmill_user" description:"Database user"`
	DBPassword string `long:"db-password" env:"DB_PASSWORD" default:"newsmill_password" description:"Database password (required)" required:"true"`
	DBName     string `long:"db-name" env:"DB_NAME" default:"newsmill" description:"Database name"`

	// Application configuration
	SourcesDir        string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source configuration files"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for pipeline stages"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"300" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	WindowDays        int    `long:"window-days" env:"WINDOW_DAYS" default:"2" description:"Recency window in days for candidate items"`
	BatchSize         int    `long:"batch-size" env:"BATCH_SIZE" default:"10" description:"Maximum records handled per pipeline pass"`
	IdeationInterval  int    `long:"ideation-interval" env:"IDEATION_INTERVAL" default:"21600" description:"Ideation interval in seconds"`

	// Generation configuration
	LLMURL       string `long:"llm-url" env:"LLM_URL" default:"https://api.perplexity.ai" description:"Base URL of the chat completions API"`
	LLMAPIKey    string `long:"llm-api-key" env:"LLM_API_KEY" description:"API key for the chat completions API"`
	LLMModel     string `long:"llm-model" env:"LLM_MODEL" default:"sonar" description:"Model name for article generation"`
	SiteTopic    string `long:"site-topic" env:"SITE_TOPIC" default:"tennis" description:"Editorial topic the site covers, used to reject off-topic items"`
	DefaultTags  string `long:"default-tags" env:"DEFAULT_TAGS" default:"" description:"Comma-separated tags prepended to every generated record"`
	CategoryID   int    `long:"category-id" env:"CATEGORY_ID" default:"8" description:"Default category ID for generated records"`
	CategoryName string `long:"category-name" env:"CATEGORY_NAME" default:"News" description:"Default category name for generated records"`

	// Publishing configuration
	CMSURL      string `long:"cms-url" env:"CMS_URL" description:"Base URL of the CMS (e.g., https://example.com)"`
	CMSUser     string `long:"cms-user" env:"CMS_USER" description:"CMS username for JWT authentication"`
	CMSPassword string `long:"cms-password" env:"CMS_PASSWORD" description:"CMS password for JWT authentication"`

	// Cache configuration
	RedisAddr string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address for the keyword suggestion cache"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Newsmill/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBHost:            raw.DBHost,
		DBPort:            raw.DBPort,
		DBUser:            raw.DBUser,
		DBPassword:        raw.DBPassword,
		DBName:            raw.DBName,
		SourcesDir:        raw.SourcesDir,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		WindowDays:        raw.WindowDays,
		BatchSize:         raw.BatchSize,
		IdeationInterval:  raw.IdeationInterval,
		LLMURL:            raw.LLMURL,
		LLMAPIKey:         raw.LLMAPIKey,
		LLMModel:          raw.LLMModel,
		SiteTopic:         raw.SiteTopic,
		DefaultTags:       raw.DefaultTags,
		CategoryID:        raw.CategoryID,
		CategoryName:      raw.CategoryName,
		CMSURL:            raw.CMSURL,
		CMSUser:           raw.CMSUser,
		CMSPassword:       raw.CMSPassword,
		RedisAddr:         raw.RedisAddr,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
