package sources

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const categoriesFileName = "categories.yml"

// Cache loads source and category configuration from a directory of YAML
// files and serves them from memory.
type Cache struct {
	sourcesDir string
	cache      map[string]*Config
	categories []Category
	mu         sync.RWMutex
}

func NewCache(sourcesDir string) *Cache {
	return &Cache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Config),
	}
}

func (c *Cache) Run() error {
	if _, err := os.Stat(c.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		fileName := filepath.Base(file)
		if fileName == categoriesFileName {
			if err := c.loadCategories(file); err != nil {
				return fmt.Errorf("error loading %s: %w", file, err)
			}
			continue
		}

		// Derive source name from filename (remove .yml extension)
		sourceName := fileName[:len(fileName)-4]

		config, err := c.LoadConfig(sourceName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Source configuration loaded", "source", sourceName, "enabled", config.Settings.Enabled, "scrape", config.Settings.Scrape)
	}

	return nil
}

func (c *Cache) LoadConfig(sourceName string) (*Config, error) {
	configFile := filepath.Join(c.sourcesDir, sourceName+".yml")
	config, err := c.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	// Set source name from parameter
	config.Name = sourceName

	if err := c.validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[config.Name] = config

	return config, nil
}

func (c *Cache) GetConfig(sourceName string) (*Config, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	config, ok := c.cache[sourceName]
	if !ok {
		return nil, fmt.Errorf("source config with name '%s' not found", sourceName)
	}
	return config, nil
}

func (c *Cache) GetEnabledConfigs() map[string]*Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	enabled := make(map[string]*Config)
	for k, v := range c.cache {
		if v.Settings.Enabled {
			enabled[k] = v
		}
	}
	return enabled
}

func (c *Cache) GetConfigCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *Cache) GetCategories() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	categoriesCopy := make([]Category, len(c.categories))
	copy(categoriesCopy, c.categories)
	return categoriesCopy
}

func (c *Cache) loadCategories(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var parsed categoriesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, category := range parsed.Categories {
		if category.ID <= 0 {
			return fmt.Errorf("category at index %d has invalid ID", i)
		}
		if category.Name == "" {
			return fmt.Errorf("category at index %d has empty name", i)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = parsed.Categories

	slog.Debug("Categories loaded", "count", len(parsed.Categories))

	return nil
}

func (c *Cache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if config.Settings.MaxItems == 0 {
		config.Settings.MaxItems = 100
	}
	if config.Settings.Timeout == 0 {
		config.Settings.Timeout = 30
	}

	return &config, nil
}

func (c *Cache) validateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	if config.Name == "" {
		return fmt.Errorf("source name is required")
	}
	if config.URL == "" {
		return fmt.Errorf("source URL is required")
	}

	if config.Settings.MaxItems < 0 {
		return fmt.Errorf("max items must be non-negative")
	}
	if config.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	return nil
}
