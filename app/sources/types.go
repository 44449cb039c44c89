package sources

// Config describes one upstream feed to ingest candidates from.
type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"`
	Settings ConfigSettings `yaml:"settings"`
}

type ConfigSettings struct {
	Enabled  bool `yaml:"enabled"`
	MaxItems int  `yaml:"max_items"`
	Timeout  int  `yaml:"timeout"` // seconds
	Scrape   bool `yaml:"scrape"`  // fetch full article bodies from item links
}

// Category is an editorial category used by topic ideation. Categories are
// declared once in categories.yml inside the sources directory.
type Category struct {
	ID    int    `yaml:"id"`
	Name  string `yaml:"name"`
	Hint  string `yaml:"hint"`  // optional steering text for idea prompts
	Ideas int    `yaml:"ideas"` // how many topic ideas to request per pass
}

type categoriesFile struct {
	Categories []Category `yaml:"categories"`
}
