package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Application configuration
	SourcesDir        string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string
	WindowDays        int
	BatchSize         int
	IdeationInterval  int

	// Generation configuration
	LLMURL       string
	LLMAPIKey    string
	LLMModel     string
	SiteTopic    string
	DefaultTags  string
	CategoryID   int
	CategoryName string

	// Publishing configuration
	CMSURL      string
	CMSUser     string
	CMSPassword string

	// Cache configuration
	RedisAddr string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
