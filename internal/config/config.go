package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone     = "UTC"
	configPathEnv       = "NEWSPRESS_CONFIG"
	databaseDSNEnv      = "DATABASE_DSN"
	summarizerKeyEnv    = "SUMMARIZER_API_KEY"
	summarizerModelEnv  = "SUMMARIZER_MODEL"
	summarizerURLEnv    = "SUMMARIZER_ENDPOINT"
	defaultConcurrency  = 8
	defaultFetchTimeout = 20
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Edition    EditionConfig    `yaml:"edition"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Database   DatabaseConfig   `yaml:"database"`
	Sources    []SourceConfig   `yaml:"sources"`
}

// LoggingConfig controls console output verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// EditionConfig names the publication used in rendered documents.
type EditionConfig struct {
	Title string `yaml:"title"`
}

// SchedulerConfig defines when editions are built and in which timezone
// their keys are computed.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the configured timezone to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// FetchConfig bounds the article fetch pool.
type FetchConfig struct {
	Concurrency    int `yaml:"concurrency"`
	TimeoutSeconds int `yaml:"timeoutSeconds"`
}

// Timeout returns the per-request fetch timeout.
func (f FetchConfig) Timeout() time.Duration {
	seconds := f.TimeoutSeconds
	if seconds <= 0 {
		seconds = defaultFetchTimeout
	}
	return time.Duration(seconds) * time.Second
}

// SummarizerConfig defines how to contact the summarization backend.
type SummarizerConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	TemplatePath string `yaml:"templatePath"`
	MaxAttempts  int    `yaml:"maxAttempts"`
}

// DatabaseConfig describes the optional edition archive connection.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SourceConfig describes a single source site with its scanner strategy.
type SourceConfig struct {
	Name          string            `yaml:"name"`
	Scanner       string            `yaml:"scanner"`
	IndexURL      string            `yaml:"indexUrl"`
	FeedURL       string            `yaml:"feedUrl"`
	LinkSelector  string            `yaml:"linkSelector"`
	TitleSelector string            `yaml:"titleSelector"`
	BodySelector  string            `yaml:"bodySelector"`
	Options       map[string]string `yaml:"options"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. An explicit path wins over the NEWSPRESS_CONFIG variable.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(summarizerKeyEnv); v != "" {
		c.Summarizer.APIKey = v
	}

	if v := os.Getenv(summarizerModelEnv); v != "" {
		c.Summarizer.Model = v
	}

	if v := os.Getenv(summarizerURLEnv); v != "" {
		c.Summarizer.Endpoint = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Edition.Title != "" {
		base.Edition.Title = override.Edition.Title
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Fetch.Concurrency > 0 {
		base.Fetch.Concurrency = override.Fetch.Concurrency
	}
	if override.Fetch.TimeoutSeconds > 0 {
		base.Fetch.TimeoutSeconds = override.Fetch.TimeoutSeconds
	}

	if override.Summarizer.Endpoint != "" {
		base.Summarizer.Endpoint = override.Summarizer.Endpoint
	}
	if override.Summarizer.Model != "" {
		base.Summarizer.Model = override.Summarizer.Model
	}
	if override.Summarizer.APIKey != "" {
		base.Summarizer.APIKey = override.Summarizer.APIKey
	}
	if override.Summarizer.TemplatePath != "" {
		base.Summarizer.TemplatePath = override.Summarizer.TemplatePath
	}
	if override.Summarizer.MaxAttempts > 0 {
		base.Summarizer.MaxAttempts = override.Summarizer.MaxAttempts
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Edition:   EditionConfig{Title: "The Plaintext Times"},
		Scheduler: SchedulerConfig{Timezone: defaultTimezone, location: tz},
		Fetch:     FetchConfig{Concurrency: defaultConcurrency, TimeoutSeconds: defaultFetchTimeout},
		Summarizer: SummarizerConfig{
			Endpoint:    "https://api.openai.com/v1/chat/completions",
			Model:       "gpt-4o-mini",
			MaxAttempts: 3,
		},
		Sources: []SourceConfig{
			{
				Name:          "cnn-lite",
				Scanner:       "litepage",
				IndexURL:      "https://lite.cnn.com",
				LinkSelector:  ".card--lite a[href]",
				TitleSelector: ".headline--lite",
				BodySelector:  ".article--lite",
			},
			{
				Name:          "npr-text",
				Scanner:       "litepage",
				IndexURL:      "https://text.npr.org",
				LinkSelector:  ".topic-title",
				TitleSelector: ".story-head",
				BodySelector:  ".paragraphs-container",
			},
		},
	}
}
