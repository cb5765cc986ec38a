// CLAUDE:SUMMARY Service config structs and YAML file loading with defaults.
package mission

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level audit-service configuration.
type Config struct {
	Listen    string          `yaml:"listen"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Figma     FigmaConfig     `yaml:"figma"`
	Browser   BrowserConfig   `yaml:"browser"`
	Collector CollectorConfig `yaml:"collector"`
	EventsDB  string          `yaml:"events_db"`
}

// GeminiConfig controls the generation provider.
type GeminiConfig struct {
	APIKey  string   `yaml:"api_key"`
	BaseURL string   `yaml:"base_url"`
	Chain   []string `yaml:"chain"` // fixed fallback chain override
}

// FigmaConfig holds the process-wide design-reference defaults.
type FigmaConfig struct {
	Token   string `yaml:"token"`
	FileKey string `yaml:"file_key"`
	BaseURL string `yaml:"base_url"`
}

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig struct {
	Remote string `yaml:"remote"` // devtools websocket URL; empty launches locally
}

// CollectorConfig tunes the audit capture.
type CollectorConfig struct {
	NavTimeout   time.Duration `yaml:"nav_timeout"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
	SnippetLimit int           `yaml:"snippet_limit"`
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills unset fields with production defaults.
func (c *Config) ApplyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8090"
	}
	if c.EventsDB == "" {
		c.EventsDB = "db/events.db"
	}
	if c.Collector.NavTimeout <= 0 {
		c.Collector.NavTimeout = 45 * time.Second
	}
	if c.Collector.SettleDelay <= 0 {
		c.Collector.SettleDelay = 2 * time.Second
	}
	if c.Collector.SnippetLimit <= 0 {
		c.Collector.SnippetLimit = 3000
	}
}
