package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when STOCKLY_CONFIG is not set
const DefaultPath = "config.yaml"

type Config struct {
	Server struct {
		Port         string   `yaml:"port"`
		AllowOrigins []string `yaml:"allow_origins"`
	} `yaml:"server"`
	Storage struct {
		Driver string `yaml:"driver"` // memory, json, sqlite3 or postgres
		Path   string `yaml:"path"`   // JSON document or SQLite file
		DSN    string `yaml:"dsn"`    // Postgres connection string
	} `yaml:"storage"`
	Prices struct {
		Provider       string             `yaml:"provider"` // yahoo or static
		CacheSeconds   int                `yaml:"cache_seconds"`
		RefreshSeconds int                `yaml:"refresh_seconds"` // background refresh while serving, 0 disables
		HistoryDays    int                `yaml:"history_days"`
		Endpoint       string             `yaml:"endpoint"`
		Static         map[string]float64 `yaml:"static"`
	} `yaml:"prices"`
	LLM struct {
		Provider           string  `yaml:"provider"` // openai, gemini or none
		Model              string  `yaml:"model"`
		Temperature        float32 `yaml:"temperature"`
		MaxTokens          int     `yaml:"max_tokens"`
		NarrativeMaxTokens int     `yaml:"narrative_max_tokens"`
		Endpoint           string  `yaml:"endpoint"`
		APIKey             string  `yaml:"-"`
	} `yaml:"llm"`
	Logging struct {
		Level    string `yaml:"level"`
		Format   string `yaml:"format"`
		Detailed bool   `yaml:"detailed"`
		Tracing  bool   `yaml:"tracing"`
	} `yaml:"logging"`
}

var (
	validDrivers   = map[string]bool{"memory": true, "json": true, "sqlite3": true, "postgres": true}
	validProviders = map[string]bool{"openai": true, "gemini": true, "none": true}
)

func (c *Config) Validate() error {
	if !validDrivers[c.Storage.Driver] {
		return fmt.Errorf("invalid storage.driver '%s': must be memory, json, sqlite3 or postgres", c.Storage.Driver)
	}
	if c.Storage.Driver == "postgres" && c.Storage.DSN == "" {
		return errors.New("storage.dsn is required for the postgres driver")
	}
	if (c.Storage.Driver == "json" || c.Storage.Driver == "sqlite3") && c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required for the %s driver", c.Storage.Driver)
	}
	if c.Prices.Provider != "yahoo" && c.Prices.Provider != "static" {
		return fmt.Errorf("prices.provider must be 'yahoo' or 'static', got '%s'", c.Prices.Provider)
	}
	if c.Prices.RefreshSeconds < 0 {
		return fmt.Errorf("prices.refresh_seconds must not be negative, got %d", c.Prices.RefreshSeconds)
	}
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("llm.provider must be 'openai', 'gemini' or 'none', got '%s'", c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0-2, got %.2f", c.LLM.Temperature)
	}
	return nil
}

// Default returns the configuration used when no file is present
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

// Load reads .env, then the YAML file at path (optional), then environment overrides
func Load(path string) (*Config, error) {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	if env := os.Getenv("STOCKLY_CONFIG"); env != "" {
		path = env
	}

	var c Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Defaults only
	default:
		return nil, err
	}

	c.applyDefaults()
	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if len(c.Server.AllowOrigins) == 0 {
		c.Server.AllowOrigins = []string{"http://localhost:3000"}
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "json"
	}
	if c.Storage.Path == "" {
		switch c.Storage.Driver {
		case "json":
			c.Storage.Path = "portfolio.json"
		case "sqlite3":
			c.Storage.Path = "database/stockly.db"
		}
	}
	if c.Prices.Provider == "" {
		c.Prices.Provider = "yahoo"
	}
	if c.Prices.CacheSeconds == 0 {
		c.Prices.CacheSeconds = 60
	}
	if c.Prices.HistoryDays == 0 {
		c.Prices.HistoryDays = 30
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.Model == "" {
		switch c.LLM.Provider {
		case "gemini":
			c.LLM.Model = "gemini-2.5-flash"
		default:
			c.LLM.Model = "gpt-4"
		}
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 1500
	}
	if c.LLM.NarrativeMaxTokens == 0 {
		c.LLM.NarrativeMaxTokens = 500
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "INFO"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("STOCKLY_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("STOCKLY_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("STOCKLY_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_TRACING_ENABLED"); v != "" {
		c.Logging.Tracing, _ = strconv.ParseBool(v)
	}

	switch c.LLM.Provider {
	case "openai":
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	case "gemini":
		c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		if c.LLM.APIKey == "" {
			c.LLM.APIKey = os.Getenv("GOOGLE_API_KEY")
		}
	}
}
