package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = "newsup.yaml"

// ErrConfigNotFound is returned when an explicitly named config file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// ErrInvalidPort is returned when the listen port is not a number in range.
var ErrInvalidPort = errors.New("invalid port: must be between 1 and 65535")

// DefaultCategories are the primary categories reported by the category-count endpoint.
var DefaultCategories = []string{"business", "entertainment", "politics", "sport", "tech"}

// Config is the full service configuration.
type Config struct {
	Port           int           `yaml:"port"`
	Debug          bool          `yaml:"debug"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Mongo          MongoConfig   `yaml:"mongo"`
	// Newspapers is the set of collections visited by cross-newspaper listings.
	Newspapers []string `yaml:"newspapers"`
	Categories []string `yaml:"categories"`
	S3         S3Config `yaml:"s3"`
}

// MongoConfig locates the article and resource databases.
type MongoConfig struct {
	URI                 string `yaml:"uri"`
	NewsDatabase        string `yaml:"news_database"`
	ResourcesDatabase   string `yaml:"resources_database"`
	ResourcesCollection string `yaml:"resources_collection"`
}

// S3Config selects the snapshot export target. Export is disabled when Bucket is empty.
type S3Config struct {
	Bucket       string `yaml:"bucket"`
	Region       string `yaml:"region"`
	Profile      string `yaml:"profile"`
	Prefix       string `yaml:"prefix"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:           5000,
		RequestTimeout: 15 * time.Second,
		Mongo: MongoConfig{
			URI:                 "mongodb://localhost:27017",
			NewsDatabase:        "DailyNews",
			ResourcesDatabase:   "Resources",
			ResourcesCollection: "Daily",
		},
		Categories: append([]string(nil), DefaultCategories...),
	}
}

// Load builds the configuration from defaults, an optional YAML file, a .env
// file if present, and the process environment, in increasing precedence.
// An empty path looks for DefaultConfigFile and tolerates its absence.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if err := cfg.loadFile(path); err != nil {
		if !errors.Is(err, ErrConfigNotFound) || explicit {
			return nil, err
		}
	}

	// .env is optional
	_ = godotenv.Load()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrConfigNotFound
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	c.Port = getEnvIntOrDefault("PORT", c.Port)
	c.Debug = getEnvBoolOrDefault("DEBUG", c.Debug)
	if v := strings.TrimSpace(os.Getenv("REQUEST_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.RequestTimeout = d
		}
	}

	c.Mongo.URI = getEnvOrDefault("MONGO_URI", c.Mongo.URI)
	c.Mongo.NewsDatabase = getEnvOrDefault("NEWS_DATABASE", c.Mongo.NewsDatabase)
	c.Mongo.ResourcesDatabase = getEnvOrDefault("RESOURCES_DATABASE", c.Mongo.ResourcesDatabase)
	c.Mongo.ResourcesCollection = getEnvOrDefault("RESOURCES_COLLECTION", c.Mongo.ResourcesCollection)

	if v := splitList(os.Getenv("NEWSPAPERS")); len(v) > 0 {
		c.Newspapers = v
	}
	if v := splitList(os.Getenv("CATEGORIES")); len(v) > 0 {
		c.Categories = v
	}

	c.S3.Bucket = getEnvOrDefault("S3_BUCKET", c.S3.Bucket)
	c.S3.Region = getEnvOrDefault("S3_REGION", c.S3.Region)
	c.S3.Profile = getEnvOrDefault("S3_PROFILE", c.S3.Profile)
	c.S3.Prefix = getEnvOrDefault("S3_PREFIX", c.S3.Prefix)
	c.S3.UsePathStyle = getEnvBoolOrDefault("S3_USE_PATH_STYLE", c.S3.UsePathStyle)
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return ErrInvalidPort
	}
	if strings.TrimSpace(c.Mongo.URI) == "" {
		return errors.New("mongo uri is required")
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = Default().RequestTimeout
	}
	if len(c.Categories) == 0 {
		c.Categories = append([]string(nil), DefaultCategories...)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// S3KeyPrefix normalizes the configured prefix to either "" or "dir/".
func (c *Config) S3KeyPrefix() string {
	p := strings.Trim(strings.TrimSpace(c.S3.Prefix), "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
	}
	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
