// Package models defines data structures for configuration and command output.
package models

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate and LoadConfig for unusable settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// Input formats.
const (
	InputFormatText    = "text"
	InputFormatHTML    = "html"
	InputFormatArticle = "article"
)

// Intermediate stores.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// stdinPath selects standard input for --input and --words-file.
const stdinPath = "-"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// IndexConfig holds the settings of an index or split run. It can be loaded
// from a YAML file; command-line flags that are set explicitly win.
type IndexConfig struct {
	Input       string   `yaml:"input"`
	InputFormat string   `yaml:"input_format"`
	Words       []string `yaml:"words"`
	WordsFile   string   `yaml:"words_file"`
	ChunkSize   int      `yaml:"chunk_size"`

	// SkipStopwords drops common English words from the query list. Suggest
	// is how many frequent words the split command proposes.
	SkipStopwords bool `yaml:"skip_stopwords"`
	Suggest       int  `yaml:"suggest"`

	Workers     int  `yaml:"workers"`
	Partitions  int  `yaml:"partitions"`
	Combine     bool `yaml:"combine"`
	ReduceBatch int  `yaml:"reduce_batch"`

	Store      string `yaml:"store"`
	SQLitePath string `yaml:"sqlite_path"`
	RedisAddr  string `yaml:"redis_addr"`

	Format string `yaml:"format"`
	Limit  int    `yaml:"limit"`
	Top    int    `yaml:"top"`
	Output string `yaml:"output"`

	CacheDir string        `yaml:"cache_dir"`
	MaxAge   time.Duration `yaml:"max_age"`
	Timeout  time.Duration `yaml:"timeout"`
}

// DefaultIndexConfig returns the built-in defaults.
func DefaultIndexConfig() *IndexConfig {
	return &IndexConfig{
		InputFormat: InputFormatText,
		ChunkSize:   1024 * 1024,
		Workers:     4,
		Partitions:  4,
		Combine:     true,
		Store:       StoreMemory,
		SQLitePath:  ":memory:",
		RedisAddr:   "localhost:6379",
		Format:      FormatText,
		Limit:       50,
		Top:         10,
		MaxAge:      time.Hour,
		Timeout:     30 * time.Second,
	}
}

// LoadConfig reads a YAML file on top of the defaults.
func LoadConfig(path string) (*IndexConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultIndexConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// Validate checks enumerations and ranges. Query words and chunk size are
// checked again by the indexer itself.
func (c *IndexConfig) Validate() error {
	c.InputFormat = strings.ToLower(c.InputFormat)
	c.Store = strings.ToLower(c.Store)
	c.Format = strings.ToLower(c.Format)

	switch {
	case c.Input == "":
		return fmt.Errorf("%w: no input given", ErrInvalidConfig)
	case c.Input == stdinPath && c.WordsFile == stdinPath:
		return fmt.Errorf("%w: document and words file cannot both be read from stdin", ErrInvalidConfig)
	case !oneOf(c.InputFormat, InputFormatText, InputFormatHTML, InputFormatArticle):
		return fmt.Errorf("%w: unknown input format %q", ErrInvalidConfig, c.InputFormat)
	case !oneOf(c.Store, StoreMemory, StoreSQLite, StoreRedis):
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	case !oneOf(c.Format, FormatText, FormatJSON, FormatYAML):
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	case c.Workers < 1 || c.Partitions < 1:
		return fmt.Errorf("%w: workers and partitions must be positive", ErrInvalidConfig)
	case c.ReduceBatch < 0 || c.Limit < 0 || c.Top < 0 || c.Suggest < 0:
		return fmt.Errorf("%w: counts cannot be negative", ErrInvalidConfig)
	}
	return nil
}

func oneOf(v string, options ...string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}
