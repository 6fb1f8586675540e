package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/smith-xyz/linkgraph/pkg/utils"
)

// Embedded default configuration
//
//go:embed default_config.toml
var embeddedConfigData []byte

// Environment variables that override file configuration.
const (
	EnvBuildDir      = "LINKGRAPH_BUILD_DIR"
	EnvConfiguration = "LINKGRAPH_CONFIGURATION"
	EnvJobs          = "LINKGRAPH_JOBS"
	EnvFormat        = "LINKGRAPH_FORMAT"
)

// Config holds the application configuration.
type Config struct {
	Classification ClassificationConfig `toml:"classification"`
	Loader         LoaderConfig         `toml:"loader"`
	Output         OutputConfig         `toml:"output"`
	Watch          WatchConfig          `toml:"watch"`

	// BuildDir is only set from the environment or the command line.
	BuildDir string `toml:"-"`
}

// ClassificationConfig controls how link declarations are recognized.
type ClassificationConfig struct {
	LinkCommands      []string `toml:"link_commands"`
	ExtraLinkCommands []string `toml:"extra_link_commands"`
	Jobs              int      `toml:"jobs"`
}

// LoaderConfig controls how build-tool replies are read.
type LoaderConfig struct {
	Configuration string `toml:"configuration"`
	ReplyDir      string `toml:"reply_dir"`
	Jobs          int    `toml:"jobs"`
}

// OutputConfig controls rendering of the annotated graph.
type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

// WatchConfig controls the polling loop of the watch command.
type WatchConfig struct {
	Interval  Duration `toml:"interval"`
	CacheSize int      `toml:"cache_size"`
}

// Duration decodes TOML strings such as "2s" into a time.Duration.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// DefaultConfig returns the embedded configuration, replaced by a local linkgraph.toml when one exists.
func DefaultConfig() (*Config, error) {
	var config Config
	if err := toml.Unmarshal(embeddedConfigData, &config); err != nil {
		return nil, fmt.Errorf("failed to parse embedded config: %w", err)
	}

	localConfigPaths := []string{
		"linkgraph.toml",
		"../linkgraph.toml",
	}

	for _, path := range localConfigPaths {
		if utils.FileExists(path) {
			localConfig, err := LoadFromFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to load local config %s: %v\n", path, err)
				break
			}
			return localConfig, nil
		}
	}

	return &config, nil
}

// LoadFromFile loads configuration from a TOML file. Keys absent from the file keep
// their embedded defaults.
func LoadFromFile(filepath string) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(embeddedConfigData, &config); err != nil {
		return nil, fmt.Errorf("failed to parse embedded config: %w", err)
	}
	if _, err := toml.DecodeFile(filepath, &config); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", filepath, err)
	}
	return &config, nil
}

// Load resolves the effective configuration: an explicit file if given, otherwise
// DefaultConfig, then environment overrides (including an optional .env file).
func Load(explicitPath string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if explicitPath != "" {
		cfg, err = LoadFromFile(explicitPath)
	} else {
		cfg, err = DefaultConfig()
	}
	if err != nil {
		return nil, err
	}

	_ = godotenv.Load()
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides configuration values from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvBuildDir)); v != "" {
		c.BuildDir = v
	}
	if v := strings.TrimSpace(getenv(EnvConfiguration)); v != "" {
		c.Loader.Configuration = v
	}
	if v := strings.TrimSpace(getenv(EnvFormat)); v != "" {
		c.Output.Format = v
	}
	if v := strings.TrimSpace(getenv(EnvJobs)); v != "" {
		jobs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvJobs, v, err)
		}
		c.Classification.Jobs = jobs
	}
	return nil
}

// Validate checks values that would otherwise fail later in a confusing way.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "json", "msgpack", "tree":
	default:
		return fmt.Errorf("unsupported output format %q (want json, msgpack or tree)", c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("unsupported color mode %q (want auto, on or off)", c.Output.Color)
	}
	if len(c.Classification.LinkCommands) == 0 && len(c.Classification.ExtraLinkCommands) == 0 {
		return fmt.Errorf("no link commands configured")
	}
	if c.Classification.Jobs < 0 || c.Loader.Jobs < 0 {
		return fmt.Errorf("job counts must not be negative")
	}
	if c.Watch.Interval.Duration <= 0 {
		return fmt.Errorf("watch interval must be positive")
	}
	if c.Watch.CacheSize <= 0 {
		return fmt.Errorf("watch cache size must be positive")
	}
	return nil
}
