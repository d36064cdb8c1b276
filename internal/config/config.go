package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "sitegraph.yaml"

// DevEnvVar forces development mode (annotations on) when set to a true value.
const DevEnvVar = "SITEGRAPH_DEV"

// Config represents the application configuration.
type Config struct {
	Content     ContentConfig     `yaml:"content"`
	Schema      SchemaConfig      `yaml:"schema"`
	Annotations AnnotationsConfig `yaml:"annotations"`
	Output      OutputConfig      `yaml:"output"`
	Preview     PreviewConfig     `yaml:"preview"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ContentConfig locates the corpus. DataDir and PagesDir are slash paths
// relative to Root.
type ContentConfig struct {
	Root       string   `yaml:"root"`
	DataDir    string   `yaml:"data_dir"`
	PagesDir   string   `yaml:"pages_dir"`
	Extensions []string `yaml:"extensions"`
}

// SchemaConfig locates the content model.
type SchemaConfig struct {
	Path           string `yaml:"path"`
	SiteConfigType string `yaml:"site_config_type"`
}

// AnnotationsConfig controls development-mode inspector marks.
type AnnotationsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Verbose       bool   `yaml:"verbose"`
	ObjectIDAttr  string `yaml:"object_id_attr"`
	FieldPathAttr string `yaml:"field_path_attr"`
}

// OutputConfig represents build output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	File      string `yaml:"file"`
	Manifest  *bool  `yaml:"manifest,omitempty"`
}

// WriteManifest reports whether a manifest is written next to the output file.
func (o OutputConfig) WriteManifest() bool { return o.Manifest == nil || *o.Manifest }

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Metrics  *bool         `yaml:"metrics,omitempty"`
	Debounce time.Duration `yaml:"debounce"`
}

// MetricsEnabled reports whether /metrics is served.
func (p PreviewConfig) MetricsEnabled() bool { return p.Metrics == nil || *p.Metrics }

// LoggingConfig selects the log level and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load loads configuration from the specified file. Variables from .env and
// .env.local are loaded first and ${VAR} references in the file are expanded.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", configPath).Build()
		}
		return nil, ferrors.FileSystemError(err, configPath).Build()
	}
	return Parse([]byte(os.ExpandEnv(string(data))))
}

// LoadDefault loads DefaultPath when it exists and otherwise returns the
// built-in defaults.
func LoadDefault() (*Config, error) {
	if _, err := os.Stat(DefaultPath); err == nil {
		return Load(DefaultPath)
	}
	loadEnvFiles()
	return finish(&Config{})
}

// Parse decodes configuration YAML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}
	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
