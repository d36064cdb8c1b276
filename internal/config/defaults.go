package config

import (
	"time"

	"git.home.luguber.info/inful/sitegraph/internal/annotate"
	"git.home.luguber.info/inful/sitegraph/internal/pipeline"
	"git.home.luguber.info/inful/sitegraph/internal/reader"
)

// Defaults not owned by another package.
const (
	DefaultSchemaPath = ".stackbit/models.yaml"
	DefaultOutputDir  = "./.sitegraph"
	DefaultOutputFile = "content.json"
	DefaultHost       = "localhost"
	DefaultPort       = 4680
	DefaultDebounce   = 300 * time.Millisecond
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

func applyDefaults(cfg *Config) {
	if cfg.Content.Root == "" {
		cfg.Content.Root = "."
	}
	if cfg.Content.DataDir == "" {
		cfg.Content.DataDir = pipeline.DefaultDataDir
	}
	if cfg.Content.PagesDir == "" {
		cfg.Content.PagesDir = pipeline.DefaultPagesDir
	}
	if len(cfg.Content.Extensions) == 0 {
		cfg.Content.Extensions = reader.SupportedExtensions()
	}

	if cfg.Schema.Path == "" {
		cfg.Schema.Path = DefaultSchemaPath
	}
	if cfg.Schema.SiteConfigType == "" {
		cfg.Schema.SiteConfigType = pipeline.DefaultSiteConfigType
	}

	if cfg.Annotations.ObjectIDAttr == "" {
		cfg.Annotations.ObjectIDAttr = annotate.DefaultObjectIDAttr
	}
	if cfg.Annotations.FieldPathAttr == "" {
		cfg.Annotations.FieldPathAttr = annotate.DefaultFieldPathAttr
	}

	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
	}
	if cfg.Output.File == "" {
		cfg.Output.File = DefaultOutputFile
	}

	if cfg.Preview.Host == "" {
		cfg.Preview.Host = DefaultHost
	}
	if cfg.Preview.Port == 0 {
		cfg.Preview.Port = DefaultPort
	}
	if cfg.Preview.Debounce == 0 {
		cfg.Preview.Debounce = DefaultDebounce
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}
