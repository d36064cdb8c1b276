package config

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"git.home.luguber.info/inful/sitegraph/internal/content"
	ferrors "git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/reader"
)

// reservedAttrs are field names the pipeline itself writes or reads.
var reservedAttrs = []string{content.MetadataKey, content.TypeKey, content.MarkdownContentKey}

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	cv := &configurationValidator{config: cfg}
	for _, check := range []func() error{
		cv.validateContent,
		cv.validateSchema,
		cv.validateAnnotations,
		cv.validateOutput,
		cv.validatePreview,
		cv.validateLogging,
	} {
		if err := check(); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid configuration").Fatal().Build()
		}
	}
	return nil
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validateContent() error {
	c := cv.config.Content
	data, pages := path.Clean(c.DataDir), path.Clean(c.PagesDir)
	if path.IsAbs(data) || path.IsAbs(pages) {
		return fmt.Errorf("content.data_dir and content.pages_dir must be relative to content.root")
	}
	if data == pages {
		return fmt.Errorf("content.data_dir and content.pages_dir must differ (both %q)", data)
	}
	supported := reader.SupportedExtensions()
	for _, ext := range c.Extensions {
		if !slices.Contains(supported, strings.TrimPrefix(ext, ".")) {
			return fmt.Errorf("content.extensions: unsupported extension %q (supported: %s)", ext, strings.Join(supported, ", "))
		}
	}
	return nil
}

func (cv *configurationValidator) validateSchema() error {
	if strings.TrimSpace(cv.config.Schema.SiteConfigType) == "" {
		return fmt.Errorf("schema.site_config_type cannot be empty")
	}
	return nil
}

func (cv *configurationValidator) validateAnnotations() error {
	a := cv.config.Annotations
	if a.ObjectIDAttr == a.FieldPathAttr {
		return fmt.Errorf("annotations.object_id_attr and annotations.field_path_attr must differ (both %q)", a.ObjectIDAttr)
	}
	for _, attr := range []string{a.ObjectIDAttr, a.FieldPathAttr} {
		if slices.Contains(reservedAttrs, attr) {
			return fmt.Errorf("annotation attribute %q collides with a reserved field name", attr)
		}
	}
	return nil
}

func (cv *configurationValidator) validateOutput() error {
	if strings.ContainsAny(cv.config.Output.File, `/\`) {
		return fmt.Errorf("output.file must be a file name, got %q", cv.config.Output.File)
	}
	return nil
}

func (cv *configurationValidator) validatePreview() error {
	p := cv.config.Preview
	if p.Port < 1 || p.Port > 65535 {
		return fmt.Errorf("preview.port out of range: %d", p.Port)
	}
	if p.Debounce < 0 {
		return fmt.Errorf("preview.debounce cannot be negative: %s", p.Debounce)
	}
	return nil
}

func (cv *configurationValidator) validateLogging() error {
	switch cv.config.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error: %q", cv.config.Logging.Level)
	}
	switch cv.config.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json: %q", cv.config.Logging.Format)
	}
	return nil
}
