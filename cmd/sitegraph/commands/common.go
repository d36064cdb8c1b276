package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/foundation"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (defaults to sitegraph.yaml when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build content.json from the content directories"`
	Discover DiscoverCmd `cmd:"" help:"List the content files a build would read"`
	Schema   SchemaCmd   `cmd:"" help:"Validate the content model and list its reference fields"`
	Links    LinksCmd    `cmd:"" help:"Report internal links between pages that do not resolve"`
	Preview  PreviewCmd  `cmd:"" help:"Serve content over HTTP and rebuild on changes"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(NewLogger(os.Stderr, config.DefaultLogLevel, config.DefaultLogFormat, c.Verbose))
	return nil
}

// LoadConfig loads the configuration named by --config, or the default file
// when present, and reconfigures logging from it.
func (c *CLI) LoadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.Config != "" {
		cfg, err = config.Load(c.Config)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}
	slog.SetDefault(NewLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format, c.Verbose))
	return cfg, nil
}

// NewLogger builds the process logger. Verbose forces debug level.
func NewLogger(w io.Writer, level, format string, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

var logLevels = foundation.NewNormalizer(map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}, slog.LevelInfo)

func parseLevel(s string) slog.Level {
	return logLevels.Normalize(s)
}

// printf writes user-facing output to stdout.
func printf(format string, args ...any) {
	_, _ = fmt.Fprintf(stdout, format, args...)
}

var stdout io.Writer = os.Stdout
