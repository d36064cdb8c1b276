package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitegraph/internal/build"
	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Override output.directory"`
	DryRun bool   `name:"dry-run" help:"Run the pipeline without writing output"`
	Dev    bool   `help:"Enable development annotations for this build"`
	Report bool   `help:"Print the run report as JSON to stdout"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	b.apply(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res, err := RunBuild(ctx, cfg, !b.DryRun)
	if b.Report && res != nil && res.Report != nil {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(res.Report); encErr != nil {
			slog.Warn("Failed to print report", logfields.Error(encErr))
		}
	}
	return err
}

func (b *BuildCmd) apply(cfg *config.Config) {
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	if b.Dev {
		cfg.Annotations.Enabled = true
	}
}

// RunBuild executes one build and logs its outcome.
func RunBuild(ctx context.Context, cfg *config.Config, write bool) (*build.Result, error) {
	slog.Info("Starting content build",
		logfields.Path(cfg.Content.Root),
		slog.Bool("annotations", cfg.Annotations.Enabled),
		slog.Bool("write", write))

	res, err := build.NewService().Run(ctx, build.Request{Config: cfg, WriteOutput: write})
	if res != nil && res.Report != nil {
		for _, w := range res.Report.Warnings {
			slog.Warn("Build warning", slog.String("warning", w))
		}
		slog.Info("Build finished", slog.String("summary", res.Report.Summary()))
	}
	if err != nil {
		return res, err
	}
	if res.OutputPath != "" {
		printf("Wrote %s\n", res.OutputPath)
	}
	if res.ManifestPath != "" {
		printf("Wrote %s\n", res.ManifestPath)
	}
	return res, nil
}

