package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitegraph/internal/preview"
)

// PreviewCmd starts the preview server.
type PreviewCmd struct {
	Host    string `help:"Override preview.host"`
	Port    int    `short:"p" help:"Override preview.port"`
	NoWrite bool   `name:"no-write" help:"Do not write content.json on rebuild"`
	Dev     bool   `help:"Enable development annotations"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if p.Host != "" {
		cfg.Preview.Host = p.Host
	}
	if p.Port != 0 {
		cfg.Preview.Port = p.Port
	}
	if p.Dev {
		cfg.Annotations.Enabled = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return preview.Start(ctx, cfg, preview.WithOutput(!p.NoWrite))
}
