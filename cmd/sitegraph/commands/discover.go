package commands

import (
	"os"

	"git.home.luguber.info/inful/sitegraph/internal/discovery"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct{}

func (d *DiscoverCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	files, err := discovery.New(os.DirFS(cfg.Content.Root), cfg.Content.Extensions).
		Discover(cfg.Content.DataDir, cfg.Content.PagesDir)
	if err != nil {
		return err
	}
	for _, f := range files {
		printf("%s\n", f)
	}
	return nil
}
