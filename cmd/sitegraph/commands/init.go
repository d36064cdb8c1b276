package commands

import (
	"git.home.luguber.info/inful/sitegraph/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	path := root.Config
	if path == "" {
		path = config.DefaultPath
	}
	return RunInit(path, i.Force)
}

// RunInit writes a configuration file with the default values.
func RunInit(configPath string, force bool) error {
	printf("Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		return err
	}
	printf("initialized successfully\n")
	return nil
}
