package commands

import (
	"git.home.luguber.info/inful/sitegraph/internal/build"
	"git.home.luguber.info/inful/sitegraph/internal/schema"
)

// SchemaCmd implements the 'schema' command.
type SchemaCmd struct{}

func (s *SchemaCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	sch, err := build.LoadSchema(cfg)
	if err != nil {
		return err
	}

	printf("models: %d\ndigest: %s\n", len(sch.Models()), sch.Digest())
	for _, ref := range schema.NewReferenceIndex(sch.Models()).Fields() {
		kind := "reference"
		if ref.List {
			kind = "list of references"
		}
		printf("  %s.%s: %s\n", ref.Type, ref.Field, kind)
	}
	return nil
}
