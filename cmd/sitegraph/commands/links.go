package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/sitegraph/internal/build"
	ferrors "git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/markdown"
	"git.home.luguber.info/inful/sitegraph/internal/preview"
)

// LinksCmd implements the 'links' command.
type LinksCmd struct{}

func (l *LinksCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	res, err := build.NewService().Run(context.Background(), build.Request{Config: cfg})
	if err != nil {
		return err
	}
	report, err := preview.CheckLinks(markdown.NewRenderer(), res)
	if err != nil {
		return err
	}
	for _, b := range report.Broken {
		printf("%s: %s -> %s\n", b.Page, b.URL, b.Target)
	}
	if len(report.Broken) > 0 {
		return ferrors.ValidationError(fmt.Sprintf("%d broken internal links", len(report.Broken))).
			WithContext("pages", report.Pages).Build()
	}
	printf("%d pages, no broken internal links\n", report.Pages)
	return nil
}
