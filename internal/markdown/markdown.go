// Package markdown renders record bodies to HTML for the preview server.
package markdown

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitegraph/internal/content"
)

// Renderer converts Markdown to HTML. It is stateless after construction and
// safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a Renderer with GitHub flavored Markdown and automatic
// heading IDs. Raw HTML in the source is not emitted.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render converts a Markdown body to HTML.
func (r *Renderer) Render(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// Page is a rendered page ready to be wrapped in a layout.
type Page struct {
	Title string
	URL   string
	HTML  []byte
}

// RenderPage renders the markdown_content of rec. The title comes from the
// record's title field, falling back to the last URL segment in title case.
func (r *Renderer) RenderPage(rec *content.Record) (Page, error) {
	body, _ := rec.GetString(content.MarkdownContentKey)
	html, err := r.Render([]byte(body))
	if err != nil {
		return Page{}, err
	}
	return Page{Title: r.Title(rec), URL: rec.URLPath(), HTML: html}, nil
}

// Title returns the display title of rec.
func (r *Renderer) Title(rec *content.Record) string {
	if t, ok := rec.GetString("title"); ok && strings.TrimSpace(t) != "" {
		return t
	}
	slug := path.Base(rec.URLPath())
	if slug == "/" || slug == "." || slug == "" {
		return "Home"
	}
	// Casers are stateful; one per call keeps Renderer safe for concurrent use.
	return cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(slug))
}
