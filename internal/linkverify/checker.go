package linkverify

import (
	"bytes"
	"log/slog"
	"net/url"
	"path"
	"slices"
	"strings"

	"git.home.luguber.info/inful/sitegraph/internal/logfields"
)

// BrokenLink is an internal link whose target is not a known page URL.
type BrokenLink struct {
	Page   string `json:"page"`
	URL    string `json:"url"`
	Text   string `json:"text,omitempty"`
	Target string `json:"target"`
}

// Checker verifies internal links against a fixed set of page URLs.
type Checker struct {
	pages map[string]struct{}
}

// NewChecker returns a Checker for the given page URLs.
func NewChecker(pageURLs []string) *Checker {
	c := &Checker{pages: make(map[string]struct{}, len(pageURLs))}
	for _, u := range pageURLs {
		c.pages[normalize(u)] = struct{}{}
	}
	return c
}

// Check returns the broken internal anchor links in the rendered HTML of the
// page at pageURL. Links to files with an extension are treated as assets and
// not checked.
func (c *Checker) Check(pageURL string, rendered []byte) ([]BrokenLink, error) {
	links, err := ExtractLinks(bytes.NewReader(rendered))
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	var broken []BrokenLink
	for _, l := range links {
		if !l.IsInternal || l.Tag != "a" {
			continue
		}
		ref, err := url.Parse(l.URL)
		if err != nil {
			continue
		}
		target := normalize(base.ResolveReference(ref).Path)
		if path.Ext(target) != "" {
			continue
		}
		if _, ok := c.pages[target]; ok {
			continue
		}
		slog.Debug("Broken internal link", logfields.URL(pageURL), slog.String("target", target))
		broken = append(broken, BrokenLink{Page: pageURL, URL: l.URL, Text: l.Text, Target: target})
	}
	return broken, nil
}

// Known reports whether url is one of the checker's pages.
func (c *Checker) Known(u string) bool {
	_, ok := c.pages[normalize(u)]
	return ok
}

// Pages returns the known page URLs in sorted order.
func (c *Checker) Pages() []string {
	out := make([]string, 0, len(c.pages))
	for u := range c.pages {
		out = append(out, u)
	}
	slices.Sort(out)
	return out
}

// normalize cleans a URL path and drops any trailing slash except on the root.
func normalize(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
