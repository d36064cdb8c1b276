// Package linkverify finds internal links in rendered pages that do not
// resolve to a page URL.
package linkverify

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

// Link is a link extracted from rendered HTML.
type Link struct {
	URL        string // raw href or src value
	Text       string // link text or alt text
	Tag        string // a or img
	IsInternal bool
}

// ExtractLinks returns the anchor and image links in an HTML fragment, in
// document order.
func ExtractLinks(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryParse, "failed to parse HTML").Build()
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if l, ok := elementLink(n); ok {
				links = append(links, l)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func elementLink(n *html.Node) (Link, bool) {
	switch n.Data {
	case "a":
		if href := getAttr(n, "href"); href != "" {
			return Link{URL: href, Text: extractText(n), Tag: "a", IsInternal: isInternalLink(href)}, true
		}
	case "img":
		if src := getAttr(n, "src"); src != "" {
			return Link{URL: src, Text: getAttr(n, "alt"), Tag: "img", IsInternal: isInternalLink(src)}, true
		}
	}
	return Link{}, false
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// extractText returns the text content of n with whitespace collapsed.
func extractText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// isInternalLink reports whether a link targets this site. Fragment-only
// links and non-navigational schemes are not internal.
func isInternalLink(link string) bool {
	if strings.HasPrefix(link, "#") {
		return false
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
