// Package urlmap derives public URL paths from page file identifiers.
package urlmap

import (
	"path"
	"strings"
)

// Mapper maps identifiers under PagesDir to URL paths.
type Mapper struct {
	PagesDir string
}

// New returns a Mapper rooted at pagesDir (slash separated).
func New(pagesDir string) Mapper {
	return Mapper{PagesDir: path.Clean(pagesDir)}
}

// URLFor returns the URL path for id, or false when id does not lie under the
// pages root. The pages root prefix and the file extension are stripped and a
// trailing /index collapses to its parent, or to / at the root:
//
//	content/pages/blog/index.md -> /blog
//	content/pages/index.md      -> /
//	content/pages/about.md      -> /about
func (m Mapper) URLFor(id string) (string, bool) {
	root, id := path.Clean(m.PagesDir), path.Clean(id)

	var rel string
	var ok bool
	if root == "." {
		rel, ok = id, id != ".." && !strings.HasPrefix(id, "../")
	} else {
		rel, ok = strings.CutPrefix(id, root+"/")
	}
	if !ok || rel == "" {
		return "", false
	}

	url := "/" + strings.TrimSuffix(rel, path.Ext(rel))
	if url == "/index" {
		return "/", true
	}
	if parent, isIndex := strings.CutSuffix(url, "/index"); isIndex {
		return parent, true
	}
	return url, true
}
