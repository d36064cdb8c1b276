package urlmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLFor(t *testing.T) {
	m := New("content/pages")

	cases := []struct {
		id   string
		url  string
		page bool
	}{
		{"content/pages/blog/index.md", "/blog", true},
		{"content/pages/index.md", "/", true},
		{"content/pages/about.md", "/about", true},
		{"content/pages/blog/first-post.md", "/blog/first-post", true},
		{"content/pages/docs/v1.2/setup.md", "/docs/v1.2/setup", true},
		{"content/pages/release.notes.json", "/release.notes", true},
		{"content/pages/indexes.md", "/indexes", true},
		{"content/pages/blog/reindex.md", "/blog/reindex", true},
		{"content/data/config.json", "", false},
		{"content/pages-old/about.md", "", false},
		{"content/pages", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			url, ok := m.URLFor(tc.id)
			assert.Equal(t, tc.page, ok)
			assert.Equal(t, tc.url, url)
		})
	}
}

func TestURLFor_UncleanRoot(t *testing.T) {
	m := Mapper{PagesDir: "./content/pages/"}

	url, ok := m.URLFor("content/pages/about.md")
	assert.True(t, ok)
	assert.Equal(t, "/about", url)
}

func TestURLFor_DotRoot(t *testing.T) {
	m := New(".")

	url, ok := m.URLFor("guide/index.md")
	assert.True(t, ok)
	assert.Equal(t, "/guide", url)

	_, ok = m.URLFor("../outside.md")
	assert.False(t, ok)
}
