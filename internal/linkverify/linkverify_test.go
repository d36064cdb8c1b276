package linkverify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLinks(t *testing.T) {
	src := `<p>See <a href="/about">the <em>about</em> page</a>, <a href="https://example.com/x">ext</a>,
<a href="#top">top</a> and <img src="/img/logo.png" alt="Logo"></p>`

	links, err := ExtractLinks(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, links, 4)

	assert.Equal(t, Link{URL: "/about", Text: "the about page", Tag: "a", IsInternal: true}, links[0])
	assert.False(t, links[1].IsInternal)
	assert.False(t, links[2].IsInternal)
	assert.Equal(t, "img", links[3].Tag)
	assert.Equal(t, "Logo", links[3].Text)
	assert.True(t, links[3].IsInternal)
}

func TestIsInternalLink(t *testing.T) {
	tests := map[string]bool{
		"/about":              true,
		"../sibling":          true,
		"post":                true,
		"#anchor":             false,
		"mailto:a@b.c":        false,
		"https://example.com": false,
		"//cdn.example.com/x": false,
	}
	for link, want := range tests {
		assert.Equal(t, want, isInternalLink(link), link)
	}
}

func TestChecker_Check(t *testing.T) {
	c := NewChecker([]string{"/", "/about", "/blog", "/blog/first-post"})

	html := []byte(`<a href="/about/">ok</a>
<a href="first-post">relative ok</a>
<a href="/">home</a>
<a href="/missing?x=1#frag">missing</a>
<a href="second-post">relative missing</a>
<a href="/files/report.pdf">asset</a>
<a href="https://example.com/nowhere">external</a>`)

	broken, err := c.Check("/blog/index", html)
	require.NoError(t, err)
	require.Len(t, broken, 2)

	assert.Equal(t, BrokenLink{Page: "/blog/index", URL: "/missing?x=1#frag", Text: "missing", Target: "/missing"}, broken[0])
	assert.Equal(t, "/blog/second-post", broken[1].Target)
}

func TestChecker_Known(t *testing.T) {
	c := NewChecker([]string{"/about/", "/"})
	assert.True(t, c.Known("/about"))
	assert.True(t, c.Known(""))
	assert.False(t, c.Known("/contact"))
	assert.Equal(t, []string{"/", "/about"}, c.Pages())
}
