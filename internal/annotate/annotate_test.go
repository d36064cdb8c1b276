package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegraph/internal/content"
)

func page(t *testing.T, id, src string) *content.Record {
	t.Helper()
	r, err := content.DecodeJSON([]byte(src))
	require.NoError(t, err)
	r.Meta = &content.Metadata{ID: id}
	return r
}

const landing = `{
	"type": "Landing",
	"title": "Home",
	"seo": {"type": "Seo", "title": "Home"},
	"sections": [
		{"type": "Hero"},
		{"type": "Text"},
		{"type": "Cards", "items": [
			{"type": "Card", "cta": {"type": "Button"}},
			{"label": "untyped", "inner": {"type": "Badge"}}
		]}
	]
}`

func nestedAt(t *testing.T, r *content.Record, keys ...any) *content.Record {
	t.Helper()
	var v content.Value = r
	for _, k := range keys {
		switch k := k.(type) {
		case string:
			rec, ok := v.(*content.Record)
			require.True(t, ok)
			v, ok = rec.Get(k)
			require.True(t, ok, k)
		case int:
			list, ok := v.(content.List)
			require.True(t, ok)
			v = list[k]
		}
	}
	if ref, ok := v.(content.Ref); ok {
		return ref.Target
	}
	rec, ok := v.(*content.Record)
	require.True(t, ok)
	return rec
}

func TestDev_MarksRootAndNestedPaths(t *testing.T) {
	root := page(t, "content/pages/index.md", landing)

	New(Options{Enabled: true}).Annotate(root)

	id, ok := root.Mark(DefaultObjectIDAttr)
	require.True(t, ok)
	assert.Equal(t, "content/pages/index.md", id)
	_, ok = root.Mark(DefaultFieldPathAttr)
	assert.False(t, ok, "root gets only the object id")

	expect := map[string][]any{
		"seo":                      {"seo"},
		"sections.0":               {"sections", 0},
		"sections.2":               {"sections", 2},
		"sections.2.items.0":       {"sections", 2, "items", 0},
		"sections.2.items.0.cta":   {"sections", 2, "items", 0, "cta"},
		"sections.2.items.1.inner": {"sections", 2, "items", 1, "inner"},
	}
	for want, keys := range expect {
		rec := nestedAt(t, root, keys...)
		got, ok := rec.Mark(DefaultFieldPathAttr)
		require.True(t, ok, want)
		assert.Equal(t, want, got)
		_, hasID := rec.Mark(DefaultObjectIDAttr)
		assert.False(t, hasID, want)
	}

	untyped := nestedAt(t, root, "sections", 2, "items", 1)
	assert.Empty(t, untyped.Marks())
}

func TestDev_FollowsReferenceTargets(t *testing.T) {
	author := page(t, "content/data/alice.json", `{"type":"Person","name":"Alice"}`)
	post := page(t, "content/pages/post.md", `{"type":"Post"}`)
	post.Set("author", content.Ref{ID: author.ID(), Target: author})
	post.Set("missing", content.Ref{ID: "content/data/ghost.json"})

	New(Options{Enabled: true}).Annotate(post)

	got, ok := author.Mark(DefaultFieldPathAttr)
	require.True(t, ok)
	assert.Equal(t, "author", got)
	_, hasID := author.Mark(DefaultObjectIDAttr)
	assert.False(t, hasID, "a referenced record nested under a root is marked by path")
}

func TestDev_CustomAttrsAndMissingID(t *testing.T) {
	root, err := content.DecodeJSON([]byte(`{"type":"Landing","hero":{"type":"Hero"}}`))
	require.NoError(t, err)

	New(Options{Enabled: true, Verbose: true, ObjectIDAttr: "data-oid", FieldPathAttr: "data-fp"}).Annotate(root)

	assert.Empty(t, root.Marks(), "no identifier, no root mark")
	hero := nestedAt(t, root, "hero")
	assert.Equal(t, map[string]string{"data-fp": "hero"}, hero.Marks())
}

func TestDev_TerminatesOnCycles(t *testing.T) {
	a := page(t, "a.json", `{"type":"Person"}`)
	b := page(t, "b.json", `{"type":"Person"}`)
	a.Set("friend", content.Ref{ID: "b.json", Target: b})
	b.Set("friend", content.Ref{ID: "a.json", Target: a})

	New(Options{Enabled: true}).Annotate(a)

	got, _ := b.Mark(DefaultFieldPathAttr)
	assert.Equal(t, "friend", got)
}

func TestNoop_LeavesRecordsUntouched(t *testing.T) {
	root := page(t, "content/pages/index.md", landing)
	before := content.Clone(root)

	ann := New(Options{Enabled: false, ObjectIDAttr: "x"})
	_, isNoop := ann.(Noop)
	require.True(t, isNoop)
	ann.Annotate(root)

	assert.Empty(t, root.Marks())
	assert.Empty(t, nestedAt(t, root, "sections", 2, "items", 0).Marks())
	assert.True(t, content.Equal(before, root))
}
