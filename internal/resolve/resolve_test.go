package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/schema"
)

var testModels = []schema.Model{
	{Name: "Post", Fields: []schema.Field{
		{Name: "title", Type: "string"},
		{Name: "author", Type: schema.FieldTypeReference},
		{Name: "related", Type: schema.FieldTypeList, Items: &schema.Items{Type: schema.FieldTypeReference}},
		{Name: "sections", Type: schema.FieldTypeList, Items: &schema.Items{Type: schema.FieldTypeModel}},
	}},
	{Name: "Person", Fields: []schema.Field{
		{Name: "friend", Type: schema.FieldTypeReference},
	}},
	{Name: "Section", Fields: []schema.Field{
		{Name: "featured", Type: schema.FieldTypeReference},
	}},
}

func record(t *testing.T, id, src string) *content.Record {
	t.Helper()
	r, err := content.DecodeJSON([]byte(src))
	require.NoError(t, err)
	tag, _ := r.TypeTag()
	r.Meta = &content.Metadata{ID: id, TypeName: tag}
	return r
}

func resolveAll(records ...*content.Record) Stats {
	return New(schema.NewReferenceIndex(testModels), NewLookup(records)).Resolve(records)
}

func TestResolve_SingularReference(t *testing.T) {
	alice := record(t, "data/alice.json", `{"type":"Person","name":"Alice"}`)
	post := record(t, "pages/a.md", `{"type":"Post","title":"data/alice.json","author":"data/alice.json"}`)

	st := resolveAll(alice, post)

	v, ok := post.Get("author")
	require.True(t, ok)
	ref, ok := v.(content.Ref)
	require.True(t, ok)
	assert.Same(t, alice, ref.Target)
	assert.Equal(t, "data/alice.json", ref.ID)

	title, ok := post.GetString("title")
	require.True(t, ok)
	assert.Equal(t, "data/alice.json", title, "non-reference fields are never resolved")
	assert.Equal(t, Stats{Resolved: 1}, st)
}

func TestResolve_DanglingSingularReferenceRemovesField(t *testing.T) {
	post := record(t, "pages/a.md", `{"type":"Post","title":"A","author":"data/ghost.json"}`)

	st := resolveAll(post)

	_, ok := post.Get("author")
	assert.False(t, ok)
	assert.Equal(t, []string{"type", "title"}, post.Keys())
	assert.Equal(t, Stats{Unresolved: 1}, st)
}

func TestResolve_ListOfReferences(t *testing.T) {
	a := record(t, "pages/a.md", `{"type":"Post","title":"A"}`)
	b := record(t, "pages/b.md", `{"type":"Post","title":"B"}`)
	post := record(t, "pages/c.md", `{"type":"Post","related":["pages/a.md","pages/missing.md","pages/b.md"]}`)

	st := resolveAll(a, b, post)

	v, _ := post.Get("related")
	list, ok := v.(content.List)
	require.True(t, ok)
	require.Len(t, list, 3)
	assert.Same(t, a, list[0].(content.Ref).Target)
	assert.Nil(t, list[1].(content.Ref).Target)
	assert.Equal(t, "pages/missing.md", list[1].(content.Ref).ID)
	assert.Same(t, b, list[2].(content.Ref).Target)
	assert.Equal(t, Stats{Resolved: 2, Unresolved: 1}, st)

	out, err := post.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(out), `null`)
	assert.NotContains(t, string(out), `"pages/missing.md"`)
}

func TestResolve_RecursesIntoEmbeddedRecords(t *testing.T) {
	alice := record(t, "data/alice.json", `{"type":"Person","name":"Alice"}`)
	post := record(t, "pages/a.md", `{
		"type": "Post",
		"sections": [
			{"type": "Section", "featured": "data/alice.json"},
			{"title": "untyped", "featured": "data/alice.json"}
		]
	}`)

	resolveAll(alice, post)

	v, _ := post.Get("sections")
	sections := v.(content.List)

	typed := sections[0].(*content.Record)
	featured, _ := typed.Get("featured")
	assert.Same(t, alice, featured.(content.Ref).Target)
	require.NotNil(t, typed.Meta)
	assert.Equal(t, "Section", typed.Meta.TypeName)
	assert.Empty(t, typed.Meta.ID)

	untyped := sections[1].(*content.Record)
	raw, ok := untyped.GetString("featured")
	require.True(t, ok, "records without a type tag are skipped")
	assert.Equal(t, "data/alice.json", raw)
	assert.Nil(t, untyped.Meta)
}

func TestResolve_ListClassifiedByFirstElement(t *testing.T) {
	a := record(t, "pages/a.md", `{"type":"Post","title":"A"}`)
	post := record(t, "pages/b.md", `{"type":"Post","related":[{"type":"Section","featured":"pages/a.md"},"pages/a.md"]}`)

	resolveAll(a, post)

	v, _ := post.Get("related")
	list := v.(content.List)
	_, stillString := list[1].(content.Scalar)
	assert.True(t, stillString, "a list headed by an object is not treated as identifiers")

	nested := list[0].(*content.Record)
	featured, _ := nested.Get("featured")
	assert.Same(t, a, featured.(content.Ref).Target)
}

func TestResolve_ReferenceCycleTerminates(t *testing.T) {
	alice := record(t, "data/alice.json", `{"type":"Person","friend":"data/bob.json"}`)
	bob := record(t, "data/bob.json", `{"type":"Person","friend":"data/alice.json"}`)

	st := resolveAll(alice, bob)

	af, _ := alice.Get("friend")
	bf, _ := bob.Get("friend")
	assert.Same(t, bob, af.(content.Ref).Target)
	assert.Same(t, alice, bf.(content.Ref).Target)
	assert.Equal(t, Stats{Resolved: 2}, st)

	again := resolveAll(alice, bob)
	assert.Equal(t, Stats{}, again, "a second pass finds nothing left to resolve")
}

func TestResolve_SkipsEmptyAndUntypedRoots(t *testing.T) {
	post := record(t, "pages/a.md", `{"type":"Post","author":"","related":[]}`)
	untyped := record(t, "data/x.json", `{"author":"pages/a.md"}`)

	st := resolveAll(post, untyped)

	assert.Equal(t, Stats{}, st)
	assert.Equal(t, []string{"type", "author", "related"}, post.Keys())
	assert.Equal(t, []string{"author"}, untyped.Keys())
}

func TestNewLookup_FirstRecordWins(t *testing.T) {
	first := record(t, "a.json", `{"type":"Person"}`)
	second := record(t, "a.json", `{"type":"Person"}`)
	anonymous := content.NewRecord()

	l := NewLookup([]*content.Record{first, second, anonymous})
	assert.Len(t, l, 1)
	assert.Same(t, first, l["a.json"])
}
