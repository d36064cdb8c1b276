package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func page(id string) *Record {
	r := NewRecord()
	r.Set(TypeKey, String("Page"))
	r.Meta = &Metadata{ID: id, TypeName: "Page"}
	return r
}

func TestClone_SeversAliasing(t *testing.T) {
	shared := page("content/data/shared.json")
	shared.Set("title", String("Shared"))

	root := page("content/pages/index.md")
	root.Set("a", Ref{ID: shared.ID(), Target: shared})
	root.Set("b", List{Ref{ID: shared.ID(), Target: shared}})

	cp := Clone(root)
	require.True(t, Equal(root, cp))

	a, _ := cp.Get("a")
	b, _ := cp.Get("b")
	aTarget := a.(Ref).Target
	bTarget := b.(List)[0].(Ref).Target
	require.NotSame(t, shared, aTarget)
	require.NotSame(t, aTarget, bTarget)

	aTarget.SetMark("x", "1")
	aTarget.Set("title", String("changed"))
	title, _ := shared.GetString("title")
	require.Equal(t, "Shared", title)
	_, marked := bTarget.Mark("x")
	require.False(t, marked)
}

func TestClone_BreaksReferenceCycleWithStub(t *testing.T) {
	a := page("content/data/a.json")
	b := page("content/data/b.json")
	a.Set("title", String("A"))
	b.Set("title", String("B"))
	a.Set("peer", Ref{ID: b.ID(), Target: b})
	b.Set("peer", Ref{ID: a.ID(), Target: a})

	cp := Clone(a)

	peer, _ := cp.Get("peer")
	bCopy := peer.(Ref).Target
	title, _ := bCopy.GetString("title")
	require.Equal(t, "B", title)

	back, _ := bCopy.Get("peer")
	stubbed := back.(Ref).Target
	require.NotNil(t, stubbed)
	require.Equal(t, "content/data/a.json", stubbed.ID())
	require.Equal(t, []string{TypeKey}, stubbed.Keys())
}

func TestClone_KeepsUnresolvedRefsAndMetadataCopies(t *testing.T) {
	r := page("content/pages/x.md")
	r.Set("items", List{Ref{ID: "missing.json"}})

	cp := Clone(r)
	cp.Meta.URLPath = "/changed"
	require.Empty(t, r.URLPath())

	items, _ := cp.Get("items")
	require.False(t, items.(List)[0].(Ref).Resolved())
	require.Nil(t, Clone(nil))
}

func TestCloneContent_DropsMarks(t *testing.T) {
	r := page("content/pages/x.md")
	nested := NewRecord()
	nested.Set(TypeKey, String("Hero"))
	nested.SetMark("data-fp", "hero")
	r.Set("hero", nested)
	r.SetMark("data-oid", r.ID())

	withMarks := Clone(r)
	plain := CloneContent(r)

	require.Equal(t, map[string]string{"data-oid": "content/pages/x.md"}, withMarks.Marks())
	require.Empty(t, plain.Marks())
	hero, _ := plain.Get("hero")
	require.Empty(t, hero.(*Record).Marks())
	require.True(t, Equal(withMarks, plain))
}
