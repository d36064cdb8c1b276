package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecord_SetGetDeleteKeepsOrder(t *testing.T) {
	r := NewRecord()
	r.Set("a", String("1"))
	r.Set("b", String("2"))
	r.Set("c", String("3"))
	r.Set("a", String("updated"))
	r.Delete("b")
	r.Delete("missing")

	require.Equal(t, []string{"a", "c"}, r.Keys())
	v, ok := r.GetString("a")
	require.True(t, ok)
	require.Equal(t, "updated", v)
}

func TestRecord_AllToleratesDeletionDuringIteration(t *testing.T) {
	r := NewRecord()
	r.Set("a", Int(1))
	r.Set("b", Int(2))
	r.Set("c", Int(3))

	var seen []string
	for k := range r.All() {
		seen = append(seen, k)
		if k == "a" {
			r.Delete("b")
		}
	}
	require.Equal(t, []string{"a", "c"}, seen)
}

func TestRecord_TypeTagRequiresNonEmptyString(t *testing.T) {
	r := NewRecord()
	_, ok := r.TypeTag()
	require.False(t, ok)

	r.Set(TypeKey, String(""))
	_, ok = r.TypeTag()
	require.False(t, ok)

	r.Set(TypeKey, Int(4))
	_, ok = r.TypeTag()
	require.False(t, ok)

	r.Set(TypeKey, String("Config"))
	tag, ok := r.TypeTag()
	require.True(t, ok)
	require.Equal(t, "Config", tag)
}

func TestIsEmpty(t *testing.T) {
	require.True(t, IsEmpty(nil))
	require.True(t, IsEmpty(Null()))
	require.True(t, IsEmpty(String("")))
	require.True(t, IsEmpty(Bool(false)))
	require.True(t, IsEmpty(Int(0)))
	require.True(t, IsEmpty(Number(json.Number("0.0"))))
	require.True(t, IsEmpty(List{}))
	require.True(t, IsEmpty(Ref{ID: "missing.json"}))

	require.False(t, IsEmpty(String("x")))
	require.False(t, IsEmpty(Int(7)))
	require.False(t, IsEmpty(List{Null()}))
	require.False(t, IsEmpty(NewRecord()))
	require.False(t, IsEmpty(Ref{ID: "a", Target: NewRecord()}))
}

func TestMarshalJSON_OrderMetadataAndMarks(t *testing.T) {
	target := NewRecord()
	target.Set(TypeKey, String("Person"))
	target.Set("name", String("Ada"))
	target.Meta = &Metadata{ID: "content/data/ada.json", TypeName: "Person"}

	r := NewRecord()
	r.Set(TypeKey, String("PostLayout"))
	r.Set("author", Ref{ID: "content/data/ada.json", Target: target})
	r.Set("tags", List{String("go"), Ref{ID: "gone.json"}})
	r.Meta = &Metadata{ID: "content/pages/post.md", TypeName: "PostLayout", URLPath: "/post"}
	r.SetMark("data-sb-object-id", "content/pages/post.md")

	b, err := json.Marshal(r)
	require.NoError(t, err)
	require.Equal(t,
		`{"type":"PostLayout","author":{"type":"Person","name":"Ada","__metadata":{"id":"content/data/ada.json","modelName":"Person"}},"tags":["go",null],"__metadata":{"id":"content/pages/post.md","modelName":"PostLayout","urlPath":"/post"},"data-sb-object-id":"content/pages/post.md"}`,
		string(b))
}

func TestMarshalJSON_CycleIsError(t *testing.T) {
	a := NewRecord()
	b := NewRecord()
	a.Set("peer", Ref{ID: "b", Target: b})
	b.Set("peer", Ref{ID: "a", Target: a})

	_, err := a.MarshalJSON()
	require.ErrorIs(t, err, ErrCycle)

	_, err = Clone(a).MarshalJSON()
	require.NoError(t, err)
}

func TestMarshalJSON_SharedTargetIsNotACycle(t *testing.T) {
	shared := NewRecord()
	shared.Set("name", String("x"))
	r := NewRecord()
	r.Set("one", Ref{ID: "s", Target: shared})
	r.Set("two", Ref{ID: "s", Target: shared})

	b, err := r.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"one":{"name":"x"},"two":{"name":"x"}}`, string(b))
}
