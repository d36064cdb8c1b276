package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError_BuilderSetsFields(t *testing.T) {
	err := NewError(CategoryConfig, "invalid configuration").
		WithSeverity(SeverityFatal).
		WithContext("file", "sitegraph.yaml").
		Build()

	require.Equal(t, CategoryConfig, err.Category())
	require.Equal(t, SeverityFatal, err.Severity())
	require.Equal(t, "invalid configuration", err.Message())
	file, ok := err.Context().GetString("file")
	require.True(t, ok)
	require.Equal(t, "sitegraph.yaml", file)
	require.True(t, err.IsFatal())
}

func TestClassifiedError_UnwrapKeepsSentinel(t *testing.T) {
	sentinel := errors.New("unhandled file type")
	err := ParseError(sentinel, "content/pages/x.txt").Build()

	require.ErrorIs(t, err, sentinel)
	require.Contains(t, err.Error(), "[parse:fatal]")
	require.Contains(t, err.Error(), "unhandled file type")
}

func TestAsClassified_FindsWrappedError(t *testing.T) {
	inner := SchemaError("duplicate model").Build()
	wrapped := fmt.Errorf("load schema: %w", inner)

	got, ok := AsClassified(wrapped)
	require.True(t, ok)
	require.Same(t, inner, got)
	require.True(t, HasCategory(wrapped, CategorySchema))
	require.Equal(t, CategorySchema, GetCategory(wrapped))
	require.Equal(t, SeverityFatal, GetSeverity(wrapped))
}

func TestGetCategory_UnclassifiedDefaults(t *testing.T) {
	err := errors.New("boom")
	require.False(t, IsClassified(err))
	require.Equal(t, CategoryInternal, GetCategory(err))
	require.Equal(t, SeverityError, GetSeverity(err))
}

func TestClassifiedError_WithContextDoesNotMutateOriginal(t *testing.T) {
	base := NewError(CategoryContent, "bad record").Build()
	derived := base.WithContext("identifier", "content/data/a.json")

	_, ok := base.Context().Get("identifier")
	require.False(t, ok)
	id, ok := derived.Context().GetString("identifier")
	require.True(t, ok)
	require.Equal(t, "content/data/a.json", id)
}

func TestClassifiedError_IsMatchesCategoryAndMessage(t *testing.T) {
	a := NewError(CategoryBuild, "stage failed").Build()
	b := NewError(CategoryBuild, "stage failed").WithContext("stage", "read").Build()
	c := NewError(CategoryParse, "stage failed").Build()

	require.ErrorIs(t, b, a)
	require.NotErrorIs(t, c, a)
}
