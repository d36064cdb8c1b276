package schema

import (
	"cmp"
	"slices"
)

type refKey struct {
	typeName string
	field    string
}

// FieldRef names one reference field of one model.
type FieldRef struct {
	Type  string
	Field string
	List  bool
}

// ReferenceIndex answers whether a (type, field) pair is declared as a
// reference. It is built once and never modified, so it can be shared
// between runs.
type ReferenceIndex struct {
	refs map[refKey]FieldRef
}

// NewReferenceIndex marks every field declared as `reference` or as a `list`
// of `reference`.
func NewReferenceIndex(models []Model) *ReferenceIndex {
	ix := &ReferenceIndex{refs: make(map[refKey]FieldRef)}
	for _, m := range models {
		for _, f := range m.Fields {
			if !f.IsReference() {
				continue
			}
			ix.refs[refKey{m.Name, f.Name}] = FieldRef{
				Type:  m.Name,
				Field: f.Name,
				List:  f.Type == FieldTypeList,
			}
		}
	}
	return ix
}

// IsReference reports whether field of typeName is a reference field.
func (ix *ReferenceIndex) IsReference(typeName, field string) bool {
	if ix == nil {
		return false
	}
	_, ok := ix.refs[refKey{typeName, field}]
	return ok
}

// Len returns the number of reference fields.
func (ix *ReferenceIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.refs)
}

// Fields lists the reference fields sorted by type then field.
func (ix *ReferenceIndex) Fields() []FieldRef {
	if ix == nil {
		return nil
	}
	out := make([]FieldRef, 0, len(ix.refs))
	for _, r := range ix.refs {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b FieldRef) int {
		return cmp.Or(cmp.Compare(a.Type, b.Type), cmp.Compare(a.Field, b.Field))
	})
	return out
}
