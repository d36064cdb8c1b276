// Package resolve replaces identifier strings held by reference fields with
// the records they name.
package resolve

import (
	"log/slog"

	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/schema"
)

// Lookup maps a record identifier to its root record.
type Lookup map[string]*content.Record

// NewLookup indexes records by Meta.ID. The first record wins when two
// share an identifier.
func NewLookup(records []*content.Record) Lookup {
	l := make(Lookup, len(records))
	for _, r := range records {
		id := r.ID()
		if id == "" {
			continue
		}
		if _, dup := l[id]; !dup {
			l[id] = r
		}
	}
	return l
}

// Stats counts reference substitutions made by one Resolve call.
type Stats struct {
	Resolved   int
	Unresolved int
}

// Resolver substitutes references in place. Which fields are references is
// decided by the index alone; the value shape only confirms that a field
// still holds an identifier.
type Resolver struct {
	index  *schema.ReferenceIndex
	lookup Lookup
}

// New returns a Resolver over the given index and lookup table.
func New(index *schema.ReferenceIndex, lookup Lookup) *Resolver {
	return &Resolver{index: index, lookup: lookup}
}

// Resolve walks every root record depth-first. A singular reference to an
// unknown identifier removes the field; a list element that cannot be
// resolved becomes an unresolved Ref. Resolution never descends into a
// reference target, so mutually referencing records terminate.
func (r *Resolver) Resolve(records []*content.Record) Stats {
	var st Stats
	for _, rec := range records {
		r.record(rec, &st)
	}
	return st
}

func (r *Resolver) record(rec *content.Record, st *Stats) {
	if rec == nil {
		return
	}
	typeName, ok := rec.TypeTag()
	if !ok {
		return
	}
	if rec.Meta == nil {
		rec.Meta = &content.Metadata{TypeName: typeName}
	}

	for field, v := range rec.All() {
		if field == content.MetadataKey || content.IsEmpty(v) {
			continue
		}
		isRef := r.index.IsReference(typeName, field)

		switch val := v.(type) {
		case content.List:
			r.list(rec, typeName, field, val, isRef, st)
		case content.Scalar:
			id, isString := val.Str()
			if !isRef || !isString {
				continue
			}
			target, found := r.lookup[id]
			if !found {
				rec.Delete(field)
				st.Unresolved++
				r.logMissing(rec, typeName, field, id)
				continue
			}
			rec.Set(field, content.Ref{ID: id, Target: target})
			st.Resolved++
		case *content.Record:
			r.record(val, st)
		case content.Ref:
			// already resolved; targets are never walked
		}
	}
}

// list classifies a sequence by its first element only; a heterogeneous
// sequence is treated uniformly according to that element.
func (r *Resolver) list(rec *content.Record, typeName, field string, items content.List, isRef bool, st *Stats) {
	switch first := items[0].(type) {
	case content.Scalar:
		if _, isString := first.Str(); !isRef || !isString {
			return
		}
		refs := make(content.List, len(items))
		for i, item := range items {
			var id string
			if s, ok := item.(content.Scalar); ok {
				id, _ = s.Str()
			}
			target := r.lookup[id]
			if target == nil {
				st.Unresolved++
				r.logMissing(rec, typeName, field, id)
			} else {
				st.Resolved++
			}
			refs[i] = content.Ref{ID: id, Target: target}
		}
		rec.Set(field, refs)
	case *content.Record:
		for _, item := range items {
			if nested, ok := item.(*content.Record); ok {
				r.record(nested, st)
			}
		}
	}
}

func (r *Resolver) logMissing(rec *content.Record, typeName, field, id string) {
	slog.Debug("Unresolved reference",
		logfields.File(rec.ID()),
		logfields.Type(typeName),
		logfields.Field(field),
		logfields.Identifier(id))
}
