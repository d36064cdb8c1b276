package content

import "maps"

// Clone deep-copies a resolved record into an independent tree. Every Ref
// target is copied at each position it is reached from, so no two positions
// share a *Record afterwards. A Ref whose target is already being copied
// higher up the same path is replaced by a stub holding only the target's
// type tag and metadata; this is what terminates reference cycles.
func Clone(r *Record) *Record {
	c := cloner{onPath: make(map[*Record]bool), keepMarks: true}
	return c.record(r)
}

// CloneContent is Clone without annotation marks anywhere in the copy.
func CloneContent(r *Record) *Record {
	c := cloner{onPath: make(map[*Record]bool)}
	return c.record(r)
}

type cloner struct {
	onPath    map[*Record]bool
	keepMarks bool
}

func (c *cloner) record(r *Record) *Record {
	if r == nil {
		return nil
	}
	c.onPath[r] = true
	defer delete(c.onPath, r)

	out := &Record{
		keys:   append([]string(nil), r.keys...),
		fields: make(map[string]Value, len(r.fields)),
		Meta:   cloneMeta(r.Meta),
	}
	if c.keepMarks {
		out.marks = maps.Clone(r.marks)
	}
	for _, k := range r.keys {
		out.fields[k] = c.value(r.fields[k])
	}
	return out
}

func (c *cloner) value(v Value) Value {
	switch t := v.(type) {
	case Scalar:
		return t
	case List:
		out := make(List, len(t))
		for i, item := range t {
			out[i] = c.value(item)
		}
		return out
	case *Record:
		if c.onPath[t] {
			return stub(t)
		}
		return c.record(t)
	case Ref:
		switch {
		case t.Target == nil:
			return Ref{ID: t.ID}
		case c.onPath[t.Target]:
			return Ref{ID: t.ID, Target: stub(t.Target)}
		default:
			return Ref{ID: t.ID, Target: c.record(t.Target)}
		}
	default:
		return v
	}
}

// stub is the cycle-breaking copy of r: type tag and metadata, no other fields.
func stub(r *Record) *Record {
	s := NewRecord()
	if tag, ok := r.TypeTag(); ok {
		s.Set(TypeKey, String(tag))
	}
	s.Meta = cloneMeta(r.Meta)
	return s
}

func cloneMeta(m *Metadata) *Metadata {
	if m == nil {
		return nil
	}
	cp := *m
	return &cp
}
