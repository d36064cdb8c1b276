package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"slices"
)

// ErrCycle is returned when encoding a graph that still contains reference
// cycles. Clone the graph first.
var ErrCycle = errors.New("content graph contains a reference cycle")

// MarshalJSON emits fields in order, then MetadataKey, then annotation marks
// sorted by name.
func (r *Record) MarshalJSON() ([]byte, error) {
	e := &encoder{onPath: make(map[*Record]bool)}
	if err := e.record(r); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// MarshalJSON emits a resolved reference as its target, or null when unresolved.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Target == nil {
		return []byte("null"), nil
	}
	return r.Target.MarshalJSON()
}

// MarshalJSON emits the underlying scalar.
func (s Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.v)
}

// MarshalJSON emits the list elements in order.
func (l List) MarshalJSON() ([]byte, error) {
	e := &encoder{onPath: make(map[*Record]bool)}
	if err := e.value(l); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf    bytes.Buffer
	onPath map[*Record]bool
}

func (e *encoder) record(r *Record) error {
	if r == nil {
		e.buf.WriteString("null")
		return nil
	}
	if e.onPath[r] {
		return ErrCycle
	}
	e.onPath[r] = true
	defer delete(e.onPath, r)

	e.buf.WriteByte('{')
	n := 0
	writeKey := func(k string) error {
		if n > 0 {
			e.buf.WriteByte(',')
		}
		n++
		kb, err := json.Marshal(k)
		if err != nil {
			return err
		}
		e.buf.Write(kb)
		e.buf.WriteByte(':')
		return nil
	}

	for _, k := range r.keys {
		if err := writeKey(k); err != nil {
			return err
		}
		if err := e.value(r.fields[k]); err != nil {
			return err
		}
	}
	if r.Meta != nil {
		if err := writeKey(MetadataKey); err != nil {
			return err
		}
		mb, err := json.Marshal(r.Meta)
		if err != nil {
			return err
		}
		e.buf.Write(mb)
	}
	attrs := make([]string, 0, len(r.marks))
	for a := range r.marks {
		attrs = append(attrs, a)
	}
	slices.Sort(attrs)
	for _, a := range attrs {
		if err := writeKey(a); err != nil {
			return err
		}
		vb, err := json.Marshal(r.marks[a])
		if err != nil {
			return err
		}
		e.buf.Write(vb)
	}
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) value(v Value) error {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case Scalar:
		// JSON has no Inf or NaN; YAML's .inf and .nan encode as null.
		if f, ok := t.v.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
			e.buf.WriteString("null")
			return nil
		}
		b, err := json.Marshal(t.v)
		if err != nil {
			return err
		}
		e.buf.Write(b)
	case List:
		e.buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			if err := e.value(item); err != nil {
				return err
			}
		}
		e.buf.WriteByte(']')
	case *Record:
		return e.record(t)
	case Ref:
		return e.record(t.Target)
	}
	return nil
}
