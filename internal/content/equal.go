package content

import (
	"encoding/json"
	"math"
	"reflect"
)

// Equal reports whether a and b hold the same content. Field order and
// annotation marks are ignored; metadata is compared. Reference cycles are
// handled by treating a pair already under comparison as equal.
func Equal(a, b *Record) bool {
	e := equaler{seen: make(map[[2]*Record]bool)}
	return e.record(a, b)
}

type equaler struct {
	seen map[[2]*Record]bool
}

func (e *equaler) record(a, b *Record) bool {
	if a == nil || b == nil {
		return a == b
	}
	pair := [2]*Record{a, b}
	if e.seen[pair] {
		return true
	}
	e.seen[pair] = true

	if !reflect.DeepEqual(a.Meta, b.Meta) || len(a.fields) != len(b.fields) {
		return false
	}
	for k, av := range a.fields {
		bv, ok := b.fields[k]
		if !ok || !e.value(av, bv) {
			return false
		}
	}
	return true
}

func (e *equaler) value(a, b Value) bool {
	switch at := a.(type) {
	case Scalar:
		bt, ok := b.(Scalar)
		return ok && scalarEqual(at, bt)
	case List:
		bt, ok := b.(List)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !e.value(at[i], bt[i]) {
				return false
			}
		}
		return true
	case *Record:
		bt, ok := b.(*Record)
		return ok && e.record(at, bt)
	case Ref:
		bt, ok := b.(Ref)
		return ok && at.ID == bt.ID && e.record(at.Target, bt.Target)
	default:
		return a == nil && b == nil
	}
}

func scalarEqual(a, b Scalar) bool {
	if an, ok := numeric(a.v); ok {
		bn, ok := numeric(b.v)
		return ok && (an == bn || (math.IsNaN(an) && math.IsNaN(bn)))
	}
	return reflect.DeepEqual(a.v, b.v)
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
