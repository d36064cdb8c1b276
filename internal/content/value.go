package content

import (
	"encoding/json"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindScalar Kind = iota + 1
	KindList
	KindRecord
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindRecord:
		return "record"
	case KindRef:
		return "ref"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a field value. The set of implementations is closed: Scalar, List,
// *Record and Ref.
type Value interface {
	Kind() Kind
	sealed()
}

// Scalar holds a string, bool, number (json.Number, int or float64) or null.
type Scalar struct {
	v any
}

func String(s string) Scalar      { return Scalar{v: s} }
func Bool(b bool) Scalar          { return Scalar{v: b} }
func Int(i int64) Scalar          { return Scalar{v: i} }
func Float(f float64) Scalar      { return Scalar{v: f} }
func Number(n json.Number) Scalar { return Scalar{v: n} }
func Null() Scalar                { return Scalar{} }

func (Scalar) Kind() Kind { return KindScalar }
func (Scalar) sealed()    {}

// Interface returns the underlying Go value.
func (s Scalar) Interface() any { return s.v }

// IsNull reports whether the scalar is null.
func (s Scalar) IsNull() bool { return s.v == nil }

// Str returns the string value when the scalar holds a string.
func (s Scalar) Str() (string, bool) {
	str, ok := s.v.(string)
	return str, ok
}

// IsZero reports whether the scalar is null, "", false or numeric zero.
func (s Scalar) IsZero() bool {
	switch v := s.v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case int:
		return v == 0
	case int64:
		return v == 0
	case uint64:
		return v == 0
	case float64:
		return v == 0
	case json.Number:
		f, err := v.Float64()
		return err == nil && f == 0
	default:
		return false
	}
}

// List is an ordered sequence of values.
type List []Value

func (List) Kind() Kind { return KindList }
func (List) sealed()    {}

// Ref is a resolved reference to another root record. Target is nil when the
// identifier did not match any record in the corpus.
type Ref struct {
	ID     string
	Target *Record
}

func (Ref) Kind() Kind { return KindRef }
func (Ref) sealed()    {}

// Resolved reports whether the reference found its target.
func (r Ref) Resolved() bool { return r.Target != nil }

// IsEmpty reports whether v counts as absent for traversal purposes: nil,
// a zero scalar, an empty list, or an unresolved reference.
func IsEmpty(v Value) bool {
	switch t := v.(type) {
	case nil:
		return true
	case Scalar:
		return t.IsZero()
	case List:
		return len(t) == 0
	case *Record:
		return t == nil
	case Ref:
		return t.Target == nil
	default:
		return false
	}
}
