package content

import (
	"iter"
	"maps"
	"slices"
)

// Reserved field names.
const (
	MetadataKey        = "__metadata"
	TypeKey            = "type"
	MarkdownContentKey = "markdown_content"
)

// Metadata identifies where a record came from. It is serialized under
// MetadataKey with the Sourcebit-compatible names id/modelName/urlPath.
type Metadata struct {
	ID       string `json:"id,omitempty"`
	TypeName string `json:"modelName,omitempty"`
	URLPath  string `json:"urlPath,omitempty"`
}

// Record is an ordered keyed object. Root records carry Metadata with their
// source identifier; embedded records may carry Metadata with only a type name.
type Record struct {
	keys   []string
	fields map[string]Value
	Meta   *Metadata
	marks  map[string]string
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{fields: make(map[string]Value)}
}

func (*Record) Kind() Kind { return KindRecord }
func (*Record) sealed()    {}

// Set stores a field. New keys are appended; existing keys keep their position.
func (r *Record) Set(key string, v Value) {
	if r.fields == nil {
		r.fields = make(map[string]Value)
	}
	if _, exists := r.fields[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.fields[key] = v
}

// Get returns the field value.
func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Delete removes a field.
func (r *Record) Delete(key string) {
	if _, ok := r.fields[key]; !ok {
		return
	}
	delete(r.fields, key)
	r.keys = slices.DeleteFunc(r.keys, func(k string) bool { return k == key })
}

// Keys returns the field names in order.
func (r *Record) Keys() []string {
	return slices.Clone(r.keys)
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.keys)
}

// All iterates fields in order. Fields deleted or replaced during iteration
// are observed with their current value; deleted ones are skipped.
func (r *Record) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range slices.Clone(r.keys) {
			v, ok := r.fields[k]
			if !ok {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// GetString returns a field's string value.
func (r *Record) GetString(key string) (string, bool) {
	v, ok := r.fields[key]
	if !ok {
		return "", false
	}
	s, ok := v.(Scalar)
	if !ok {
		return "", false
	}
	return s.Str()
}

// TypeTag returns the record's `type` field when it is a non-empty string.
func (r *Record) TypeTag() (string, bool) {
	if r == nil {
		return "", false
	}
	t, ok := r.GetString(TypeKey)
	if !ok || t == "" {
		return "", false
	}
	return t, true
}

// ID returns the source identifier, or "" for embedded records.
func (r *Record) ID() string {
	if r == nil || r.Meta == nil {
		return ""
	}
	return r.Meta.ID
}

// URLPath returns the public URL path, or "" when the record is not a page.
func (r *Record) URLPath() string {
	if r == nil || r.Meta == nil {
		return ""
	}
	return r.Meta.URLPath
}

// TypeName returns the metadata type name.
func (r *Record) TypeName() string {
	if r == nil || r.Meta == nil {
		return ""
	}
	return r.Meta.TypeName
}

// SetMark attaches an annotation mark. Marks are not content: Equal ignores them.
func (r *Record) SetMark(attr, value string) {
	if r.marks == nil {
		r.marks = make(map[string]string, 1)
	}
	r.marks[attr] = value
}

// Mark returns an annotation mark.
func (r *Record) Mark(attr string) (string, bool) {
	v, ok := r.marks[attr]
	return v, ok
}

// Marks returns a copy of all annotation marks.
func (r *Record) Marks() map[string]string {
	return maps.Clone(r.marks)
}
