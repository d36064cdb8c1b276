package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrNotObject is returned when a document's top level is not a keyed object.
var ErrNotObject = errors.New("top-level value is not an object")

const yamlMergeTag = "!!merge"

// FromYAML converts a decoded YAML document or mapping node into a Record,
// preserving key order. A nil or empty node yields an empty record.
func FromYAML(node *yaml.Node) (*Record, error) {
	if node == nil || node.Kind == 0 {
		return NewRecord(), nil
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return NewRecord(), nil
		}
		node = node.Content[0]
	}
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return NewRecord(), nil
	}
	v, err := valueFromYAML(node)
	if err != nil {
		return nil, err
	}
	rec, ok := v.(*Record)
	if !ok {
		return nil, fmt.Errorf("%w: got %s at line %d", ErrNotObject, v.Kind(), node.Line)
	}
	return rec, nil
}

func valueFromYAML(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return valueFromYAML(n.Content[0])
	case yaml.AliasNode:
		return valueFromYAML(n.Alias)
	case yaml.SequenceNode:
		list := make(List, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := valueFromYAML(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.MappingNode:
		rec := NewRecord()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, vn := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", k.Line)
			}
			v, err := valueFromYAML(vn)
			if err != nil {
				return nil, err
			}
			if k.ShortTag() == yamlMergeTag {
				mergeInto(rec, v)
				continue
			}
			rec.Set(k.Value, v)
		}
		return rec, nil
	case yaml.ScalarNode:
		// Dates keep their source text instead of becoming time.Time.
		if n.ShortTag() == "!!timestamp" {
			return String(n.Value), nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return scalarOf(v), nil
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node kind %d", n.Line, n.Kind)
	}
}

// mergeInto applies a YAML merge key: fields not already present are copied.
func mergeInto(dst *Record, src Value) {
	switch s := src.(type) {
	case *Record:
		for k, v := range s.All() {
			if _, exists := dst.Get(k); !exists {
				dst.Set(k, v)
			}
		}
	case List:
		for _, item := range s {
			mergeInto(dst, item)
		}
	}
}

func scalarOf(v any) Scalar {
	switch t := v.(type) {
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		return Float(t)
	default:
		return Scalar{v: t}
	}
}

// DecodeJSON parses a JSON object into a Record, preserving key order.
// Numbers keep their literal form as json.Number.
func DecodeJSON(data []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, errors.New("unexpected data after top-level value")
		}
		return nil, err
	}
	rec, ok := v.(*Record)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, v.Kind())
	}
	return rec, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			rec := NewRecord()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", kt)
				}
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				rec.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return rec, nil
		case '[':
			list := List{}
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}
