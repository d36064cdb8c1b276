// Package schema holds the content model: the declared types a record's
// `type` tag may name, their fields, and the reference index derived from them.
package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	ferrors "git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

// Field types with special meaning to the pipeline.
const (
	FieldTypeReference = "reference"
	FieldTypeList      = "list"
	FieldTypeModel     = "model"
	FieldTypeObject    = "object"
)

// Model is one content type definition.
type Model struct {
	Name   string  `yaml:"name" json:"name"`
	Type   string  `yaml:"type,omitempty" json:"type,omitempty"`
	Label  string  `yaml:"label,omitempty" json:"label,omitempty"`
	Fields []Field `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Field is a named, typed field of a model.
type Field struct {
	Name   string   `yaml:"name" json:"name"`
	Type   string   `yaml:"type" json:"type"`
	Items  *Items   `yaml:"items,omitempty" json:"items,omitempty"`
	Models []string `yaml:"models,omitempty" json:"models,omitempty"`
}

// Items describes the element type of a list field.
type Items struct {
	Type   string   `yaml:"type" json:"type"`
	Models []string `yaml:"models,omitempty" json:"models,omitempty"`
}

// IsReference reports whether the field holds a reference or a list of references.
func (f Field) IsReference() bool {
	if f.Type == FieldTypeReference {
		return true
	}
	return f.Type == FieldTypeList && f.Items != nil && f.Items.Type == FieldTypeReference
}

// Schema is an ordered, immutable set of models.
type Schema struct {
	models []Model
	byName map[string]int
	digest string
}

// New validates model names and builds a Schema. Names must be non-empty and unique.
func New(models []Model) (*Schema, error) {
	s := &Schema{
		models: append([]Model(nil), models...),
		byName: make(map[string]int, len(models)),
	}
	for i, m := range s.models {
		if m.Name == "" {
			return nil, ferrors.SchemaError(fmt.Sprintf("model at position %d has no name", i)).Build()
		}
		if _, dup := s.byName[m.Name]; dup {
			return nil, ferrors.SchemaError("duplicate model name").WithContext("model", m.Name).Build()
		}
		s.byName[m.Name] = i
	}

	canonical, err := json.Marshal(s.models)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "digest schema").Build()
	}
	sum := sha256.Sum256(canonical)
	s.digest = hex.EncodeToString(sum[:])
	return s, nil
}

// Models returns the models in declaration order.
func (s *Schema) Models() []Model {
	return append([]Model(nil), s.models...)
}

// Model looks up a model by name.
func (s *Schema) Model(name string) (Model, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Model{}, false
	}
	return s.models[i], true
}

// Has reports whether a model with the given name is declared.
func (s *Schema) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Digest is a content hash of the models, stable across loads of the same schema.
func (s *Schema) Digest() string {
	return s.digest
}
