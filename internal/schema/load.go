package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
)

// ErrInvalidSchema is wrapped by every error caused by a malformed model file.
var ErrInvalidSchema = errors.New("invalid content model schema")

//go:embed models.schema.json
var modelsSchemaJSON []byte

const modelsSchemaURL = "models.schema.json"

var compiledModelsSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(modelsSchemaURL, bytes.NewReader(modelsSchemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(modelsSchemaURL)
})

// Load reads models from path. A file holds either a list of models, an
// object with a `models` list, or a single model. A directory is read
// non-recursively; each .yaml, .yml or .json file in it contributes its models
// in lexical file order.
func Load(path string) (*Schema, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.NotFoundError("schema " + path).Fatal().
				WithContext("path", path).Build()
		}
		return nil, ferrors.FileSystemError(err, path).Build()
	}

	files := []string{path}
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, ferrors.FileSystemError(err, path).Build()
		}
		files = files[:0]
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !isModelFile(e.Name()) {
				continue
			}
			files = append(files, filepath.Join(path, e.Name()))
		}
		slices.Sort(files)
	}

	var models []Model
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, ferrors.FileSystemError(err, f).Build()
		}
		ms, err := Parse(data)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategorySchema, "invalid model file").
				Fatal().WithContext("file", f).Build()
		}
		models = append(models, ms...)
	}
	return New(models)
}

func isModelFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Parse decodes one model document, YAML or JSON, after validating its shape.
func Parse(data []byte) ([]Model, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	if raw == nil {
		return nil, nil
	}
	if err := validateShape(raw); err != nil {
		return nil, err
	}

	switch v := raw.(type) {
	case []any:
		var models []Model
		if err := yaml.Unmarshal(data, &models); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
		}
		return models, nil
	case map[string]any:
		if _, ok := v["models"]; ok {
			var doc struct {
				Models []Model `yaml:"models"`
			}
			if err := yaml.Unmarshal(data, &doc); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
			}
			return doc.Models, nil
		}
		var m Model
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
		}
		return []Model{m}, nil
	}
	return nil, fmt.Errorf("%w: unexpected document of type %T", ErrInvalidSchema, raw)
}

// validateShape checks a decoded YAML document against the embedded models
// schema. The document is round-tripped through JSON so the validator only
// sees JSON types.
func validateShape(raw any) error {
	sch, err := compiledModelsSchema()
	if err != nil {
		return fmt.Errorf("compile models schema: %w", err)
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	var doc any
	if err := json.Unmarshal(buf, &doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	if err := sch.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%w: %s", ErrInvalidSchema, strings.Join(collectIssues(ve), "; "))
		}
		return fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	return nil
}

func collectIssues(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []string{loc + ": " + ve.Message}
	}
	var out []string
	for _, c := range ve.Causes {
		out = append(out, collectIssues(c)...)
	}
	return out
}
