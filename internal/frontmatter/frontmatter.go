package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// ErrMalformed wraps any failure to decode a frontmatter block.
var ErrMalformed = errors.New("malformed frontmatter")

// yamlFormat delimits YAML frontmatter with `---` lines and decodes it with
// yaml.v3 into a *yaml.Node, so key order survives.
var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// Document is a Markdown source split into frontmatter and body.
type Document struct {
	// Fields is the decoded frontmatter, nil when the file has none or it is empty.
	Fields *yaml.Node
	Body   []byte
}

// Parse splits source into frontmatter and body. A document without a
// frontmatter block returns the whole source as body.
func Parse(source []byte) (*Document, error) {
	var node yaml.Node
	body, err := frontmatter.Parse(bytes.NewReader(source), &node, yamlFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	doc := &Document{Body: body}
	if node.Kind != 0 {
		doc.Fields = &node
	}
	return doc, nil
}
