// Package reader turns content files into content records.
package reader

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"git.home.luguber.info/inful/sitegraph/internal/content"
	ferrors "git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/frontmatter"
)

// ErrUnhandledFileType is returned for a file whose extension has no parser.
var ErrUnhandledFileType = errors.New("unhandled file type")

// Supported extensions, without the leading dot.
const (
	ExtMarkdown = "md"
	ExtJSON     = "json"
)

// SupportedExtensions lists every extension Parse understands.
func SupportedExtensions() []string {
	return []string{ExtMarkdown, ExtJSON}
}

// Reader reads content files from a filesystem rooted at the project directory.
// Paths passed to Read are slash-separated and become record identifiers.
type Reader struct {
	fsys fs.FS
}

// New returns a Reader over fsys.
func New(fsys fs.FS) *Reader {
	return &Reader{fsys: fsys}
}

// Read loads and parses a single file.
func (r *Reader) Read(file string) (*content.Record, error) {
	data, err := fs.ReadFile(r.fsys, file)
	if err != nil {
		return nil, ferrors.FileSystemError(err, file).Build()
	}
	return Parse(file, data)
}

// Parse decodes data according to the extension of file and stamps the record
// with its identity: Meta.ID is file, Meta.TypeName is the record's type tag.
func Parse(file string, data []byte) (*content.Record, error) {
	var (
		rec *content.Record
		err error
	)
	switch ext := path.Ext(file); ext {
	case "." + ExtMarkdown:
		rec, err = parseMarkdown(data)
	case "." + ExtJSON:
		rec, err = content.DecodeJSON(data)
	default:
		return nil, ferrors.ParseError(fmt.Errorf("%w: %s", ErrUnhandledFileType, file), file).Build()
	}
	if err != nil {
		return nil, ferrors.ParseError(err, file).Build()
	}

	rec.Delete(content.MetadataKey)
	typeName, _ := rec.TypeTag()
	rec.Meta = &content.Metadata{ID: file, TypeName: typeName}
	return rec, nil
}

func parseMarkdown(data []byte) (*content.Record, error) {
	doc, err := frontmatter.Parse(data)
	if err != nil {
		return nil, err
	}
	rec, err := content.FromYAML(doc.Fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", frontmatter.ErrMalformed, err)
	}
	rec.Set(content.MarkdownContentKey, content.String(string(doc.Body)))
	return rec, nil
}
