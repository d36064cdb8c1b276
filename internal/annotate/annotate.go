// Package annotate attaches inspector marks to resolved content trees in
// development mode. Outside development mode the Noop annotator is used and
// records are left untouched.
package annotate

import (
	"log/slog"
	"strconv"

	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
)

// Default mark names understood by the visual editor.
const (
	DefaultObjectIDAttr  = "data-sb-object-id"
	DefaultFieldPathAttr = "data-sb-field-path"
)

// Annotator marks a root record and its nested content.
type Annotator interface {
	Annotate(root *content.Record)
}

// Options selects and configures an Annotator.
type Options struct {
	Enabled       bool
	Verbose       bool
	ObjectIDAttr  string
	FieldPathAttr string
}

// New returns a Dev annotator when opts.Enabled, otherwise Noop. The choice is
// made once here; the Noop walk does no work per node.
func New(opts Options) Annotator {
	if !opts.Enabled {
		return Noop{}
	}
	if opts.ObjectIDAttr == "" {
		opts.ObjectIDAttr = DefaultObjectIDAttr
	}
	if opts.FieldPathAttr == "" {
		opts.FieldPathAttr = DefaultFieldPathAttr
	}
	return &Dev{
		objectIDAttr:  opts.ObjectIDAttr,
		fieldPathAttr: opts.FieldPathAttr,
		verbose:       opts.Verbose,
		skip:          map[string]bool{content.MetadataKey: true},
	}
}

// Noop leaves records untouched.
type Noop struct{}

func (Noop) Annotate(*content.Record) {}

// Dev marks the root with its identifier and every nested type-tagged record
// with its dotted field path from the root, e.g. sections.2.items.0.
type Dev struct {
	objectIDAttr  string
	fieldPathAttr string
	verbose       bool
	skip          map[string]bool
}

// Annotate walks root depth-first. Records without a type tag are walked
// through but not marked. Annotate expects a tree (see content.Clone); a
// record already on the current path is not entered again.
func (d *Dev) Annotate(root *content.Record) {
	if root == nil {
		return
	}
	if id := root.ID(); id != "" {
		root.SetMark(d.objectIDAttr, id)
	} else if d.verbose {
		slog.Warn("No object ID for annotation root", logfields.Type(root.TypeName()))
	}

	onPath := map[*content.Record]bool{root: true}
	d.fields(root, "", onPath)
}

func (d *Dev) fields(r *content.Record, prefix string, onPath map[*content.Record]bool) {
	for key, v := range r.All() {
		if d.skip[key] {
			continue
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		d.value(v, path, onPath)
	}
}

func (d *Dev) value(v content.Value, path string, onPath map[*content.Record]bool) {
	switch t := v.(type) {
	case content.List:
		for i, item := range t {
			d.value(item, path+"."+strconv.Itoa(i), onPath)
		}
	case content.Ref:
		d.nested(t.Target, path, onPath)
	case *content.Record:
		d.nested(t, path, onPath)
	}
}

func (d *Dev) nested(r *content.Record, path string, onPath map[*content.Record]bool) {
	if r == nil || onPath[r] {
		return
	}
	onPath[r] = true
	defer delete(onPath, r)

	if _, typed := r.TypeTag(); typed {
		r.SetMark(d.fieldPathAttr, path)
		if d.verbose {
			slog.Debug("Added field path mark", logfields.Path(path), logfields.Type(r.TypeName()))
		}
	}
	d.fields(r, path, onPath)
}

// ObjectIDAttr returns the root mark name.
func (d *Dev) ObjectIDAttr() string { return d.objectIDAttr }

// FieldPathAttr returns the nested mark name.
func (d *Dev) FieldPathAttr() string { return d.fieldPathAttr }
