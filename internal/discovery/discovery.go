// Package discovery enumerates the content files of a corpus.
package discovery

import (
	"errors"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	ferrors "git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
)

// Discovery walks content roots for files with an allowed extension.
type Discovery struct {
	fsys       fs.FS
	extensions map[string]struct{}
}

// New creates a Discovery over fsys. Extensions are given without the dot.
func New(fsys fs.FS, extensions []string) *Discovery {
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		exts[strings.TrimPrefix(e, ".")] = struct{}{}
	}
	return &Discovery{fsys: fsys, extensions: exts}
}

// Discover returns the matching files under each root, roots in the order
// given and files in lexical walk order. Hidden files and directories are
// skipped, a missing root contributes nothing, and a file reachable from two
// roots is listed once.
func (d *Discovery) Discover(roots ...string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})

	for _, root := range roots {
		root = path.Clean(root)
		if _, err := fs.Stat(d.fsys, root); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("Content root not found", logfields.Path(root))
				continue
			}
			return nil, ferrors.FileSystemError(err, root).Build()
		}

		n := 0
		err := fs.WalkDir(d.fsys, root, func(p string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p != root && strings.HasPrefix(entry.Name(), ".") {
				if entry.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if entry.IsDir() || !d.allowed(p) {
				return nil
			}
			if _, dup := seen[p]; dup {
				return nil
			}
			seen[p] = struct{}{}
			files = append(files, p)
			n++
			return nil
		})
		if err != nil {
			return nil, ferrors.FileSystemError(err, root).Build()
		}
		slog.Debug("Content root scanned", logfields.Path(root), logfields.Count(n))
	}
	return files, nil
}

func (d *Discovery) allowed(p string) bool {
	ext := path.Ext(p)
	if ext == "" {
		return false
	}
	_, ok := d.extensions[ext[1:]]
	return ok
}
