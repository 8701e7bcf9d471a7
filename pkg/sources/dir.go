package sources

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/guildhall/lorepack/pkg/catalog"
	"github.com/guildhall/lorepack/pkg/errors"
)

// Dir loads structured entry documents from a directory tree. Each .md,
// .yaml, .yml, or .json file yields at most one entry; other files are
// ignored. A malformed file is excluded with a diagnostic rather than
// failing the whole source.
type Dir struct {
	path string
}

// NewDir creates a directory source rooted at path.
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Name implements Source.
func (d *Dir) Name() string {
	return "dir:" + d.path
}

// Load implements Source. It fails only when the root directory itself is
// unreadable.
func (d *Dir) Load(ctx context.Context) (*Result, error) {
	if info, err := os.Stat(d.path); err != nil {
		return nil, errors.WrapIO("stat", d.path, err)
	} else if !info.IsDir() {
		return nil, errors.NewValidationError("path", d.path, "not a directory")
	}

	res := &Result{Aliases: make(map[string]string)}

	walkErr := filepath.WalkDir(d.path, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			res.Diags = append(res.Diags, catalog.Warnf(catalog.KindSourceRead, d.Name(), "%s: %v", path, err))
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			// Pack image assets live alongside entries; never parse them.
			if entry.Name() == "assets" {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		d.loadFile(path, res)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return res, nil
}

// loadFile parses one entry document, recording a diagnostic instead of an
// error when the file is unreadable or malformed.
func (d *Dir) loadFile(path string, res *Result) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".md", ".yaml", ".yml", ".json":
	default:
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Diags = append(res.Diags, catalog.Warnf(catalog.KindSourceRead, d.Name(), "%s: %v", path, err))
		return
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	rel, err := filepath.Rel(d.path, path)
	if err != nil {
		rel = path
	}

	if ext == ".md" {
		res.Entries = append(res.Entries, parseMarkdown(data, stem))
		return
	}

	entry, diags, err := decodeDocument(data, rel, stem, ext == ".json")
	if err != nil {
		res.Diags = append(res.Diags, catalog.Warnf(catalog.KindSourceRead, d.Name(), "%s: %v", rel, err))
		return
	}
	res.Diags = append(res.Diags, diags...)
	res.Entries = append(res.Entries, entry)
}
