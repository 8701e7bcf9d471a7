package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/guildhall/lorepack/pkg/catalog"
	"github.com/guildhall/lorepack/pkg/content"
)

// FlatConfig names the flat map files a FlatMaps source reads. Any of the
// slices may be empty; files are read in the order given.
type FlatConfig struct {
	// AliasFiles hold {aliases: alias -> key} tables.
	AliasFiles []string

	// TextFiles hold {entries: key -> text} maps.
	TextFiles []string

	// ImageFiles hold {entries: key -> image or [images]} maps.
	ImageFiles []string
}

// FlatMaps loads the legacy flat map formats and synthesizes entries from
// them: a key present in a text map and/or an image map becomes one entry
// with its text block (if any) followed by its image blocks (if any).
type FlatMaps struct {
	cfg FlatConfig
}

// NewFlatMaps creates a flat map source from the given file set.
func NewFlatMaps(cfg FlatConfig) *FlatMaps {
	return &FlatMaps{cfg: cfg}
}

// Name implements Source.
func (f *FlatMaps) Name() string {
	return "maps"
}

// aliasFile mirrors {aliases: alias -> key}.
type aliasFile struct {
	Aliases map[string]string `yaml:"aliases" json:"aliases"`
}

// textFile mirrors {entries: key -> text}.
type textFile struct {
	Entries map[string]string `yaml:"entries" json:"entries"`
}

// imageFile mirrors {entries: key -> image or [images]}. Values are decoded
// loosely because authors write both scalar and list forms.
type imageFile struct {
	Entries map[string]any `yaml:"entries" json:"entries"`
}

// Load implements Source. Individual unreadable files become diagnostics;
// the source fails only when every configured file failed.
func (f *FlatMaps) Load(ctx context.Context) (*Result, error) {
	res := &Result{Aliases: make(map[string]string)}

	texts := make(map[string]string)
	images := make(map[string][]string)
	var keyOrder []string
	seen := make(map[string]bool)
	note := func(key string) {
		if !seen[key] {
			seen[key] = true
			keyOrder = append(keyOrder, key)
		}
	}

	total, failed := 0, 0
	read := func(path string, into any) bool {
		total++
		if err := ctx.Err(); err != nil {
			return false
		}
		if err := decodeFile(path, into); err != nil {
			res.Diags = append(res.Diags, catalog.Warnf(catalog.KindSourceRead, f.Name(), "%s: %v", path, err))
			failed++
			return false
		}
		return true
	}

	for _, path := range f.cfg.AliasFiles {
		var af aliasFile
		if !read(path, &af) {
			continue
		}
		aliases := make([]string, 0, len(af.Aliases))
		for a := range af.Aliases {
			aliases = append(aliases, a)
		}
		sort.Strings(aliases)
		for _, a := range aliases {
			if _, ok := res.Aliases[a]; !ok {
				res.Aliases[a] = af.Aliases[a]
			}
		}
	}

	for _, path := range f.cfg.TextFiles {
		var tf textFile
		if !read(path, &tf) {
			continue
		}
		keys := sortedKeys(tf.Entries)
		for _, k := range keys {
			note(k)
			texts[k] = tf.Entries[k]
		}
	}

	for _, path := range f.cfg.ImageFiles {
		var imf imageFile
		if !read(path, &imf) {
			continue
		}
		keys := sortedKeys(imf.Entries)
		for _, k := range keys {
			note(k)
			images[k] = append(images[k], imageList(imf.Entries[k])...)
		}
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if total > 0 && failed == total {
		return res, fmt.Errorf("all %d map files failed to load", total)
	}

	// One entry per key: text block first, then images, per the flat form.
	for _, k := range keyOrder {
		entry := content.Entry{Key: k}
		if text := strings.TrimSpace(texts[k]); text != "" {
			entry.Blocks = append(entry.Blocks, content.Text(text))
		}
		for _, src := range images[k] {
			entry.Blocks = append(entry.Blocks, content.Image(src))
		}
		res.Entries = append(res.Entries, entry)
	}

	return res, nil
}

// imageList normalizes a flat image map value: a scalar string or a list
// of strings, with blanks discarded.
func imageList(v any) []string {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	switch val := v.(type) {
	case string:
		add(val)
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	case []string:
		for _, s := range val {
			add(s)
		}
	}
	return out
}

// decodeFile parses a YAML or JSON file by extension.
func decodeFile(path string, into any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return json.Unmarshal(data, into)
	}
	return yaml.Unmarshal(data, into)
}

// sortedKeys returns map keys in sorted order for deterministic merging.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
