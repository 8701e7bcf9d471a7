package sources

import (
	"encoding/json"

	"github.com/goccy/go-yaml"

	"github.com/guildhall/lorepack/pkg/catalog"
	"github.com/guildhall/lorepack/pkg/content"
)

// document is the on-disk form of a structured entry file:
//
//	key: waterskin
//	aliases: [flask, water flask]
//	blocks:
//	  - {type: text, value: "Fill it at a river before travelling."}
//	  - {type: image, value: "waterskin.png"}
//	images: ["extra.png"]
//
// A trailing images list is appended as final image blocks.
type document struct {
	Key     string     `yaml:"key" json:"key"`
	Aliases []string   `yaml:"aliases" json:"aliases"`
	Blocks  []docBlock `yaml:"blocks" json:"blocks"`
	Images  []string   `yaml:"images" json:"images"`
}

// docBlock tolerates the block field spellings found in the wild:
// "value" is canonical, "content" and "src" are accepted for text and
// image blocks respectively.
type docBlock struct {
	Type    string `yaml:"type" json:"type"`
	Value   string `yaml:"value" json:"value"`
	Content string `yaml:"content" json:"content"`
	Src     string `yaml:"src" json:"src"`
}

// payload returns the block's value regardless of which field carried it.
func (b docBlock) payload() string {
	switch {
	case b.Value != "":
		return b.Value
	case b.Content != "":
		return b.Content
	default:
		return b.Src
	}
}

// decodeDocument parses a structured YAML or JSON entry file. The returned
// diagnostics record skipped blocks; a nil error with a valid entry is the
// normal outcome even for partially bad documents.
func decodeDocument(data []byte, path, stem string, asJSON bool) (content.Entry, []catalog.Diagnostic, error) {
	var doc document
	var err error
	if asJSON {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return content.Entry{}, nil, err
	}

	entry := content.Entry{Key: doc.Key, Aliases: doc.Aliases}
	if entry.Key == "" {
		entry.Key = stem
	}

	var diags []catalog.Diagnostic
	for _, b := range doc.Blocks {
		t := content.BlockType(b.Type)
		if !t.Valid() {
			diags = append(diags, catalog.Warnf(catalog.KindUnknownBlock, path,
				"block with unrecognized type %q skipped", b.Type))
			continue
		}
		entry.Blocks = append(entry.Blocks, content.Block{Type: t, Value: b.payload()})
	}
	for _, src := range doc.Images {
		entry.Blocks = append(entry.Blocks, content.Image(src))
	}

	return entry, diags, nil
}
