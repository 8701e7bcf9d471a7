// Package content defines the entry model for pre-authored content packs:
// entries addressed by a key and aliases, carrying an ordered sequence of
// text and image blocks. Block order is authored and must be preserved
// through load, resolution, and rendering.
package content

// BlockType identifies the kind of a content block.
type BlockType string

const (
	// BlockText is a text segment.
	BlockText BlockType = "text"

	// BlockImage is an image reference (relative path or absolute URL,
	// never a binary payload).
	BlockImage BlockType = "image"
)

// Valid reports whether the block type is one of the known kinds.
// Blocks with unrecognized types are skipped at load time.
func (t BlockType) Valid() bool {
	return t == BlockText || t == BlockImage
}

// Block is one unit of output: a text segment or an image reference.
type Block struct {
	Type  BlockType `yaml:"type" json:"type"`
	Value string    `yaml:"value" json:"value"`
}

// Text creates a text block.
func Text(s string) Block {
	return Block{Type: BlockText, Value: s}
}

// Image creates an image reference block.
func Image(src string) Block {
	return Block{Type: BlockImage, Value: src}
}
