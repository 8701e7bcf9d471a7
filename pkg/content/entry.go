package content

// Entry is one resolvable content item: a key, a set of aliases, and an
// ordered sequence of content blocks. The key is always an implicit alias
// of itself; case sensitivity is fixed by Normalize at catalog build time.
type Entry struct {
	Key     string   `yaml:"key" json:"key"`
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Blocks  []Block  `yaml:"blocks,omitempty" json:"blocks,omitempty"`
}

// Texts returns the entry's text segments in block order.
func (e Entry) Texts() []string {
	var out []string
	for _, b := range e.Blocks {
		if b.Type == BlockText {
			out = append(out, b.Value)
		}
	}
	return out
}

// Images returns the entry's image references in block order.
func (e Entry) Images() []string {
	var out []string
	for _, b := range e.Blocks {
		if b.Type == BlockImage {
			out = append(out, b.Value)
		}
	}
	return out
}
