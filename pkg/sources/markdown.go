package sources

import (
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/guildhall/lorepack/pkg/content"
)

// frontMatter is the YAML header of a Markdown entry document.
type frontMatter struct {
	Key     string   `yaml:"key"`
	Aliases []string `yaml:"aliases"`
	Images  []string `yaml:"images"`
}

var (
	frontMatterRe = regexp.MustCompile(`(?s)\A---\s*\n(.*?)\n---\s*\n?(.*)\z`)
	inlineImageRe = regexp.MustCompile(`!\[[^\]]*\]\(([^)]+)\)`)
)

// splitFrontMatter separates a Markdown document into its YAML header and
// body. Documents without a header, or with an unparsable one, are treated
// as all body.
func splitFrontMatter(text string) (frontMatter, string) {
	var fm frontMatter
	if !strings.HasPrefix(text, "---") {
		return fm, text
	}
	m := frontMatterRe.FindStringSubmatch(text)
	if m == nil {
		return fm, text
	}
	if err := yaml.Unmarshal([]byte(m[1]), &fm); err != nil {
		return frontMatter{}, text
	}
	return fm, m[2]
}

// parseMarkdown converts a Markdown entry document into an Entry. Inline
// image references split the body into interleaved text and image blocks in
// authored order; front matter images are appended as final image blocks.
func parseMarkdown(data []byte, stem string) content.Entry {
	fm, body := splitFrontMatter(string(data))

	entry := content.Entry{Key: fm.Key, Aliases: fm.Aliases}
	if entry.Key == "" {
		entry.Key = stem
	}

	pos := 0
	for _, loc := range inlineImageRe.FindAllStringSubmatchIndex(body, -1) {
		if text := strings.TrimSpace(body[pos:loc[0]]); text != "" {
			entry.Blocks = append(entry.Blocks, content.Text(text))
		}
		entry.Blocks = append(entry.Blocks, content.Image(strings.TrimSpace(body[loc[2]:loc[3]])))
		pos = loc[1]
	}
	if tail := strings.TrimSpace(body[pos:]); tail != "" {
		entry.Blocks = append(entry.Blocks, content.Text(tail))
	}

	for _, src := range fm.Images {
		entry.Blocks = append(entry.Blocks, content.Image(src))
	}

	return entry
}
