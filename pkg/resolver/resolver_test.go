package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildhall/lorepack/pkg/catalog"
	"github.com/guildhall/lorepack/pkg/content"
)

func buildCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, diags := catalog.Build([]content.Entry{
		{Key: "anvil", Blocks: []content.Block{content.Text("anvil body")}},
		{Key: "waterskin", Aliases: []string{"flask"}, Blocks: []content.Block{content.Text("waterskin body")}},
		{Key: "water wheel", Blocks: []content.Block{content.Text("water wheel body")}},
		{Key: "bed", Blocks: []content.Block{content.Text("bed body")}},
		{Key: "screw pump", Blocks: []content.Block{content.Text("screw pump body")}},
	}, nil)
	require.Empty(t, diags)
	return cat
}

func TestResolveTiers(t *testing.T) {
	cat := buildCatalog(t)

	tests := []struct {
		name    string
		query   string
		tier    Tier
		wantKey string
	}{
		{"exact key", "anvil", TierExact, "anvil"},
		{"exact is case-insensitive", "ANVIL", TierExact, "anvil"},
		{"exact survives messy whitespace", "  water   wheel ", TierExact, "water wheel"},
		{"alias", "flask", TierAlias, "waterskin"},
		{"prefix picks shortest", "water", TierPrefix, "waterskin"},
		{"substring when no prefix", "skin", TierPrefix, "waterskin"},
		{"substring across words", "pump", TierPrefix, "screw pump"},
		{"fuzzy close miss", "waterskn", TierFuzzy, "waterskin"},
		{"fuzzy transposition", "anvli", TierFuzzy, "anvil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Resolve(tt.query, cat)
			require.True(t, m.Found(), "query %q should match", tt.query)
			assert.Equal(t, tt.tier, m.Tier)
			assert.Equal(t, tt.wantKey, m.Entry.Key)
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	cat := buildCatalog(t)

	tests := []struct {
		name  string
		query string
	}{
		{"unrelated word", "xylophone"},
		{"empty query", ""},
		{"whitespace only", "   \t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Resolve(tt.query, cat)
			assert.False(t, m.Found())
			assert.Equal(t, TierNone, m.Tier)
		})
	}
}

func TestResolveNilCatalog(t *testing.T) {
	m := Resolve("anvil", nil)
	assert.False(t, m.Found())
}

func TestResolveFuzzyThreshold(t *testing.T) {
	cat := buildCatalog(t)

	// "waterskn" vs "waterskin": one deletion over nine runes, score 8/9.
	m := Resolve("waterskn", cat)
	require.Equal(t, TierFuzzy, m.Tier)
	assert.InDelta(t, 8.0/9.0, m.Score, 1e-9)

	// A stricter threshold rejects the same query.
	strict := Resolve("waterskn", cat, &Options{FuzzyThreshold: 0.95})
	assert.False(t, strict.Found())
}

func TestResolveFuzzyTieKeepsCatalogOrder(t *testing.T) {
	cat, diags := catalog.Build([]content.Entry{
		{Key: "cart", Blocks: []content.Block{content.Text("cart")}},
		{Key: "care", Blocks: []content.Block{content.Text("care")}},
	}, nil)
	require.Empty(t, diags)

	// "carp" is one substitution from both keys; the earlier key wins.
	m := Resolve("carp", cat)
	require.Equal(t, TierFuzzy, m.Tier)
	assert.Equal(t, "cart", m.Entry.Key)
}

func TestResolveEveryKeyAndAlias(t *testing.T) {
	cat := buildCatalog(t)

	for _, key := range cat.Keys() {
		m := Resolve(key, cat)
		require.Equal(t, TierExact, m.Tier, "key %q must resolve exactly", key)
		assert.Equal(t, key, m.Entry.Key)
	}

	m := Resolve("flask", cat)
	require.Equal(t, TierAlias, m.Tier)
	assert.Equal(t, "waterskin", m.Entry.Key)
}

func TestResolveDeterministic(t *testing.T) {
	cat := buildCatalog(t)
	first := Resolve("watr", cat)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Resolve("watr", cat))
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"anvil", "anvil", 1},
		{"", "", 1},
		{"anvil", "", 0},
		{"waterskn", "waterskin", 8.0 / 9.0},
		{"abc", "xyz", 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9, "Similarity(%q, %q)", tt.a, tt.b)
	}
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "none", TierNone.String())
	assert.Equal(t, "exact", TierExact.String())
	assert.Equal(t, "alias", TierAlias.String())
	assert.Equal(t, "prefix", TierPrefix.String())
	assert.Equal(t, "fuzzy", TierFuzzy.String())
}
