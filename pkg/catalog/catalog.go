// Package catalog provides the merged, queryable index built from loaded
// content entries: key to entry, alias to key, and an ordered key list used
// for prefix listing and fuzzy candidate scanning.
//
// A Catalog is constructed fully in memory by Build and never mutated
// afterwards, so a single instance can be read concurrently without locking.
// A reload produces an entirely new Catalog that replaces the old one as an
// atomic reference swap; in-flight lookups keep reading the snapshot they
// started with.
package catalog

import (
	"github.com/guildhall/lorepack/pkg/content"
)

// Catalog is the immutable merged index for one load generation.
type Catalog struct {
	entries map[string]content.Entry // normalized key -> entry
	aliases map[string]string        // normalized alias -> normalized key
	keys    []string                 // normalized keys, insertion order
}

// Entry returns the entry for the given key, if present. The key is
// normalized before lookup, so callers may pass raw user input.
func (c *Catalog) Entry(key string) (content.Entry, bool) {
	e, ok := c.entries[content.Normalize(key)]
	return e, ok
}

// ResolveAlias returns the normalized target key for the given alias, if the
// alias survived the build. Every key is also an alias of itself.
func (c *Catalog) ResolveAlias(alias string) (string, bool) {
	k, ok := c.aliases[content.Normalize(alias)]
	return k, ok
}

// Keys returns the normalized keys in build insertion order. The returned
// slice is a copy; callers may retain or modify it freely.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// DisplayKeys returns the authored (un-normalized) keys in the same order
// as Keys, for listing surfaces.
func (c *Catalog) DisplayKeys() []string {
	out := make([]string, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.entries[k].Key)
	}
	return out
}

// Len returns the number of entries in the catalog.
func (c *Catalog) Len() int {
	return len(c.keys)
}

// AliasCount returns the number of alias mappings, including each key's
// implicit self-alias.
func (c *Catalog) AliasCount() int {
	return len(c.aliases)
}
