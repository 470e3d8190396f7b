package category

import "strings"

// Resolver maps free-text labels onto the taxonomy.
//
// Resolution is deterministic: exact name match first, then alias
// match, then the Uncategorized fallback. All matching is
// case-insensitive. Same label and same taxonomy always yield the same
// category, which aggregation and the import report depend on.
type Resolver struct {
	taxonomy *Taxonomy
}

func NewResolver(taxonomy *Taxonomy) *Resolver {
	return &Resolver{taxonomy: taxonomy}
}

// Resolve returns the taxonomy entry for the given label. Empty or
// unknown labels resolve to Uncategorized; Resolve never fails.
func (r *Resolver) Resolve(label string) Category {
	key := fold(label)
	if key == "" {
		return r.taxonomy.byName[fold(Uncategorized)]
	}

	if c, ok := r.taxonomy.byName[key]; ok {
		return c
	}

	if c, ok := r.taxonomy.byAlias[key]; ok {
		return c
	}

	return r.taxonomy.byName[fold(Uncategorized)]
}

// Taxonomy returns the taxonomy this resolver was built from.
func (r *Resolver) Taxonomy() *Taxonomy {
	return r.taxonomy
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func foldEqual(a, b string) bool {
	return fold(a) == fold(b)
}
