package category

// Kind classifies which side of the ledger a category belongs to.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
	KindBoth    Kind = "both"
)

// Uncategorized is the fallback category name for labels that match
// nothing in the taxonomy. It is always present.
const Uncategorized = "Uncategorized"

// Category is a single taxonomy entry. Aliases are alternative labels
// that resolve to this category.
type Category struct {
	Name    string   `yaml:"name"`
	Kind    Kind     `yaml:"kind"`
	Aliases []string `yaml:"aliases"`
}

// Taxonomy is the closed set of categories loaded at process start.
// It is immutable after construction.
type Taxonomy struct {
	categories []Category
	byName     map[string]Category
	byAlias    map[string]Category
}

// NewTaxonomy builds a taxonomy from the given categories. An
// Uncategorized entry is appended if none is defined. Name and alias
// lookups are case-insensitive.
func NewTaxonomy(categories []Category) *Taxonomy {
	t := &Taxonomy{
		byName:  make(map[string]Category),
		byAlias: make(map[string]Category),
	}

	hasFallback := false

	for _, c := range categories {
		if foldEqual(c.Name, Uncategorized) {
			hasFallback = true
		}

		t.add(c)
	}

	if !hasFallback {
		t.add(Category{Name: Uncategorized, Kind: KindBoth})
	}

	return t
}

func (t *Taxonomy) add(c Category) {
	t.categories = append(t.categories, c)
	t.byName[fold(c.Name)] = c

	for _, alias := range c.Aliases {
		t.byAlias[fold(alias)] = c
	}
}

// Categories returns all taxonomy entries in definition order.
func (t *Taxonomy) Categories() []Category {
	return t.categories
}
