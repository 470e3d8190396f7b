package category

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type taxonomyFile struct {
	Categories []Category `yaml:"categories"`
}

// LoadFile reads a taxonomy definition from a YAML file.
//
// Expected shape:
//
//	categories:
//	  - name: Groceries
//	    kind: expense
//	    aliases: [food, supermarket]
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy file: %w", err)
	}

	var f taxonomyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing taxonomy file: %w", err)
	}

	for i, c := range f.Categories {
		if c.Name == "" {
			return nil, fmt.Errorf("taxonomy entry %d: missing name", i)
		}

		switch c.Kind {
		case KindIncome, KindExpense, KindBoth:
		case "":
			f.Categories[i].Kind = KindBoth
		default:
			return nil, fmt.Errorf("taxonomy entry %q: unknown kind %q", c.Name, c.Kind)
		}
	}

	return NewTaxonomy(f.Categories), nil
}

// Default returns the built-in taxonomy used when no file is configured.
func Default() *Taxonomy {
	return NewTaxonomy([]Category{
		{Name: "Salary", Kind: KindIncome, Aliases: []string{"wages", "paycheck"}},
		{Name: "Investments", Kind: KindIncome, Aliases: []string{"dividends", "interest"}},
		{Name: "Groceries", Kind: KindExpense, Aliases: []string{"food", "supermarket"}},
		{Name: "Housing", Kind: KindExpense, Aliases: []string{"rent", "mortgage"}},
		{Name: "Utilities", Kind: KindExpense, Aliases: []string{"electricity", "water", "internet"}},
		{Name: "Transport", Kind: KindExpense, Aliases: []string{"fuel", "transit"}},
		{Name: "Health", Kind: KindExpense, Aliases: []string{"pharmacy", "doctor"}},
		{Name: "Leisure", Kind: KindExpense, Aliases: []string{"entertainment", "dining"}},
	})
}
