package erp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Catalog is an in-memory item table. It is the Source used for fixtures and
// for catalogs exported from the ERP as YAML.
type Catalog struct {
	items []Item
}

// NewCatalog returns a catalog holding a copy of items.
func NewCatalog(items []Item) *Catalog {
	return &Catalog{items: cloneItems(items)}
}

// Items returns a copy of the table so callers cannot mutate the catalog.
func (c *Catalog) Items(context.Context) ([]Item, error) {
	return cloneItems(c.items), nil
}

// Len returns the number of items, available or not.
func (c *Catalog) Len() int {
	return len(c.items)
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		it.Tags = slices.Clone(it.Tags)
		if it.ImageURL != nil {
			url := *it.ImageURL
			it.ImageURL = &url
		}
		out[i] = it
	}
	return out
}

// catalogFile is the on-disk layout of a YAML catalog.
type catalogFile struct {
	Items []Item `yaml:"items"`
}

// LoadCatalog reads a YAML catalog:
//
//	items:
//	  - id: 1
//	    name: Prusa MK4 3D Printer
//	    category: equipment
//	    qty_available: 2
//	    uom_name: unit
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes YAML catalog bytes. Every item needs an ID and a name,
// and IDs must be unique after normalization.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	var errs []error
	seen := make(map[string]int, len(f.Items))
	for i, it := range f.Items {
		key := it.Key()
		switch {
		case key == "":
			errs = append(errs, fmt.Errorf("items[%d]: id is required", i))
			continue
		case it.Name == "":
			errs = append(errs, fmt.Errorf("items[%d] (id %s): name is required", i, key))
		}
		if prev, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("items[%d]: duplicate id %s (first at items[%d])", i, key, prev))
			continue
		}
		seen[key] = i
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &Catalog{items: f.Items}, nil
}
