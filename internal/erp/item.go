// Package erp reads inventory items from the ERP side of the bridge.
//
// The bridge only needs read access: a Source returns the current item table,
// and Available narrows it to the items that can be shared.
package erp

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Item is one inventory row read from the ERP.
type Item struct {
	ID           string   `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	Description  string   `yaml:"description" json:"description"`
	Category     string   `yaml:"category" json:"category"`
	ListPrice    float64  `yaml:"list_price" json:"list_price"`
	QtyAvailable float64  `yaml:"qty_available" json:"qty_available"`
	UomName      string   `yaml:"uom_name" json:"uom_name"`
	ImageURL     *string  `yaml:"image_url,omitempty" json:"image_url,omitempty"`
	Tags         []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Key returns the sync state key for the item: the ID trimmed and NFC-normalized,
// so identifiers that render identically share one record.
func (it Item) Key() string {
	return norm.NFC.String(strings.TrimSpace(it.ID))
}

// IsAvailable reports whether the item has stock to share.
func (it Item) IsAvailable() bool {
	return it.QtyAvailable > 0
}

// String identifies the item in logs and error messages.
func (it Item) String() string {
	return fmt.Sprintf("item %s (%s)", it.ID, it.Name)
}

// Source is a read-only view of the ERP item table.
type Source interface {
	Items(ctx context.Context) ([]Item, error)
}

// Available returns the items of src with a positive quantity, in source order.
func Available(ctx context.Context, src Source) ([]Item, error) {
	items, err := src.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.IsAvailable() {
			out = append(out, it)
		}
	}
	return out, nil
}

// FindItem returns the item of src whose key matches id.
func FindItem(ctx context.Context, src Source, id string) (Item, bool, error) {
	items, err := src.Items(ctx)
	if err != nil {
		return Item{}, false, fmt.Errorf("read items: %w", err)
	}
	key := Item{ID: id}.Key()
	for _, it := range items {
		if it.Key() == key {
			return it, true, nil
		}
	}
	return Item{}, false, nil
}
