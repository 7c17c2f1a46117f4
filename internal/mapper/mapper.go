// Package mapper converts ERP items into ledger creation requests.
package mapper

import (
	"slices"

	"github.com/roach88/erpbridge/internal/erp"
	"github.com/roach88/erpbridge/internal/model"
)

// ToResourceSpecification maps an item to a specification request.
// Absent tags become an empty list; no governance rules are attached.
func ToResourceSpecification(it erp.Item) model.ResourceSpecificationInput {
	tags := slices.Clone(it.Tags)
	if tags == nil {
		tags = []string{}
	}
	var image *string
	if it.ImageURL != nil {
		url := *it.ImageURL
		image = &url
	}
	return model.ResourceSpecificationInput{
		Name:            it.Name,
		Description:     it.Description,
		Category:        it.Category,
		ImageURL:        image,
		Tags:            tags,
		GovernanceRules: []model.GovernanceRuleInput{},
	}
}

// ToEconomicResource maps an item to an instance request under specHash.
// The location is left unset.
func ToEconomicResource(it erp.Item, specHash model.Hash) model.EconomicResourceInput {
	return model.EconomicResourceInput{
		SpecHash: specHash,
		Quantity: it.QtyAvailable,
		Unit:     it.UomName,
	}
}
