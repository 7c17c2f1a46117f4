package mapper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/erpbridge/internal/erp"
	"github.com/roach88/erpbridge/internal/model"
)

func sampleItem() erp.Item {
	image := "https://example.com/prusa.jpg"
	return erp.Item{
		ID:           "1",
		Name:         "Prusa MK4",
		Description:  "FDM 3D printer",
		Category:     "equipment",
		ListPrice:    799,
		QtyAvailable: 2,
		UomName:      "unit",
		ImageURL:     &image,
		Tags:         []string{"3d-printing", "fab-lab"},
	}
}

func TestToResourceSpecification(t *testing.T) {
	spec := ToResourceSpecification(sampleItem())

	assert.Equal(t, "Prusa MK4", spec.Name)
	assert.Equal(t, "FDM 3D printer", spec.Description)
	assert.Equal(t, "equipment", spec.Category)
	require.NotNil(t, spec.ImageURL)
	assert.Equal(t, "https://example.com/prusa.jpg", *spec.ImageURL)
	assert.Equal(t, []string{"3d-printing", "fab-lab"}, spec.Tags)
	assert.NotNil(t, spec.GovernanceRules)
	assert.Empty(t, spec.GovernanceRules)
}

func TestToResourceSpecification_NilTags(t *testing.T) {
	it := sampleItem()
	it.Tags = nil
	it.ImageURL = nil

	spec := ToResourceSpecification(it)
	assert.NotNil(t, spec.Tags)
	assert.Empty(t, spec.Tags)
	assert.Nil(t, spec.ImageURL)
}

func TestToResourceSpecification_DoesNotAliasItem(t *testing.T) {
	it := sampleItem()
	spec := ToResourceSpecification(it)

	spec.Tags[0] = "changed"
	*spec.ImageURL = "changed"
	assert.Equal(t, "3d-printing", it.Tags[0])
	assert.Equal(t, "https://example.com/prusa.jpg", *it.ImageURL)
}

func TestToEconomicResource(t *testing.T) {
	hash := model.Hash("uhCkkAQID")
	res := ToEconomicResource(sampleItem(), hash)

	assert.Equal(t, hash, res.SpecHash)
	assert.Equal(t, 2.0, res.Quantity)
	assert.Equal(t, "unit", res.Unit)
	assert.Nil(t, res.CurrentLocation)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"spec_hash":"uhCkkAQID","quantity":2,"unit":"unit","current_location":null}`, string(data))
}
