// Package discovery reads what other participants have published on the
// ledger: specifications by category and resources by specification.
package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/erpbridge/internal/model"
)

// ErrCatalogCorrelation is returned by All. The ledger's full specification
// listing carries no handles, so its entries cannot be joined to resources.
// Use Correlate with handles known from elsewhere (e.g. the sync state).
var ErrCatalogCorrelation = errors.New("discovery: full catalog listing carries no specification handles")

// Gateway is the part of the ledger client discovery reads through.
// *gateway.Client satisfies it.
type Gateway interface {
	GetResourceSpecificationsByCategory(ctx context.Context, category string) (model.Blob, error)
	GetResourcesBySpecification(ctx context.Context, specHash model.Hash) (model.Blob, error)
	GetResourceSpecificationWithRules(ctx context.Context, specHash model.Hash) (*model.GetResourceSpecWithRulesOutput, error)
}

// SpecResources joins a specification to the resources that conform to it.
type SpecResources struct {
	SpecHash  model.Hash                  `json:"spec_hash"`
	Spec      model.ResourceSpecification `json:"spec"`
	Rules     []model.GovernanceRule      `json:"governance_rules"`
	Resources []model.EconomicResource    `json:"resources"`
}

// Discovery is a read-only view over the ledger.
type Discovery struct {
	gw Gateway
}

// New returns a Discovery reading through gw.
func New(gw Gateway) *Discovery {
	return &Discovery{gw: gw}
}

// ByCategory returns the specifications in category. An empty category
// matches nothing and makes no remote call.
func (d *Discovery) ByCategory(ctx context.Context, category string) ([]model.ResourceSpecification, error) {
	if category == "" {
		return []model.ResourceSpecification{}, nil
	}
	raw, err := d.gw.GetResourceSpecificationsByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("discover category %q: %w", category, err)
	}
	specs, err := decodeList[model.ResourceSpecification](raw)
	if err != nil {
		return nil, fmt.Errorf("discover category %q: %w", category, err)
	}
	return specs, nil
}

// ResourcesForSpec returns the resources linked to a specification.
func (d *Discovery) ResourcesForSpec(ctx context.Context, specHash model.Hash) ([]model.EconomicResource, error) {
	raw, err := d.gw.GetResourcesBySpecification(ctx, specHash)
	if err != nil {
		return nil, fmt.Errorf("discover resources of %s: %w", specHash, err)
	}
	resources, err := decodeList[model.EconomicResource](raw)
	if err != nil {
		return nil, fmt.Errorf("discover resources of %s: %w", specHash, err)
	}
	return resources, nil
}

// CheckAvailability counts the resources linked to a specification.
func (d *Discovery) CheckAvailability(ctx context.Context, specHash model.Hash) (int, error) {
	resources, err := d.ResourcesForSpec(ctx, specHash)
	if err != nil {
		return 0, err
	}
	return len(resources), nil
}

// All would list every specification with its resources. It always returns
// ErrCatalogCorrelation; see Correlate.
func (d *Discovery) All(context.Context) ([]SpecResources, error) {
	return nil, ErrCatalogCorrelation
}

// Correlate reads each specification in specHashes together with its rules
// and resources, in the given order. It stops at the first failure.
func (d *Discovery) Correlate(ctx context.Context, specHashes []model.Hash) ([]SpecResources, error) {
	out := make([]SpecResources, 0, len(specHashes))
	for _, h := range specHashes {
		spec, err := d.gw.GetResourceSpecificationWithRules(ctx, h)
		if err != nil {
			return nil, fmt.Errorf("correlate %s: %w", h, err)
		}
		resources, err := d.ResourcesForSpec(ctx, h)
		if err != nil {
			return nil, fmt.Errorf("correlate %s: %w", h, err)
		}
		rules := spec.GovernanceRules
		if rules == nil {
			rules = []model.GovernanceRule{}
		}
		out = append(out, SpecResources{
			SpecHash:  h,
			Spec:      spec.Specification,
			Rules:     rules,
			Resources: resources,
		})
	}
	return out, nil
}

// decodeList decodes a JSON array blob into []T. Any other JSON value decodes
// to an empty list.
func decodeList[T any](raw model.Blob) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
