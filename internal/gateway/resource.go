package gateway

import (
	"context"

	"github.com/roach88/erpbridge/internal/model"
)

// CreateResourceSpecification creates a specification and its governance rules.
func (c *Client) CreateResourceSpecification(ctx context.Context, in model.ResourceSpecificationInput) (*model.CreateResourceSpecificationOutput, error) {
	out, err := call[model.CreateResourceSpecificationOutput](ctx, c, ZomeResource, "create_resource_specification", in)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAllResourceSpecifications lists every specification. The listing carries no handles.
func (c *Client) GetAllResourceSpecifications(ctx context.Context) (*model.GetAllResourceSpecificationsOutput, error) {
	out, err := call[model.GetAllResourceSpecificationsOutput](ctx, c, ZomeResource, "get_all_resource_specifications", nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLatestResourceSpecification reads the latest revision of a specification.
func (c *Client) GetLatestResourceSpecification(ctx context.Context, specHash model.Hash) (*model.ResourceSpecification, error) {
	out, err := call[model.ResourceSpecification](ctx, c, ZomeResource, "get_latest_resource_specification", specHash)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetResourceSpecificationWithRules reads a specification together with its rules.
func (c *Client) GetResourceSpecificationWithRules(ctx context.Context, specHash model.Hash) (*model.GetResourceSpecWithRulesOutput, error) {
	out, err := call[model.GetResourceSpecWithRulesOutput](ctx, c, ZomeResource, "get_resource_specification_with_rules", specHash)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetResourceSpecificationsByCategory returns the raw category listing.
// See discovery.ByCategory for the decoded form.
func (c *Client) GetResourceSpecificationsByCategory(ctx context.Context, category string) (model.Blob, error) {
	return call[model.Blob](ctx, c, ZomeResource, "get_resource_specifications_by_category", category)
}

// GetMyResourceSpecifications returns the calling agent's specifications.
func (c *Client) GetMyResourceSpecifications(ctx context.Context) (model.Blob, error) {
	return call[model.Blob](ctx, c, ZomeResource, "get_my_resource_specifications", nil)
}

// CreateEconomicResource creates a resource linked to an existing specification.
func (c *Client) CreateEconomicResource(ctx context.Context, in model.EconomicResourceInput) (*model.CreateEconomicResourceOutput, error) {
	out, err := call[model.CreateEconomicResourceOutput](ctx, c, ZomeResource, "create_economic_resource", in)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAllEconomicResources lists every resource.
func (c *Client) GetAllEconomicResources(ctx context.Context) (*model.GetAllEconomicResourcesOutput, error) {
	out, err := call[model.GetAllEconomicResourcesOutput](ctx, c, ZomeResource, "get_all_economic_resources", nil)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLatestEconomicResource reads the latest revision of a resource.
func (c *Client) GetLatestEconomicResource(ctx context.Context, resourceHash model.Hash) (*model.EconomicResource, error) {
	out, err := call[model.EconomicResource](ctx, c, ZomeResource, "get_latest_economic_resource", resourceHash)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetResourcesBySpecification returns the raw listing of resources linked to a
// specification. See discovery.ResourcesForSpec for the decoded form.
func (c *Client) GetResourcesBySpecification(ctx context.Context, specHash model.Hash) (model.Blob, error) {
	return call[model.Blob](ctx, c, ZomeResource, "get_resources_by_specification", specHash)
}

// GetMyEconomicResources returns the calling agent's resources.
func (c *Client) GetMyEconomicResources(ctx context.Context) (model.Blob, error) {
	return call[model.Blob](ctx, c, ZomeResource, "get_my_economic_resources", nil)
}

// TransferCustody moves a resource to a new custodian.
func (c *Client) TransferCustody(ctx context.Context, in model.TransferCustodyInput) (*model.TransferCustodyOutput, error) {
	out, err := call[model.TransferCustodyOutput](ctx, c, ZomeResource, "transfer_custody", in)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateResourceState transitions a resource's lifecycle state. Only external
// governance processes call this; the sync pipeline never does.
func (c *Client) UpdateResourceState(ctx context.Context, in model.UpdateResourceStateInput) (model.Blob, error) {
	return call[model.Blob](ctx, c, ZomeResource, "update_resource_state", in)
}
