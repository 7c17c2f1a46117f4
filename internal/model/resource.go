package model

import "encoding/json"

// ResourceSpecification is a template record on the ledger.
// Maps to zome_resource_integrity::ResourceSpecification.
type ResourceSpecification struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	ImageURL    *string  `json:"image_url"`
	Tags        []string `json:"tags"`
	IsActive    bool     `json:"is_active"`
}

// UnmarshalJSON applies the ledger defaults: active, with no tags.
func (s *ResourceSpecification) UnmarshalJSON(data []byte) error {
	type plain ResourceSpecification
	out := plain{IsActive: true}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	*s = ResourceSpecification(out)
	return nil
}

// GovernanceRule is a stored rule attached to a specification.
type GovernanceRule struct {
	RuleType   string  `json:"rule_type"`
	RuleData   string  `json:"rule_data"`
	EnforcedBy *string `json:"enforced_by"`
}

// EconomicResource is a concrete resource conforming to a specification.
// Maps to zome_resource_integrity::EconomicResource.
type EconomicResource struct {
	Quantity        float64       `json:"quantity"`
	Unit            string        `json:"unit"`
	Custodian       Hash          `json:"custodian"`
	CurrentLocation *string       `json:"current_location"`
	State           ResourceState `json:"state"`
}

// UnmarshalJSON defaults a missing state to PendingValidation, the state every
// resource starts in.
func (r *EconomicResource) UnmarshalJSON(data []byte) error {
	type plain EconomicResource
	out := plain{State: StatePendingValidation}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*r = EconomicResource(out)
	return nil
}

// GovernanceRuleInput describes a rule to create alongside a specification.
type GovernanceRuleInput struct {
	RuleType   string  `json:"rule_type"`
	RuleData   string  `json:"rule_data"`
	EnforcedBy *string `json:"enforced_by"`
}

// ResourceSpecificationInput is the payload of create_resource_specification.
type ResourceSpecificationInput struct {
	Name            string                `json:"name"`
	Description     string                `json:"description"`
	Category        string                `json:"category"`
	ImageURL        *string               `json:"image_url"`
	Tags            []string              `json:"tags"`
	GovernanceRules []GovernanceRuleInput `json:"governance_rules"`
}

// MarshalJSON encodes absent lists as empty arrays; the zome rejects null vectors.
func (in ResourceSpecificationInput) MarshalJSON() ([]byte, error) {
	type plain ResourceSpecificationInput
	out := plain(in)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if out.GovernanceRules == nil {
		out.GovernanceRules = []GovernanceRuleInput{}
	}
	return json.Marshal(out)
}

// EconomicResourceInput is the payload of create_economic_resource.
// SpecHash must name a specification that already exists.
type EconomicResourceInput struct {
	SpecHash        Hash    `json:"spec_hash"`
	Quantity        float64 `json:"quantity"`
	Unit            string  `json:"unit"`
	CurrentLocation *string `json:"current_location"`
}

// TransferCustodyInput is the payload of transfer_custody.
type TransferCustodyInput struct {
	ResourceHash       Hash  `json:"resource_hash"`
	NewCustodian       Hash  `json:"new_custodian"`
	RequestContactInfo *bool `json:"request_contact_info"`
}

// UpdateResourceStateInput is the payload of update_resource_state.
type UpdateResourceStateInput struct {
	ResourceHash Hash          `json:"resource_hash"`
	NewState     ResourceState `json:"new_state"`
}

// CreateResourceSpecificationOutput is returned by create_resource_specification.
type CreateResourceSpecificationOutput struct {
	SpecHash             Hash                  `json:"spec_hash"`
	Spec                 ResourceSpecification `json:"spec"`
	GovernanceRuleHashes []Hash                `json:"governance_rule_hashes"`
}

// GetAllResourceSpecificationsOutput is returned by get_all_resource_specifications.
// The listing carries no handles.
type GetAllResourceSpecificationsOutput struct {
	Specifications []ResourceSpecification `json:"specifications"`
}

// GetResourceSpecWithRulesOutput is returned by get_resource_specification_with_rules.
type GetResourceSpecWithRulesOutput struct {
	Specification   ResourceSpecification `json:"specification"`
	GovernanceRules []GovernanceRule      `json:"governance_rules"`
}

// CreateEconomicResourceOutput is returned by create_economic_resource.
type CreateEconomicResourceOutput struct {
	ResourceHash Hash             `json:"resource_hash"`
	Resource     EconomicResource `json:"resource"`
}

// GetAllEconomicResourcesOutput is returned by get_all_economic_resources.
type GetAllEconomicResourcesOutput struct {
	Resources []EconomicResource `json:"resources"`
}

// TransferCustodyOutput is returned by transfer_custody.
type TransferCustodyOutput struct {
	UpdatedResourceHash Hash             `json:"updated_resource_hash"`
	UpdatedResource     EconomicResource `json:"updated_resource"`
}
