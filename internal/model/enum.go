package model

import (
	"encoding/json"
	"fmt"
)

// EnumError reports a wire value outside a closed enumeration.
type EnumError struct {
	Enum  string
	Value string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("unknown %s value %q", e.Enum, e.Value)
}

// ResourceState is the lifecycle state of an economic resource.
// Maps to zome_resource_integrity::ResourceState.
type ResourceState string

const (
	StatePendingValidation ResourceState = "PendingValidation"
	StateActive            ResourceState = "Active"
	StateMaintenance       ResourceState = "Maintenance"
	StateRetired           ResourceState = "Retired"
	StateReserved          ResourceState = "Reserved"
)

// ResourceStates lists every state in declaration order.
var ResourceStates = []ResourceState{
	StatePendingValidation,
	StateActive,
	StateMaintenance,
	StateRetired,
	StateReserved,
}

// Valid reports whether s is a known state.
func (s ResourceState) Valid() bool {
	return contains(ResourceStates, s)
}

// ParseResourceState converts a wire value to a ResourceState.
func ParseResourceState(v string) (ResourceState, error) {
	return parseEnum("ResourceState", ResourceStates, v)
}

func (s ResourceState) MarshalJSON() ([]byte, error) {
	return marshalEnum("ResourceState", ResourceStates, s)
}

func (s *ResourceState) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("ResourceState", ResourceStates, data, s)
}

// VfAction is a ValueFlows action used by commitments and economic events.
// Maps to zome_gouvernance_integrity::VfAction.
type VfAction string

const (
	ActionTransfer        VfAction = "Transfer"
	ActionMove            VfAction = "Move"
	ActionUse             VfAction = "Use"
	ActionConsume         VfAction = "Consume"
	ActionProduce         VfAction = "Produce"
	ActionWork            VfAction = "Work"
	ActionModify          VfAction = "Modify"
	ActionCombine         VfAction = "Combine"
	ActionSeparate        VfAction = "Separate"
	ActionRaise           VfAction = "Raise"
	ActionLower           VfAction = "Lower"
	ActionCite            VfAction = "Cite"
	ActionAccept          VfAction = "Accept"
	ActionInitialTransfer VfAction = "InitialTransfer"
	ActionAccessForUse    VfAction = "AccessForUse"
	ActionTransferCustody VfAction = "TransferCustody"
)

// VfActions lists every action in declaration order.
var VfActions = []VfAction{
	ActionTransfer,
	ActionMove,
	ActionUse,
	ActionConsume,
	ActionProduce,
	ActionWork,
	ActionModify,
	ActionCombine,
	ActionSeparate,
	ActionRaise,
	ActionLower,
	ActionCite,
	ActionAccept,
	ActionInitialTransfer,
	ActionAccessForUse,
	ActionTransferCustody,
}

// Valid reports whether a is a known action.
func (a VfAction) Valid() bool {
	return contains(VfActions, a)
}

// ParseVfAction converts a wire value to a VfAction.
func ParseVfAction(v string) (VfAction, error) {
	return parseEnum("VfAction", VfActions, v)
}

func (a VfAction) MarshalJSON() ([]byte, error) {
	return marshalEnum("VfAction", VfActions, a)
}

func (a *VfAction) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("VfAction", VfActions, data, a)
}

// ParticipationClaimType classifies a private participation receipt.
// Maps to zome_gouvernance_integrity::ParticipationClaimType.
type ParticipationClaimType string

const (
	// Genesis role: network entry.
	ClaimResourceCreation   ParticipationClaimType = "ResourceCreation"
	ClaimResourceValidation ParticipationClaimType = "ResourceValidation"

	// Core usage role: custodianship.
	ClaimCustodyTransfer   ParticipationClaimType = "CustodyTransfer"
	ClaimCustodyAcceptance ParticipationClaimType = "CustodyAcceptance"

	// Intermediate roles: specialized services.
	ClaimMaintenanceCommitmentAccepted   ParticipationClaimType = "MaintenanceCommitmentAccepted"
	ClaimMaintenanceFulfillmentCompleted ParticipationClaimType = "MaintenanceFulfillmentCompleted"
	ClaimStorageCommitmentAccepted       ParticipationClaimType = "StorageCommitmentAccepted"
	ClaimStorageFulfillmentCompleted     ParticipationClaimType = "StorageFulfillmentCompleted"
	ClaimTransportCommitmentAccepted     ParticipationClaimType = "TransportCommitmentAccepted"
	ClaimTransportFulfillmentCompleted   ParticipationClaimType = "TransportFulfillmentCompleted"
	ClaimGoodFaithTransfer               ParticipationClaimType = "GoodFaithTransfer"

	// Network governance.
	ClaimDisputeResolutionParticipation ParticipationClaimType = "DisputeResolutionParticipation"
	ClaimValidationActivity             ParticipationClaimType = "ValidationActivity"
	ClaimRuleCompliance                 ParticipationClaimType = "RuleCompliance"

	// Resource end-of-life management.
	ClaimEndOfLifeDeclaration ParticipationClaimType = "EndOfLifeDeclaration"
	ClaimEndOfLifeValidation  ParticipationClaimType = "EndOfLifeValidation"
)

// ParticipationClaimTypes lists every claim type in declaration order.
var ParticipationClaimTypes = []ParticipationClaimType{
	ClaimResourceCreation,
	ClaimResourceValidation,
	ClaimCustodyTransfer,
	ClaimCustodyAcceptance,
	ClaimMaintenanceCommitmentAccepted,
	ClaimMaintenanceFulfillmentCompleted,
	ClaimStorageCommitmentAccepted,
	ClaimStorageFulfillmentCompleted,
	ClaimTransportCommitmentAccepted,
	ClaimTransportFulfillmentCompleted,
	ClaimGoodFaithTransfer,
	ClaimDisputeResolutionParticipation,
	ClaimValidationActivity,
	ClaimRuleCompliance,
	ClaimEndOfLifeDeclaration,
	ClaimEndOfLifeValidation,
}

// Valid reports whether c is a known claim type.
func (c ParticipationClaimType) Valid() bool {
	return contains(ParticipationClaimTypes, c)
}

// ParseParticipationClaimType converts a wire value to a ParticipationClaimType.
func ParseParticipationClaimType(v string) (ParticipationClaimType, error) {
	return parseEnum("ParticipationClaimType", ParticipationClaimTypes, v)
}

func (c ParticipationClaimType) MarshalJSON() ([]byte, error) {
	return marshalEnum("ParticipationClaimType", ParticipationClaimTypes, c)
}

func (c *ParticipationClaimType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum("ParticipationClaimType", ParticipationClaimTypes, data, c)
}

func contains[T ~string](values []T, v T) bool {
	for _, known := range values {
		if known == v {
			return true
		}
	}
	return false
}

func parseEnum[T ~string](name string, values []T, v string) (T, error) {
	if !contains(values, T(v)) {
		return "", &EnumError{Enum: name, Value: v}
	}
	return T(v), nil
}

func marshalEnum[T ~string](name string, values []T, v T) ([]byte, error) {
	if !contains(values, v) {
		return nil, &EnumError{Enum: name, Value: string(v)}
	}
	return json.Marshal(string(v))
}

func unmarshalEnum[T ~string](name string, values []T, data []byte, dst *T) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	v, err := parseEnum(name, values, s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
