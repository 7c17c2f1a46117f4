package model

// Commitment is a promise of a future economic event.
// Maps to zome_gouvernance_integrity::Commitment.
type Commitment struct {
	Action                VfAction  `json:"action"`
	Provider              Hash      `json:"provider"`
	Receiver              Hash      `json:"receiver"`
	ResourceInventoriedAs *Hash     `json:"resource_inventoried_as"`
	ResourceConformsTo    *Hash     `json:"resource_conforms_to"`
	InputOf               *Hash     `json:"input_of"`
	DueDate               Timestamp `json:"due_date"`
	Note                  *string   `json:"note"`
	CommittedAt           Timestamp `json:"committed_at"`
}

// EconomicEvent records something that actually happened to a resource.
// Maps to zome_gouvernance_integrity::EconomicEvent.
type EconomicEvent struct {
	Action                VfAction  `json:"action"`
	Provider              Hash      `json:"provider"`
	Receiver              Hash      `json:"receiver"`
	ResourceInventoriedAs Hash      `json:"resource_inventoried_as"`
	Affects               Hash      `json:"affects"`
	ResourceQuantity      float64   `json:"resource_quantity"`
	EventTime             Timestamp `json:"event_time"`
	Note                  *string   `json:"note"`
}

// Claim links a commitment to the event that fulfilled it.
type Claim struct {
	Fulfills    Hash      `json:"fulfills"`
	FulfilledBy Hash      `json:"fulfilled_by"`
	ClaimedAt   Timestamp `json:"claimed_at"`
	Note        *string   `json:"note"`
}

// ValidationReceipt is one validator's verdict on an item.
type ValidationReceipt struct {
	Validator      Hash      `json:"validator"`
	ValidatedItem  Hash      `json:"validated_item"`
	ValidationType string    `json:"validation_type"`
	Approved       bool      `json:"approved"`
	Notes          *string   `json:"notes"`
	ValidatedAt    Timestamp `json:"validated_at"`
}

// ResourceValidation tracks the multi-validator review of a resource.
// Status is one of "pending", "approved" or "rejected".
type ResourceValidation struct {
	Resource           Hash      `json:"resource"`
	ValidationScheme   string    `json:"validation_scheme"`
	RequiredValidators int       `json:"required_validators"`
	CurrentValidators  int       `json:"current_validators"`
	Status             string    `json:"status"`
	CreatedAt          Timestamp `json:"created_at"`
	UpdatedAt          Timestamp `json:"updated_at"`
}

// PerformanceMetrics scores a participant. All scores are in [0, 1].
type PerformanceMetrics struct {
	Timeliness          float64 `json:"timeliness"`
	Quality             float64 `json:"quality"`
	Reliability         float64 `json:"reliability"`
	Communication       float64 `json:"communication"`
	OverallSatisfaction float64 `json:"overall_satisfaction"`
	Notes               *string `json:"notes"`
}

// ReputationSummary aggregates an agent's participation claims over a period.
type ReputationSummary struct {
	TotalClaims        int       `json:"total_claims"`
	AveragePerformance float64   `json:"average_performance"`
	CreationClaims     int       `json:"creation_claims"`
	CustodyClaims      int       `json:"custody_claims"`
	ServiceClaims      int       `json:"service_claims"`
	GovernanceClaims   int       `json:"governance_claims"`
	EndOfLifeClaims    int       `json:"end_of_life_claims"`
	PeriodStart        Timestamp `json:"period_start"`
	PeriodEnd          Timestamp `json:"period_end"`
	Agent              Hash      `json:"agent"`
	GeneratedAt        Timestamp `json:"generated_at"`
}

// ProposeCommitmentInput is the payload of propose_commitment.
type ProposeCommitmentInput struct {
	Action           VfAction  `json:"action"`
	ResourceHash     *Hash     `json:"resource_hash"`
	ResourceSpecHash *Hash     `json:"resource_spec_hash"`
	Provider         Hash      `json:"provider"`
	DueDate          Timestamp `json:"due_date"`
	Note             *string   `json:"note"`
}

// ClaimCommitmentInput is the payload of claim_commitment.
type ClaimCommitmentInput struct {
	CommitmentHash  Hash    `json:"commitment_hash"`
	FulfillmentNote *string `json:"fulfillment_note"`
}

// LogEconomicEventInput is the payload of log_economic_event.
// Setting CommitmentHash marks the commitment fulfilled; GeneratePPRs asks the
// ledger to issue participation receipts for both parties.
type LogEconomicEventInput struct {
	Action                VfAction `json:"action"`
	Provider              Hash     `json:"provider"`
	Receiver              Hash     `json:"receiver"`
	ResourceInventoriedAs Hash     `json:"resource_inventoried_as"`
	ResourceQuantity      float64  `json:"resource_quantity"`
	Note                  *string  `json:"note"`
	CommitmentHash        *Hash    `json:"commitment_hash"`
	GeneratePPRs          *bool    `json:"generate_pprs"`
}

// LogInitialTransferInput is the payload of log_initial_transfer.
type LogInitialTransferInput struct {
	ResourceHash Hash    `json:"resource_hash"`
	Receiver     Hash    `json:"receiver"`
	Quantity     float64 `json:"quantity"`
}

// CreateValidationReceiptInput is the payload of create_validation_receipt.
type CreateValidationReceiptInput struct {
	ValidatedItem  Hash    `json:"validated_item"`
	ValidationType string  `json:"validation_type"`
	Approved       bool    `json:"approved"`
	Notes          *string `json:"notes"`
}

// CreateResourceValidationInput is the payload of create_resource_validation.
type CreateResourceValidationInput struct {
	Resource           Hash   `json:"resource"`
	ValidationScheme   string `json:"validation_scheme"`
	RequiredValidators int    `json:"required_validators"`
}

// IssueParticipationReceiptsInput is the payload of issue_participation_receipts.
type IssueParticipationReceiptsInput struct {
	Fulfills        Hash                     `json:"fulfills"`
	FulfilledBy     Hash                     `json:"fulfilled_by"`
	Provider        Hash                     `json:"provider"`
	Receiver        Hash                     `json:"receiver"`
	ClaimTypes      []ParticipationClaimType `json:"claim_types"`
	ProviderMetrics PerformanceMetrics       `json:"provider_metrics"`
	ReceiverMetrics PerformanceMetrics       `json:"receiver_metrics"`
	ResourceHash    *Hash                    `json:"resource_hash"`
	Notes           *string                  `json:"notes"`
}

// DeriveReputationSummaryInput is the payload of derive_reputation_summary.
// A nil ClaimTypeFilter includes every claim type.
type DeriveReputationSummaryInput struct {
	PeriodStart     Timestamp                `json:"period_start"`
	PeriodEnd       Timestamp                `json:"period_end"`
	ClaimTypeFilter []ParticipationClaimType `json:"claim_type_filter"`
}

// ProposeCommitmentOutput is returned by propose_commitment.
type ProposeCommitmentOutput struct {
	CommitmentHash Hash       `json:"commitment_hash"`
	Commitment     Commitment `json:"commitment"`
}

// ClaimCommitmentOutput is returned by claim_commitment.
type ClaimCommitmentOutput struct {
	ClaimHash Hash  `json:"claim_hash"`
	Claim     Claim `json:"claim"`
}

// LogEconomicEventOutput is returned by log_economic_event.
// PPRClaims holds the nested receipt output when receipts were generated.
type LogEconomicEventOutput struct {
	EventHash Hash          `json:"event_hash"`
	Event     EconomicEvent `json:"event"`
	PPRClaims Blob          `json:"ppr_claims,omitempty"`
}

// LogInitialTransferOutput is returned by log_initial_transfer.
type LogInitialTransferOutput struct {
	EventHash Hash          `json:"event_hash"`
	Event     EconomicEvent `json:"event"`
	PPRClaims Blob          `json:"ppr_claims,omitempty"`
}

// CreateValidationReceiptOutput is returned by create_validation_receipt.
type CreateValidationReceiptOutput struct {
	ReceiptHash Hash              `json:"receipt_hash"`
	Receipt     ValidationReceipt `json:"receipt"`
}

// CreateResourceValidationOutput is returned by create_resource_validation.
type CreateResourceValidationOutput struct {
	ValidationHash Hash               `json:"validation_hash"`
	Validation     ResourceValidation `json:"validation"`
}

// IssueParticipationReceiptsOutput is returned by issue_participation_receipts.
// The claims carry cryptographic signatures and are kept opaque.
type IssueParticipationReceiptsOutput struct {
	ProviderClaimHash Hash `json:"provider_claim_hash"`
	ReceiverClaimHash Hash `json:"receiver_claim_hash"`
	ProviderClaim     Blob `json:"provider_claim,omitempty"`
	ReceiverClaim     Blob `json:"receiver_claim,omitempty"`
}

// DeriveReputationSummaryOutput is returned by derive_reputation_summary.
type DeriveReputationSummaryOutput struct {
	Summary        ReputationSummary `json:"summary"`
	ClaimsIncluded int               `json:"claims_included"`
}
