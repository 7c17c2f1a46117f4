package gateway

import (
	"context"

	"github.com/roach88/erpbridge/internal/model"
)

// ProposeCommitment proposes a future economic event.
func (c *Client) ProposeCommitment(ctx context.Context, in model.ProposeCommitmentInput) (*model.ProposeCommitmentOutput, error) {
	out, err := call[model.ProposeCommitmentOutput](ctx, c, ZomeGovernance, "propose_commitment", in)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetAllCommitments(ctx context.Context) ([]model.Commitment, error) {
	return call[[]model.Commitment](ctx, c, ZomeGovernance, "get_all_commitments", nil)
}

func (c *Client) GetCommitmentsForAgent(ctx context.Context, agent model.Hash) ([]model.Commitment, error) {
	return call[[]model.Commitment](ctx, c, ZomeGovernance, "get_commitments_for_agent", agent)
}

// ClaimCommitment records that a commitment was fulfilled.
func (c *Client) ClaimCommitment(ctx context.Context, in model.ClaimCommitmentInput) (*model.ClaimCommitmentOutput, error) {
	out, err := call[model.ClaimCommitmentOutput](ctx, c, ZomeGovernance, "claim_commitment", in)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetAllClaims(ctx context.Context) (model.Blob, error) {
	return call[model.Blob](ctx, c, ZomeGovernance, "get_all_claims", nil)
}

func (c *Client) GetClaimsForCommitment(ctx context.Context, commitmentHash model.Hash) (model.Blob, error) {
	return call[model.Blob](ctx, c, ZomeGovernance, "get_claims_for_commitment", commitmentHash)
}

// LogEconomicEvent records an event, optionally fulfilling a commitment and
// issuing participation receipts.
func (c *Client) LogEconomicEvent(ctx context.Context, in model.LogEconomicEventInput) (*model.LogEconomicEventOutput, error) {
	out, err := call[model.LogEconomicEventOutput](ctx, c, ZomeGovernance, "log_economic_event", in)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LogInitialTransfer records the first transfer of a newly created resource.
func (c *Client) LogInitialTransfer(ctx context.Context, in model.LogInitialTransferInput) (*model.LogInitialTransferOutput, error) {
	out, err := call[model.LogInitialTransferOutput](ctx, c, ZomeGovernance, "log_initial_transfer", in)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetAllEconomicEvents(ctx context.Context) (model.Blob, error) {
	return call[model.Blob](ctx, c, ZomeGovernance, "get_all_economic_events", nil)
}

func (c *Client) GetEventsForResource(ctx context.Context, resourceHash model.Hash) (model.Blob, error) {
	return call[model.Blob](ctx, c, ZomeGovernance, "get_events_for_resource", resourceHash)
}

func (c *Client) GetEventsForAgent(ctx context.Context, agent model.Hash) (model.Blob, error) {
	return call[model.Blob](ctx, c, ZomeGovernance, "get_events_for_agent", agent)
}

func (c *Client) CreateValidationReceipt(ctx context.Context, in model.CreateValidationReceiptInput) (*model.CreateValidationReceiptOutput, error) {
	out, err := call[model.CreateValidationReceiptOutput](ctx, c, ZomeGovernance, "create_validation_receipt", in)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetValidationHistory(ctx context.Context, item model.Hash) ([]model.ValidationReceipt, error) {
	return call[[]model.ValidationReceipt](ctx, c, ZomeGovernance, "get_validation_history", item)
}

func (c *Client) GetAllValidationReceipts(ctx context.Context) ([]model.ValidationReceipt, error) {
	return call[[]model.ValidationReceipt](ctx, c, ZomeGovernance, "get_all_validation_receipts", nil)
}

func (c *Client) CreateResourceValidation(ctx context.Context, in model.CreateResourceValidationInput) (*model.CreateResourceValidationOutput, error) {
	out, err := call[model.CreateResourceValidationOutput](ctx, c, ZomeGovernance, "create_resource_validation", in)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CheckValidationStatus(ctx context.Context, validationHash model.Hash) (model.Blob, error) {
	return call[model.Blob](ctx, c, ZomeGovernance, "check_validation_status", validationHash)
}

// IssueParticipationReceipts issues private participation receipts to both
// parties of a fulfilled commitment.
func (c *Client) IssueParticipationReceipts(ctx context.Context, in model.IssueParticipationReceiptsInput) (*model.IssueParticipationReceiptsOutput, error) {
	out, err := call[model.IssueParticipationReceiptsOutput](ctx, c, ZomeGovernance, "issue_participation_receipts", in)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetMyParticipationClaims(ctx context.Context) (model.Blob, error) {
	return call[model.Blob](ctx, c, ZomeGovernance, "get_my_participation_claims", nil)
}

// DeriveReputationSummary aggregates the caller's claims over a period.
func (c *Client) DeriveReputationSummary(ctx context.Context, in model.DeriveReputationSummaryInput) (*model.DeriveReputationSummaryOutput, error) {
	out, err := call[model.DeriveReputationSummaryOutput](ctx, c, ZomeGovernance, "derive_reputation_summary", in)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
