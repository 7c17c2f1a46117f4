// Package useprocess drives the two-step "Use" governance workflow: propose a
// Use commitment for a resource, then log the Use event that fulfils it.
package useprocess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/erpbridge/internal/model"
)

// Gateway is the part of the ledger client the workflow calls.
// *gateway.Client satisfies it.
type Gateway interface {
	ProposeCommitment(ctx context.Context, in model.ProposeCommitmentInput) (*model.ProposeCommitmentOutput, error)
	LogEconomicEvent(ctx context.Context, in model.LogEconomicEventInput) (*model.LogEconomicEventOutput, error)
}

// Request describes one use of a resource.
type Request struct {
	ResourceHash model.Hash
	Provider     model.Hash
	Receiver     model.Hash
	Quantity     float64
	DueDate      model.Timestamp

	// SkipReceipts disables participation receipt generation on the event.
	SkipReceipts bool

	CommitmentNote *string
	EventNote      *string
}

// Result holds both workflow outputs.
type Result struct {
	Commitment *model.ProposeCommitmentOutput `json:"commitment"`
	Event      *model.LogEconomicEventOutput  `json:"event"`
}

// EventOptions are the optional fields of RecordUse.
type EventOptions struct {
	CommitmentHash *model.Hash
	// GeneratePPRs defaults to true when nil.
	GeneratePPRs *bool
	Note         *string
}

// Process runs the Use workflow.
type Process struct {
	gw     Gateway
	logger *slog.Logger
}

// New returns a Process calling through gw. A nil logger uses slog.Default().
func New(gw Gateway, logger *slog.Logger) *Process {
	if logger == nil {
		logger = slog.Default()
	}
	return &Process{gw: gw, logger: logger}
}

// RequestUse proposes a Use commitment on resourceHash from provider.
func (p *Process) RequestUse(ctx context.Context, resourceHash, provider model.Hash, due model.Timestamp, note *string) (*model.ProposeCommitmentOutput, error) {
	out, err := p.gw.ProposeCommitment(ctx, model.ProposeCommitmentInput{
		Action:       model.ActionUse,
		ResourceHash: model.HashPtr(resourceHash),
		Provider:     provider,
		DueDate:      due,
		Note:         note,
	})
	if err != nil {
		return nil, fmt.Errorf("request use: %w", err)
	}
	return out, nil
}

// RecordUse logs a Use event. Receipts are generated unless opts disables them.
func (p *Process) RecordUse(ctx context.Context, resourceHash, provider, receiver model.Hash, quantity float64, opts EventOptions) (*model.LogEconomicEventOutput, error) {
	generate := true
	if opts.GeneratePPRs != nil {
		generate = *opts.GeneratePPRs
	}
	out, err := p.gw.LogEconomicEvent(ctx, model.LogEconomicEventInput{
		Action:                model.ActionUse,
		Provider:              provider,
		Receiver:              receiver,
		ResourceInventoriedAs: resourceHash,
		ResourceQuantity:      quantity,
		Note:                  opts.Note,
		CommitmentHash:        opts.CommitmentHash,
		GeneratePPRs:          &generate,
	})
	if err != nil {
		return nil, fmt.Errorf("record use: %w", err)
	}
	return out, nil
}

// Execute proposes the commitment, then logs the event fulfilling it.
// If the event fails the commitment stays on the ledger unfulfilled.
func (p *Process) Execute(ctx context.Context, req Request) (*Result, error) {
	log := p.logger.With("resource", req.ResourceHash)

	commitment, err := p.RequestUse(ctx, req.ResourceHash, req.Provider, req.DueDate, req.CommitmentNote)
	if err != nil {
		return nil, err
	}
	log.Info("use commitment proposed", "commitment_hash", commitment.CommitmentHash)

	generate := !req.SkipReceipts
	event, err := p.RecordUse(ctx, req.ResourceHash, req.Provider, req.Receiver, req.Quantity, EventOptions{
		CommitmentHash: &commitment.CommitmentHash,
		GeneratePPRs:   &generate,
		Note:           req.EventNote,
	})
	if err != nil {
		log.Error("use event failed; commitment left unfulfilled",
			"commitment_hash", commitment.CommitmentHash, "error", err)
		return nil, err
	}
	log.Info("use event logged", "event_hash", event.EventHash, "receipts", !event.PPRClaims.IsNull())

	return &Result{Commitment: commitment, Event: event}, nil
}
