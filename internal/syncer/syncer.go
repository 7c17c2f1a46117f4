// Package syncer pushes available ERP items to the ledger.
//
// For each available item not yet recorded in the sync state, the syncer
// creates a resource specification and then an economic resource linked to
// it. An item is recorded only when both creations succeed. Failures are
// collected per item and never stop the run. The state is persisted once,
// after every item has been attempted.
//
// A specification whose resource creation failed stays on the ledger without
// a record; the next run creates a fresh specification for that item.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/erpbridge/internal/erp"
	"github.com/roach88/erpbridge/internal/mapper"
	"github.com/roach88/erpbridge/internal/model"
	"github.com/roach88/erpbridge/internal/store"
)

// Gateway is the part of the ledger client the syncer uses.
// *gateway.Client satisfies it.
type Gateway interface {
	CreateResourceSpecification(ctx context.Context, in model.ResourceSpecificationInput) (*model.CreateResourceSpecificationOutput, error)
	CreateEconomicResource(ctx context.Context, in model.EconomicResourceInput) (*model.CreateEconomicResourceOutput, error)
}

// Result summarizes one run.
type Result struct {
	RunID            string   `json:"run_id"`
	SpecsCreated     int      `json:"specs_created"`
	ResourcesCreated int      `json:"resources_created"`
	Skipped          int      `json:"skipped"`
	Errors           []string `json:"errors"`
}

// TotalProcessed counts the items the run touched: specifications created,
// items skipped, and items that failed.
func (r *Result) TotalProcessed() int {
	return r.SpecsCreated + r.Skipped + len(r.Errors)
}

// HasErrors reports whether any item failed.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Syncer runs the ERP to ledger sync.
type Syncer struct {
	source  erp.Source
	gw      Gateway
	backend store.Backend
	state   store.State

	logger *slog.Logger
	runIDs RunIDGenerator
	now    func() time.Time
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Syncer) { s.logger = l }
}

// WithRunIDGenerator replaces the UUIDv7 run ID generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(s *Syncer) { s.runIDs = g }
}

// WithClock replaces time.Now for run history timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

// New loads the sync state from backend and returns a ready Syncer.
func New(ctx context.Context, source erp.Source, gw Gateway, backend store.Backend, opts ...Option) (*Syncer, error) {
	if source == nil || gw == nil || backend == nil {
		return nil, errors.New("syncer: source, gateway and backend are required")
	}
	s := &Syncer{
		source:  source,
		gw:      gw,
		backend: backend,
		logger:  slog.Default(),
		runIDs:  UUIDv7Generator{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("syncer: %w", err)
	}
	if state == nil {
		state = store.State{}
	}
	s.state = state
	return s, nil
}

// State returns a copy of the in-memory sync state.
func (s *Syncer) State() store.State {
	return s.state.Clone()
}

// Run syncs every available item once.
//
// The returned error is non-nil only when the item source cannot be read or
// the state cannot be saved. In the latter case the Result is still returned
// and describes the ledger writes that did happen.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	started := s.now()
	result := &Result{RunID: s.runIDs.Generate(), Errors: []string{}}
	log := s.logger.With("run_id", result.RunID)

	items, err := erp.Available(ctx, s.source)
	if err != nil {
		return nil, fmt.Errorf("sync: %w", err)
	}
	log.Info("sync started", "available", len(items), "recorded", len(s.state))

	for _, it := range items {
		s.syncItem(ctx, log, it, result)
	}

	// Items created before a cancellation must still be recorded, or the
	// next run would create them again.
	persistCtx := context.WithoutCancel(ctx)
	if err := s.backend.Save(persistCtx, s.state); err != nil {
		log.Error("saving sync state failed", "error", err)
		return result, fmt.Errorf("sync: %w", err)
	}

	if rec, ok := s.backend.(store.RunRecorder); ok {
		run := store.Run{
			ID:               result.RunID,
			StartedAt:        started,
			FinishedAt:       s.now(),
			SpecsCreated:     result.SpecsCreated,
			ResourcesCreated: result.ResourcesCreated,
			Skipped:          result.Skipped,
			ErrorCount:       len(result.Errors),
		}
		if err := rec.RecordRun(persistCtx, run); err != nil {
			// State is saved; a history failure is only logged.
			log.Warn("recording run history failed", "error", err)
		}
	}

	log.Info("sync finished",
		"specs_created", result.SpecsCreated,
		"resources_created", result.ResourcesCreated,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

func (s *Syncer) syncItem(ctx context.Context, log *slog.Logger, it erp.Item, result *Result) {
	key := it.Key()
	log = log.With("item_id", it.ID, "item_name", it.Name)

	if s.state.Has(key) {
		log.Info("skipping already-synced item")
		result.Skipped++
		return
	}

	spec, err := s.gw.CreateResourceSpecification(ctx, mapper.ToResourceSpecification(it))
	if err == nil && spec.SpecHash.IsZero() {
		err = errMissingHash("spec_hash")
	}
	if err != nil {
		msg := fmt.Sprintf("%s: specification creation failed: %v", it, err)
		log.Error("specification creation failed", "error", err)
		result.Errors = append(result.Errors, msg)
		return
	}
	result.SpecsCreated++

	resource, err := s.gw.CreateEconomicResource(ctx, mapper.ToEconomicResource(it, spec.SpecHash))
	if err == nil && resource.ResourceHash.IsZero() {
		err = errMissingHash("resource_hash")
	}
	if err != nil {
		msg := fmt.Sprintf("%s: resource creation failed: %v", it, err)
		log.Error("resource creation failed", "spec_hash", spec.SpecHash, "error", err)
		result.Errors = append(result.Errors, msg)
		return
	}
	result.ResourcesCreated++

	s.state.Put(key, store.Record{SpecHash: spec.SpecHash, ResourceHash: resource.ResourceHash})
	log.Info("item synced", "spec_hash", spec.SpecHash, "resource_hash", resource.ResourceHash)
}

func errMissingHash(field string) error {
	return fmt.Errorf("gateway response has no %s", field)
}
