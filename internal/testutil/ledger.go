package testutil

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/roach88/erpbridge/internal/model"
)

// Hash kinds used when minting fake ledger hashes (first byte after the prefix).
const (
	kindSpec byte = iota + 1
	kindResource
	kindCommitment
	kindEvent
	kindClaim
)

// TestAgent is the agent key the fake ledger uses as caller and custodian.
var TestAgent = model.HashFromBytes([]byte{0x84, 0x20, 0x24, 0xAA, 0x01})

// FixedNow is the timestamp stamped on every fake ledger entry.
const FixedNow model.Timestamp = 1767225600000000 // 2026-01-01T00:00:00Z

// Ledger is an in-memory stand-in for the ledger behind a FakeGateway.
// Hashes are minted sequentially so tests are deterministic.
type Ledger struct {
	mu        sync.Mutex
	seq       int
	specs     []ledgerSpec
	resources []ledgerResource
}

type ledgerSpec struct {
	hash model.Hash
	spec model.ResourceSpecification
}

type ledgerResource struct {
	hash     model.Hash
	specHash model.Hash
	resource model.EconomicResource
}

// InstallLedger registers ledger-backed responders on g and returns the ledger.
func InstallLedger(g *FakeGateway) *Ledger {
	l := &Ledger{}
	g.Handle("create_resource_specification", l.createSpec)
	g.Handle("get_all_resource_specifications", l.allSpecs)
	g.Handle("get_resource_specification_with_rules", l.specWithRules)
	g.Handle("get_resource_specifications_by_category", l.specsByCategory)
	g.Handle("create_economic_resource", l.createResource)
	g.Handle("get_all_economic_resources", l.allResources)
	g.Handle("get_resources_by_specification", l.resourcesBySpec)
	g.Handle("propose_commitment", l.proposeCommitment)
	g.Handle("log_economic_event", l.logEvent)
	return l
}

// SpecCount returns the number of specifications created so far.
func (l *Ledger) SpecCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.specs)
}

// ResourceCount returns the number of resources created so far.
func (l *Ledger) ResourceCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.resources)
}

// mint returns the next deterministic hash of the given kind. Callers hold mu.
func (l *Ledger) mint(kind byte) model.Hash {
	l.seq++
	return model.HashFromBytes([]byte{0x84, 0x29, 0x24, kind, byte(l.seq >> 8), byte(l.seq)})
}

func badRequest(err error) (int, any) {
	return http.StatusBadRequest, map[string]string{"error": err.Error()}
}

func (l *Ledger) createSpec(call GatewayCall) (int, any) {
	var in model.ResourceSpecificationInput
	if err := call.Decode(&in); err != nil {
		return badRequest(err)
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	spec := model.ResourceSpecification{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		Tags:        tags,
		IsActive:    true,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	hash := l.mint(kindSpec)
	l.specs = append(l.specs, ledgerSpec{hash: hash, spec: spec})

	ruleHashes := make([]model.Hash, len(in.GovernanceRules))
	for i := range in.GovernanceRules {
		ruleHashes[i] = l.mint(kindSpec)
	}
	return http.StatusOK, model.CreateResourceSpecificationOutput{
		SpecHash:             hash,
		Spec:                 spec,
		GovernanceRuleHashes: ruleHashes,
	}
}

func (l *Ledger) allSpecs(GatewayCall) (int, any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := model.GetAllResourceSpecificationsOutput{Specifications: []model.ResourceSpecification{}}
	for _, s := range l.specs {
		out.Specifications = append(out.Specifications, s.spec)
	}
	return http.StatusOK, out
}

func (l *Ledger) specWithRules(call GatewayCall) (int, any) {
	var hash model.Hash
	if err := call.Decode(&hash); err != nil {
		return badRequest(err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.specs {
		if s.hash == hash {
			return http.StatusOK, model.GetResourceSpecWithRulesOutput{
				Specification:   s.spec,
				GovernanceRules: []model.GovernanceRule{},
			}
		}
	}
	return http.StatusInternalServerError, map[string]string{"error": "specification not found"}
}

func (l *Ledger) specsByCategory(call GatewayCall) (int, any) {
	var category string
	if err := call.Decode(&category); err != nil {
		return badRequest(err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []model.ResourceSpecification{}
	for _, s := range l.specs {
		if s.spec.Category == category {
			out = append(out, s.spec)
		}
	}
	return http.StatusOK, out
}

func (l *Ledger) createResource(call GatewayCall) (int, any) {
	var in model.EconomicResourceInput
	if err := call.Decode(&in); err != nil {
		return badRequest(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	known := false
	for _, s := range l.specs {
		if s.hash == in.SpecHash {
			known = true
			break
		}
	}
	if !known {
		return http.StatusInternalServerError, map[string]string{"error": "specification not found"}
	}

	resource := model.EconomicResource{
		Quantity:        in.Quantity,
		Unit:            in.Unit,
		Custodian:       TestAgent,
		CurrentLocation: in.CurrentLocation,
		State:           model.StatePendingValidation,
	}
	hash := l.mint(kindResource)
	l.resources = append(l.resources, ledgerResource{hash: hash, specHash: in.SpecHash, resource: resource})
	return http.StatusOK, model.CreateEconomicResourceOutput{ResourceHash: hash, Resource: resource}
}

func (l *Ledger) allResources(GatewayCall) (int, any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := model.GetAllEconomicResourcesOutput{Resources: []model.EconomicResource{}}
	for _, r := range l.resources {
		out.Resources = append(out.Resources, r.resource)
	}
	return http.StatusOK, out
}

func (l *Ledger) resourcesBySpec(call GatewayCall) (int, any) {
	var hash model.Hash
	if err := call.Decode(&hash); err != nil {
		return badRequest(err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []model.EconomicResource{}
	for _, r := range l.resources {
		if r.specHash == hash {
			out = append(out, r.resource)
		}
	}
	return http.StatusOK, out
}

func (l *Ledger) proposeCommitment(call GatewayCall) (int, any) {
	var in model.ProposeCommitmentInput
	if err := call.Decode(&in); err != nil {
		return badRequest(err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return http.StatusOK, model.ProposeCommitmentOutput{
		CommitmentHash: l.mint(kindCommitment),
		Commitment: model.Commitment{
			Action:                in.Action,
			Provider:              in.Provider,
			Receiver:              TestAgent,
			ResourceInventoriedAs: in.ResourceHash,
			ResourceConformsTo:    in.ResourceSpecHash,
			DueDate:               in.DueDate,
			Note:                  in.Note,
			CommittedAt:           FixedNow,
		},
	}
}

func (l *Ledger) logEvent(call GatewayCall) (int, any) {
	var in model.LogEconomicEventInput
	if err := call.Decode(&in); err != nil {
		return badRequest(err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := model.LogEconomicEventOutput{
		EventHash: l.mint(kindEvent),
		Event: model.EconomicEvent{
			Action:                in.Action,
			Provider:              in.Provider,
			Receiver:              in.Receiver,
			ResourceInventoriedAs: in.ResourceInventoriedAs,
			Affects:               in.ResourceInventoriedAs,
			ResourceQuantity:      in.ResourceQuantity,
			EventTime:             FixedNow,
			Note:                  in.Note,
		},
	}
	if in.CommitmentHash != nil && in.GeneratePPRs != nil && *in.GeneratePPRs {
		claims, _ := json.Marshal(model.IssueParticipationReceiptsOutput{
			ProviderClaimHash: l.mint(kindClaim),
			ReceiverClaimHash: l.mint(kindClaim),
		})
		out.PPRClaims = model.Blob(claims)
	}
	return http.StatusOK, out
}
