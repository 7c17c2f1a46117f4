package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip[T any](t *testing.T, in T) T {
	t.Helper()
	data, err := json.Marshal(in)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func strPtr(s string) *string { return &s }

func TestRoundTrip_RequestsKeepUnsetOptionals(t *testing.T) {
	spec := ResourceSpecificationInput{
		Name:            "Prusa MK4",
		Description:     "FDM printer",
		Category:        "equipment",
		Tags:            []string{"fab-lab"},
		GovernanceRules: []GovernanceRuleInput{{RuleType: "access", RuleData: "members-only"}},
	}
	gotSpec := roundTrip(t, spec)
	assert.Equal(t, spec, gotSpec)
	assert.Nil(t, gotSpec.ImageURL)
	assert.Nil(t, gotSpec.GovernanceRules[0].EnforcedBy)

	resource := EconomicResourceInput{SpecHash: "uhCkkAQID", Quantity: 2.5, Unit: "kg"}
	gotResource := roundTrip(t, resource)
	assert.Equal(t, resource, gotResource)
	assert.Nil(t, gotResource.CurrentLocation)

	commit := ProposeCommitmentInput{
		Action:       ActionUse,
		ResourceHash: HashPtr("uhCkkAQID"),
		Provider:     "u__79",
		DueDate:      1700000000000000,
	}
	gotCommit := roundTrip(t, commit)
	assert.Equal(t, commit, gotCommit)
	assert.Nil(t, gotCommit.ResourceSpecHash)
	assert.Nil(t, gotCommit.Note)

	generate := true
	event := LogEconomicEventInput{
		Action:                ActionUse,
		Provider:              "u__79",
		Receiver:              "uhCkkAQID",
		ResourceInventoriedAs: "uhCkkAQID",
		ResourceQuantity:      1,
		Note:                  strPtr("weekend job"),
		GeneratePPRs:          &generate,
	}
	gotEvent := roundTrip(t, event)
	assert.Equal(t, event, gotEvent)
	assert.Nil(t, gotEvent.CommitmentHash)
}

func TestRoundTrip_SpecificationInputEncodesEmptyLists(t *testing.T) {
	data, err := json.Marshal(ResourceSpecificationInput{Name: "n", Description: "d", Category: "c"})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"name":"n","description":"d","category":"c","image_url":null,"tags":[],"governance_rules":[]}`,
		string(data))
}

func TestRoundTrip_Responses(t *testing.T) {
	specOut := CreateResourceSpecificationOutput{
		SpecHash: "uhCkkAQID",
		Spec: ResourceSpecification{
			Name: "Printer", Description: "3D printer", Category: "equipment",
			ImageURL: strPtr("https://example.org/p.png"), Tags: []string{"fab-lab"}, IsActive: true,
		},
		GovernanceRuleHashes: []Hash{"u__79"},
	}
	assert.Equal(t, specOut, roundTrip(t, specOut))

	eventOut := LogEconomicEventOutput{
		EventHash: "uhCkkAQID",
		Event: EconomicEvent{
			Action: ActionUse, Provider: "u__79", Receiver: "u__79",
			ResourceInventoriedAs: "uhCkkAQID", Affects: "uhCkkAQID",
			ResourceQuantity: 1, EventTime: 1700000000000000,
		},
	}
	gotEvent := roundTrip(t, eventOut)
	assert.Equal(t, eventOut, gotEvent)
	assert.True(t, gotEvent.PPRClaims.IsNull())

	withClaims := eventOut
	withClaims.PPRClaims = Blob(`{"provider_claim_hash":"u__79"}`)
	gotClaims := roundTrip(t, withClaims)
	assert.JSONEq(t, `{"provider_claim_hash":"u__79"}`, string(gotClaims.PPRClaims))

	var claims IssueParticipationReceiptsOutput
	require.NoError(t, gotClaims.PPRClaims.Decode(&claims))
	assert.Equal(t, Hash("u__79"), claims.ProviderClaimHash)
}

func TestBlob_NullHandling(t *testing.T) {
	var out LogEconomicEventOutput
	require.NoError(t, json.Unmarshal([]byte(`{"event_hash":"u__79","event":{"action":"Use","provider":"u__79","receiver":"u__79","resource_inventoried_as":"u__79","affects":"u__79","resource_quantity":1,"event_time":1,"note":null},"ppr_claims":null}`), &out))
	assert.True(t, out.PPRClaims.IsNull())
	assert.Error(t, out.PPRClaims.Decode(&struct{}{}))

	data, err := json.Marshal(Blob(nil))
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}
