package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceState_WireValues(t *testing.T) {
	tests := map[ResourceState]string{
		StatePendingValidation: `"PendingValidation"`,
		StateActive:            `"Active"`,
		StateMaintenance:       `"Maintenance"`,
		StateRetired:           `"Retired"`,
		StateReserved:          `"Reserved"`,
	}
	require.Len(t, ResourceStates, len(tests))
	for state, wire := range tests {
		data, err := json.Marshal(state)
		require.NoError(t, err)
		assert.Equal(t, wire, string(data))

		var decoded ResourceState
		require.NoError(t, json.Unmarshal([]byte(wire), &decoded))
		assert.Equal(t, state, decoded)
	}
}

func TestVfAction_WireValues(t *testing.T) {
	tests := map[VfAction]string{
		ActionTransfer:        "Transfer",
		ActionMove:            "Move",
		ActionUse:             "Use",
		ActionConsume:         "Consume",
		ActionProduce:         "Produce",
		ActionWork:            "Work",
		ActionModify:          "Modify",
		ActionCombine:         "Combine",
		ActionSeparate:        "Separate",
		ActionRaise:           "Raise",
		ActionLower:           "Lower",
		ActionCite:            "Cite",
		ActionAccept:          "Accept",
		ActionInitialTransfer: "InitialTransfer",
		ActionAccessForUse:    "AccessForUse",
		ActionTransferCustody: "TransferCustody",
	}
	require.Len(t, VfActions, len(tests))
	for action, wire := range tests {
		parsed, err := ParseVfAction(wire)
		require.NoError(t, err)
		assert.Equal(t, action, parsed)
		assert.True(t, action.Valid())
	}
}

func TestParticipationClaimType_AllValid(t *testing.T) {
	assert.Len(t, ParticipationClaimTypes, 16)
	for _, c := range ParticipationClaimTypes {
		parsed, err := ParseParticipationClaimType(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestEnums_RejectUnknownValues(t *testing.T) {
	var state ResourceState
	err := json.Unmarshal([]byte(`"Broken"`), &state)
	require.Error(t, err)
	var enumErr *EnumError
	require.True(t, errors.As(err, &enumErr))
	assert.Equal(t, "ResourceState", enumErr.Enum)
	assert.Equal(t, "Broken", enumErr.Value)

	var action VfAction
	assert.Error(t, json.Unmarshal([]byte(`"use"`), &action), "wire values are case sensitive")

	_, err = ParseParticipationClaimType("Nope")
	assert.Error(t, err)

	_, err = json.Marshal(ResourceState("Gone"))
	assert.True(t, errors.As(err, &enumErr))

	_, err = json.Marshal(ProposeCommitmentInput{Action: ""})
	assert.Error(t, err, "an unset action must not reach the wire")
}

func TestEconomicResource_DefaultsToPendingValidation(t *testing.T) {
	var r EconomicResource
	require.NoError(t, json.Unmarshal([]byte(`{"quantity":1,"unit":"kg","custodian":"u__79"}`), &r))
	assert.Equal(t, StatePendingValidation, r.State)
	assert.Nil(t, r.CurrentLocation)
}

func TestResourceSpecification_Defaults(t *testing.T) {
	var s ResourceSpecification
	require.NoError(t, json.Unmarshal([]byte(`{"name":"n","description":"d","category":"c"}`), &s))
	assert.True(t, s.IsActive)
	assert.Equal(t, []string{}, s.Tags)
	assert.Nil(t, s.ImageURL)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"n","description":"d","category":"c","is_active":false}`), &s))
	assert.False(t, s.IsActive)
}
