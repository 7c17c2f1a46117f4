package useprocess_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/erpbridge/internal/gateway"
	"github.com/roach88/erpbridge/internal/model"
	"github.com/roach88/erpbridge/internal/testutil"
	"github.com/roach88/erpbridge/internal/useprocess"
)

var (
	resourceHash = model.Hash("uhCkkAQID")
	provider     = model.HashFromBytes([]byte{0x84, 0x20, 0x24, 1})
	receiver     = model.HashFromBytes([]byte{0x84, 0x20, 0x24, 2})
)

func newProcess(t *testing.T) (*useprocess.Process, *testutil.FakeGateway) {
	t.Helper()
	g := testutil.NewFakeGateway(t)
	testutil.InstallLedger(g)
	c, err := gateway.New(gateway.Config{URL: g.URL(), AppID: testutil.TestAppID, DNAHash: testutil.TestDNAHash})
	require.NoError(t, err)
	return useprocess.New(c, slog.New(slog.NewTextHandler(io.Discard, nil))), g
}

func TestRequestUse(t *testing.T) {
	p, g := newProcess(t)
	note := "weekend workshop"

	out, err := p.RequestUse(context.Background(), resourceHash, provider, testutil.FixedNow, &note)
	require.NoError(t, err)
	assert.False(t, out.CommitmentHash.IsZero())
	assert.Equal(t, model.ActionUse, out.Commitment.Action)

	calls := g.CallsTo("propose_commitment")
	require.Len(t, calls, 1)
	var sent model.ProposeCommitmentInput
	require.NoError(t, calls[0].Decode(&sent))
	assert.Equal(t, model.ActionUse, sent.Action)
	require.NotNil(t, sent.ResourceHash)
	assert.Equal(t, resourceHash, *sent.ResourceHash)
	assert.Nil(t, sent.ResourceSpecHash)
	assert.Equal(t, provider, sent.Provider)
	assert.Equal(t, testutil.FixedNow, sent.DueDate)
	require.NotNil(t, sent.Note)
	assert.Equal(t, note, *sent.Note)
}

func TestRecordUse_GeneratesReceiptsByDefault(t *testing.T) {
	p, g := newProcess(t)

	_, err := p.RecordUse(context.Background(), resourceHash, provider, receiver, 1.5, useprocess.EventOptions{})
	require.NoError(t, err)

	var sent model.LogEconomicEventInput
	require.NoError(t, g.CallsTo("log_economic_event")[0].Decode(&sent))
	assert.Equal(t, model.ActionUse, sent.Action)
	assert.Equal(t, resourceHash, sent.ResourceInventoriedAs)
	assert.Equal(t, 1.5, sent.ResourceQuantity)
	assert.Nil(t, sent.CommitmentHash)
	require.NotNil(t, sent.GeneratePPRs)
	assert.True(t, *sent.GeneratePPRs)
}

func TestRecordUse_ReceiptsDisabled(t *testing.T) {
	p, g := newProcess(t)
	off := false

	_, err := p.RecordUse(context.Background(), resourceHash, provider, receiver, 1, useprocess.EventOptions{GeneratePPRs: &off})
	require.NoError(t, err)

	var sent model.LogEconomicEventInput
	require.NoError(t, g.CallsTo("log_economic_event")[0].Decode(&sent))
	require.NotNil(t, sent.GeneratePPRs)
	assert.False(t, *sent.GeneratePPRs)
}

func TestExecute(t *testing.T) {
	p, g := newProcess(t)

	result, err := p.Execute(context.Background(), useprocess.Request{
		ResourceHash: resourceHash,
		Provider:     provider,
		Receiver:     receiver,
		Quantity:     1,
		DueDate:      testutil.FixedNow,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Commitment)
	require.NotNil(t, result.Event)
	assert.False(t, result.Event.PPRClaims.IsNull())

	var claims model.IssueParticipationReceiptsOutput
	require.NoError(t, result.Event.PPRClaims.Decode(&claims))
	assert.False(t, claims.ProviderClaimHash.IsZero())

	// The event references the commitment it fulfils.
	var sent model.LogEconomicEventInput
	require.NoError(t, g.CallsTo("log_economic_event")[0].Decode(&sent))
	require.NotNil(t, sent.CommitmentHash)
	assert.Equal(t, result.Commitment.CommitmentHash, *sent.CommitmentHash)

	calls := g.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "propose_commitment", calls[0].Fn)
	assert.Equal(t, "log_economic_event", calls[1].Fn)
	assert.Equal(t, gateway.ZomeGovernance, calls[0].Zome)
}

func TestExecute_SkipReceipts(t *testing.T) {
	p, _ := newProcess(t)

	result, err := p.Execute(context.Background(), useprocess.Request{
		ResourceHash: resourceHash,
		Provider:     provider,
		Receiver:     receiver,
		Quantity:     1,
		SkipReceipts: true,
	})
	require.NoError(t, err)
	assert.True(t, result.Event.PPRClaims.IsNull())
}

func TestExecute_CommitmentFailureSkipsEvent(t *testing.T) {
	p, g := newProcess(t)
	g.Fail("propose_commitment", nil, http.StatusForbidden, "not a custodian")

	_, err := p.Execute(context.Background(), useprocess.Request{ResourceHash: resourceHash, Provider: provider, Receiver: receiver, Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, gateway.StatusCode(err))
	assert.Contains(t, err.Error(), "request use")
	assert.Empty(t, g.CallsTo("log_economic_event"))
}

func TestExecute_EventFailure(t *testing.T) {
	p, g := newProcess(t)
	g.Fail("log_economic_event", nil, http.StatusInternalServerError, "validation failed")

	result, err := p.Execute(context.Background(), useprocess.Request{ResourceHash: resourceHash, Provider: provider, Receiver: receiver, Quantity: 1})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "record use")
	assert.Len(t, g.CallsTo("propose_commitment"), 1)
}
