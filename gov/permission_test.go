package gov_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokengov/gov"
	"tokengov/ledger"
)

// TestAdminOnlyInstructions checks that callers without the admin token fail
// the possession proof.
func TestAdminOnlyInstructions(t *testing.T) {
	env := newEnv(t)
	_, governance := env.setupRealm(t, 60, 0, 100)
	proposal := env.createProposal(t, governance)
	outsider := addr("outsider")

	err := env.engine.AddSignatory(outsider, gov.AddSignatory{Proposal: proposal, Signatory: addr("x")})
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)

	err = env.engine.CancelProposal(outsider, gov.CancelProposal{Proposal: proposal})
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)

	state, err := env.engine.ProposalStateInfo(proposal)
	require.NoError(t, err)
	assert.Equal(t, gov.StatusDraft, state.Status)
	assert.Equal(t, uint64(1), state.TotalSigningTokensMinted)
}

// TestSignatoryOnlyInstructions checks a plain voter cannot queue
// transactions or sign.
func TestSignatoryOnlyInstructions(t *testing.T) {
	env := newEnv(t)
	_, governance := env.setupRealm(t, 60, 0, 100)
	proposal := env.createProposal(t, governance)
	outsider := addr("outsider")

	_, err := env.engine.AddTransaction(outsider, gov.AddCustomSingleSignerTransaction{Proposal: proposal})
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)

	err = env.engine.SignProposal(outsider, gov.SignProposal{Proposal: proposal})
	assert.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

// TestPermissionProofIsNetZero checks the round trip returns the token, so
// an admin can act any number of times.
func TestPermissionProofIsNetZero(t *testing.T) {
	env := newEnv(t)
	_, governance := env.setupRealm(t, 60, 0, 100)
	proposal := env.createProposal(t, governance)

	for i := 0; i < 3; i++ {
		require.NoError(t, env.engine.AddSignatory(addr("creator"), gov.AddSignatory{
			Proposal:  proposal,
			Signatory: addr("cosigner"),
		}))
		require.NoError(t, env.engine.RemoveSignatory(addr("creator"), gov.RemoveSignatory{
			Proposal:  proposal,
			Signatory: addr("cosigner"),
		}))
	}
	state, err := env.engine.ProposalStateInfo(proposal)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), state.TotalSigningTokensMinted)
}

// TestSpentSignatoryLosesPermission checks that a signatory who already
// signed cannot sign again: their token is burned.
func TestSpentSignatoryLosesPermission(t *testing.T) {
	env := newEnv(t)
	_, governance := env.setupRealm(t, 60, 0, 100)
	proposal := env.createProposal(t, governance)

	cosigner := addr("cosigner")
	require.NoError(t, env.engine.AddSignatory(addr("creator"), gov.AddSignatory{Proposal: proposal, Signatory: cosigner}))
	require.NoError(t, env.engine.SignProposal(cosigner, gov.SignProposal{Proposal: proposal}))

	err := env.engine.SignProposal(cosigner, gov.SignProposal{Proposal: proposal})
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)
}
