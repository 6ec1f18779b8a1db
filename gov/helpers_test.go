package gov_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"tokengov/gov"
	"tokengov/ledger"
	"tokengov/store"
)

// testEnv wires an engine to a memory store and a hand-driven clock so tests
// control slot height directly.
type testEnv struct {
	engine  *gov.Engine
	clock   *ledger.ManualClock
	store   *store.Memory
	program ledger.Address

	invoked [][]byte

	mintAuthority ledger.Address
	govMint       ledger.Address
}

func addr(name string) ledger.Address {
	return ledger.DeriveAddress([]byte("test-identity"), []byte(name))
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		clock:         ledger.NewManualClock(0),
		store:         store.NewMemory(),
		program:       addr("program"),
		mintAuthority: addr("mint-authority"),
		govMint:       addr("governance-mint"),
	}
	invoker := ledger.InvokerFunc(func(target ledger.Address, instruction []byte, accounts []ledger.Address) error {
		env.invoked = append(env.invoked, instruction)
		return nil
	})
	env.engine = gov.New(env.program, env.store, env.clock, invoker, zerolog.Nop())
	require.NoError(t, env.engine.Tokens().CreateMint(env.govMint, env.mintAuthority))
	return env
}

// setupRealm creates a realm on the governance mint and a program governance
// under it with the given voting parameters.
func (env *testEnv) setupRealm(t *testing.T, threshold uint8, minHoldUp, maxVotingTime uint64) (realm, governance ledger.Address) {
	t.Helper()
	creator := addr("creator")
	realm, err := env.engine.CreateRealm(creator, gov.CreateRealm{
		Name:           "test-realm",
		GovernanceMint: env.govMint,
	})
	require.NoError(t, err)
	governance, err = env.engine.CreateProgramGovernance(creator, gov.CreateProgramGovernance{
		Realm:                    realm,
		GovernedProgram:          addr("governed-program"),
		VoteThreshold:            threshold,
		MinInstructionHoldUpTime: minHoldUp,
		MaxVotingTime:            maxVotingTime,
		Name:                     "test-governance",
	})
	require.NoError(t, err)
	return realm, governance
}

// createProposal makes a draft proposal with the creator as admin and sole
// signatory.
func (env *testEnv) createProposal(t *testing.T, governance ledger.Address) ledger.Address {
	t.Helper()
	proposal, err := env.engine.InitProposal(addr("creator"), gov.InitProposal{
		Governance:      governance,
		SourceMint:      env.govMint,
		Name:            "test-proposal",
		DescriptionLink: "ipfs://description",
	})
	require.NoError(t, err)
	return proposal
}

// startVoting signs with the creator so the single-signatory draft proposal
// enters voting.
func (env *testEnv) startVoting(t *testing.T, proposal ledger.Address) {
	t.Helper()
	require.NoError(t, env.engine.SignProposal(addr("creator"), gov.SignProposal{Proposal: proposal}))
	state, err := env.engine.ProposalStateInfo(proposal)
	require.NoError(t, err)
	require.Equal(t, gov.StatusVoting, state.Status)
}

// fundVoter mints governance tokens into a fresh source account for a voter.
func (env *testEnv) fundVoter(t *testing.T, voter ledger.Address, amount uint64) ledger.Address {
	t.Helper()
	acct := ledger.DeriveAddress([]byte("test-source-account"), voter[:])
	require.NoError(t, env.engine.Tokens().CreateAccount(acct, env.govMint, voter))
	require.NoError(t, env.engine.Tokens().MintTo(env.govMint, acct, amount, env.mintAuthority))
	return acct
}

// deposit escrows amount of a voter's funded source account on the proposal.
func (env *testEnv) deposit(t *testing.T, voter, proposal, source ledger.Address, amount uint64) {
	t.Helper()
	require.NoError(t, env.engine.DepositSourceTokens(voter, gov.DepositSourceTokens{
		Proposal:      proposal,
		SourceAccount: source,
		Amount:        amount,
	}))
}

func (env *testEnv) status(t *testing.T, proposal ledger.Address) gov.ProposalStatus {
	t.Helper()
	state, err := env.engine.ProposalStateInfo(proposal)
	require.NoError(t, err)
	return state.Status
}
