package gov_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokengov/gov"
	"tokengov/ledger"
)

// TestRealmDepositAndWithdraw checks the escrow book-keeping on the realm
// voter record.
func TestRealmDepositAndWithdraw(t *testing.T) {
	env := newEnv(t)
	realm, _ := env.setupRealm(t, 60, 0, 100)

	owner := addr("owner")
	source := env.fundVoter(t, owner, 250)
	require.NoError(t, env.engine.DepositGoverningTokens(owner, gov.DepositGoverningTokens{
		Realm:         realm,
		SourceAccount: source,
	}))

	record, err := env.engine.VoterRecordInfo(realm, env.govMint, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), record.TokenDepositAmount)
	assert.Equal(t, owner, record.VoteAuthority)
	balance, err := env.engine.Tokens().Balance(source)
	require.NoError(t, err)
	assert.Zero(t, balance)

	require.NoError(t, env.engine.WithdrawGoverningTokens(owner, gov.WithdrawGoverningTokens{
		Realm:              realm,
		Destination:        source,
		GoverningTokenMint: env.govMint,
	}))
	balance, err = env.engine.Tokens().Balance(source)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), balance)

	err = env.engine.WithdrawGoverningTokens(owner, gov.WithdrawGoverningTokens{
		Realm:              realm,
		Destination:        source,
		GoverningTokenMint: env.govMint,
	})
	assert.ErrorIs(t, err, gov.ErrAmountAboveWithdrawable)
}

// TestRealmWithdrawBlockedByOpenVote checks the deposit stays locked while
// the owner has an open position on a proposal.
func TestRealmWithdrawBlockedByOpenVote(t *testing.T) {
	env := newEnv(t)
	realm, governance := env.setupRealm(t, 90, 0, 100)
	proposal := env.createProposal(t, governance)

	owner := addr("owner")
	source := env.fundVoter(t, owner, 500)
	require.NoError(t, env.engine.DepositGoverningTokens(owner, gov.DepositGoverningTokens{
		Realm:         realm,
		SourceAccount: source,
	}))

	// The proposal stake comes from a separate account of the owner.
	stake := ledger.DeriveAddress([]byte("test-stake"), owner[:])
	require.NoError(t, env.engine.Tokens().CreateAccount(stake, env.govMint, owner))
	require.NoError(t, env.engine.Tokens().MintTo(env.govMint, stake, 100, env.mintAuthority))
	env.deposit(t, owner, proposal, stake, 100)

	record, err := env.engine.VoterRecordInfo(realm, env.govMint, owner)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), record.ActiveVotesCount)
	assert.Equal(t, uint8(1), record.TotalVotesCount)

	err = env.engine.WithdrawGoverningTokens(owner, gov.WithdrawGoverningTokens{
		Realm:              realm,
		Destination:        source,
		GoverningTokenMint: env.govMint,
	})
	assert.ErrorIs(t, err, gov.ErrVoterHasActiveVotes)

	// Unwinding the proposal position releases the realm deposit.
	require.NoError(t, env.engine.WithdrawVotingTokens(owner, gov.WithdrawVotingTokens{
		Proposal:          proposal,
		Destination:       stake,
		VotingTokenAmount: 100,
	}))
	require.NoError(t, env.engine.WithdrawGoverningTokens(owner, gov.WithdrawGoverningTokens{
		Realm:              realm,
		Destination:        source,
		GoverningTokenMint: env.govMint,
	}))
	record, err = env.engine.VoterRecordInfo(realm, env.govMint, owner)
	require.NoError(t, err)
	assert.Zero(t, record.ActiveVotesCount)
	assert.Equal(t, uint8(1), record.TotalVotesCount)
}

// TestRealmRedepositReopensPosition checks a second stake on the same
// proposal counts as an open position again after a full unwind, so the
// realm deposit stays locked.
func TestRealmRedepositReopensPosition(t *testing.T) {
	env := newEnv(t)
	realm, governance := env.setupRealm(t, 90, 0, 100)
	proposal := env.createProposal(t, governance)

	owner := addr("owner")
	source := env.fundVoter(t, owner, 500)
	require.NoError(t, env.engine.DepositGoverningTokens(owner, gov.DepositGoverningTokens{
		Realm:         realm,
		SourceAccount: source,
	}))

	stake := ledger.DeriveAddress([]byte("test-stake"), owner[:])
	require.NoError(t, env.engine.Tokens().CreateAccount(stake, env.govMint, owner))
	require.NoError(t, env.engine.Tokens().MintTo(env.govMint, stake, 200, env.mintAuthority))
	env.deposit(t, owner, proposal, stake, 100)
	require.NoError(t, env.engine.WithdrawVotingTokens(owner, gov.WithdrawVotingTokens{
		Proposal:          proposal,
		Destination:       stake,
		VotingTokenAmount: 100,
	}))

	env.deposit(t, owner, proposal, stake, 100)
	record, err := env.engine.VoterRecordInfo(realm, env.govMint, owner)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), record.ActiveVotesCount)
	assert.Equal(t, uint8(2), record.TotalVotesCount)

	err = env.engine.WithdrawGoverningTokens(owner, gov.WithdrawGoverningTokens{
		Realm:              realm,
		Destination:        source,
		GoverningTokenMint: env.govMint,
	})
	assert.ErrorIs(t, err, gov.ErrVoterHasActiveVotes)
}

// TestRealmRejectsForeignMint checks deposits of unrelated tokens bounce.
func TestRealmRejectsForeignMint(t *testing.T) {
	env := newEnv(t)
	realm, _ := env.setupRealm(t, 60, 0, 100)

	foreignMint := addr("foreign-mint")
	require.NoError(t, env.engine.Tokens().CreateMint(foreignMint, env.mintAuthority))
	owner := addr("owner")
	acct := addr("foreign-account")
	require.NoError(t, env.engine.Tokens().CreateAccount(acct, foreignMint, owner))
	require.NoError(t, env.engine.Tokens().MintTo(foreignMint, acct, 10, env.mintAuthority))

	err := env.engine.DepositGoverningTokens(owner, gov.DepositGoverningTokens{
		Realm:         realm,
		SourceAccount: acct,
	})
	assert.ErrorIs(t, err, gov.ErrInvalidGoverningTokenMint)
}

// TestSetVoteAuthority checks delegation is owner-gated.
func TestSetVoteAuthority(t *testing.T) {
	env := newEnv(t)
	realm, _ := env.setupRealm(t, 60, 0, 100)

	owner := addr("owner")
	source := env.fundVoter(t, owner, 50)
	require.NoError(t, env.engine.DepositGoverningTokens(owner, gov.DepositGoverningTokens{
		Realm:         realm,
		SourceAccount: source,
	}))

	delegate := addr("delegate")
	err := env.engine.SetVoteAuthority(delegate, gov.SetVoteAuthority{
		Realm:              realm,
		GoverningTokenMint: env.govMint,
		TokenOwner:         owner,
		NewVoteAuthority:   delegate,
	})
	assert.ErrorIs(t, err, gov.ErrInvalidAuthority)

	require.NoError(t, env.engine.SetVoteAuthority(owner, gov.SetVoteAuthority{
		Realm:              realm,
		GoverningTokenMint: env.govMint,
		TokenOwner:         owner,
		NewVoteAuthority:   delegate,
	}))
	record, err := env.engine.VoterRecordInfo(realm, env.govMint, owner)
	require.NoError(t, err)
	assert.Equal(t, delegate, record.VoteAuthority)
}

// TestCreateRealmWithCouncil checks the optional council mint gets its own
// holding and accepts deposits.
func TestCreateRealmWithCouncil(t *testing.T) {
	env := newEnv(t)
	councilMint := addr("council-mint")
	require.NoError(t, env.engine.Tokens().CreateMint(councilMint, env.mintAuthority))

	realm, err := env.engine.CreateRealm(addr("creator"), gov.CreateRealm{
		Name:           "council-realm",
		GovernanceMint: env.govMint,
		CouncilMint:    councilMint,
	})
	require.NoError(t, err)

	member := addr("council-member")
	acct := addr("council-account")
	require.NoError(t, env.engine.Tokens().CreateAccount(acct, councilMint, member))
	require.NoError(t, env.engine.Tokens().MintTo(councilMint, acct, 5, env.mintAuthority))
	require.NoError(t, env.engine.DepositGoverningTokens(member, gov.DepositGoverningTokens{
		Realm:         realm,
		SourceAccount: acct,
	}))

	record, err := env.engine.VoterRecordInfo(realm, councilMint, member)
	require.NoError(t, err)
	assert.Equal(t, gov.TokenTypeCouncil, record.TokenType)
	assert.Equal(t, uint64(5), record.TokenDepositAmount)
}

// TestCreateRealmTwiceFails checks realm names are unique per program.
func TestCreateRealmTwiceFails(t *testing.T) {
	env := newEnv(t)
	_, err := env.engine.CreateRealm(addr("creator"), gov.CreateRealm{Name: "r", GovernanceMint: env.govMint})
	require.NoError(t, err)
	_, err = env.engine.CreateRealm(addr("creator"), gov.CreateRealm{Name: "r", GovernanceMint: env.govMint})
	assert.ErrorIs(t, err, gov.ErrRecordExists)
}
