package gov_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokengov/gov"
)

// TestInstructionRoundTrip checks representative variants survive the wire.
func TestInstructionRoundTrip(t *testing.T) {
	vote := gov.CastVote{Proposal: addr("proposal"), Vote: gov.Vote{Yes: 600}}
	decoded, err := gov.DecodeInstruction(gov.EncodeInstruction(vote))
	require.NoError(t, err)
	assert.Equal(t, vote, decoded)

	queue := gov.AddCustomSingleSignerTransaction{
		Proposal:            addr("proposal"),
		Position:            3,
		DelaySlots:          42,
		InstructionEndIndex: 11,
	}
	copy(queue.Instruction[:], "do the thing")
	decoded, err = gov.DecodeInstruction(gov.EncodeInstruction(queue))
	require.NoError(t, err)
	assert.Equal(t, queue, decoded)

	create := gov.CreateProgramGovernance{
		Realm:                    addr("realm"),
		GovernedProgram:          addr("target"),
		VoteThreshold:            60,
		MinInstructionHoldUpTime: 5,
		MaxVotingTime:            100,
		Name:                     "upgrades",
	}
	decoded, err = gov.DecodeInstruction(gov.EncodeInstruction(create))
	require.NoError(t, err)
	assert.Equal(t, create, decoded)

	init := gov.InitProposal{
		Governance:      addr("governance"),
		SourceMint:      addr("mint"),
		Name:            "fund the keepers",
		DescriptionLink: "ipfs://QmHash",
	}
	decoded, err = gov.DecodeInstruction(gov.EncodeInstruction(init))
	require.NoError(t, err)
	assert.Equal(t, init, decoded)
}

// TestInstructionNameTruncation checks oversized strings are cut at the
// fixed field width instead of corrupting the frame.
func TestInstructionNameTruncation(t *testing.T) {
	long := make([]byte, gov.MaxGovernanceNameLen*2)
	for i := range long {
		long[i] = 'n'
	}
	in := gov.CreateRealm{Name: string(long), GovernanceMint: addr("mint")}
	decoded, err := gov.DecodeInstruction(gov.EncodeInstruction(in))
	require.NoError(t, err)
	assert.Equal(t, string(long[:gov.MaxGovernanceNameLen]), decoded.(gov.CreateRealm).Name)
}

// TestInstructionRejectsMalformedBuffers checks the unpack failure paths.
func TestInstructionRejectsMalformedBuffers(t *testing.T) {
	_, err := gov.DecodeInstruction(nil)
	assert.ErrorIs(t, err, gov.ErrInvalidInstruction)

	_, err = gov.DecodeInstruction([]byte{0xEE})
	assert.ErrorIs(t, err, gov.ErrInvalidInstruction)

	full := gov.EncodeInstruction(gov.CastVote{Proposal: addr("p"), Vote: gov.Vote{Yes: 1}})
	_, err = gov.DecodeInstruction(full[:len(full)-1])
	assert.ErrorIs(t, err, gov.ErrInvalidInstruction)

	_, err = gov.DecodeInstruction(append(full, 0x00))
	assert.ErrorIs(t, err, gov.ErrInvalidInstruction)
}

// TestDispatchRoutesToHandler checks the wire entry point reaches the state
// machine.
func TestDispatchRoutesToHandler(t *testing.T) {
	env := newEnv(t)
	realm, _ := env.setupRealm(t, 60, 0, 100)

	data := gov.EncodeInstruction(gov.SetVoteAuthority{
		Realm:              realm,
		GoverningTokenMint: env.govMint,
		TokenOwner:         addr("nobody"),
		NewVoteAuthority:   addr("delegate"),
	})
	err := env.engine.Dispatch(addr("nobody"), data)
	assert.ErrorIs(t, err, gov.ErrRecordNotFound)
}
