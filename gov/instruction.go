package gov

import (
	"fmt"

	"tokengov/ledger"
)

// Instruction tags. One byte on the wire, followed by the instruction's
// fixed-layout fields.
const (
	TagInitProposal                     byte = 0
	TagAddSignatory                     byte = 1
	TagRemoveSignatory                  byte = 2
	TagAddCustomSingleSignerTransaction byte = 3
	TagRemoveTransaction                byte = 4
	TagUpdateTransactionDelaySlots      byte = 5
	TagCancelProposal                   byte = 6
	TagSignProposal                     byte = 7
	TagVote                             byte = 8
	TagCreateProgramGovernance          byte = 9
	TagCreateAccountGovernance          byte = 10
	TagExecute                          byte = 11
	TagDepositSourceTokens              byte = 12
	TagWithdrawVotingTokens             byte = 13
	TagCreateRealm                      byte = 14
	TagDepositGoverningTokens           byte = 15
	TagWithdrawGoverningTokens          byte = 16
	TagSetVoteAuthority                 byte = 17
	TagFinalizeVote                     byte = 18
	TagCreateProposal                   byte = 19
)

// Instruction is the union of every decoded instruction. Exactly one decode
// function returns each concrete type.
type Instruction interface {
	tag() byte
}

type InitProposal struct {
	Governance      ledger.Address
	SourceMint      ledger.Address
	Name            string
	DescriptionLink string
}

type AddSignatory struct {
	Proposal  ledger.Address
	Signatory ledger.Address
}

type RemoveSignatory struct {
	Proposal  ledger.Address
	Signatory ledger.Address
}

type AddCustomSingleSignerTransaction struct {
	Proposal            ledger.Address
	Position            uint8
	DelaySlots          uint64
	Instruction         [MaxInstructionData]byte
	InstructionEndIndex uint16
}

type RemoveTransaction struct {
	Proposal    ledger.Address
	Transaction ledger.Address
}

type UpdateTransactionDelaySlots struct {
	Proposal    ledger.Address
	Transaction ledger.Address
	DelaySlots  uint64
}

type CancelProposal struct {
	Proposal ledger.Address
}

type SignProposal struct {
	Proposal ledger.Address
}

type CastVote struct {
	Proposal ledger.Address
	Vote     Vote
}

type CreateProgramGovernance struct {
	Realm                    ledger.Address
	GovernedProgram          ledger.Address
	VoteThreshold            uint8
	MinInstructionHoldUpTime uint64
	MaxVotingTime            uint64
	Name                     string
}

type CreateAccountGovernance struct {
	Realm                    ledger.Address
	GovernedAccount          ledger.Address
	VoteThreshold            uint8
	MinInstructionHoldUpTime uint64
	MaxVotingTime            uint64
	Name                     string
}

type Execute struct {
	Proposal    ledger.Address
	Transaction ledger.Address
}

type DepositSourceTokens struct {
	Proposal      ledger.Address
	SourceAccount ledger.Address
	Amount        uint64
}

type WithdrawVotingTokens struct {
	Proposal          ledger.Address
	Destination       ledger.Address
	VotingTokenAmount uint64
}

type CreateRealm struct {
	Name           string
	GovernanceMint ledger.Address
	CouncilMint    ledger.Address
}

type DepositGoverningTokens struct {
	Realm         ledger.Address
	SourceAccount ledger.Address
}

type WithdrawGoverningTokens struct {
	Realm              ledger.Address
	Destination        ledger.Address
	GoverningTokenMint ledger.Address
}

type SetVoteAuthority struct {
	Realm              ledger.Address
	GoverningTokenMint ledger.Address
	TokenOwner         ledger.Address
	NewVoteAuthority   ledger.Address
}

type FinalizeVote struct {
	Proposal ledger.Address
}

// CreateProposal is the newer-generation name for proposal creation; it
// carries the same fields as InitProposal.
type CreateProposal struct {
	Governance      ledger.Address
	SourceMint      ledger.Address
	Name            string
	DescriptionLink string
}

func (InitProposal) tag() byte                     { return TagInitProposal }
func (AddSignatory) tag() byte                     { return TagAddSignatory }
func (RemoveSignatory) tag() byte                  { return TagRemoveSignatory }
func (AddCustomSingleSignerTransaction) tag() byte { return TagAddCustomSingleSignerTransaction }
func (RemoveTransaction) tag() byte                { return TagRemoveTransaction }
func (UpdateTransactionDelaySlots) tag() byte      { return TagUpdateTransactionDelaySlots }
func (CancelProposal) tag() byte                   { return TagCancelProposal }
func (SignProposal) tag() byte                     { return TagSignProposal }
func (CastVote) tag() byte                         { return TagVote }
func (CreateProgramGovernance) tag() byte          { return TagCreateProgramGovernance }
func (CreateAccountGovernance) tag() byte          { return TagCreateAccountGovernance }
func (Execute) tag() byte                          { return TagExecute }
func (DepositSourceTokens) tag() byte              { return TagDepositSourceTokens }
func (WithdrawVotingTokens) tag() byte             { return TagWithdrawVotingTokens }
func (CreateRealm) tag() byte                      { return TagCreateRealm }
func (DepositGoverningTokens) tag() byte           { return TagDepositGoverningTokens }
func (WithdrawGoverningTokens) tag() byte          { return TagWithdrawGoverningTokens }
func (SetVoteAuthority) tag() byte                 { return TagSetVoteAuthority }
func (FinalizeVote) tag() byte                     { return TagFinalizeVote }
func (CreateProposal) tag() byte                   { return TagCreateProposal }

// EncodeInstruction serializes an instruction to its wire form.
func EncodeInstruction(in Instruction) []byte {
	w := newWriter()
	w.writeByte(in.tag())
	switch v := in.(type) {
	case InitProposal:
		w.writeAddress(v.Governance)
		w.writeAddress(v.SourceMint)
		w.writeFixedString(v.Name, MaxProposalNameLen)
		w.writeFixedString(v.DescriptionLink, MaxDescriptionLen)
	case AddSignatory:
		w.writeAddress(v.Proposal)
		w.writeAddress(v.Signatory)
	case RemoveSignatory:
		w.writeAddress(v.Proposal)
		w.writeAddress(v.Signatory)
	case AddCustomSingleSignerTransaction:
		w.writeAddress(v.Proposal)
		w.writeByte(v.Position)
		w.writeUint64(v.DelaySlots)
		w.writeFixedBytes(v.Instruction[:], MaxInstructionData)
		w.writeUint16(v.InstructionEndIndex)
	case RemoveTransaction:
		w.writeAddress(v.Proposal)
		w.writeAddress(v.Transaction)
	case UpdateTransactionDelaySlots:
		w.writeAddress(v.Proposal)
		w.writeAddress(v.Transaction)
		w.writeUint64(v.DelaySlots)
	case CancelProposal:
		w.writeAddress(v.Proposal)
	case SignProposal:
		w.writeAddress(v.Proposal)
	case CastVote:
		w.writeAddress(v.Proposal)
		w.writeUint64(v.Vote.Yes)
		w.writeUint64(v.Vote.No)
	case CreateProgramGovernance:
		w.writeAddress(v.Realm)
		w.writeAddress(v.GovernedProgram)
		w.writeByte(v.VoteThreshold)
		w.writeUint64(v.MinInstructionHoldUpTime)
		w.writeUint64(v.MaxVotingTime)
		w.writeFixedString(v.Name, MaxGovernanceNameLen)
	case CreateAccountGovernance:
		w.writeAddress(v.Realm)
		w.writeAddress(v.GovernedAccount)
		w.writeByte(v.VoteThreshold)
		w.writeUint64(v.MinInstructionHoldUpTime)
		w.writeUint64(v.MaxVotingTime)
		w.writeFixedString(v.Name, MaxGovernanceNameLen)
	case Execute:
		w.writeAddress(v.Proposal)
		w.writeAddress(v.Transaction)
	case DepositSourceTokens:
		w.writeAddress(v.Proposal)
		w.writeAddress(v.SourceAccount)
		w.writeUint64(v.Amount)
	case WithdrawVotingTokens:
		w.writeAddress(v.Proposal)
		w.writeAddress(v.Destination)
		w.writeUint64(v.VotingTokenAmount)
	case CreateRealm:
		w.writeFixedString(v.Name, MaxGovernanceNameLen)
		w.writeAddress(v.GovernanceMint)
		w.writeAddress(v.CouncilMint)
	case DepositGoverningTokens:
		w.writeAddress(v.Realm)
		w.writeAddress(v.SourceAccount)
	case WithdrawGoverningTokens:
		w.writeAddress(v.Realm)
		w.writeAddress(v.Destination)
		w.writeAddress(v.GoverningTokenMint)
	case SetVoteAuthority:
		w.writeAddress(v.Realm)
		w.writeAddress(v.GoverningTokenMint)
		w.writeAddress(v.TokenOwner)
		w.writeAddress(v.NewVoteAuthority)
	case FinalizeVote:
		w.writeAddress(v.Proposal)
	case CreateProposal:
		w.writeAddress(v.Governance)
		w.writeAddress(v.SourceMint)
		w.writeFixedString(v.Name, MaxProposalNameLen)
		w.writeFixedString(v.DescriptionLink, MaxDescriptionLen)
	}
	return w.bytes()
}

// DecodeInstruction parses one instruction from the wire. Unknown tags,
// truncated buffers and trailing bytes all fail with ErrInvalidInstruction.
func DecodeInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrInvalidInstruction)
	}
	rd := newReader(data)
	tag := rd.readByte()

	var in Instruction
	switch tag {
	case TagInitProposal:
		var v InitProposal
		v.Governance = rd.readAddress()
		v.SourceMint = rd.readAddress()
		v.Name = rd.readFixedString(MaxProposalNameLen)
		v.DescriptionLink = rd.readFixedString(MaxDescriptionLen)
		in = v
	case TagAddSignatory:
		var v AddSignatory
		v.Proposal = rd.readAddress()
		v.Signatory = rd.readAddress()
		in = v
	case TagRemoveSignatory:
		var v RemoveSignatory
		v.Proposal = rd.readAddress()
		v.Signatory = rd.readAddress()
		in = v
	case TagAddCustomSingleSignerTransaction:
		var v AddCustomSingleSignerTransaction
		v.Proposal = rd.readAddress()
		v.Position = rd.readByte()
		v.DelaySlots = rd.readUint64()
		rd.readFixedBytes(v.Instruction[:])
		v.InstructionEndIndex = rd.readUint16()
		in = v
	case TagRemoveTransaction:
		var v RemoveTransaction
		v.Proposal = rd.readAddress()
		v.Transaction = rd.readAddress()
		in = v
	case TagUpdateTransactionDelaySlots:
		var v UpdateTransactionDelaySlots
		v.Proposal = rd.readAddress()
		v.Transaction = rd.readAddress()
		v.DelaySlots = rd.readUint64()
		in = v
	case TagCancelProposal:
		var v CancelProposal
		v.Proposal = rd.readAddress()
		in = v
	case TagSignProposal:
		var v SignProposal
		v.Proposal = rd.readAddress()
		in = v
	case TagVote:
		var v CastVote
		v.Proposal = rd.readAddress()
		v.Vote.Yes = rd.readUint64()
		v.Vote.No = rd.readUint64()
		in = v
	case TagCreateProgramGovernance:
		var v CreateProgramGovernance
		v.Realm = rd.readAddress()
		v.GovernedProgram = rd.readAddress()
		v.VoteThreshold = rd.readByte()
		v.MinInstructionHoldUpTime = rd.readUint64()
		v.MaxVotingTime = rd.readUint64()
		v.Name = rd.readFixedString(MaxGovernanceNameLen)
		in = v
	case TagCreateAccountGovernance:
		var v CreateAccountGovernance
		v.Realm = rd.readAddress()
		v.GovernedAccount = rd.readAddress()
		v.VoteThreshold = rd.readByte()
		v.MinInstructionHoldUpTime = rd.readUint64()
		v.MaxVotingTime = rd.readUint64()
		v.Name = rd.readFixedString(MaxGovernanceNameLen)
		in = v
	case TagExecute:
		var v Execute
		v.Proposal = rd.readAddress()
		v.Transaction = rd.readAddress()
		in = v
	case TagDepositSourceTokens:
		var v DepositSourceTokens
		v.Proposal = rd.readAddress()
		v.SourceAccount = rd.readAddress()
		v.Amount = rd.readUint64()
		in = v
	case TagWithdrawVotingTokens:
		var v WithdrawVotingTokens
		v.Proposal = rd.readAddress()
		v.Destination = rd.readAddress()
		v.VotingTokenAmount = rd.readUint64()
		in = v
	case TagCreateRealm:
		var v CreateRealm
		v.Name = rd.readFixedString(MaxGovernanceNameLen)
		v.GovernanceMint = rd.readAddress()
		v.CouncilMint = rd.readAddress()
		in = v
	case TagDepositGoverningTokens:
		var v DepositGoverningTokens
		v.Realm = rd.readAddress()
		v.SourceAccount = rd.readAddress()
		in = v
	case TagWithdrawGoverningTokens:
		var v WithdrawGoverningTokens
		v.Realm = rd.readAddress()
		v.Destination = rd.readAddress()
		v.GoverningTokenMint = rd.readAddress()
		in = v
	case TagSetVoteAuthority:
		var v SetVoteAuthority
		v.Realm = rd.readAddress()
		v.GoverningTokenMint = rd.readAddress()
		v.TokenOwner = rd.readAddress()
		v.NewVoteAuthority = rd.readAddress()
		in = v
	case TagFinalizeVote:
		var v FinalizeVote
		v.Proposal = rd.readAddress()
		in = v
	case TagCreateProposal:
		var v CreateProposal
		v.Governance = rd.readAddress()
		v.SourceMint = rd.readAddress()
		v.Name = rd.readFixedString(MaxProposalNameLen)
		v.DescriptionLink = rd.readFixedString(MaxDescriptionLen)
		in = v
	default:
		return nil, fmt.Errorf("%w: unknown tag %d", ErrInvalidInstruction, tag)
	}
	if rd.err != nil {
		return nil, rd.err
	}
	if rd.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidInstruction, rd.remaining())
	}
	return in, nil
}
