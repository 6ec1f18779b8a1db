// Package gov implements the governance engine: realms, per-target
// governance configs, proposals with their delayed-transaction queue, the
// token-weighted vote tally and the signatory/admin permission guard.
package gov

import "tokengov/ledger"

// Hard limits shared by the record layouts and the wire format.
const (
	// MaxGovernanceNameLen caps governance and realm names.
	MaxGovernanceNameLen = 32
	// MaxProposalNameLen caps proposal names.
	MaxProposalNameLen = 32
	// MaxDescriptionLen caps the proposal description link.
	MaxDescriptionLen = 200
	// MaxInstructionData is the fixed size of a queued instruction payload.
	MaxInstructionData = 450
	// MaxTransactions is the capacity of a proposal's transaction array.
	MaxTransactions = 5
)

// RecordType tags every stored record so a load against the wrong key fails.
type RecordType uint8

const (
	RecordUninitialized RecordType = iota
	RecordRealm
	RecordGovernance
	RecordProposal
	RecordProposalState
	RecordVoteRecord
	RecordTransaction
	RecordVoterRecord
)

// ProposalStatus is the proposal lifecycle state machine.
type ProposalStatus uint8

const (
	// StatusDraft collects signatories and transactions.
	StatusDraft ProposalStatus = iota
	// StatusVoting accepts Vote instructions until tipped or timed out.
	StatusVoting
	// StatusExecuting allows queued transactions to run after their hold-up.
	StatusExecuting
	// StatusCompleted means every queued transaction executed.
	StatusCompleted
	// StatusDeleted is the legacy side exit kept for record compatibility.
	StatusDeleted
	// StatusDefeated means the voting window closed without tipping.
	StatusDefeated
	// StatusCancelled means an admin withdrew the proposal before voting.
	StatusCancelled
)

// String prints the status as lower-case text for events and CLI output.
func (s ProposalStatus) String() string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusVoting:
		return "voting"
	case StatusExecuting:
		return "executing"
	case StatusCompleted:
		return "completed"
	case StatusDeleted:
		return "deleted"
	case StatusDefeated:
		return "defeated"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// GoverningTokenType selects which of the realm's mints backs a vote.
type GoverningTokenType uint8

const (
	TokenTypeGovernance GoverningTokenType = 0
	TokenTypeCouncil    GoverningTokenType = 1
)

// Vote carries the weight a voter commits in one Vote instruction.
// Exactly one of Yes/No is nonzero.
type Vote struct {
	Yes uint64
	No  uint64
}

// Realm binds a community to its governance token mint (and optional council
// mint) plus the escrow holding accounts deposits flow into.
type Realm struct {
	Type              RecordType
	Name              string
	GovernanceMint    ledger.Address
	CouncilMint       ledger.Address // zero when the realm has no council
	GovernanceHolding ledger.Address
	CouncilHolding    ledger.Address
}

// Governance is the per-governed-target configuration record. Immutable
// after creation; every proposal under it references it.
type Governance struct {
	Type           RecordType
	Realm          ledger.Address
	GovernedTarget ledger.Address

	// VoteThreshold is the percentage (0-100] of all tokens ever minted for
	// the vote mint required to tip the vote.
	VoteThreshold uint8
	// MinInstructionHoldUpTime is the minimum delay in slots a queued
	// transaction must wait after voting ends.
	MinInstructionHoldUpTime uint64
	// MaxVotingTime is the voting window in slots.
	MaxVotingTime uint64

	GovernanceMint ledger.Address
	CouncilMint    ledger.Address
	Name           string
	ProposalCount  uint32
}

// Proposal is the immutable half of a proposal: the single-use mint set,
// the validation accounts the permission guard round-trips through, and the
// escrow holding account. Only its mints change over the proposal's life.
type Proposal struct {
	Type       RecordType
	Governance ledger.Address
	State      ledger.Address

	SignatoryMint ledger.Address
	AdminMint     ledger.Address
	VoteMint      ledger.Address
	YesVoteMint   ledger.Address
	NoVoteMint    ledger.Address

	SignatoryValidation ledger.Address
	AdminValidation     ledger.Address
	VoteValidation      ledger.Address

	SourceHolding ledger.Address
	SourceMint    ledger.Address

	YesVoteDump ledger.Address
	NoVoteDump  ledger.Address
}

// ProposalState is the mutable half: lifecycle status, slot stamps and the
// fixed-capacity transaction array. Removal zeroes a slot without compacting.
type ProposalState struct {
	Type     RecordType
	Proposal ledger.Address
	Status   ProposalStatus

	// TotalSigningTokensMinted mirrors the signatory mint's net issuance.
	TotalSigningTokensMinted uint64

	DescriptionLink string
	Name            string

	VotingEndedAt uint64
	VotingBeganAt uint64
	CreatedAt     uint64
	CompletedAt   uint64
	DeletedAt     uint64

	NumberOfExecutedTransactions uint8
	NumberOfTransactions         uint8
	Transactions                 [MaxTransactions]ledger.Address
}

// SingleSignerTransaction is one queued instruction against the governed
// target, gated by DelaySlots after voting ends.
type SingleSignerTransaction struct {
	Type       RecordType
	DelaySlots uint64

	// Instruction is the opaque payload; InstructionEndIndex marks the last
	// meaningful byte (inclusive), the rest is zero padding.
	Instruction         [MaxInstructionData]byte
	InstructionEndIndex uint16
	Executed            uint8
}

// Payload returns the meaningful prefix of the instruction buffer.
func (t *SingleSignerTransaction) Payload() []byte {
	end := int(t.InstructionEndIndex) + 1
	if end > MaxInstructionData {
		end = MaxInstructionData
	}
	return t.Instruction[:end]
}

// VoteRecord is the per-(proposal, voter) tally snapshot, created lazily on
// the first vote and never deleted.
type VoteRecord struct {
	Type     RecordType
	Proposal ledger.Address
	Voter    ledger.Address

	UndecidedCount uint64
	YesCount       uint64
	NoCount        uint64
}

// VoterRecord is the realm-scoped deposit ledger entry for one token owner:
// how much governing weight they escrowed and who may vote with it.
type VoterRecord struct {
	Type      RecordType
	Realm     ledger.Address
	TokenType GoverningTokenType

	TokenOwner         ledger.Address
	TokenDepositAmount uint64
	VoteAuthority      ledger.Address

	ActiveVotesCount uint8
	TotalVotesCount  uint8
}
