package gov

import (
	"encoding/binary"

	"tokengov/ledger"
)

// Storage key prefixes. One byte per record kind keeps related records
// contiguous in the backing store without colliding.
const (
	kRealm         byte = 0x01
	kGovernance    byte = 0x02
	kProposal      byte = 0x03
	kProposalState byte = 0x04
	kTransaction   byte = 0x05
	kVoteRecord    byte = 0x06
	kVoterRecord   byte = 0x07
	// kGovernanceProposals indexes the proposals created under a governance.
	kGovernanceProposals byte = 0x08
)

func addrKey(prefix byte, addr ledger.Address) string {
	buf := make([]byte, 0, 1+ledger.AddressSize)
	buf = append(buf, prefix)
	buf = append(buf, addr[:]...)
	return string(buf)
}

func realmKey(addr ledger.Address) string         { return addrKey(kRealm, addr) }
func governanceKey(addr ledger.Address) string    { return addrKey(kGovernance, addr) }
func proposalKey(addr ledger.Address) string      { return addrKey(kProposal, addr) }
func proposalStateKey(addr ledger.Address) string { return addrKey(kProposalState, addr) }
func transactionKey(addr ledger.Address) string   { return addrKey(kTransaction, addr) }
func voteRecordKey(addr ledger.Address) string    { return addrKey(kVoteRecord, addr) }
func voterRecordKey(addr ledger.Address) string   { return addrKey(kVoterRecord, addr) }

func governanceProposalsKey(governance ledger.Address) string {
	return addrKey(kGovernanceProposals, governance)
}

// Derivation seeds. Every discoverable address hangs off the engine's program
// address so two programs sharing one store never collide.
const authoritySeed = "governance"

// RealmAddress derives the deterministic address of a realm by name.
func RealmAddress(program ledger.Address, name string) ledger.Address {
	return ledger.DeriveAddress([]byte(authoritySeed), program[:], []byte("realm"), []byte(name))
}

// HoldingAddress derives a realm's escrow holding account for one mint.
func HoldingAddress(program, realm, mint ledger.Address) ledger.Address {
	return ledger.DeriveAddress([]byte(authoritySeed), program[:], realm[:], mint[:], []byte("holding"))
}

// GovernanceAddress derives the config record address for a governed target.
func GovernanceAddress(program, realm, governedTarget ledger.Address) ledger.Address {
	return ledger.DeriveAddress([]byte(authoritySeed), program[:], realm[:], governedTarget[:])
}

// ProposalAddress derives a proposal address from its governance and ordinal.
func ProposalAddress(program, governance ledger.Address, index uint32) ledger.Address {
	var ord [4]byte
	binary.LittleEndian.PutUint32(ord[:], index)
	return ledger.DeriveAddress([]byte(authoritySeed), program[:], governance[:], ord[:])
}

// ProgramAuthority derives the signing authority the engine controls for one
// proposal. It owns the validation accounts and is every proposal mint's
// minting authority.
func ProgramAuthority(program, proposal ledger.Address) ledger.Address {
	return ledger.DeriveAddress([]byte(authoritySeed), program[:], proposal[:])
}

// RealmAuthority derives the authority owning a realm's holding accounts.
func RealmAuthority(program, realm ledger.Address) ledger.Address {
	return ledger.DeriveAddress([]byte(authoritySeed), program[:], realm[:], []byte("authority"))
}

// VoteRecordAddress derives the per-(proposal, voter) tally record address so
// it is discoverable without a side index.
func VoteRecordAddress(program, proposal, voter ledger.Address) ledger.Address {
	return ledger.DeriveAddress([]byte(authoritySeed), program[:], proposal[:], voter[:])
}

// VoterRecordAddress derives the realm deposit record for one token owner.
func VoterRecordAddress(program, realm, governingTokenMint, owner ledger.Address) ledger.Address {
	return ledger.DeriveAddress([]byte(authoritySeed), program[:], realm[:], governingTokenMint[:], owner[:])
}

// TransactionAddress derives the record address for the queued transaction
// at one position of a proposal. A removed position frees the address for a
// later re-add.
func TransactionAddress(program, proposal ledger.Address, position uint8) ledger.Address {
	return ledger.DeriveAddress([]byte(authoritySeed), program[:], proposal[:], []byte("txn"), []byte{position})
}

// proposalAccount derives one of the per-proposal token accounts (mints,
// validation accounts, holding, dumps) by label.
func proposalAccount(program, proposal ledger.Address, label string) ledger.Address {
	return ledger.DeriveAddress([]byte(authoritySeed), program[:], proposal[:], []byte(label))
}

// voterAccount derives a voter's per-proposal token account by label.
func voterAccount(program, proposal, voter ledger.Address, label string) ledger.Address {
	return ledger.DeriveAddress([]byte(authoritySeed), program[:], proposal[:], voter[:], []byte(label))
}
