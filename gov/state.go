package gov

import (
	"fmt"

	"tokengov/ledger"
)

// Load/save accessors. Each loader distinguishes "missing" from "present but
// wrong kind" so a mistyped address surfaces as ErrWrongRecordType instead of
// a silent misparse.

func (e *Engine) loadRealm(addr ledger.Address) (*Realm, error) {
	data, ok, err := e.records.Get(realmKey(addr))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: realm %s", ErrRecordNotFound, addr)
	}
	return decodeRealm(data)
}

func (e *Engine) saveRealm(addr ledger.Address, r *Realm) error {
	return e.records.Set(realmKey(addr), encodeRealm(r))
}

func (e *Engine) loadGovernance(addr ledger.Address) (*Governance, error) {
	data, ok, err := e.records.Get(governanceKey(addr))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: governance %s", ErrRecordNotFound, addr)
	}
	return decodeGovernance(data)
}

func (e *Engine) saveGovernance(addr ledger.Address, g *Governance) error {
	return e.records.Set(governanceKey(addr), encodeGovernance(g))
}

func (e *Engine) loadProposal(addr ledger.Address) (*Proposal, error) {
	data, ok, err := e.records.Get(proposalKey(addr))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: proposal %s", ErrRecordNotFound, addr)
	}
	return decodeProposal(data)
}

func (e *Engine) saveProposal(addr ledger.Address, p *Proposal) error {
	return e.records.Set(proposalKey(addr), encodeProposal(p))
}

func (e *Engine) loadProposalState(addr ledger.Address) (*ProposalState, error) {
	data, ok, err := e.records.Get(proposalStateKey(addr))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: proposal state %s", ErrRecordNotFound, addr)
	}
	return decodeProposalState(data)
}

func (e *Engine) saveProposalState(addr ledger.Address, s *ProposalState) error {
	return e.records.Set(proposalStateKey(addr), encodeProposalState(s))
}

func (e *Engine) loadTransaction(addr ledger.Address) (*SingleSignerTransaction, error) {
	data, ok, err := e.records.Get(transactionKey(addr))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", ErrRecordNotFound, addr)
	}
	return decodeTransaction(data)
}

func (e *Engine) saveTransaction(addr ledger.Address, t *SingleSignerTransaction) error {
	return e.records.Set(transactionKey(addr), encodeTransaction(t))
}

func (e *Engine) deleteTransaction(addr ledger.Address) error {
	return e.records.Delete(transactionKey(addr))
}

func (e *Engine) loadVoteRecord(addr ledger.Address) (*VoteRecord, error) {
	data, ok, err := e.records.Get(voteRecordKey(addr))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: vote record %s", ErrRecordNotFound, addr)
	}
	return decodeVoteRecord(data)
}

func (e *Engine) saveVoteRecord(addr ledger.Address, v *VoteRecord) error {
	return e.records.Set(voteRecordKey(addr), encodeVoteRecord(v))
}

func (e *Engine) loadVoterRecord(addr ledger.Address) (*VoterRecord, error) {
	data, ok, err := e.records.Get(voterRecordKey(addr))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: voter record %s", ErrRecordNotFound, addr)
	}
	return decodeVoterRecord(data)
}

func (e *Engine) saveVoterRecord(addr ledger.Address, v *VoterRecord) error {
	return e.records.Set(voterRecordKey(addr), encodeVoterRecord(v))
}

// hasRecord reports whether any record exists under the key.
func (e *Engine) hasRecord(key string) (bool, error) {
	_, ok, err := e.records.Get(key)
	return ok, err
}

// Governance proposals index: a flat list of proposal addresses appended on
// creation, so CLI listing needs no store scan.

func (e *Engine) appendGovernanceProposal(governance, proposal ledger.Address) error {
	key := governanceProposalsKey(governance)
	data, _, err := e.records.Get(key)
	if err != nil {
		return err
	}
	data = append(data, proposal[:]...)
	return e.records.Set(key, data)
}

func (e *Engine) governanceProposals(governance ledger.Address) ([]ledger.Address, error) {
	data, ok, err := e.records.Get(governanceProposalsKey(governance))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if len(data)%ledger.AddressSize != 0 {
		return nil, fmt.Errorf("malformed proposal index (%d bytes)", len(data))
	}
	out := make([]ledger.Address, 0, len(data)/ledger.AddressSize)
	for off := 0; off < len(data); off += ledger.AddressSize {
		var a ledger.Address
		copy(a[:], data[off:off+ledger.AddressSize])
		out = append(out, a)
	}
	return out, nil
}
