package gov

import (
	"fmt"

	"tokengov/ledger"
)

// createGovernance is the shared path for program and account governances.
// The config is immutable once written; changing it means creating a new
// governance for a new target.
func (e *Engine) createGovernance(realm, target ledger.Address, threshold uint8, minHoldUp, maxVotingTime uint64, name string) (ledger.Address, error) {
	if threshold == 0 || threshold > 100 {
		return ledger.ZeroAddress, fmt.Errorf("%w: %d", ErrInvalidVoteThreshold, threshold)
	}
	if len(name) > MaxGovernanceNameLen {
		return ledger.ZeroAddress, fmt.Errorf("%w: governance name length %d", ErrInvalidInstruction, len(name))
	}
	r, err := e.loadRealm(realm)
	if err != nil {
		return ledger.ZeroAddress, err
	}

	addr := GovernanceAddress(e.program, realm, target)
	if ok, err := e.hasRecord(governanceKey(addr)); err != nil {
		return ledger.ZeroAddress, err
	} else if ok {
		return ledger.ZeroAddress, fmt.Errorf("%w: governance for target %s", ErrRecordExists, target)
	}

	g := Governance{
		Type:                     RecordGovernance,
		Realm:                    realm,
		GovernedTarget:           target,
		VoteThreshold:            threshold,
		MinInstructionHoldUpTime: minHoldUp,
		MaxVotingTime:            maxVotingTime,
		GovernanceMint:           r.GovernanceMint,
		CouncilMint:              r.CouncilMint,
		Name:                     name,
	}
	if err := e.saveGovernance(addr, &g); err != nil {
		return ledger.ZeroAddress, err
	}
	e.emitGovernanceCreated(addr, target)
	return addr, nil
}

// CreateProgramGovernance creates the voting config that governs upgrades of
// a program. Returns the governance address.
func (e *Engine) CreateProgramGovernance(caller ledger.Address, in CreateProgramGovernance) (ledger.Address, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = caller
	return e.createGovernance(in.Realm, in.GovernedProgram, in.VoteThreshold, in.MinInstructionHoldUpTime, in.MaxVotingTime, in.Name)
}

// CreateAccountGovernance creates the voting config that governs mutations of
// an account. Returns the governance address.
func (e *Engine) CreateAccountGovernance(caller ledger.Address, in CreateAccountGovernance) (ledger.Address, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = caller
	return e.createGovernance(in.Realm, in.GovernedAccount, in.VoteThreshold, in.MinInstructionHoldUpTime, in.MaxVotingTime, in.Name)
}

// GovernanceInfo loads a governance config for read-only callers.
func (e *Engine) GovernanceInfo(addr ledger.Address) (*Governance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadGovernance(addr)
}

// RealmInfo loads a realm record for read-only callers.
func (e *Engine) RealmInfo(addr ledger.Address) (*Realm, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadRealm(addr)
}

// Proposals lists the proposals created under a governance, oldest first.
func (e *Engine) Proposals(governance ledger.Address) ([]ledger.Address, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.loadGovernance(governance); err != nil {
		return nil, err
	}
	return e.governanceProposals(governance)
}
