package gov

import (
	"fmt"

	"tokengov/ledger"
)

// InitProposal creates a proposal under a governance: the five single-use
// mints, the validation accounts the permission guard round-trips through,
// the source escrow and the two withdrawal dumps. The creator receives the
// admin token and the first signatory token. Returns the proposal address.
func (e *Engine) InitProposal(caller ledger.Address, in InitProposal) (ledger.Address, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if in.Name == "" || len(in.Name) > MaxProposalNameLen {
		return ledger.ZeroAddress, fmt.Errorf("%w: proposal name length %d", ErrInvalidInstruction, len(in.Name))
	}
	if len(in.DescriptionLink) > MaxDescriptionLen {
		return ledger.ZeroAddress, fmt.Errorf("%w: description length %d", ErrInvalidInstruction, len(in.DescriptionLink))
	}
	g, err := e.loadGovernance(in.Governance)
	if err != nil {
		return ledger.ZeroAddress, err
	}
	if _, err := e.tokens.MintInfo(in.SourceMint); err != nil {
		return ledger.ZeroAddress, err
	}

	addr := ProposalAddress(e.program, in.Governance, g.ProposalCount)
	if ok, err := e.hasRecord(proposalKey(addr)); err != nil {
		return ledger.ZeroAddress, err
	} else if ok {
		return ledger.ZeroAddress, fmt.Errorf("%w: proposal %s", ErrRecordExists, addr)
	}

	authority := ProgramAuthority(e.program, addr)
	p := Proposal{
		Type:       RecordProposal,
		Governance: in.Governance,
		State:      addr,
		SourceMint: in.SourceMint,

		SignatoryMint: proposalAccount(e.program, addr, "signatory-mint"),
		AdminMint:     proposalAccount(e.program, addr, "admin-mint"),
		VoteMint:      proposalAccount(e.program, addr, "vote-mint"),
		YesVoteMint:   proposalAccount(e.program, addr, "yes-mint"),
		NoVoteMint:    proposalAccount(e.program, addr, "no-mint"),

		SignatoryValidation: proposalAccount(e.program, addr, "signatory-validation"),
		AdminValidation:     proposalAccount(e.program, addr, "admin-validation"),
		VoteValidation:      proposalAccount(e.program, addr, "vote-validation"),

		SourceHolding: proposalAccount(e.program, addr, "source-holding"),
		YesVoteDump:   proposalAccount(e.program, addr, "yes-dump"),
		NoVoteDump:    proposalAccount(e.program, addr, "no-dump"),
	}

	for _, mint := range []ledger.Address{p.SignatoryMint, p.AdminMint, p.VoteMint, p.YesVoteMint, p.NoVoteMint} {
		if err := e.tokens.CreateMint(mint, authority); err != nil {
			return ledger.ZeroAddress, err
		}
	}
	setups := []struct{ acct, mint ledger.Address }{
		{p.SignatoryValidation, p.SignatoryMint},
		{p.AdminValidation, p.AdminMint},
		{p.VoteValidation, p.VoteMint},
		{p.SourceHolding, in.SourceMint},
		{p.YesVoteDump, p.YesVoteMint},
		{p.NoVoteDump, p.NoVoteMint},
	}
	for _, s := range setups {
		if err := e.tokens.CreateAccount(s.acct, s.mint, authority); err != nil {
			return ledger.ZeroAddress, err
		}
	}

	// The creator gets the admin token and the first signatory token.
	adminHolder := voterAccount(e.program, addr, caller, "admin")
	signatoryHolder := voterAccount(e.program, addr, caller, "signatory")
	if err := e.tokens.CreateAccount(adminHolder, p.AdminMint, caller); err != nil {
		return ledger.ZeroAddress, err
	}
	if err := e.tokens.CreateAccount(signatoryHolder, p.SignatoryMint, caller); err != nil {
		return ledger.ZeroAddress, err
	}
	if err := e.tokens.MintTo(p.AdminMint, adminHolder, 1, authority); err != nil {
		return ledger.ZeroAddress, err
	}
	if err := e.tokens.MintTo(p.SignatoryMint, signatoryHolder, 1, authority); err != nil {
		return ledger.ZeroAddress, err
	}

	state := ProposalState{
		Type:                     RecordProposalState,
		Proposal:                 addr,
		Status:                   StatusDraft,
		TotalSigningTokensMinted: 1,
		DescriptionLink:          in.DescriptionLink,
		Name:                     in.Name,
		CreatedAt:                e.clock.Slot(),
	}
	if err := e.saveProposal(addr, &p); err != nil {
		return ledger.ZeroAddress, err
	}
	if err := e.saveProposalState(addr, &state); err != nil {
		return ledger.ZeroAddress, err
	}

	g.ProposalCount++
	if err := e.saveGovernance(in.Governance, g); err != nil {
		return ledger.ZeroAddress, err
	}
	if err := e.appendGovernanceProposal(in.Governance, addr); err != nil {
		return ledger.ZeroAddress, err
	}
	e.emitProposalCreated(addr, caller)
	return addr, nil
}

// CreateProposal is the newer-generation alias for InitProposal; both build
// the same records.
func (e *Engine) CreateProposal(caller ledger.Address, in CreateProposal) (ledger.Address, error) {
	return e.InitProposal(caller, InitProposal(in))
}

// AddSignatory mints one signatory token to a new signatory. Admin only,
// draft only: once voting starts the signatory set is frozen.
func (e *Engine) AddSignatory(caller ledger.Address, in AddSignatory) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.loadProposal(in.Proposal)
	if err != nil {
		return err
	}
	state, err := e.loadProposalState(in.Proposal)
	if err != nil {
		return err
	}
	if err := assertDraft(state); err != nil {
		return err
	}
	if err := e.assertIsAdmin(caller, in.Proposal, p); err != nil {
		return err
	}

	total, err := addU64(state.TotalSigningTokensMinted, 1)
	if err != nil {
		return err
	}
	authority := ProgramAuthority(e.program, in.Proposal)
	holder := voterAccount(e.program, in.Proposal, in.Signatory, "signatory")
	if err := e.tokens.EnsureAccount(holder, p.SignatoryMint, in.Signatory); err != nil {
		return err
	}
	if err := e.tokens.MintTo(p.SignatoryMint, holder, 1, authority); err != nil {
		return err
	}
	state.TotalSigningTokensMinted = total
	return e.saveProposalState(in.Proposal, state)
}

// RemoveSignatory burns a signatory's token, shrinking the set of approvals
// the draft still needs. Admin only, draft only.
func (e *Engine) RemoveSignatory(caller ledger.Address, in RemoveSignatory) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.loadProposal(in.Proposal)
	if err != nil {
		return err
	}
	state, err := e.loadProposalState(in.Proposal)
	if err != nil {
		return err
	}
	if err := assertDraft(state); err != nil {
		return err
	}
	if err := e.assertIsAdmin(caller, in.Proposal, p); err != nil {
		return err
	}

	total, err := subU64(state.TotalSigningTokensMinted, 1)
	if err != nil {
		return err
	}
	holder := voterAccount(e.program, in.Proposal, in.Signatory, "signatory")
	if err := e.tokens.Burn(p.SignatoryMint, holder, 1, in.Signatory); err != nil {
		return err
	}
	state.TotalSigningTokensMinted = total
	return e.saveProposalState(in.Proposal, state)
}

// SignProposal burns the caller's signatory token as their approval. When the
// last outstanding signatory token is burned the proposal enters voting and
// the voting clock starts.
func (e *Engine) SignProposal(caller ledger.Address, in SignProposal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.loadProposal(in.Proposal)
	if err != nil {
		return err
	}
	state, err := e.loadProposalState(in.Proposal)
	if err != nil {
		return err
	}
	if err := assertDraft(state); err != nil {
		return err
	}
	if err := e.assertIsSignatory(caller, in.Proposal, p); err != nil {
		return err
	}

	total, err := subU64(state.TotalSigningTokensMinted, 1)
	if err != nil {
		return err
	}
	holder := voterAccount(e.program, in.Proposal, caller, "signatory")
	if err := e.tokens.Burn(p.SignatoryMint, holder, 1, caller); err != nil {
		return err
	}
	state.TotalSigningTokensMinted = total

	supply, err := e.tokens.Supply(p.SignatoryMint)
	if err != nil {
		return err
	}
	if supply == 0 {
		state.Status = StatusVoting
		state.VotingBeganAt = e.clock.Slot()
		e.emitStatusChanged(in.Proposal, StatusVoting)
	}
	return e.saveProposalState(in.Proposal, state)
}

// CancelProposal is the admin's escape hatch: any proposal not currently in
// voting or executing can be withdrawn. Deposits already escrowed stay
// withdrawable.
func (e *Engine) CancelProposal(caller ledger.Address, in CancelProposal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.loadProposal(in.Proposal)
	if err != nil {
		return err
	}
	state, err := e.loadProposalState(in.Proposal)
	if err != nil {
		return err
	}
	if err := assertNotInVotingOrExecuting(state); err != nil {
		return err
	}
	if err := e.assertIsAdmin(caller, in.Proposal, p); err != nil {
		return err
	}

	state.Status = StatusCancelled
	state.DeletedAt = e.clock.Slot()
	if err := e.saveProposalState(in.Proposal, state); err != nil {
		return err
	}
	e.emitStatusChanged(in.Proposal, StatusCancelled)
	return nil
}

// ProposalInfo loads the immutable half of a proposal for read-only callers.
func (e *Engine) ProposalInfo(addr ledger.Address) (*Proposal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadProposal(addr)
}

// ProposalStateInfo loads the mutable half of a proposal.
func (e *Engine) ProposalStateInfo(addr ledger.Address) (*ProposalState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadProposalState(addr)
}
