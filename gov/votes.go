package gov

import (
	"errors"
	"fmt"

	"tokengov/ledger"
)

// DepositSourceTokens escrows source-mint tokens into the proposal's holding
// and issues the caller an equal amount of voting tokens. Allowed while the
// proposal is a draft or voting.
func (e *Engine) DepositSourceTokens(caller ledger.Address, in DepositSourceTokens) error {
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
	if state.Status != StatusDraft && state.Status != StatusVoting {
		return fmt.Errorf("%w: %s accepts no deposits", ErrInvalidState, state.Status)
	}
	if in.Amount == 0 {
		return fmt.Errorf("%w: zero deposit", ErrInvalidInstruction)
	}
	src, err := e.tokens.Account(in.SourceAccount)
	if err != nil {
		return err
	}
	if err := assertAccountEquiv(src.Mint, p.SourceMint); err != nil {
		return err
	}

	recordAddr := VoteRecordAddress(e.program, in.Proposal, caller)
	record, err := e.loadVoteRecord(recordAddr)
	opened := false
	if errors.Is(err, ErrRecordNotFound) {
		opened = true
		record = &VoteRecord{Type: RecordVoteRecord, Proposal: in.Proposal, Voter: caller}
	} else if err != nil {
		return err
	} else if record.UndecidedCount == 0 && record.YesCount == 0 && record.NoCount == 0 {
		// A fully unwound record is a closed position; this deposit
		// re-opens it.
		opened = true
	}
	undecided, err := addU64(record.UndecidedCount, in.Amount)
	if err != nil {
		return err
	}

	if err := e.tokens.Transfer(in.SourceAccount, p.SourceHolding, in.Amount, caller); err != nil {
		return err
	}
	authority := ProgramAuthority(e.program, in.Proposal)
	votingAcct := voterAccount(e.program, in.Proposal, caller, "voting")
	if err := e.tokens.EnsureAccount(votingAcct, p.VoteMint, caller); err != nil {
		return err
	}
	if err := e.tokens.MintTo(p.VoteMint, votingAcct, in.Amount, authority); err != nil {
		return err
	}

	record.UndecidedCount = undecided
	if err := e.saveVoteRecord(recordAddr, record); err != nil {
		return err
	}
	if opened {
		if err := e.bumpActiveVotes(p, caller); err != nil {
			return err
		}
	}
	return nil
}

// bumpActiveVotes increments the realm voter record counters for a voter who
// just opened a position on a proposal. A voter without a realm deposit
// record simply has nothing to book against.
func (e *Engine) bumpActiveVotes(p *Proposal, voter ledger.Address) error {
	g, err := e.loadGovernance(p.Governance)
	if err != nil {
		return err
	}
	recordAddr := VoterRecordAddress(e.program, g.Realm, p.SourceMint, voter)
	record, err := e.loadVoterRecord(recordAddr)
	if errors.Is(err, ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if record.ActiveVotesCount, err = addU8(record.ActiveVotesCount, 1); err != nil {
		return err
	}
	if record.TotalVotesCount, err = addU8(record.TotalVotesCount, 1); err != nil {
		return err
	}
	return e.saveVoterRecord(recordAddr, record)
}

// releaseActiveVote decrements the realm voter record's open-vote counter
// when a voter fully unwinds their position on one proposal.
func (e *Engine) releaseActiveVote(p *Proposal, voter ledger.Address) error {
	g, err := e.loadGovernance(p.Governance)
	if err != nil {
		return err
	}
	recordAddr := VoterRecordAddress(e.program, g.Realm, p.SourceMint, voter)
	record, err := e.loadVoterRecord(recordAddr)
	if errors.Is(err, ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	// A record created after the position was opened has nothing booked.
	if record.ActiveVotesCount == 0 {
		return nil
	}
	record.ActiveVotesCount--
	return e.saveVoterRecord(recordAddr, record)
}

// tipped evaluates the tip condition against current supplies. The
// percentage compares consumed weight against everything that ever existed,
// so abstention counts against tipping.
func tipped(remaining, total uint64, threshold uint8) bool {
	if remaining == 0 {
		return true
	}
	consumed := (1 - float64(remaining)/float64(total)) * 100
	return consumed >= float64(threshold)
}

// Vote burns voting tokens and mints yes/no evidence, then evaluates the tip
// and timeout conditions. A tip moves the proposal to executing; a timeout
// without a tip defeats it. Both stamp the voting end slot exactly once
// since a proposal leaves voting at most once.
func (e *Engine) Vote(caller ledger.Address, in CastVote) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if (in.Vote.Yes == 0) == (in.Vote.No == 0) {
		return fmt.Errorf("%w: yes=%d no=%d", ErrInvalidVote, in.Vote.Yes, in.Vote.No)
	}
	p, err := e.loadProposal(in.Proposal)
	if err != nil {
		return err
	}
	state, err := e.loadProposalState(in.Proposal)
	if err != nil {
		return err
	}
	g, err := e.loadGovernance(p.Governance)
	if err != nil {
		return err
	}
	if err := assertVoting(state); err != nil {
		return err
	}
	now := e.clock.Slot()
	elapsed, err := subU64(now, state.VotingBeganAt)
	if err != nil {
		return err
	}

	total, err := addU64(in.Vote.Yes, in.Vote.No)
	if err != nil {
		return err
	}
	recordAddr := VoteRecordAddress(e.program, in.Proposal, caller)
	record, err := e.loadVoteRecord(recordAddr)
	if err != nil {
		return err
	}
	// The record mirrors token balances, so every counter move is checked
	// before any token moves.
	undecided, err := subU64(record.UndecidedCount, total)
	if err != nil {
		return err
	}
	yesCount, err := addU64(record.YesCount, in.Vote.Yes)
	if err != nil {
		return err
	}
	noCount, err := addU64(record.NoCount, in.Vote.No)
	if err != nil {
		return err
	}

	votingAcct := voterAccount(e.program, in.Proposal, caller, "voting")
	if err := e.tokens.Burn(p.VoteMint, votingAcct, total, caller); err != nil {
		return err
	}
	authority := ProgramAuthority(e.program, in.Proposal)
	if in.Vote.Yes > 0 {
		yesAcct := voterAccount(e.program, in.Proposal, caller, "yes")
		if err := e.tokens.EnsureAccount(yesAcct, p.YesVoteMint, caller); err != nil {
			return err
		}
		if err := e.tokens.MintTo(p.YesVoteMint, yesAcct, in.Vote.Yes, authority); err != nil {
			return err
		}
	}
	if in.Vote.No > 0 {
		noAcct := voterAccount(e.program, in.Proposal, caller, "no")
		if err := e.tokens.EnsureAccount(noAcct, p.NoVoteMint, caller); err != nil {
			return err
		}
		if err := e.tokens.MintTo(p.NoVoteMint, noAcct, in.Vote.No, authority); err != nil {
			return err
		}
	}

	record.UndecidedCount = undecided
	record.YesCount = yesCount
	record.NoCount = noCount
	if err := e.saveVoteRecord(recordAddr, record); err != nil {
		return err
	}
	e.emitVote(in.Proposal, caller, in.Vote)

	yesSupply, err := e.tokens.Supply(p.YesVoteMint)
	if err != nil {
		return err
	}
	noSupply, err := e.tokens.Supply(p.NoVoteMint)
	if err != nil {
		return err
	}
	totalEver, err := e.tokens.Supply(p.SourceMint)
	if err != nil {
		return err
	}
	cast, err := addU64(yesSupply, noSupply)
	if err != nil {
		return err
	}
	remaining, err := subU64(totalEver, cast)
	if err != nil {
		return err
	}

	switch {
	case tipped(remaining, totalEver, g.VoteThreshold):
		state.Status = StatusExecuting
		state.VotingEndedAt = now
		e.emitStatusChanged(in.Proposal, StatusExecuting)
	case elapsed > g.MaxVotingTime:
		state.Status = StatusDefeated
		state.VotingEndedAt = now
		e.emitStatusChanged(in.Proposal, StatusDefeated)
	default:
		return e.saveProposalState(in.Proposal, state)
	}
	return e.saveProposalState(in.Proposal, state)
}

// FinalizeVote settles a proposal whose voting window expired without a
// closing vote. Anyone may call it after the deadline; the current tallies
// decide between executing and defeated.
func (e *Engine) FinalizeVote(caller ledger.Address, in FinalizeVote) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = caller

	p, err := e.loadProposal(in.Proposal)
	if err != nil {
		return err
	}
	state, err := e.loadProposalState(in.Proposal)
	if err != nil {
		return err
	}
	g, err := e.loadGovernance(p.Governance)
	if err != nil {
		return err
	}
	if err := assertVoting(state); err != nil {
		return err
	}
	now := e.clock.Slot()
	elapsed, err := subU64(now, state.VotingBeganAt)
	if err != nil {
		return err
	}
	if elapsed <= g.MaxVotingTime {
		return fmt.Errorf("%w: deadline at slot %d", ErrVotingStillActive, state.VotingBeganAt+g.MaxVotingTime)
	}

	yesSupply, err := e.tokens.Supply(p.YesVoteMint)
	if err != nil {
		return err
	}
	noSupply, err := e.tokens.Supply(p.NoVoteMint)
	if err != nil {
		return err
	}
	totalEver, err := e.tokens.Supply(p.SourceMint)
	if err != nil {
		return err
	}
	cast, err := addU64(yesSupply, noSupply)
	if err != nil {
		return err
	}
	remaining, err := subU64(totalEver, cast)
	if err != nil {
		return err
	}

	if tipped(remaining, totalEver, g.VoteThreshold) {
		state.Status = StatusExecuting
	} else {
		state.Status = StatusDefeated
	}
	state.VotingEndedAt = now
	if err := e.saveProposalState(in.Proposal, state); err != nil {
		return err
	}
	e.emitStatusChanged(in.Proposal, state.Status)
	return nil
}

// WithdrawVotingTokens unwinds a voter's position: voting tokens burn back
// into source tokens, and once voting is over the yes/no evidence moves to
// the dump accounts so its source escrow releases too. While voting is live
// only the undecided balance is withdrawable.
func (e *Engine) WithdrawVotingTokens(caller ledger.Address, in WithdrawVotingTokens) error {
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
	recordAddr := VoteRecordAddress(e.program, in.Proposal, caller)
	record, err := e.loadVoteRecord(recordAddr)
	if err != nil {
		return err
	}

	amount := in.VotingTokenAmount
	if amount == 0 {
		return fmt.Errorf("%w: zero withdrawal", ErrInvalidInstruction)
	}
	withdrawable := record.UndecidedCount
	if state.Status != StatusVoting {
		committed, err := addU64(record.YesCount, record.NoCount)
		if err != nil {
			return err
		}
		if withdrawable, err = addU64(withdrawable, committed); err != nil {
			return err
		}
	}
	if amount > withdrawable {
		return fmt.Errorf("%w: %d > %d", ErrAmountAboveWithdrawable, amount, withdrawable)
	}

	// Drain undecided first, then yes evidence, then no evidence.
	fromUndecided := amount
	if fromUndecided > record.UndecidedCount {
		fromUndecided = record.UndecidedCount
	}
	rest := amount - fromUndecided
	fromYes := rest
	if fromYes > record.YesCount {
		fromYes = record.YesCount
	}
	fromNo := rest - fromYes

	authority := ProgramAuthority(e.program, in.Proposal)
	if fromUndecided > 0 {
		votingAcct := voterAccount(e.program, in.Proposal, caller, "voting")
		if err := e.tokens.Burn(p.VoteMint, votingAcct, fromUndecided, caller); err != nil {
			return err
		}
	}
	if fromYes > 0 {
		yesAcct := voterAccount(e.program, in.Proposal, caller, "yes")
		if err := e.tokens.Transfer(yesAcct, p.YesVoteDump, fromYes, caller); err != nil {
			return err
		}
	}
	if fromNo > 0 {
		noAcct := voterAccount(e.program, in.Proposal, caller, "no")
		if err := e.tokens.Transfer(noAcct, p.NoVoteDump, fromNo, caller); err != nil {
			return err
		}
	}
	if err := e.tokens.Transfer(p.SourceHolding, in.Destination, amount, authority); err != nil {
		return err
	}

	record.UndecidedCount -= fromUndecided
	record.YesCount -= fromYes
	record.NoCount -= fromNo
	if err := e.saveVoteRecord(recordAddr, record); err != nil {
		return err
	}
	if record.UndecidedCount == 0 && record.YesCount == 0 && record.NoCount == 0 {
		return e.releaseActiveVote(p, caller)
	}
	return nil
}

// VoteRecordInfo loads a voter's tally record on one proposal.
func (e *Engine) VoteRecordInfo(proposal, voter ledger.Address) (*VoteRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadVoteRecord(VoteRecordAddress(e.program, proposal, voter))
}

// VoterRecordInfo loads a realm deposit record.
func (e *Engine) VoterRecordInfo(realm, mint, owner ledger.Address) (*VoterRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadVoterRecord(VoterRecordAddress(e.program, realm, mint, owner))
}
