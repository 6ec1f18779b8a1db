package gov

import (
	"fmt"

	"tokengov/ledger"
)

// assertDraft gates instructions that only make sense while the proposal is
// still collecting signatories and transactions.
func assertDraft(s *ProposalState) error {
	if s.Status != StatusDraft {
		return fmt.Errorf("%w: %s, want draft", ErrInvalidState, s.Status)
	}
	return nil
}

// assertVoting gates Vote and the voting-token withdrawal path.
func assertVoting(s *ProposalState) error {
	if s.Status != StatusVoting {
		return fmt.Errorf("%w: %s, want voting", ErrInvalidState, s.Status)
	}
	return nil
}

// assertExecuting gates Execute.
func assertExecuting(s *ProposalState) error {
	if s.Status != StatusExecuting {
		return fmt.Errorf("%w: %s, want executing", ErrInvalidState, s.Status)
	}
	return nil
}

// assertNotInVotingOrExecuting gates withdrawals that must wait for the
// proposal to settle.
func assertNotInVotingOrExecuting(s *ProposalState) error {
	if s.Status == StatusVoting || s.Status == StatusExecuting {
		return fmt.Errorf("%w: %s is still live", ErrInvalidState, s.Status)
	}
	return nil
}

// assertAccountEquiv checks a caller-referenced address against the one
// recorded on the proposal.
func assertAccountEquiv(got, want ledger.Address) error {
	if got != want {
		return fmt.Errorf("%w: got %s, want %s", ErrAccountsShouldMatch, got, want)
	}
	return nil
}
