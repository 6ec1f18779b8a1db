package gov

import "errors"

// Engine errors, one sentinel per failure class. Token capability errors
// (wrong mint, empty balance, bad authority) pass through from the ledger
// package untouched.
var (
	// ErrInvalidInstruction covers unknown tags and truncated buffers.
	ErrInvalidInstruction = errors.New("invalid instruction data")

	// ErrRecordNotFound means a referenced record does not exist.
	ErrRecordNotFound = errors.New("record not found")
	// ErrRecordExists means a create hit an already-initialized record.
	ErrRecordExists = errors.New("record already initialized")
	// ErrWrongRecordType means a key resolved to a different record kind.
	ErrWrongRecordType = errors.New("record type mismatch")

	// ErrInvalidState rejects a transition from the wrong lifecycle state.
	ErrInvalidState = errors.New("proposal is in the wrong state for this instruction")
	// ErrAccountsShouldMatch rejects a referenced account that does not
	// match the address recorded on the proposal.
	ErrAccountsShouldMatch = errors.New("accounts should match")
	// ErrInvalidAuthority means the derived program authority does not own
	// the validation account it must sign for.
	ErrInvalidAuthority = errors.New("invalid governance authority")

	// ErrTooHighPosition rejects a transaction position past the array end.
	ErrTooHighPosition = errors.New("position exceeds transaction array capacity")
	// ErrInvalidInstructionEndIndex rejects an end index past the buffer.
	ErrInvalidInstructionEndIndex = errors.New("instruction end index exceeds instruction buffer")
	// ErrHoldUpTimeBelowMinimum rejects a delay below the governance floor.
	ErrHoldUpTimeBelowMinimum = errors.New("delay slots below minimum instruction hold up time")
	// ErrTransactionNotFound means the address is not in the state array.
	ErrTransactionNotFound = errors.New("transaction not found in proposal")
	// ErrTransactionAlreadyExecuted rejects a second Execute on one slot.
	ErrTransactionAlreadyExecuted = errors.New("transaction already executed")
	// ErrTooEarlyToExecute means the hold-up delay has not elapsed.
	ErrTooEarlyToExecute = errors.New("transaction hold up delay has not elapsed")

	// ErrInvalidVoteThreshold rejects thresholds outside (0, 100].
	ErrInvalidVoteThreshold = errors.New("vote threshold must be between 1 and 100")
	// ErrInvalidVote rejects a Vote that is not exactly one-sided.
	ErrInvalidVote = errors.New("vote must be either yes or no with a nonzero amount")
	// ErrVotingStillActive rejects a finalize before the deadline.
	ErrVotingStillActive = errors.New("voting window has not expired")
	// ErrInvalidGoverningTokenMint means the mint belongs to neither the
	// realm's governance nor its council token.
	ErrInvalidGoverningTokenMint = errors.New("mint is not a governing token mint of the realm")
	// ErrVoterHasActiveVotes blocks a withdrawal while votes are open.
	ErrVoterHasActiveVotes = errors.New("voter record has active votes")
	// ErrAmountAboveWithdrawable rejects withdrawing more than is released.
	ErrAmountAboveWithdrawable = errors.New("amount exceeds withdrawable balance")

	// ErrNumericalOverflow marks checked arithmetic that would wrap. This is
	// a systemic invariant violation, never silently saturated.
	ErrNumericalOverflow = errors.New("numerical overflow")
)
