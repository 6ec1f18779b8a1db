package gov

import (
	"fmt"

	"tokengov/ledger"
)

// AddTransaction queues one instruction at a position of the proposal's
// transaction array. Signatory only, draft only. The delay must respect the
// governance's minimum hold-up time. Returns the transaction address.
func (e *Engine) AddTransaction(caller ledger.Address, in AddCustomSingleSignerTransaction) (ledger.Address, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.loadProposal(in.Proposal)
	if err != nil {
		return ledger.ZeroAddress, err
	}
	state, err := e.loadProposalState(in.Proposal)
	if err != nil {
		return ledger.ZeroAddress, err
	}
	g, err := e.loadGovernance(p.Governance)
	if err != nil {
		return ledger.ZeroAddress, err
	}
	if err := assertDraft(state); err != nil {
		return ledger.ZeroAddress, err
	}

	if int(in.Position) >= MaxTransactions {
		return ledger.ZeroAddress, fmt.Errorf("%w: position %d", ErrTooHighPosition, in.Position)
	}
	if !state.Transactions[in.Position].IsZero() {
		return ledger.ZeroAddress, fmt.Errorf("%w: position %d occupied", ErrRecordExists, in.Position)
	}
	if int(in.InstructionEndIndex) >= MaxInstructionData {
		return ledger.ZeroAddress, fmt.Errorf("%w: %d", ErrInvalidInstructionEndIndex, in.InstructionEndIndex)
	}
	if in.DelaySlots < g.MinInstructionHoldUpTime {
		return ledger.ZeroAddress, fmt.Errorf("%w: %d < %d", ErrHoldUpTimeBelowMinimum, in.DelaySlots, g.MinInstructionHoldUpTime)
	}
	count, err := addU8(state.NumberOfTransactions, 1)
	if err != nil {
		return ledger.ZeroAddress, err
	}

	if err := e.assertIsSignatory(caller, in.Proposal, p); err != nil {
		return ledger.ZeroAddress, err
	}

	addr := TransactionAddress(e.program, in.Proposal, in.Position)
	txn := SingleSignerTransaction{
		Type:                RecordTransaction,
		DelaySlots:          in.DelaySlots,
		Instruction:         in.Instruction,
		InstructionEndIndex: in.InstructionEndIndex,
	}
	if err := e.saveTransaction(addr, &txn); err != nil {
		return ledger.ZeroAddress, err
	}
	state.Transactions[in.Position] = addr
	state.NumberOfTransactions = count
	if err := e.saveProposalState(in.Proposal, state); err != nil {
		return ledger.ZeroAddress, err
	}
	e.emitTransactionQueued(in.Proposal, addr, in.Position)
	return addr, nil
}

// findTransaction locates a transaction address in the state array.
func findTransaction(state *ProposalState, txn ledger.Address) (int, error) {
	for i := range state.Transactions {
		if !state.Transactions[i].IsZero() && state.Transactions[i] == txn {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrTransactionNotFound, txn)
}

// RemoveTransaction unqueues a transaction from a draft proposal. The array
// keeps its gap; a later add may reuse the position.
func (e *Engine) RemoveTransaction(caller ledger.Address, in RemoveTransaction) error {
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
	pos, err := findTransaction(state, in.Transaction)
	if err != nil {
		return err
	}
	count, err := subU8(state.NumberOfTransactions, 1)
	if err != nil {
		return err
	}
	if err := e.assertIsSignatory(caller, in.Proposal, p); err != nil {
		return err
	}

	if err := e.deleteTransaction(in.Transaction); err != nil {
		return err
	}
	state.Transactions[pos] = ledger.ZeroAddress
	state.NumberOfTransactions = count
	return e.saveProposalState(in.Proposal, state)
}

// UpdateTransactionDelaySlots changes a queued transaction's hold-up delay
// while the proposal is still a draft.
func (e *Engine) UpdateTransactionDelaySlots(caller ledger.Address, in UpdateTransactionDelaySlots) error {
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
	g, err := e.loadGovernance(p.Governance)
	if err != nil {
		return err
	}
	if err := assertDraft(state); err != nil {
		return err
	}
	if _, err := findTransaction(state, in.Transaction); err != nil {
		return err
	}
	if in.DelaySlots < g.MinInstructionHoldUpTime {
		return fmt.Errorf("%w: %d < %d", ErrHoldUpTimeBelowMinimum, in.DelaySlots, g.MinInstructionHoldUpTime)
	}
	if err := e.assertIsSignatory(caller, in.Proposal, p); err != nil {
		return err
	}

	txn, err := e.loadTransaction(in.Transaction)
	if err != nil {
		return err
	}
	txn.DelaySlots = in.DelaySlots
	return e.saveTransaction(in.Transaction, txn)
}

// Execute runs one queued transaction once its hold-up delay has elapsed
// after voting ended. Anyone may call it. When the last transaction runs the
// proposal completes.
func (e *Engine) Execute(caller ledger.Address, in Execute) error {
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
	if err := assertExecuting(state); err != nil {
		return err
	}
	if _, err := findTransaction(state, in.Transaction); err != nil {
		return err
	}
	txn, err := e.loadTransaction(in.Transaction)
	if err != nil {
		return err
	}
	if txn.Executed != 0 {
		return ErrTransactionAlreadyExecuted
	}
	eligibleAt, err := addU64(state.VotingEndedAt, txn.DelaySlots)
	if err != nil {
		return err
	}
	if e.clock.Slot() < eligibleAt {
		return fmt.Errorf("%w: eligible at slot %d, now %d", ErrTooEarlyToExecute, eligibleAt, e.clock.Slot())
	}
	executed, err := addU8(state.NumberOfExecutedTransactions, 1)
	if err != nil {
		return err
	}

	authority := ProgramAuthority(e.program, in.Proposal)
	if err := e.invoker.Invoke(g.GovernedTarget, txn.Payload(), []ledger.Address{authority}); err != nil {
		return err
	}

	txn.Executed = 1
	if err := e.saveTransaction(in.Transaction, txn); err != nil {
		return err
	}
	state.NumberOfExecutedTransactions = executed
	if executed == state.NumberOfTransactions {
		state.Status = StatusCompleted
		state.CompletedAt = e.clock.Slot()
		e.emitStatusChanged(in.Proposal, StatusCompleted)
	}
	if err := e.saveProposalState(in.Proposal, state); err != nil {
		return err
	}
	e.emitTransactionExecuted(in.Proposal, in.Transaction)
	return nil
}

// TransactionInfo loads a queued transaction for read-only callers.
func (e *Engine) TransactionInfo(addr ledger.Address) (*SingleSignerTransaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadTransaction(addr)
}
