package gov

import "tokengov/ledger"

// Event emitters. One short structured line per state change so watchers can
// follow the lifecycle without diffing the store.

func (e *Engine) emitRealmCreated(realm ledger.Address, name string) {
	e.log.Info().Str("realm", realm.String()).Str("name", name).Msg("realm created")
}

func (e *Engine) emitGovernanceCreated(governance, target ledger.Address) {
	e.log.Info().Str("governance", governance.String()).Str("target", target.String()).Msg("governance created")
}

func (e *Engine) emitProposalCreated(proposal ledger.Address, by ledger.Address) {
	e.log.Info().Str("proposal", proposal.String()).Str("by", by.String()).Msg("proposal created")
}

func (e *Engine) emitStatusChanged(proposal ledger.Address, status ProposalStatus) {
	e.log.Info().Str("proposal", proposal.String()).Str("status", status.String()).Msg("proposal status changed")
}

func (e *Engine) emitVote(proposal, voter ledger.Address, v Vote) {
	e.log.Info().Str("proposal", proposal.String()).Str("voter", voter.String()).
		Uint64("yes", v.Yes).Uint64("no", v.No).Msg("vote cast")
}

func (e *Engine) emitTransactionQueued(proposal, txn ledger.Address, position uint8) {
	e.log.Info().Str("proposal", proposal.String()).Str("txn", txn.String()).
		Uint8("position", position).Msg("transaction queued")
}

func (e *Engine) emitTransactionExecuted(proposal, txn ledger.Address) {
	e.log.Info().Str("proposal", proposal.String()).Str("txn", txn.String()).Msg("transaction executed")
}

func (e *Engine) emitDeposit(realm, owner ledger.Address, amount uint64) {
	e.log.Info().Str("realm", realm.String()).Str("owner", owner.String()).
		Uint64("amount", amount).Msg("governing tokens deposited")
}

func (e *Engine) emitWithdraw(realm, owner ledger.Address, amount uint64) {
	e.log.Info().Str("realm", realm.String()).Str("owner", owner.String()).
		Uint64("amount", amount).Msg("governing tokens withdrawn")
}
