package gov

import (
	"errors"
	"fmt"

	"tokengov/ledger"
)

// CreateRealm registers a community under a governance token mint, with an
// optional council mint, and opens the escrow holding accounts deposits flow
// into. The realm address derives from its name, so names are unique per
// program. Returns the realm address.
func (e *Engine) CreateRealm(caller ledger.Address, in CreateRealm) (ledger.Address, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if in.Name == "" || len(in.Name) > MaxGovernanceNameLen {
		return ledger.ZeroAddress, fmt.Errorf("%w: realm name length %d", ErrInvalidInstruction, len(in.Name))
	}
	if _, err := e.tokens.MintInfo(in.GovernanceMint); err != nil {
		return ledger.ZeroAddress, err
	}
	hasCouncil := !in.CouncilMint.IsZero()
	if hasCouncil {
		if _, err := e.tokens.MintInfo(in.CouncilMint); err != nil {
			return ledger.ZeroAddress, err
		}
	}

	addr := RealmAddress(e.program, in.Name)
	if ok, err := e.hasRecord(realmKey(addr)); err != nil {
		return ledger.ZeroAddress, err
	} else if ok {
		return ledger.ZeroAddress, fmt.Errorf("%w: realm %q", ErrRecordExists, in.Name)
	}

	authority := RealmAuthority(e.program, addr)
	realm := Realm{
		Type:           RecordRealm,
		Name:           in.Name,
		GovernanceMint: in.GovernanceMint,
		CouncilMint:    in.CouncilMint,
	}

	realm.GovernanceHolding = HoldingAddress(e.program, addr, in.GovernanceMint)
	if err := e.tokens.CreateAccount(realm.GovernanceHolding, in.GovernanceMint, authority); err != nil {
		return ledger.ZeroAddress, err
	}
	if hasCouncil {
		realm.CouncilHolding = HoldingAddress(e.program, addr, in.CouncilMint)
		if err := e.tokens.CreateAccount(realm.CouncilHolding, in.CouncilMint, authority); err != nil {
			return ledger.ZeroAddress, err
		}
	}

	if err := e.saveRealm(addr, &realm); err != nil {
		return ledger.ZeroAddress, err
	}
	e.emitRealmCreated(addr, in.Name)
	return addr, nil
}

// governingToken resolves a mint against the realm's governance and council
// mints, returning the token type and the matching holding account.
func governingToken(r *Realm, mint ledger.Address) (GoverningTokenType, ledger.Address, error) {
	switch {
	case mint == r.GovernanceMint:
		return TokenTypeGovernance, r.GovernanceHolding, nil
	case !r.CouncilMint.IsZero() && mint == r.CouncilMint:
		return TokenTypeCouncil, r.CouncilHolding, nil
	default:
		return 0, ledger.ZeroAddress, fmt.Errorf("%w: %s", ErrInvalidGoverningTokenMint, mint)
	}
}

// DepositGoverningTokens escrows the caller's entire source account balance
// into the realm holding and books it on their voter record. Depositing the
// full balance keeps the record a plain mirror of what the holding owes.
func (e *Engine) DepositGoverningTokens(caller ledger.Address, in DepositGoverningTokens) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	realm, err := e.loadRealm(in.Realm)
	if err != nil {
		return err
	}
	src, err := e.tokens.Account(in.SourceAccount)
	if err != nil {
		return err
	}
	tokenType, holding, err := governingToken(realm, src.Mint)
	if err != nil {
		return err
	}
	amount := src.Amount
	if amount == 0 {
		return ledger.ErrInsufficientBalance
	}

	recordAddr := VoterRecordAddress(e.program, in.Realm, src.Mint, caller)
	record, err := e.loadVoterRecord(recordAddr)
	if errors.Is(err, ErrRecordNotFound) {
		record = &VoterRecord{
			Type:          RecordVoterRecord,
			Realm:         in.Realm,
			TokenType:     tokenType,
			TokenOwner:    caller,
			VoteAuthority: caller,
		}
	} else if err != nil {
		return err
	}
	deposit, err := addU64(record.TokenDepositAmount, amount)
	if err != nil {
		return err
	}

	if err := e.tokens.Transfer(in.SourceAccount, holding, amount, caller); err != nil {
		return err
	}
	record.TokenDepositAmount = deposit
	if err := e.saveVoterRecord(recordAddr, record); err != nil {
		return err
	}
	e.emitDeposit(in.Realm, caller, amount)
	return nil
}

// WithdrawGoverningTokens releases the caller's full escrowed deposit back to
// a destination account. Refused while the voter has any open votes, since
// the deposit backs them.
func (e *Engine) WithdrawGoverningTokens(caller ledger.Address, in WithdrawGoverningTokens) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	realm, err := e.loadRealm(in.Realm)
	if err != nil {
		return err
	}
	_, holding, err := governingToken(realm, in.GoverningTokenMint)
	if err != nil {
		return err
	}

	recordAddr := VoterRecordAddress(e.program, in.Realm, in.GoverningTokenMint, caller)
	record, err := e.loadVoterRecord(recordAddr)
	if err != nil {
		return err
	}
	if record.ActiveVotesCount > 0 {
		return fmt.Errorf("%w: %d open", ErrVoterHasActiveVotes, record.ActiveVotesCount)
	}
	amount := record.TokenDepositAmount
	if amount == 0 {
		return ErrAmountAboveWithdrawable
	}

	authority := RealmAuthority(e.program, in.Realm)
	if err := e.tokens.Transfer(holding, in.Destination, amount, authority); err != nil {
		return err
	}
	record.TokenDepositAmount = 0
	if err := e.saveVoterRecord(recordAddr, record); err != nil {
		return err
	}
	e.emitWithdraw(in.Realm, caller, amount)
	return nil
}

// SetVoteAuthority lets a token owner delegate their escrowed voting weight.
// Only the owner may change the delegate, and only on their own record.
func (e *Engine) SetVoteAuthority(caller ledger.Address, in SetVoteAuthority) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != in.TokenOwner {
		return fmt.Errorf("%w: only the token owner may delegate", ErrInvalidAuthority)
	}
	recordAddr := VoterRecordAddress(e.program, in.Realm, in.GoverningTokenMint, in.TokenOwner)
	record, err := e.loadVoterRecord(recordAddr)
	if err != nil {
		return err
	}
	record.VoteAuthority = in.NewVoteAuthority
	return e.saveVoterRecord(recordAddr, record)
}
