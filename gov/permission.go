package gov

import (
	"fmt"

	"tokengov/ledger"
)

// assertIsPermissioned proves the caller holds at least one token of a
// proposal's permission mint (signatory or admin). The proof is a round trip:
// the caller moves one token from their holder account into the proposal's
// validation account, then the derived program authority moves it straight
// back. A caller without a token cannot complete the first leg; a forged
// validation account fails the ownership check. Net balance change is zero.
func (e *Engine) assertIsPermissioned(caller, holder, validation, proposalAddr ledger.Address) error {
	authority := ProgramAuthority(e.program, proposalAddr)

	v, err := e.tokens.Account(validation)
	if err != nil {
		return err
	}
	if v.Owner != authority {
		return fmt.Errorf("%w: validation account %s not owned by program authority", ErrInvalidAuthority, validation)
	}

	if err := e.tokens.Transfer(holder, validation, 1, caller); err != nil {
		return err
	}
	return e.tokens.Transfer(validation, holder, 1, authority)
}

// assertIsSignatory proves the caller holds a signatory token of proposal.
func (e *Engine) assertIsSignatory(caller ledger.Address, proposalAddr ledger.Address, p *Proposal) error {
	holder := voterAccount(e.program, proposalAddr, caller, "signatory")
	return e.assertIsPermissioned(caller, holder, p.SignatoryValidation, proposalAddr)
}

// assertIsAdmin proves the caller holds the admin token of proposal.
func (e *Engine) assertIsAdmin(caller ledger.Address, proposalAddr ledger.Address, p *Proposal) error {
	holder := voterAccount(e.program, proposalAddr, caller, "admin")
	return e.assertIsPermissioned(caller, holder, p.AdminValidation, proposalAddr)
}
