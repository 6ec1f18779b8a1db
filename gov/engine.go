package gov

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"tokengov/ledger"
	"tokengov/store"
)

// Engine is the governance state machine. One instance owns a record store,
// a token book, a slot clock and an invoker for executing queued
// transactions. Every instruction runs under the engine mutex so record
// read-modify-write cycles never interleave.
type Engine struct {
	program ledger.Address

	mu      sync.Mutex
	records store.Store
	tokens  *ledger.Book
	clock   ledger.Clock
	invoker ledger.Invoker
	log     zerolog.Logger
}

// New wires an engine to its backing store and host capabilities. The token
// book shares the record store so one backend persists everything.
func New(program ledger.Address, st store.Store, clock ledger.Clock, invoker ledger.Invoker, log zerolog.Logger) *Engine {
	return &Engine{
		program: program,
		records: st,
		tokens:  ledger.NewBook(st),
		clock:   clock,
		invoker: invoker,
		log:     log.With().Str("component", "gov").Logger(),
	}
}

// Program returns the engine's program address, the root of every derived
// address.
func (e *Engine) Program() ledger.Address {
	return e.program
}

// Tokens exposes the engine's token book for account setup and balance
// checks outside instruction processing.
func (e *Engine) Tokens() *ledger.Book {
	return e.tokens
}

// Dispatch decodes one wire instruction and processes it on behalf of
// caller. It is the single entry point a transport should use.
func (e *Engine) Dispatch(caller ledger.Address, data []byte) error {
	in, err := DecodeInstruction(data)
	if err != nil {
		return err
	}
	return e.Process(caller, in)
}

// Process routes one decoded instruction to its handler.
func (e *Engine) Process(caller ledger.Address, in Instruction) error {
	switch v := in.(type) {
	case CreateRealm:
		_, err := e.CreateRealm(caller, v)
		return err
	case DepositGoverningTokens:
		return e.DepositGoverningTokens(caller, v)
	case WithdrawGoverningTokens:
		return e.WithdrawGoverningTokens(caller, v)
	case SetVoteAuthority:
		return e.SetVoteAuthority(caller, v)
	case CreateProgramGovernance:
		_, err := e.CreateProgramGovernance(caller, v)
		return err
	case CreateAccountGovernance:
		_, err := e.CreateAccountGovernance(caller, v)
		return err
	case InitProposal:
		_, err := e.InitProposal(caller, v)
		return err
	case CreateProposal:
		_, err := e.CreateProposal(caller, v)
		return err
	case AddSignatory:
		return e.AddSignatory(caller, v)
	case RemoveSignatory:
		return e.RemoveSignatory(caller, v)
	case AddCustomSingleSignerTransaction:
		_, err := e.AddTransaction(caller, v)
		return err
	case RemoveTransaction:
		return e.RemoveTransaction(caller, v)
	case UpdateTransactionDelaySlots:
		return e.UpdateTransactionDelaySlots(caller, v)
	case CancelProposal:
		return e.CancelProposal(caller, v)
	case SignProposal:
		return e.SignProposal(caller, v)
	case CastVote:
		return e.Vote(caller, v)
	case FinalizeVote:
		return e.FinalizeVote(caller, v)
	case Execute:
		return e.Execute(caller, v)
	case DepositSourceTokens:
		return e.DepositSourceTokens(caller, v)
	case WithdrawVotingTokens:
		return e.WithdrawVotingTokens(caller, v)
	default:
		return fmt.Errorf("%w: unhandled instruction %T", ErrInvalidInstruction, in)
	}
}
