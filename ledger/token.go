package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"

	"tokengov/store"
)

// Token capability errors. The engine treats these as external failures and
// propagates them verbatim.
var (
	ErrMintNotFound        = errors.New("mint not found")
	ErrMintExists          = errors.New("mint already exists")
	ErrAccountNotFound     = errors.New("token account not found")
	ErrAccountExists       = errors.New("token account already exists")
	ErrMintMismatch        = errors.New("token account mint mismatch")
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrNotAuthorized       = errors.New("authority cannot act on this token account")
	ErrAmountOverflow      = errors.New("token amount overflow")
)

// Mint is a fungible token class. Supply tracks total outstanding tokens;
// only Authority may mint.
type Mint struct {
	Supply    uint64
	Authority Address
}

// TokenAccount holds a balance of one mint on behalf of an owner. Only the
// owner may move or burn the balance.
type TokenAccount struct {
	Mint   Address
	Owner  Address
	Amount uint64
}

// key prefixes, kept away from the engine's record prefixes
const (
	kMint    byte = 0x60
	kAccount byte = 0x61
)

// Book is the fungible-token capability the engine consumes: mint_to, burn
// and transfer, each checked against the acting authority. State lives in the
// same KV store as the governance records so one backend persists everything.
type Book struct {
	st store.Store
}

// NewBook binds a token book to a record store.
func NewBook(st store.Store) *Book {
	return &Book{st: st}
}

func mintKey(mint Address) string {
	buf := make([]byte, 0, 1+AddressSize)
	buf = append(buf, kMint)
	buf = append(buf, mint[:]...)
	return string(buf)
}

func accountKey(acct Address) string {
	buf := make([]byte, 0, 1+AddressSize)
	buf = append(buf, kAccount)
	buf = append(buf, acct[:]...)
	return string(buf)
}

func encodeMint(m *Mint) []byte {
	buf := make([]byte, 8+AddressSize)
	binary.LittleEndian.PutUint64(buf[:8], m.Supply)
	copy(buf[8:], m.Authority[:])
	return buf
}

func decodeMint(data []byte) (*Mint, error) {
	if len(data) != 8+AddressSize {
		return nil, fmt.Errorf("malformed mint record (%d bytes)", len(data))
	}
	var m Mint
	m.Supply = binary.LittleEndian.Uint64(data[:8])
	copy(m.Authority[:], data[8:])
	return &m, nil
}

func encodeAccount(a *TokenAccount) []byte {
	buf := make([]byte, AddressSize*2+8)
	copy(buf[:AddressSize], a.Mint[:])
	copy(buf[AddressSize:AddressSize*2], a.Owner[:])
	binary.LittleEndian.PutUint64(buf[AddressSize*2:], a.Amount)
	return buf
}

func decodeAccount(data []byte) (*TokenAccount, error) {
	if len(data) != AddressSize*2+8 {
		return nil, fmt.Errorf("malformed token account record (%d bytes)", len(data))
	}
	var a TokenAccount
	copy(a.Mint[:], data[:AddressSize])
	copy(a.Owner[:], data[AddressSize:AddressSize*2])
	a.Amount = binary.LittleEndian.Uint64(data[AddressSize*2:])
	return &a, nil
}

// CreateMint registers a new mint with zero supply under the given authority.
func (b *Book) CreateMint(mint, authority Address) error {
	if _, ok, err := b.st.Get(mintKey(mint)); err != nil {
		return err
	} else if ok {
		return ErrMintExists
	}
	return b.st.Set(mintKey(mint), encodeMint(&Mint{Authority: authority}))
}

// CreateAccount registers an empty token account for owner under mint.
func (b *Book) CreateAccount(acct, mint, owner Address) error {
	if _, err := b.MintInfo(mint); err != nil {
		return err
	}
	if _, ok, err := b.st.Get(accountKey(acct)); err != nil {
		return err
	} else if ok {
		return ErrAccountExists
	}
	return b.st.Set(accountKey(acct), encodeAccount(&TokenAccount{Mint: mint, Owner: owner}))
}

// EnsureAccount creates the account when missing and otherwise verifies it
// matches the expected mint and owner.
func (b *Book) EnsureAccount(acct, mint, owner Address) error {
	existing, err := b.Account(acct)
	if errors.Is(err, ErrAccountNotFound) {
		return b.CreateAccount(acct, mint, owner)
	}
	if err != nil {
		return err
	}
	if existing.Mint != mint {
		return ErrMintMismatch
	}
	if existing.Owner != owner {
		return ErrNotAuthorized
	}
	return nil
}

// MintInfo loads a mint record.
func (b *Book) MintInfo(mint Address) (*Mint, error) {
	data, ok, err := b.st.Get(mintKey(mint))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrMintNotFound
	}
	return decodeMint(data)
}

// Account loads a token account record.
func (b *Book) Account(acct Address) (*TokenAccount, error) {
	data, ok, err := b.st.Get(accountKey(acct))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAccountNotFound
	}
	return decodeAccount(data)
}

// Supply returns the outstanding supply of a mint.
func (b *Book) Supply(mint Address) (uint64, error) {
	m, err := b.MintInfo(mint)
	if err != nil {
		return 0, err
	}
	return m.Supply, nil
}

// Balance returns the amount held by a token account.
func (b *Book) Balance(acct Address) (uint64, error) {
	a, err := b.Account(acct)
	if err != nil {
		return 0, err
	}
	return a.Amount, nil
}

// MintTo creates amount new tokens on dest. The authority must match the
// mint's minting authority and dest must belong to the mint.
func (b *Book) MintTo(mint, dest Address, amount uint64, authority Address) error {
	m, err := b.MintInfo(mint)
	if err != nil {
		return err
	}
	if m.Authority != authority {
		return ErrNotAuthorized
	}
	acct, err := b.Account(dest)
	if err != nil {
		return err
	}
	if acct.Mint != mint {
		return ErrMintMismatch
	}
	supply, ok := checkedAdd(m.Supply, amount)
	if !ok {
		return ErrAmountOverflow
	}
	balance, ok := checkedAdd(acct.Amount, amount)
	if !ok {
		return ErrAmountOverflow
	}
	m.Supply = supply
	acct.Amount = balance
	if err := b.st.Set(mintKey(mint), encodeMint(m)); err != nil {
		return err
	}
	return b.st.Set(accountKey(dest), encodeAccount(acct))
}

// Burn destroys amount tokens held by source, shrinking the mint supply.
// Only the account owner may burn.
func (b *Book) Burn(mint, source Address, amount uint64, authority Address) error {
	m, err := b.MintInfo(mint)
	if err != nil {
		return err
	}
	acct, err := b.Account(source)
	if err != nil {
		return err
	}
	if acct.Mint != mint {
		return ErrMintMismatch
	}
	if acct.Owner != authority {
		return ErrNotAuthorized
	}
	if acct.Amount < amount {
		return ErrInsufficientBalance
	}
	if m.Supply < amount {
		return ErrAmountOverflow
	}
	m.Supply -= amount
	acct.Amount -= amount
	if err := b.st.Set(mintKey(mint), encodeMint(m)); err != nil {
		return err
	}
	return b.st.Set(accountKey(source), encodeAccount(acct))
}

// Transfer moves amount tokens between two accounts of the same mint.
// Only the source owner may transfer.
func (b *Book) Transfer(source, dest Address, amount uint64, authority Address) error {
	src, err := b.Account(source)
	if err != nil {
		return err
	}
	dst, err := b.Account(dest)
	if err != nil {
		return err
	}
	if src.Mint != dst.Mint {
		return ErrMintMismatch
	}
	if src.Owner != authority {
		return ErrNotAuthorized
	}
	if src.Amount < amount {
		return ErrInsufficientBalance
	}
	balance, ok := checkedAdd(dst.Amount, amount)
	if !ok {
		return ErrAmountOverflow
	}
	src.Amount -= amount
	dst.Amount = balance
	if err := b.st.Set(accountKey(source), encodeAccount(src)); err != nil {
		return err
	}
	return b.st.Set(accountKey(dest), encodeAccount(dst))
}

func checkedAdd(a, b uint64) (uint64, bool) {
	s := a + b
	if s < a {
		return 0, false
	}
	return s, true
}
