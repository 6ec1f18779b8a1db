package ledger

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// AddressSize is the raw byte length of every ledger address.
const AddressSize = 32

// Address identifies a record, mint, token account or authority on the ledger.
type Address [AddressSize]byte

// ZeroAddress marks "no address" (empty optional fields, cleared array slots).
var ZeroAddress Address

// IsZero reports whether the address is the all-zero sentinel.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// String renders the address as lowercase hex for logs and CLI output.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Bytes returns a copy-safe slice view of the raw address.
func (a Address) Bytes() []byte {
	return a[:]
}

// AddressFromBytes rebuilds an Address from a raw 32 byte slice.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressSize {
		return a, fmt.Errorf("address must be %d bytes, got %d", AddressSize, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// AddressFromString parses the hex form produced by String.
func AddressFromString(s string) (Address, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return ZeroAddress, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return AddressFromBytes(b)
}

// derivationDomain separates derived addresses from any other sha256 use.
var derivationDomain = []byte("tokengov/addr/v1")

// DeriveAddress maps a seed tuple onto a deterministic address. Seeds are
// length-prefixed before hashing so ("ab","c") and ("a","bc") never collide.
func DeriveAddress(seeds ...[]byte) Address {
	h := sha256.New()
	h.Write(derivationDomain)
	var lp [4]byte
	for _, seed := range seeds {
		binary.LittleEndian.PutUint32(lp[:], uint32(len(seed)))
		h.Write(lp[:])
		h.Write(seed)
	}
	var a Address
	copy(a[:], h.Sum(nil))
	return a
}

// GenerateAddress returns a fresh random address for caller-created records.
func GenerateAddress() Address {
	var a Address
	if _, err := rand.Read(a[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return a
}

// Equal compares two addresses byte for byte.
func Equal(a, b Address) bool {
	return bytes.Equal(a[:], b[:])
}
