package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokengov/ledger"
)

// TestDeriveAddressDeterminism checks equal seeds derive equal addresses and
// different seed splits do not collide.
func TestDeriveAddressDeterminism(t *testing.T) {
	a := ledger.DeriveAddress([]byte("governance"), []byte("realm"), []byte("one"))
	b := ledger.DeriveAddress([]byte("governance"), []byte("realm"), []byte("one"))
	assert.Equal(t, a, b)

	c := ledger.DeriveAddress([]byte("governance"), []byte("realmone"))
	assert.NotEqual(t, a, c)

	// Length prefixing keeps ("ab","c") and ("a","bc") apart.
	assert.NotEqual(t,
		ledger.DeriveAddress([]byte("ab"), []byte("c")),
		ledger.DeriveAddress([]byte("a"), []byte("bc")),
	)
}

// TestAddressStringRoundTrip checks the hex form parses back losslessly.
func TestAddressStringRoundTrip(t *testing.T) {
	a := ledger.GenerateAddress()
	parsed, err := ledger.AddressFromString(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)

	_, err = ledger.AddressFromString("zz")
	assert.Error(t, err)
	_, err = ledger.AddressFromBytes([]byte{1, 2, 3})
	assert.Error(t, err)
}

// TestZeroAddress checks the sentinel semantics.
func TestZeroAddress(t *testing.T) {
	assert.True(t, ledger.ZeroAddress.IsZero())
	assert.False(t, ledger.GenerateAddress().IsZero())
}
