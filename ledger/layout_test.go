package ledger

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/packedcell/tokenledger/common"
)

func TestPackedAmountRoundTrip(t *testing.T) {
	max255 := new(uint256.Int).Lsh(uint256.NewInt(1), 255)
	max255.SubUint64(max255, 1)

	for _, a := range []*uint256.Int{
		uint256.NewInt(0),
		uint256.NewInt(1),
		uint256.NewInt(5),
		uint256.NewInt(1000),
		max255,
	} {
		cell := encodeAmount(a)
		require.Equal(t, uint64(1), uint64(cell[31]&1), "touched bit must be set")
		require.True(t, decodeAmount(cell).Eq(a), "decode(encode(%s)) mismatch", a.Dec())
	}
}

func TestTouchedZeroDiffersFromAbsent(t *testing.T) {
	touched := encodeAmount(uint256.NewInt(0))
	require.False(t, common.IsNilHash(touched), "a written zero must keep a nonzero cell")
	require.True(t, decodeAmount(touched).IsZero())
	require.True(t, decodeAmount(common.Hash{}).IsZero(), "absent cell decodes to zero")
}

func TestUnlimitedSentinelEncoding(t *testing.T) {
	// The wrapping shift maps 2^256-1 onto the all-ones cell.
	cell := encodeAmount(new(uint256.Int).SetAllOne())
	require.True(t, isUnlimited(cell))

	// Decoded, the sentinel reads as the 255-bit maximum, which dominates
	// every storable balance.
	decoded := decodeAmount(cell)
	require.Equal(t, 255, decoded.BitLen())
	require.False(t, isUnlimited(encodeAmount(uint256.NewInt(7))))
}

func TestFits255(t *testing.T) {
	require.True(t, fits255(uint256.NewInt(0)))
	max255 := new(uint256.Int).Lsh(uint256.NewInt(1), 255)
	require.False(t, fits255(max255))
	max255.SubUint64(max255, 1)
	require.True(t, fits255(max255))
	require.False(t, fits255(new(uint256.Int).SetAllOne()))
}

func TestShortStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "T", "Tok", "0123456789012345678901234567890"} {
		cell, err := encodeShortString(s)
		require.NoError(t, err)
		require.Equal(t, byte(len(s)), cell[0])
		require.Equal(t, s, DecodeShortString(cell))
	}

	_, err := encodeShortString("01234567890123456789012345678901")
	require.ErrorIs(t, err, ErrStringTooLong)
}

func TestABIShortString(t *testing.T) {
	cell, err := encodeShortString("Tok")
	require.NoError(t, err)

	out := ABIShortString(cell)
	require.Len(t, out, 96)
	require.Equal(t, byte(0x20), out[31], "offset marker")
	require.Equal(t, byte(3), out[63], "length word")
	require.Equal(t, "Tok", string(out[64:67]))
	for _, b := range out[67:] {
		require.Equal(t, byte(0), b, "content padding")
	}
}

func TestSlotDerivation(t *testing.T) {
	a := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	b := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	require.Equal(t, balanceSlot(a), balanceSlot(a), "derivation must be deterministic")
	require.NotEqual(t, balanceSlot(a), balanceSlot(b))

	// The allowance key is an ordered pair.
	require.NotEqual(t, allowanceSlot(a, b), allowanceSlot(b, a))
	require.Equal(t, allowanceSlot(a, b), allowanceSlot(a, b))

	// Mapping cells must not collide with scalar cells or each other.
	slots := map[common.Hash]bool{
		balanceSlot(a):              true,
		balanceSlot(b):              true,
		allowanceSlot(a, b):         true,
		allowanceSlot(b, a):         true,
		scalarSlot(totalSupplySlot): true,
		scalarSlot(nameSlot):        true,
		scalarSlot(symbolSlot):      true,
	}
	require.Len(t, slots, 7)
}
