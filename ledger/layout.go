package ledger

import (
	"encoding/binary"

	"github.com/holiman/uint256"

	"github.com/packedcell/tokenledger/common"
)

// Storage layout. Balances and allowances are Solidity-style keccak mappings,
// scalar cells sit at fixed slot numbers after them. Every numeric cell holds
// a packed value (amount << 1) | 1: the low bit marks the cell as touched, so
// a balance that returns to zero keeps a nonzero cell and a later credit never
// pays the cost of re-initializing an absent cell.
const (
	balanceMapSlot   uint64 = 0
	allowanceMapSlot uint64 = 1
	totalSupplySlot  uint64 = 2
	nameSlot         uint64 = 3
	symbolSlot       uint64 = 4
)

// MaxShortStringLen is the longest name or symbol that fits a single cell.
const MaxShortStringLen = 31

// Decimals is fixed for the asset and never stored.
const Decimals uint8 = 18

var one = uint256.NewInt(1)

// unlimitedAmount is the all-ones approval amount meaning "no spending limit".
var unlimitedAmount = new(uint256.Int).SetAllOne()

// unlimitedCell is the all-ones sentinel. encodeAmount maps the unlimited
// approval amount (2^256-1) onto it because the shift wraps.
var unlimitedCell = func() common.Hash {
	var h common.Hash
	for i := range h {
		h[i] = 0xff
	}
	return h
}()

func scalarSlot(n uint64) common.Hash {
	var h common.Hash
	binary.BigEndian.PutUint64(h[24:], n)
	return h
}

// mappingSlot derives the cell identity for a mapping entry:
// keccak256(pad32(key) ++ pad32(slot)).
func mappingSlot(key []byte, slot uint64) common.Hash {
	input := make([]byte, 64)
	copy(input[:32], common.LeftPad32(key))
	binary.BigEndian.PutUint64(input[56:64], slot)
	return common.Keccak256(input)
}

// nestedMappingSlot derives the cell identity for the second level of a
// two-key mapping: keccak256(pad32(key) ++ parent).
func nestedMappingSlot(key []byte, parent common.Hash) common.Hash {
	input := make([]byte, 64)
	copy(input[:32], common.LeftPad32(key))
	copy(input[32:], parent.Bytes())
	return common.Keccak256(input)
}

func balanceSlot(account common.Address) common.Hash {
	return mappingSlot(account.Bytes(), balanceMapSlot)
}

func allowanceSlot(owner, spender common.Address) common.Hash {
	return nestedMappingSlot(spender.Bytes(), mappingSlot(owner.Bytes(), allowanceMapSlot))
}

// encodeAmount packs an amount into a cell with the touched bit set.
// The shift wraps, so the unlimited sentinel 2^256-1 encodes to all ones.
func encodeAmount(a *uint256.Int) common.Hash {
	packed := new(uint256.Int).Lsh(a, 1)
	packed.Or(packed, one)
	return common.Hash(packed.Bytes32())
}

// decodeAmount recovers the amount from a packed cell. An absent (all-zero)
// cell decodes to zero like a touched-but-empty cell.
func decodeAmount(cell common.Hash) *uint256.Int {
	v := new(uint256.Int).SetBytes(cell.Bytes())
	return v.Rsh(v, 1)
}

func isUnlimited(cell common.Hash) bool {
	return cell == unlimitedCell
}

// fits255 reports whether the top bit of a is clear, i.e. the amount survives
// the packing shift without loss.
func fits255(a *uint256.Int) bool {
	return a.BitLen() <= 255
}

// encodeShortString packs a display string into one cell: the top byte holds
// the length, the remaining bytes hold the content, zero padded.
func encodeShortString(s string) (common.Hash, error) {
	if len(s) > MaxShortStringLen {
		return common.Hash{}, ErrStringTooLong
	}
	var cell common.Hash
	cell[0] = byte(len(s))
	copy(cell[1:], s)
	return cell, nil
}

// DecodeShortString recovers the string packed by encodeShortString.
func DecodeShortString(cell common.Hash) string {
	l := int(cell[0])
	if l > MaxShortStringLen {
		l = MaxShortStringLen
	}
	return string(cell.Bytes()[1 : 1+l])
}

// ABIShortString renders a packed string cell as the fixed-size self-describing
// return encoding: an offset word (0x20), a length word, and the content word.
func ABIShortString(cell common.Hash) []byte {
	out := make([]byte, 96)
	out[31] = 0x20
	out[63] = cell[0]
	copy(out[64:], cell.Bytes()[1:])
	return out
}
