package router

import (
	"github.com/holiman/uint256"

	"github.com/packedcell/tokenledger/common"
)

// Calldata is a 4-byte selector followed by 32-byte big-endian argument
// words. Results are one or three 32-byte words. Addresses travel in the
// low 20 bytes of their word; the upper bytes are ignored on decode.

const (
	selectorLen = 4
	wordLen     = 32
)

// Selector returns the first four bytes of keccak256 of the method signature.
func Selector(signature string) []byte {
	h := common.Keccak256([]byte(signature))
	return h.Bytes()[:selectorLen]
}

// EncodeCall assembles calldata for the given signature and argument words.
func EncodeCall(signature string, words ...common.Hash) []byte {
	out := append([]byte{}, Selector(signature)...)
	for _, w := range words {
		out = append(out, w.Bytes()...)
	}
	return out
}

// AddressWord left-pads an address into an argument word.
func AddressWord(a common.Address) common.Hash {
	return common.BytesToHash(common.LeftPad32(a.Bytes()))
}

// AmountWord renders an amount as an argument word.
func AmountWord(v *uint256.Int) common.Hash {
	return common.Hash(v.Bytes32())
}

func wordAt(args []byte, i int) common.Hash {
	return common.BytesToHash(args[i*wordLen : (i+1)*wordLen])
}

func addressArg(args []byte, i int) common.Address {
	w := wordAt(args, i)
	return common.BytesToAddress(w.Bytes()[12:])
}

func amountArg(args []byte, i int) *uint256.Int {
	w := wordAt(args, i)
	return new(uint256.Int).SetBytes(w.Bytes())
}

func encodeUint256(v *uint256.Int) []byte {
	b := v.Bytes32()
	return b[:]
}

func encodeUint8(v uint8) []byte {
	out := make([]byte, wordLen)
	out[wordLen-1] = v
	return out
}

func encodeBool(v bool) []byte {
	out := make([]byte, wordLen)
	if v {
		out[wordLen-1] = 1
	}
	return out
}
