package common

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// Keccak256 computes the legacy Keccak-256 hash of the given data.
func Keccak256(data []byte) Hash {
	hash := sha3.NewLegacyKeccak256()
	hash.Write(data)
	h := hash.Sum(nil)
	return BytesToHash(h)
}

func Uint64ToBytes(val uint64) []byte {
	bytes := make([]byte, 8)
	binary.BigEndian.PutUint64(bytes, val)
	return bytes
}

func BytesToUint64(data []byte) uint64 {
	if len(data) < 8 {
		panic("BytesToUint64: byte slice too short")
	}
	return binary.BigEndian.Uint64(data)
}

// LeftPad32 left-pads b with zeros to a 32-byte word. Inputs longer than
// 32 bytes keep their low-order 32 bytes.
func LeftPad32(b []byte) []byte {
	padded := make([]byte, 32)
	if len(b) <= 32 {
		copy(padded[32-len(b):], b)
	} else {
		copy(padded, b[len(b)-32:])
	}
	return padded
}
