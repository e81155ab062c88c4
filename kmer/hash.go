package kmer

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
	farm "github.com/dgryski/go-farm"
)

// Hash returns a fast 64-bit hash of code, used by DSK to assign k-mers to
// passes and partitions.
func Hash(code Code) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(code))
	return xxhash.Sum64(buf[:])
}

// Hash2 is a second, independent hash of code used for Bloom-filter
// double-hashing.
// farm.Hash64 is algorithmically unrelated to xxhash, giving the
// independence the double-hashing scheme relies on.
func Hash2(code Code) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(code))
	return farm.Hash64(buf[:])
}
