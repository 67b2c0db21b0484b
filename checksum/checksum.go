package checksum

import (
	"math/bits"

	"github.com/cespare/xxhash"
	"github.com/zeebo/xxh3"
)

// Sum computes the checksum of record payload. The same function must be used
// when generating and verifying a record, as the result is stored in the
// record header.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// SumSeed computes the checksum of data chained to the checksum of everything
// hashed before it. Feeding each record's payload together with the previous
// result produces a running checksum of the whole stream.
func SumSeed(data []byte, seed uint64) uint64 {
	return xxh3.HashSeed(data, seed)
}

// Parity returns true if an odd number of bits is set in v.
func Parity(v uint64) bool {
	return bits.OnesCount64(v)%2 == 1
}
