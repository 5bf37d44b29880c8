// Package hash implements the fast modular hash used to derive per-tree seeds
package hash

import "math"

// Hash mixes n with the salt s and reduces the result to the range 0..max-1.
func Hash(n uint32, s uint32, max uint32) uint32 {
	// mix input with salt using subtraction
	var m = n - s

	// xor shift with prime coefficients
	m ^= m << 2
	m ^= m << 3
	m ^= m >> 5
	m ^= m >> 7
	m ^= m << 11
	m ^= m << 13
	m ^= m >> 17
	m ^= m << 19

	m += s

	// multiply shift reduction instead of modulo
	// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
	return uint32((uint64(m) * uint64(max)) >> 32)
}

// Seed derives the seed of ensemble member i from the ensemble seed.
// Both halves of the seed salt the hash, so seeds differing only in the high bits still diverge.
func Seed(seed int64, i int) int64 {
	lo := Hash(uint32(i), uint32(seed), math.MaxUint32)
	hi := Hash(uint32(i)^0x9e3779b9, uint32(uint64(seed)>>32)^lo, math.MaxUint32)
	// 31 bits of hi above 32 bits of lo keep the seed non-negative
	return int64(uint64(hi>>1)<<32 | uint64(lo))
}
