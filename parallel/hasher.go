package parallel

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"sync"
)

const perBlock = 32 // uint16 values per 64 byte block

// Hasher digests n uint16 values written at fixed positions by many goroutines.
// Blocks are fed to SHA-256 in position order as soon as they are complete,
// so the digest does not depend on the order of the writes.
type Hasher struct {
	mut    sync.Mutex
	sha    hash.Hash
	n      int
	ate    int
	data   [][64]byte
	filled []uint32
}

// NewUint16Hasher returns a hasher for n values.
func NewUint16Hasher(n int) *Hasher {
	blocks := (n + perBlock - 1) / perBlock
	return &Hasher{
		sha:    sha256.New(),
		n:      n,
		data:   make([][64]byte, blocks),
		filled: make([]uint32, blocks),
	}
}

// want returns the bitmask of a complete block.
func (h *Hasher) want(block int) uint32 {
	if block == len(h.data)-1 && h.n%perBlock != 0 {
		return 1<<uint(h.n%perBlock) - 1
	}
	return 0xffffffff
}

// MustPutUint16 stores value at position n. Writing a position twice panics.
func (h *Hasher) MustPutUint16(n int, value uint16) {
	if n < 0 || n >= h.n {
		panic("position out of range")
	}
	block, pos := n/perBlock, n%perBlock

	h.mut.Lock()
	defer h.mut.Unlock()

	if block < h.ate {
		panic("already consumed block")
	}
	mask := uint32(1) << uint(pos)
	if h.filled[block]&mask != 0 {
		panic("duplicate write")
	}
	h.filled[block] |= mask
	binary.LittleEndian.PutUint16(h.data[block][2*pos:], value)

	for h.ate < len(h.data) && h.filled[h.ate] == h.want(h.ate) {
		h.eat()
	}
}

func (h *Hasher) eat() {
	h.sha.Write(h.data[h.ate][:])
	h.ate++
}

// Sum digests any remaining blocks, missing values counting as zero, and returns the SHA-256.
func (h *Hasher) Sum() (ret [32]byte) {
	h.mut.Lock()
	defer h.mut.Unlock()
	for h.ate < len(h.data) {
		h.eat()
	}
	copy(ret[:], h.sha.Sum(nil))
	return
}

// DigestLabels digests a slice of class labels in parallel, limit goroutines at a time.
func DigestLabels(labels []int, limit int) [32]byte {
	h := NewUint16Hasher(len(labels))
	ForEach(len(labels), limit, func(i int) {
		h.MustPutUint16(i, uint16(labels[i]))
	})
	return h.Sum()
}
