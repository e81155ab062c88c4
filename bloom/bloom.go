// Package bloom implements the probabilistic Bloom filter over solid
// k-mers and the exact cFP (critical false positives) sidelist that
// together give an exact membership test restricted to neighbors of solid
// k-mers.
package bloom

import (
	"math"
	"sync/atomic"

	"github.com/gatb-go/gatb/kmer"
)

// NbitsPerKmer computes nbits_per_kmer = log(16*K*ln²2)/ln²2.
func NbitsPerKmer(k int) float64 {
	ln2sq := math.Ln2 * math.Ln2
	return math.Log(16*float64(k)*ln2sq) / ln2sq
}

// Filter is a bit vector with H hash functions derived by double hashing.
type Filter struct {
	bits     []uint64 // word-packed bit array
	nbits    uint64
	nbHashes int
}

// NewFilter allocates a Filter sized for nSolid k-mers at nbitsPerKmer
// bits/k-mer, with H = floor(0.7*nbitsPerKmer) hash functions.
func NewFilter(nSolid uint64, nbitsPerKmer float64) *Filter {
	nbits := uint64(math.Ceil(float64(nSolid) * nbitsPerKmer))
	if nbits == 0 {
		nbits = 1
	}
	h := int(math.Floor(0.7 * nbitsPerKmer))
	if h < 1 {
		h = 1
	}
	nwords := (nbits + 63) / 64
	return &Filter{bits: make([]uint64, nwords), nbits: nbits, nbHashes: h}
}

// NBits returns the filter's bit-vector size.
func (f *Filter) NBits() uint64 { return f.nbits }

// NbHashes returns the number of hash functions H.
func (f *Filter) NbHashes() int { return f.nbHashes }

func (f *Filter) slot(i int, h1, h2 uint64) uint64 {
	return (h1 + uint64(i)*h2) % f.nbits
}

// setBit atomically ORs in bit i.
func (f *Filter) setBit(i uint64) {
	word := i / 64
	mask := uint64(1) << (i % 64)
	for {
		old := atomic.LoadUint64(&f.bits[word])
		if old&mask != 0 {
			return
		}
		if atomic.CompareAndSwapUint64(&f.bits[word], old, old|mask) {
			return
		}
	}
}

func (f *Filter) getBit(i uint64) bool {
	word := i / 64
	mask := uint64(1) << (i % 64)
	return atomic.LoadUint64(&f.bits[word])&mask != 0
}

// Insert adds code to the filter.
func (f *Filter) Insert(code kmer.Code) {
	h1, h2 := kmer.Hash(code), kmer.Hash2(code)
	for i := 0; i < f.nbHashes; i++ {
		f.setBit(f.slot(i, h1, h2))
	}
}

// Contains reports whether code is definitely absent (false) or probably
// present (true).
func (f *Filter) Contains(code kmer.Code) bool {
	h1, h2 := kmer.Hash(code), kmer.Hash2(code)
	for i := 0; i < f.nbHashes; i++ {
		if !f.getBit(f.slot(i, h1, h2)) {
			return false
		}
	}
	return true
}

// Contains8 is the batched 8-way query used by debloom.
func (f *Filter) Contains8(codes [8]kmer.Code) [8]bool {
	var out [8]bool
	for i, c := range codes {
		out[i] = f.Contains(c)
	}
	return out
}

// Build inserts every solid k-mer into a freshly sized Filter.
func Build(solid []kmer.Code, k int) *Filter {
	f := NewFilter(uint64(len(solid)), NbitsPerKmer(k))
	for _, c := range solid {
		f.Insert(c)
	}
	return f
}
