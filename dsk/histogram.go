package dsk

import "sync/atomic"

// Histogram is the abundance distribution of counted k-mers, capped at a
// maximum bin.
type Histogram struct {
	maxBin int
	bins   []uint64
}

// NewHistogram returns a zeroed Histogram with bins [0,maxBin].
func NewHistogram(maxBin int) *Histogram {
	return &Histogram{maxBin: maxBin, bins: make([]uint64, maxBin+1)}
}

// Add increments the bin for count, capping at maxBin. Safe for concurrent
// use.
func (h *Histogram) Add(count int) {
	if count > h.maxBin {
		count = h.maxBin
	}
	atomic.AddUint64(&h.bins[count], 1)
}

// Merge adds other's bins into h. Run does not keep per-thread histograms:
// it adds every count to one shared Histogram and never calls Merge.
func (h *Histogram) Merge(other *Histogram) {
	for i, v := range other.bins {
		if v != 0 {
			atomic.AddUint64(&h.bins[i], v)
		}
	}
}

// Bin returns the count for abundance bin i.
func (h *Histogram) Bin(i int) uint64 {
	if i > h.maxBin {
		i = h.maxBin
	}
	return h.bins[i]
}

// Entries returns the non-zero (bin, count) pairs, for persistence.
func (h *Histogram) Entries() [][2]uint64 {
	var out [][2]uint64
	for i, v := range h.bins {
		if v != 0 {
			out = append(out, [2]uint64{uint64(i), v})
		}
	}
	return out
}
