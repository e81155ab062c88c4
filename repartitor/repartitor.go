// Package repartitor builds and persists the minimizer-to-partition
// lookup table shared by DSK, the debloom stage and BCALM.
// The on-disk form is a magic-plus-metadata header followed by the
// payload arrays.
package repartitor

import (
	"container/heap"
	"encoding/binary"
	"errors"
	"io"
	"sort"
)

var magic = [8]byte{'g', 'a', 't', 'b', 'r', 'e', 'p', 'a'}

// ErrInvalidFormat means the binary block's magic number didn't match.
var ErrInvalidFormat = errors.New("repartitor: invalid file format")

var be = binary.BigEndian

// Table is a pure function [0,4^m) -> [0,NPart) realized as a lookup
// table.
type Table struct {
	NPart     uint16
	M         uint16
	NbMinims  uint64 // 4^m
	Mapping   []uint16
	FreqOrder []uint32 // optional, parallel ordering used by FrequencyGrouped
}

// Partition returns the partition id for a minimizer value.
func (t *Table) Partition(minimizer uint32) uint16 {
	if uint64(minimizer) >= t.NbMinims {
		return 0
	}
	return t.Mapping[minimizer]
}

// minimFreq is the per-minimizer k-mer load estimate used by both
// balancing algorithms: the observed sample frequency.
type minimFreq struct {
	minim uint32
	freq  uint64
}

// NewFrequencyGrouped builds a Table by sorting minimizers by descending
// sample frequency, then walking in that order, accumulating estimated
// load and advancing the partition counter whenever load >= total/nPart.
// Unseen minimizers map to partition 0.
func NewFrequencyGrouped(sampleFreq []uint64, m int, nPart int) Table {
	nbMinims := uint64(1) << uint(2*m)
	mapping := make([]uint16, nbMinims)

	entries := make([]minimFreq, 0, len(sampleFreq))
	var total uint64
	for minim, f := range sampleFreq {
		if f == 0 {
			continue
		}
		entries = append(entries, minimFreq{uint32(minim), f})
		total += f
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].freq > entries[j].freq })

	freqOrder := make([]uint32, len(entries))
	threshold := total / uint64(nPart)
	if threshold == 0 {
		threshold = 1
	}

	var part uint16
	var accum uint64
	for i, e := range entries {
		mapping[e.minim] = part
		freqOrder[i] = e.minim
		accum += e.freq
		if accum >= threshold && part+1 < uint16(nPart) {
			part++
			accum = 0
		}
	}
	// Unseen minimizers follow the seen ones in ascending order, so that
	// FreqOrder holds all 4^m minimizers, parallel to Mapping.
	for minim := uint64(0); minim < nbMinims; minim++ {
		if minim >= uint64(len(sampleFreq)) || sampleFreq[minim] == 0 {
			freqOrder = append(freqOrder, uint32(minim))
		}
	}

	return Table{
		NPart:     uint16(nPart),
		M:         uint16(m),
		NbMinims:  nbMinims,
		Mapping:   mapping,
		FreqOrder: freqOrder,
	}
}

// partitionLoad is a (partition id, current load) pair used by the
// balanced-heap priority queue.
type partitionLoad struct {
	part uint16
	load uint64
}

type loadHeap []partitionLoad

func (h loadHeap) Len() int { return len(h) }
func (h loadHeap) Less(i, j int) bool {
	if h[i].load != h[j].load {
		return h[i].load < h[j].load
	}
	return h[i].part < h[j].part // ties broken by partition id
}
func (h loadHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *loadHeap) Push(x interface{}) { *h = append(*h, x.(partitionLoad)) }
func (h *loadHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// NewBalancedHeap builds a Table with a priority-queue of
// (partition_id, current_load), walking minimizers in descending load
// order and placing each into the currently emptiest partition. Ties are
// broken by partition id.
func NewBalancedHeap(sampleFreq []uint64, m int, nPart int) Table {
	nbMinims := uint64(1) << uint(2*m)
	mapping := make([]uint16, nbMinims)

	entries := make([]minimFreq, 0, len(sampleFreq))
	for minim, f := range sampleFreq {
		if f == 0 {
			continue
		}
		entries = append(entries, minimFreq{uint32(minim), f})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].freq > entries[j].freq })

	h := make(loadHeap, nPart)
	for i := 0; i < nPart; i++ {
		h[i] = partitionLoad{part: uint16(i), load: 0}
	}
	heap.Init(&h)

	for _, e := range entries {
		emptiest := heap.Pop(&h).(partitionLoad)
		mapping[e.minim] = emptiest.part
		emptiest.load += e.freq
		heap.Push(&h, emptiest)
	}

	return Table{NPart: uint16(nPart), M: uint16(m), NbMinims: nbMinims, Mapping: mapping}
}

// Save persists the table as a single binary block: the 8-byte magic;
// four u16 (N_part, m, a reserved field always written as 0, and a
// freq_order flag); u64 nb_minims; [u16;nb_minims] mapping; and, when the
// flag is 1, [u32;nb_minims] freq_order. No pass count is stored.
func (t *Table) Save(w io.Writer) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	hasFreqOrder := uint16(0)
	if len(t.FreqOrder) > 0 {
		hasFreqOrder = 1
	}
	header := [4]uint16{t.NPart, t.M, 0, hasFreqOrder}
	if err := binary.Write(w, be, header); err != nil {
		return err
	}
	if err := binary.Write(w, be, t.NbMinims); err != nil {
		return err
	}
	if err := binary.Write(w, be, t.Mapping); err != nil {
		return err
	}
	if hasFreqOrder == 1 {
		if err := binary.Write(w, be, t.FreqOrder); err != nil {
			return err
		}
	}
	return nil
}

// Load reads back a Table written by Save. Round-tripping Save/Load must
// be exact.
func Load(r io.Reader) (Table, error) {
	var m [8]byte
	if err := binary.Read(r, be, &m); err != nil {
		return Table{}, err
	}
	if m != magic {
		return Table{}, ErrInvalidFormat
	}
	var header [4]uint16
	if err := binary.Read(r, be, &header); err != nil {
		return Table{}, err
	}
	t := Table{NPart: header[0], M: header[1]}
	if err := binary.Read(r, be, &t.NbMinims); err != nil {
		return Table{}, err
	}
	t.Mapping = make([]uint16, t.NbMinims)
	if err := binary.Read(r, be, t.Mapping); err != nil {
		return Table{}, err
	}
	if header[3] == 1 {
		t.FreqOrder = make([]uint32, t.NbMinims)
		if err := binary.Read(r, be, t.FreqOrder); err != nil {
			return Table{}, err
		}
	}
	return t, nil
}
