// Package dsk implements the disk-streamed, hash-partitioned k-mer
// counter. Given a sequence stream it produces the exact
// multiset of canonical k-mers with their counts, filtered at
// abundance >= nks.
package dsk

import "github.com/gatb-go/gatb/bank"

// PartitionType selects the partition-drain algorithm.
type PartitionType int

const (
	// Hash counts with an open-addressing kmer->count map, using less
	// disk but a configurable memory budget per partition.
	Hash PartitionType = iota
	// Vector loads the full partition into memory, sorts it, and
	// run-length counts; uses more memory.
	Vector
)

// Options configures a DSK run.
type Options struct {
	K               int
	Nks             int // abundance_min
	MaxMemoryMiB    uint64
	MaxDiskMiB      uint64
	NbCores         int
	PartitionType   PartitionType
	MaxOpenFiles    int // default 1000 if 0
	HistogramMaxBin int // H_MAX, default 10000
}

func (o Options) withDefaults() Options {
	if o.NbCores <= 0 {
		o.NbCores = 1
	}
	if o.MaxMemoryMiB == 0 {
		o.MaxMemoryMiB = 1024
	}
	if o.MaxDiskMiB == 0 {
		o.MaxDiskMiB = 10000
	}
	if o.MaxOpenFiles == 0 {
		o.MaxOpenFiles = 1000
	}
	if o.HistogramMaxBin == 0 {
		o.HistogramMaxBin = 10000
	}
	return o
}

// Opener reopens a fresh Reader positioned at the start of the bank, once
// per DSK pass.
type Opener func() (bank.Reader, error)
