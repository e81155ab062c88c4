// Package pipeline orchestrates the full GATB-Go run: DSK counting, Bloom
// debloom, BCALM compaction and linking, unitig-graph assembly and
// simplification.
package pipeline

import (
	"encoding/binary"
	"io"
)

// BuildState is the persisted bitset recording how far a run has
// progressed; the named bits are persisted together as a single integer
// attribute.
type BuildState uint32

const (
	ConfigurationDone BuildState = 1 << iota
	SortingCountDone
	MPHFDone
	BCALM2Done
)

// Set returns the state with bit set.
func (s BuildState) Set(bit BuildState) BuildState { return s | bit }

// IsSet reports whether bit is present.
func (s BuildState) IsSet(bit BuildState) bool { return s&bit != 0 }

// Persist writes the bitset as a single little-endian uint32, matching
// the on-disk framing convention `storage` already uses for partition
// blocks.
func (s BuildState) Persist(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, uint32(s))
}

// LoadBuildState reads a bitset previously written by Persist.
func LoadBuildState(r io.Reader) (BuildState, error) {
	var v uint32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, err
	}
	return BuildState(v), nil
}
