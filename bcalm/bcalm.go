// Package bcalm compacts a solid-k-mer set into maximal simple-path
// unitigs, bucket by bucket, then links the resulting unitigs globally.
package bcalm

import (
	"github.com/gatb-go/gatb/kmer"
)

// Unitig is a maximal simple path in the de Bruijn graph: a DNA sequence
// plus one abundance value per constituent k-mer.
type Unitig struct {
	ID      int
	Seq     []byte
	Abund   []uint16
	Deleted bool
}

// NbKmers returns the number of k-mers packed into the unitig's sequence.
func (u *Unitig) NbKmers(k int) int { return len(u.Seq) - k + 1 }

// MeanAbundance is the unitig's average per-kmer abundance.
func (u *Unitig) MeanAbundance() float32 {
	if len(u.Abund) == 0 {
		return 0
	}
	var sum uint64
	for _, a := range u.Abund {
		sum += uint64(a)
	}
	return float32(sum) / float32(len(u.Abund))
}

func revcompBytes(s []byte) []byte {
	out := make([]byte, len(s))
	for i, b := range s {
		var c byte
		switch b {
		case 'A':
			c = 'T'
		case 'T':
			c = 'A'
		case 'C':
			c = 'G'
		case 'G':
			c = 'C'
		}
		out[len(s)-1-i] = c
	}
	return out
}

func reverseAbund(a []uint16) []uint16 {
	out := make([]uint16, len(a))
	for i, v := range a {
		out[len(a)-1-i] = v
	}
	return out
}

// BucketKmer is one solid k-mer assigned to a compaction bucket, carrying
// its canonical code and its abundance.
type BucketKmer struct {
	Code  kmer.Code
	Count uint16
}

// CompactBucket builds maximal simple-path unitigs from the k-mers of a
// single minimizer bucket. Each k-mer
// seeds a length-k unitig; unitigs are then iteratively merged across
// shared (k-1)-mer boundaries until no further merge is possible.
// BCALM describes this as a single sorted two-pointer sweep over
// left[]/right[] index vectors with transitive redirection. We instead run
// repeated fixed-point rounds over a canonical-(k-1)-mer boundary map: each
// round merges every boundary that is unambiguous (exactly one unitig on
// each side) and rebuilds the map, converging to the same maximal unitigs
// with the same Cases-A/B/C/D merge semantics, without requiring the
// sorted-vector bookkeeping, which is easier to get right and to test at
// the bucket level.
func CompactBucket(kmers []BucketKmer, k int) []*Unitig {
	alive := make(map[int]*Unitig, len(kmers))
	nextID := 0
	for _, km := range kmers {
		alive[nextID] = &Unitig{ID: nextID, Seq: kmer.Decode(km.Code, k), Abund: []uint16{km.Count}}
		nextID++
	}

	for {
		merged, newNextID := mergeRound(alive, k, nextID)
		nextID = newNextID
		if !merged {
			break
		}
	}

	out := make([]*Unitig, 0, len(alive))
	for _, u := range alive {
		out = append(out, u)
	}
	return out
}

// Side names a unitig extremity.
type Side int

const (
	Begin Side = iota
	End
)

type boundaryRef struct {
	unitig int
	s      Side
}

func boundaryCode(seq []byte, s Side, k int) kmer.Code {
	var sub []byte
	if s == Begin {
		sub = seq[:k-1]
	} else {
		sub = seq[len(seq)-(k-1):]
	}
	code, _ := kmer.Encode(sub, 0, k-1)
	return kmer.Canonical(code, k-1)
}

// mergeRound performs one fixed-point iteration: find every canonical
// (k-1)-mer boundary touched by exactly two distinct unitigs, and merge
// each such pair if the sequences actually overlap once orientation is
// resolved. Each unitig
// participates in at most one merge per round to keep the round
// conflict-free.
func mergeRound(alive map[int]*Unitig, k, nextID int) (bool, int) {
	if len(alive) < 2 {
		return false, nextID
	}
	boundaries := make(map[kmer.Code][]boundaryRef, len(alive)*2)
	for id, u := range alive {
		if len(u.Seq) < k-1 {
			continue
		}
		bc := boundaryCode(u.Seq, Begin, k)
		boundaries[bc] = append(boundaries[bc], boundaryRef{id, Begin})
		ec := boundaryCode(u.Seq, End, k)
		boundaries[ec] = append(boundaries[ec], boundaryRef{id, End})
	}

	used := make(map[int]bool, len(alive))
	changed := false
	for _, refs := range boundaries {
		distinct := map[int]bool{}
		for _, r := range refs {
			distinct[r.unitig] = true
		}
		if len(distinct) != 2 || len(refs) != 2 {
			continue // branching boundary: both extremities stay "connected", no compaction
		}
		a, b := refs[0].unitig, refs[1].unitig
		if used[a] || used[b] {
			continue
		}
		merged, ok := tryMerge(alive[a], alive[b], k)
		if !ok {
			continue
		}
		used[a], used[b] = true, true
		merged.ID = nextID
		delete(alive, a)
		delete(alive, b)
		alive[nextID] = merged
		nextID++
		changed = true
	}
	return changed, nextID
}

// tryMerge looks for an orientation in which x's suffix (k-1)-mer equals
// y's prefix (k-1)-mer, trying x before y, y before x, and both revcomp
// forms. On success it returns the concatenated
// unitig (x.tail(from k) appended to y, or vice versa).
func tryMerge(x, y *Unitig, k int) (*Unitig, bool) {
	type cand struct {
		seq   []byte
		abund []uint16
	}
	variants := func(u *Unitig) [2]cand {
		return [2]cand{
			{u.Seq, u.Abund},
			{revcompBytes(u.Seq), reverseAbund(u.Abund)},
		}
	}
	xs, ys := variants(x), variants(y)
	for _, prefix := range xs {
		for _, suffix := range ys {
			if len(prefix.seq) < k-1 || len(suffix.seq) < k-1 {
				continue
			}
			if string(prefix.seq[len(prefix.seq)-(k-1):]) != string(suffix.seq[:k-1]) {
				continue
			}
			seq := make([]byte, 0, len(prefix.seq)+len(suffix.seq)-(k-1))
			seq = append(seq, prefix.seq...)
			seq = append(seq, suffix.seq[k-1:]...)
			abund := make([]uint16, 0, len(prefix.abund)+len(suffix.abund))
			abund = append(abund, prefix.abund...)
			abund = append(abund, suffix.abund...)
			return &Unitig{Seq: seq, Abund: abund}, true
		}
	}
	for _, prefix := range ys {
		for _, suffix := range xs {
			if len(prefix.seq) < k-1 || len(suffix.seq) < k-1 {
				continue
			}
			if string(prefix.seq[len(prefix.seq)-(k-1):]) != string(suffix.seq[:k-1]) {
				continue
			}
			seq := make([]byte, 0, len(prefix.seq)+len(suffix.seq)-(k-1))
			seq = append(seq, prefix.seq...)
			seq = append(seq, suffix.seq[k-1:]...)
			abund := make([]uint16, 0, len(prefix.abund)+len(suffix.abund))
			abund = append(abund, prefix.abund...)
			abund = append(abund, suffix.abund...)
			return &Unitig{Seq: seq, Abund: abund}, true
		}
	}
	return nil, false
}
