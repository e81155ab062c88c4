// Package unitigraph assembles bcalm unitigs and their links into the
// packed navigable graph used by traversal and simplification.
//
// "Node" in the navigation contract is realized at unitig-extremity
// granularity: BCALM has already compacted every unbranching run of
// k-mers into a single unitig, so the only nodes that ever need
// branching-aware navigation are unitig extremities; an interior k-mer
// has a single predecessor and successor by construction and needs no
// graph query.
package unitigraph

import "github.com/gatb-go/gatb/bcalm"

// Side names which end of a unitig an edge touches. Both marks a unitig
// whose length equals k, where begin and end coincide.
type Side uint8

const (
	Begin Side = iota
	End
	Both
)

// ExtremityInfo packs (unitig_id: 61b, rc: 1b, side: 2b) into a uint64:
// side in bits 0-1, rc in bit 2, unitig id from bit 3 up.
type ExtremityInfo uint64

const (
	sideMask = 0x3
	rcBit    = 1 << 2
	idShift  = 3
)

// NewExtremityInfo packs a neighbor reference.
func NewExtremityInfo(unitigID int, rc bool, s Side) ExtremityInfo {
	v := ExtremityInfo(uint64(unitigID) << idShift)
	if rc {
		v |= rcBit
	}
	v |= ExtremityInfo(s) & sideMask
	return v
}

// UnitigID returns the packed unitig id.
func (e ExtremityInfo) UnitigID() int { return int(uint64(e) >> idShift) }

// RC reports whether the neighbor is read on the reverse strand.
func (e ExtremityInfo) RC() bool { return uint64(e)&rcBit != 0 }

// Side returns which extremity of the neighbor unitig this edge touches.
func (e ExtremityInfo) Side() Side { return Side(uint64(e) & sideMask) }

// Direction is the side a traversal is extending towards.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
)

func opposite(dir Direction) Direction {
	if dir == Outgoing {
		return Incoming
	}
	return Outgoing
}

// Graph is the packed unitig graph: parallel arrays keyed by unitig id,
// plus flattened out- and in-neighbor lists sliced by prefix-sum offsets.
type Graph struct {
	K int

	Seq   [][]byte
	Len   []int
	Abund []float32

	OutOff    []int // length U+1
	InOff     []int
	OutEdges  []ExtremityInfo
	InEdges   []ExtremityInfo

	Deleted   []bool
	Traversed []bool
}

// NbUnitigs returns the number of unitigs U.
func (g *Graph) NbUnitigs() int { return len(g.Seq) }

// Build assembles a Graph from bcalm's per-bucket unitigs (already
// renumbered to a single dense id space by the caller) and the global
// link_tigs output. A Link{From, FromSide=End, To, ToSide, RC} is an
// out-edge of From; a Link{From, FromSide=Begin,...} is an in-edge of
// From.
func Build(units []*bcalm.Unitig, links map[int][]bcalm.Link, k int) *Graph {
	byID := make(map[int]*bcalm.Unitig, len(units))
	maxID := -1
	for _, u := range units {
		byID[u.ID] = u
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	n := maxID + 1

	g := &Graph{
		K:         k,
		Seq:       make([][]byte, n),
		Len:       make([]int, n),
		Abund:     make([]float32, n),
		OutOff:    make([]int, n+1),
		InOff:     make([]int, n+1),
		Deleted:   make([]bool, n),
		Traversed: make([]bool, n),
	}
	for id, u := range byID {
		g.Seq[id] = u.Seq
		g.Len[id] = len(u.Seq)
		g.Abund[id] = u.MeanAbundance()
		g.Deleted[id] = u.Deleted
	}

	sideOf := func(u *bcalm.Unitig, s bcalm.Side, k int) Side {
		if len(u.Seq) == k {
			return Both
		}
		if s == bcalm.Begin {
			return Begin
		}
		return End
	}

	outLists := make([][]ExtremityInfo, n)
	inLists := make([][]ExtremityInfo, n)
	for id := range byID {
		for _, l := range links[id] {
			toUnitig := byID[l.To]
			if toUnitig == nil {
				continue
			}
			ei := NewExtremityInfo(l.To, l.RC, sideOf(toUnitig, l.ToSide, k))
			if l.FromSide == bcalm.End {
				outLists[id] = append(outLists[id], ei)
			} else {
				inLists[id] = append(inLists[id], ei)
			}
		}
	}

	for id := 0; id < n; id++ {
		g.OutOff[id] = len(g.OutEdges)
		g.OutEdges = append(g.OutEdges, outLists[id]...)
		g.InOff[id] = len(g.InEdges)
		g.InEdges = append(g.InEdges, inLists[id]...)
	}
	g.OutOff[n] = len(g.OutEdges)
	g.InOff[n] = len(g.InEdges)

	return g
}

// Neighbors returns the O(degree) neighbor list of unitig n in direction
// dir, skipping any neighbor that has since been deleted.
func (g *Graph) Neighbors(n int, dir Direction) []ExtremityInfo {
	var all []ExtremityInfo
	if dir == Outgoing {
		all = g.OutEdges[g.OutOff[n]:g.OutOff[n+1]]
	} else {
		all = g.InEdges[g.InOff[n]:g.InOff[n+1]]
	}
	out := make([]ExtremityInfo, 0, len(all))
	for _, e := range all {
		if g.Deleted[e.UnitigID()] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// OutDegree and InDegree count live neighbors in each direction.
func (g *Graph) OutDegree(n int) int { return len(g.Neighbors(n, Outgoing)) }
func (g *Graph) InDegree(n int) int  { return len(g.Neighbors(n, Incoming)) }

// IsBranching reports whether n has more than one neighbor on either side.
func (g *Graph) IsBranching(n int) bool {
	in, out := g.InDegree(n), g.OutDegree(n)
	if in > out {
		return in > 1
	}
	return out > 1
}

// UnitigLastNode returns the node at the opposite end of n's unitig along
// dir. Since navigation here already operates at unitig-extremity
// granularity (a unitig IS the simple path), that opposite end is the
// unitig itself: the caller steps off it with Neighbors using dir.
func (g *Graph) UnitigLastNode(n int, dir Direction) int { return n }
