// Package traversal implements BFS frontline exploration and
// monument-based bubble/branch traversal over a unitigraph.Graph.
package traversal

import "github.com/gatb-go/gatb/unitigraph"

const (
	maxBreadth        = 10
	inBranchingFactor = 3 // in-branching reverse walks go at most 3*k deep
)

// frontEntry is one (node, entry-strand) pair queued in a Frontline layer.
type frontEntry struct {
	unitig int
	rc     bool // true if this node was entered on its reverse strand
}

// Frontline is a breadth-first layer walker over the unitig graph,
// starting from a seed node and expanding in one direction at a time.
type Frontline struct {
	g       *unitigraph.Graph
	dir     unitigraph.Direction
	visited map[int]bool
	queue   []frontEntry
	depth   int
	dead    bool // stopped: breadth limit hit
}

// NewFrontline seeds a Frontline at unitig seed, extending in dir.
func NewFrontline(g *unitigraph.Graph, seed int, dir unitigraph.Direction) *Frontline {
	return &Frontline{
		g:       g,
		dir:     dir,
		visited: map[int]bool{seed: true},
		queue:   []frontEntry{{unitig: seed, rc: false}},
	}
}

// Depth returns the number of completed expansions.
func (f *Frontline) Depth() int { return f.depth }

// Size returns the current layer's breadth.
func (f *Frontline) Size() int { return len(f.queue) }

// IsEmpty reports whether the frontline has nothing left to expand.
func (f *Frontline) IsEmpty() bool { return len(f.queue) == 0 }

// Collapsed reports whether the current layer has shrunk to one node,
// the stopping condition monument traversal waits for.
func (f *Frontline) Collapsed() bool { return len(f.queue) == 1 }

// Nodes returns the unitig ids in the current layer.
func (f *Frontline) Nodes() []int {
	out := make([]int, len(f.queue))
	for i, e := range f.queue {
		out[i] = e.unitig
	}
	return out
}

// dirFor resolves the effective expansion direction for an entry that may
// have been reached on the reverse strand.
func (f *Frontline) dirFor(e frontEntry) unitigraph.Direction {
	if e.rc {
		return opp(f.dir)
	}
	return f.dir
}

func opp(dir unitigraph.Direction) unitigraph.Direction {
	if dir == unitigraph.Outgoing {
		return unitigraph.Incoming
	}
	return unitigraph.Outgoing
}

// GoNextDepth dequeues the current layer, enumerates each node's
// neighbors, filters out already-visited nodes, and buffers the next
// layer. It returns false when the frontline is already empty or stopped,
// when the new layer is empty, or when the new layer would exceed the
// breadth-10 cap, which stops the frontline for good. Deleted unitigs are
// never listed as neighbors, so they are passed over rather than stopping
// the walk; no node is checked for a traversal mark.
func (f *Frontline) GoNextDepth() bool {
	if f.dead || len(f.queue) == 0 {
		return false
	}
	var next []frontEntry
	for _, e := range f.queue {
		for _, n := range f.g.Neighbors(e.unitig, f.dirFor(e)) {
			id := n.UnitigID()
			if f.visited[id] {
				continue
			}
			f.visited[id] = true
			next = append(next, frontEntry{unitig: id, rc: e.rc != n.RC()})
		}
	}
	if len(next) > maxBreadth {
		f.dead = true
		return false
	}
	f.queue = next
	f.depth++
	return len(next) > 0
}

// BranchingFrontline is a Frontline that additionally rejects expansion
// into any node with large in-branching: a reverse walk of up to 3*k
// levels from it reaches a level wider than maxBreadth.
type BranchingFrontline struct {
	*Frontline
	k       int
	Blocked bool
}

// NewBranchingFrontline wraps a Frontline with the in-branching check.
func NewBranchingFrontline(g *unitigraph.Graph, seed int, dir unitigraph.Direction, k int) *BranchingFrontline {
	return &BranchingFrontline{Frontline: NewFrontline(g, seed, dir), k: k}
}

// GoNextDepth behaves like Frontline.GoNextDepth, but additionally blocks
// (and stops future expansion) if any newly-reached node has large
// in-branching.
func (b *BranchingFrontline) GoNextDepth() bool {
	if b.Blocked {
		return false
	}
	ok := b.Frontline.GoNextDepth()
	if !ok {
		return false
	}
	for _, e := range b.queue {
		if hasLargeInBranching(b.g, e.unitig, opp(b.dirFor(e)), b.k*inBranchingFactor, maxBreadth) {
			b.Blocked = true
			return false
		}
	}
	return true
}

// hasLargeInBranching walks up to maxDepth levels against dir from n,
// returning true if any level's frontier would exceed maxBreadth.
func hasLargeInBranching(g *unitigraph.Graph, n int, dir unitigraph.Direction, maxDepth, maxBreadth int) bool {
	frontier := []int{n}
	visited := map[int]bool{n: true}
	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []int
		for _, id := range frontier {
			for _, nb := range g.Neighbors(id, dir) {
				nid := nb.UnitigID()
				if visited[nid] {
					continue
				}
				visited[nid] = true
				next = append(next, nid)
			}
		}
		if len(next) > maxBreadth {
			return true
		}
		frontier = next
	}
	return false
}

// ReachableFrontline is a Frontline variant that additionally records, for
// each visited node, the set of neighbors that pointed at it but were not
// themselves reached this layer, used by later connectivity checks.
type ReachableFrontline struct {
	*Frontline
	unresolved map[int][]int
}

// NewReachableFrontline seeds a ReachableFrontline.
func NewReachableFrontline(g *unitigraph.Graph, seed int, dir unitigraph.Direction) *ReachableFrontline {
	return &ReachableFrontline{Frontline: NewFrontline(g, seed, dir), unresolved: map[int][]int{}}
}

// GoNextDepth expands one layer, recording any neighbor reference to a
// node that was already visited from a different entry as an unresolved
// parent link.
func (r *ReachableFrontline) GoNextDepth() bool {
	for _, e := range r.queue {
		for _, n := range r.g.Neighbors(e.unitig, r.dirFor(e)) {
			id := n.UnitigID()
			if r.visited[id] {
				r.unresolved[id] = append(r.unresolved[id], e.unitig)
			}
		}
	}
	return r.Frontline.GoNextDepth()
}

// Unresolved returns the unresolved-parent map accumulated so far.
func (r *ReachableFrontline) Unresolved() map[int][]int { return r.unresolved }
