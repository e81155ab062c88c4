package simplify

import (
	"github.com/gatb-go/gatb/traversal"
	"github.com/gatb-go/gatb/unitigraph"
)

func (o Options) maxDepth() int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return 3
}

func (o Options) maxBreadth() int {
	if o.MaxBreadth > 0 {
		return o.MaxBreadth
	}
	return 10
}

func (o Options) identityThreshold() float64 {
	if o.IdentityThreshold > 0 {
		return o.IdentityThreshold
	}
	return 90
}

// PopBubbles scans every branching unitig, runs monument traversal from
// its bubble-opening side, and for every accepted bubble keeps the
// highest-abundance path as the consensus while marking every other path's
// interior unitigs for deletion. Returns the number of bubbles popped.
//
// Bubble popping is defined over outgoing branches of strand-aware nodes;
// compaction leaves each unitig's stored orientation arbitrary, so the
// opening of a bubble can surface here as in-degree > 1 on a flipped
// unitig. Scanning both directions restores that strand symmetry (see
// DESIGN.md, Open Question decisions).
func PopBubbles(g *unitigraph.Graph, opts Options) int {
	deleter := unitigraph.NewNodesDeleter()
	popped := 0

	for n := 0; n < g.NbUnitigs(); n++ {
		if g.Deleted[n] {
			continue
		}
		for _, dir := range []unitigraph.Direction{unitigraph.Outgoing, unitigraph.Incoming} {
			degree := g.OutDegree(n)
			if dir == unitigraph.Incoming {
				degree = g.InDegree(n)
			}
			if degree < 2 {
				continue
			}
			paths, consensus, accepted := traversal.Monument(g, n, dir, g.K, opts.maxDepth(), opts.maxBreadth(), opts.identityThreshold())
			if !accepted {
				continue
			}
			popped++
			for i, p := range paths {
				if i == consensus {
					continue
				}
				for _, id := range p.Nodes[1 : len(p.Nodes)-1] {
					deleter.Mark(id)
				}
			}
		}
	}

	deleter.Apply(g)
	return popped
}
