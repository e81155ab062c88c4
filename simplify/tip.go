// Package simplify implements the graph-cleanup passes that turn a raw
// unitig graph into an assembly-ready one: tip removal, bubble popping and
// erroneous-connection (EC) removal.
package simplify

import (
	"github.com/gatb-go/gatb/unitigraph"
)

const (
	defaultTipLenFactor = 2.5 // tip_len_topological_kmers = 2.5*k
	defaultECLenFactor  = 9.0 // EC_len_kmers = 9*k
)

// Options bundles the tunables for the three cleanup passes. Zero
// values fall back to the defaults applied by RemoveTips, RemoveECs and
// PopBubbles.
type Options struct {
	TipLenTopologicalKmers int
	TipLenRCTCKmers        int
	RCTC                   float64 // coverage ratio threshold for RCTC-based tips

	ECLenKmers        int
	ECCoverageFactor  float64 // EC_coverage_threshold as a fraction of median neighborhood abundance

	MaxDepth, MaxBreadth int // monument traversal bounds for bubble popping
	IdentityThreshold    float64
}

func (o Options) tipLenTopological(k int) int {
	if o.TipLenTopologicalKmers > 0 {
		return o.TipLenTopologicalKmers
	}
	return int(defaultTipLenFactor * float64(k))
}

func (o Options) ecLen(k int) int {
	if o.ECLenKmers > 0 {
		return o.ECLenKmers
	}
	return int(defaultECLenFactor * float64(k))
}

func (o Options) rctc() float64 {
	if o.RCTC > 0 {
		return o.RCTC
	}
	return 2.0
}

func (o Options) ecCoverageFactor() float64 {
	if o.ECCoverageFactor > 0 {
		return o.ECCoverageFactor
	}
	return 0.5
}

// isDeadEnd reports whether n has degree 0 on the given side.
func isDeadEnd(g *unitigraph.Graph, n int, dir unitigraph.Direction) bool {
	if dir == unitigraph.Outgoing {
		return g.OutDegree(n) == 0
	}
	return g.InDegree(n) == 0
}

// meanNeighborCoverage averages the abundance of n's live neighbors on
// the non-dead-end side, used by the RCTC tip test.
func meanNeighborCoverage(g *unitigraph.Graph, n int) float64 {
	var sum float64
	var count int
	for _, dir := range []unitigraph.Direction{unitigraph.Outgoing, unitigraph.Incoming} {
		for _, nb := range g.Neighbors(n, dir) {
			sum += float64(g.Abund[nb.UnitigID()])
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// isTip reports whether unitig n qualifies for removal as a tip: one
// extremity has degree 0 (it's a dead end) and the unitig is short, either
// by a flat topological length bound or by a coverage-relative (RCTC)
// bound.
func isTip(g *unitigraph.Graph, n int, opts Options) bool {
	outDead := isDeadEnd(g, n, unitigraph.Outgoing)
	inDead := isDeadEnd(g, n, unitigraph.Incoming)
	if outDead == inDead {
		return false // neither or both ends dead: not a tip (isolated or interior)
	}

	topoLen := opts.tipLenTopological(g.K)
	nbKmers := g.Len[n] - g.K + 1
	if nbKmers < topoLen {
		return true
	}
	if opts.TipLenRCTCKmers > 0 && nbKmers < opts.TipLenRCTCKmers {
		meanCov := meanNeighborCoverage(g, n)
		if meanCov > 0 && float64(g.Abund[n]) < opts.rctc()*meanCov {
			return true
		}
	}
	return false
}

// RemoveTips runs one mark-then-apply tip-removal pass and returns
// the number of unitigs removed.
func RemoveTips(g *unitigraph.Graph, opts Options) int {
	deleter := unitigraph.NewNodesDeleter()
	for n := 0; n < g.NbUnitigs(); n++ {
		if g.Deleted[n] {
			continue
		}
		if isTip(g, n, opts) {
			deleter.Mark(n)
		}
	}
	removed := deleter.Pending()
	deleter.Apply(g)
	return removed
}
