package simplify

import (
	"sort"

	"github.com/gatb-go/gatb/unitigraph"
)

// medianNeighborhoodAbundance is the median abundance of n's own live
// neighbors, used as the EC coverage baseline.
func medianNeighborhoodAbundance(g *unitigraph.Graph, n int) float64 {
	var abunds []float64
	for _, dir := range []unitigraph.Direction{unitigraph.Outgoing, unitigraph.Incoming} {
		for _, nb := range g.Neighbors(n, dir) {
			abunds = append(abunds, float64(g.Abund[nb.UnitigID()]))
		}
	}
	if len(abunds) == 0 {
		return 0
	}
	sort.Float64s(abunds)
	mid := len(abunds) / 2
	if len(abunds)%2 == 1 {
		return abunds[mid]
	}
	return (abunds[mid-1] + abunds[mid]) / 2
}

// isEC reports whether unitig n qualifies as an erroneous connection:
// both extremities are branching (n has exactly one neighbor on each
// side, and that neighbor is itself a branch point), the unitig
// is short (< EC_len_kmers), and its coverage falls below a fraction of
// its neighborhood's median abundance.
func isEC(g *unitigraph.Graph, n int, opts Options) bool {
	outNbrs := g.Neighbors(n, unitigraph.Outgoing)
	inNbrs := g.Neighbors(n, unitigraph.Incoming)
	if len(outNbrs) != 1 || len(inNbrs) != 1 {
		return false
	}
	if !g.IsBranching(outNbrs[0].UnitigID()) || !g.IsBranching(inNbrs[0].UnitigID()) {
		return false
	}
	if g.Len[n]-g.K+1 >= opts.ecLen(g.K) {
		return false
	}
	median := medianNeighborhoodAbundance(g, n)
	if median == 0 {
		return false
	}
	return float64(g.Abund[n]) < opts.ecCoverageFactor()*median
}

// RemoveECs runs one mark-then-apply EC-removal pass and returns the
// number of unitigs removed.
func RemoveECs(g *unitigraph.Graph, opts Options) int {
	deleter := unitigraph.NewNodesDeleter()
	for n := 0; n < g.NbUnitigs(); n++ {
		if g.Deleted[n] {
			continue
		}
		if isEC(g, n, opts) {
			deleter.Mark(n)
		}
	}
	removed := deleter.Pending()
	deleter.Apply(g)
	return removed
}
