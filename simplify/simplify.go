package simplify

import "github.com/gatb-go/gatb/unitigraph"

// Result tallies how many unitigs each pass removed, for logging/metrics.
type Result struct {
	Passes        int
	TipsRemoved   int
	BubblesPopped int
	ECsRemoved    int
}

// Run cascades tip removal, bubble popping and EC removal to a fixed
// point: each full round re-runs every pass, and rounds continue until a
// round removes nothing. maxPasses bounds the number of
// rounds as a safety net against pathological inputs; 0 (or less) means
// use the graph's unitig count plus one as the bound.
func Run(g *unitigraph.Graph, opts Options, maxPasses int) Result {
	if maxPasses <= 0 {
		maxPasses = g.NbUnitigs() + 1
	}
	var res Result
	for pass := 0; pass < maxPasses; pass++ {
		res.Passes++
		tips := RemoveTips(g, opts)
		bubbles := PopBubbles(g, opts)
		ecs := RemoveECs(g, opts)
		res.TipsRemoved += tips
		res.BubblesPopped += bubbles
		res.ECsRemoved += ecs
		if tips == 0 && bubbles == 0 && ecs == 0 {
			break
		}
	}
	return res
}
