package traversal

import (
	"math"

	"github.com/gatb-go/gatb/unitigraph"
)

// Path is one candidate route discovered by monument traversal between a
// seed node and the collapse point of its branching frontline.
type Path struct {
	Nodes []int
	RC    []bool // per-node strand, parallel to Nodes
	Seq   []byte
	Abund float64
}

// Monument runs a branching frontline from seed in dir until it collapses
// to a single node within maxDepth/maxBreadth, then enumerates every path
// between seed and that node, validating the bubble:
//  - mean path length (in unitig hops) <= maxDepth
//  - stdev <= mean/5
//  - every pair of paths is >= identityThreshold% identical (Needleman-Wunsch)
// On success it returns the accepted paths and the index of the
// highest-abundance (consensus) path; the caller is responsible for
// marking the other paths' nodes for deletion.
func Monument(g *unitigraph.Graph, seed int, dir unitigraph.Direction, k, maxDepth, maxBreadth int, identityThreshold float64) (paths []Path, consensus int, accepted bool) {
	bf := NewBranchingFrontline(g, seed, dir, k)
	endNode := -1
	for d := 0; d < maxDepth; d++ {
		if !bf.GoNextDepth() {
			if bf.Collapsed() {
				endNode = bf.Nodes()[0]
			}
			break
		}
		if bf.Collapsed() {
			endNode = bf.Nodes()[0]
			break
		}
	}
	if endNode == -1 || bf.Blocked {
		return nil, -1, false
	}

	paths = enumeratePaths(g, seed, endNode, dir, maxBreadth, maxDepth)
	if len(paths) == 0 {
		return nil, -1, false
	}

	lengths := make([]float64, len(paths))
	for i, p := range paths {
		lengths[i] = float64(len(p.Nodes) - 1) // hops from seed to endNode
	}
	mean, stdev := meanStdev(lengths)
	if mean > float64(maxDepth) || stdev > mean/5 {
		return nil, -1, false
	}

	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			if Identity(paths[i].Seq, paths[j].Seq) < identityThreshold {
				return nil, -1, false
			}
		}
	}

	best := 0
	for i, p := range paths {
		if p.Abund > paths[best].Abund {
			best = i
		}
	}
	return paths, best, true
}

func meanStdev(xs []float64) (mean, stdev float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean = sum / float64(len(xs))
	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	stdev = math.Sqrt(sq / float64(len(xs)))
	return mean, stdev
}

// enumeratePaths performs a bounded DFS from seed to target in direction
// dir, collecting every simple path.
func enumeratePaths(g *unitigraph.Graph, seed, target int, dir unitigraph.Direction, maxBreadth, maxDepth int) []Path {
	var out []Path
	type frame struct {
		node  int
		rc    bool
	}
	var walk func(cur frame, visited map[int]bool, nodes []int, rcs []bool, seq []byte, abund float64)
	walk = func(cur frame, visited map[int]bool, nodes []int, rcs []bool, seq []byte, abund float64) {
		if len(out) >= maxBreadth || len(nodes) > maxDepth+1 {
			return
		}
		if cur.node == target && len(nodes) > 1 {
			p := Path{
				Nodes: append([]int{}, nodes...),
				RC:    append([]bool{}, rcs...),
				Seq:   append([]byte{}, seq...),
				Abund: abund / float64(len(nodes)),
			}
			out = append(out, p)
			return
		}
		d := dir
		if cur.rc {
			d = opp(dir)
		}
		for _, n := range g.Neighbors(cur.node, d) {
			id := n.UnitigID()
			if visited[id] {
				continue
			}
			visited[id] = true
			rc := cur.rc != n.RC()
			nextSeq := appendUnitig(seq, g, id, rc)
			walk(frame{id, rc}, visited, append(nodes, id), append(rcs, rc), nextSeq, abund+float64(g.Abund[id]))
			delete(visited, id)
		}
	}

	start := map[int]bool{seed: true}
	seedSeq := append([]byte{}, g.Seq[seed]...)
	walk(frame{seed, false}, start, []int{seed}, []bool{false}, seedSeq, float64(g.Abund[seed]))
	return out
}

func appendUnitig(seq []byte, g *unitigraph.Graph, id int, rc bool) []byte {
	s := g.Seq[id]
	if rc {
		s = revcomp(s)
	}
	k := g.K
	if len(s) < k-1 {
		return append(append([]byte{}, seq...), s...)
	}
	return append(append([]byte{}, seq...), s[k-1:]...)
}

func revcomp(s []byte) []byte {
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

// SimplePathsOnly is the degenerate monument call with max_depth =
// max_breadth = 1.
func SimplePathsOnly(g *unitigraph.Graph, seed int, dir unitigraph.Direction, k int, identityThreshold float64) (paths []Path, consensus int, accepted bool) {
	return Monument(g, seed, dir, k, 1, 1, identityThreshold)
}
