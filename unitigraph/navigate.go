package unitigraph

// AvanceResult classifies the outcome of one simple-path step.
type AvanceResult int

const (
	Ok AvanceResult = iota
	DeadEnd
	OutBranching
	InBranching
)

// SimplePathAvance takes one step from n in direction dir, succeeding only
// when n has exactly one live neighbor in dir AND that neighbor has
// exactly one live neighbor back towards n.
func (g *Graph) SimplePathAvance(n int, dir Direction) (AvanceResult, ExtremityInfo) {
	neighbors := g.Neighbors(n, dir)
	if len(neighbors) == 0 {
		return DeadEnd, ExtremityInfo(0)
	}
	if len(neighbors) > 1 {
		return OutBranching, ExtremityInfo(0)
	}
	next := neighbors[0]
	backDir := opposite(dir)
	if next.RC() {
		backDir = dir
	}
	if g.degreeFor(next.UnitigID(), backDir) > 1 {
		return InBranching, next
	}
	return Ok, next
}

func (g *Graph) degreeFor(n int, dir Direction) int {
	if dir == Outgoing {
		return g.OutDegree(n)
	}
	return g.InDegree(n)
}

// PathStep records one hop of a simple-path walk.
type PathStep struct {
	Unitig int
	RC     bool
}

// SimplePathLongest walks repeatedly via SimplePathAvance from n in
// direction dir, accumulating total nucleotide length and summed
// abundance, optionally marking every visited unitig as traversed, and
// stopping at the first non-Ok result.
func (g *Graph) SimplePathLongest(n int, dir Direction, markTraversed bool) (steps []PathStep, length int, abund float64) {
	cur := n
	curDir := dir
	length = g.Len[cur]
	abund = float64(g.Abund[cur])
	steps = append(steps, PathStep{Unitig: cur, RC: false})
	if markTraversed {
		g.Traversed[cur] = true
	}

	for {
		res, next := g.SimplePathAvance(cur, curDir)
		if res != Ok {
			break
		}
		id := next.UnitigID()
		length += g.Len[id] - (g.K - 1)
		abund += float64(g.Abund[id])
		steps = append(steps, PathStep{Unitig: id, RC: next.RC()})
		if markTraversed {
			g.Traversed[id] = true
		}
		cur = id
		if next.RC() {
			curDir = opposite(curDir)
		}
	}
	return steps, length, abund
}

// NodesDeleter buffers proposed unitig deletions and applies them once,
// all-or-nothing, avoiding mid-pass inconsistencies from deleting a unitig
// while another thread is still reading its adjacency.
type NodesDeleter struct {
	pending map[int]struct{}
}

// NewNodesDeleter returns an empty deleter.
func NewNodesDeleter() *NodesDeleter {
	return &NodesDeleter{pending: make(map[int]struct{})}
}

// Mark queues unitig n for deletion.
func (d *NodesDeleter) Mark(n int) { d.pending[n] = struct{}{} }

// Pending reports how many deletions are queued.
func (d *NodesDeleter) Pending() int { return len(d.pending) }

// Apply flips deleted[] for every queued unitig. Adjacency is not
// physically compacted: Neighbors already filters deleted entries on
// every query, which gives the same observable behavior (deleted unitigs
// never surface as neighbors) without rewriting the flattened edge arrays
// in place.
func (d *NodesDeleter) Apply(g *Graph) {
	for id := range d.pending {
		g.Deleted[id] = true
	}
	d.pending = make(map[int]struct{})
}

// UnitigDelete queues the unitig containing n for deletion through
// deleter. dir is accepted for signature
// parity with the navigation API but unused: at unitig granularity the whole
// unitig is the deletion unit regardless of which end initiated it.
func (g *Graph) UnitigDelete(n int, dir Direction, deleter *NodesDeleter) {
	deleter.Mark(n)
}
