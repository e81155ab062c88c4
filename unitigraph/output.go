package unitigraph

import (
	"fmt"
	"io"
)

// orientOf maps the extremity an edge enters on a neighbor to the
// neighbor's reading orientation: entering at Begin reads it forward,
// entering at End reads it reverse. Length-k unitigs (side Both) carry
// the orientation in the rc flag instead.
func orientOf(e ExtremityInfo) byte {
	switch e.Side() {
	case Begin:
		return '+'
	case End:
		return '-'
	default:
		if e.RC() {
			return '-'
		}
		return '+'
	}
}

// WriteFASTA writes every surviving unitig as one FASTA record whose
// comment carries the BCALM-style fields `LN:i:<len> ka:f:<abundance>`
// followed by one `L:<o1>:<id>:<o2>` field per (k-1)-overlap link: o1 is
// '+' for links leaving the unitig's end, '-' for links entering its
// begin. Returns the number of records written.
func WriteFASTA(w io.Writer, g *Graph) int {
	written := 0
	for id := 0; id < g.NbUnitigs(); id++ {
		if g.Deleted[id] {
			continue
		}
		fmt.Fprintf(w, ">unitig_%d LN:i:%d ka:f:%.2f", id, g.Len[id], g.Abund[id])
		for _, e := range g.Neighbors(id, Outgoing) {
			fmt.Fprintf(w, " L:+:%d:%c", e.UnitigID(), orientOf(e))
		}
		for _, e := range g.Neighbors(id, Incoming) {
			fmt.Fprintf(w, " L:-:%d:%c", e.UnitigID(), orientOf(e))
		}
		fmt.Fprintf(w, "\n%s\n", g.Seq[id])
		written++
	}
	return written
}

// WriteGFA writes the graph as GFA 1.0: one S line per surviving unitig
// and one L line per outgoing (k-1)-overlap. Returns the number of
// S lines written.
func WriteGFA(w io.Writer, g *Graph) int {
	fmt.Fprintf(w, "H\tVN:Z:1.0\tks:i:%d\n", g.K)
	written := 0
	for id := 0; id < g.NbUnitigs(); id++ {
		if g.Deleted[id] {
			continue
		}
		fmt.Fprintf(w, "S\t%d\t%s\tLN:i:%d\tka:f:%.2f\n", id, g.Seq[id], g.Len[id], g.Abund[id])
		written++
	}
	overlap := g.K - 1
	for id := 0; id < g.NbUnitigs(); id++ {
		if g.Deleted[id] {
			continue
		}
		for _, e := range g.Neighbors(id, Outgoing) {
			fmt.Fprintf(w, "L\t%d\t+\t%d\t%c\t%dM\n", id, e.UnitigID(), orientOf(e), overlap)
		}
	}
	return written
}
