package traversal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatb-go/gatb/bcalm"
	"github.com/gatb-go/gatb/unitigraph"
)

func TestNeedlemanWunschIdenticalSequences(t *testing.T) {
	a := []byte("ACGTACGT")
	if got := NeedlemanWunsch(a, a); got != len(a)*matchScore {
		t.Errorf("NeedlemanWunsch(a,a) = %d, want %d", got, len(a)*matchScore)
	}
	if got := Identity(a, a); got != 100 {
		t.Errorf("Identity(a,a) = %v, want 100", got)
	}
}

func TestIdentitySingleMismatch(t *testing.T) {
	a := []byte("ACGTACGT")
	b := []byte("ACGTACCT")
	if got := Identity(a, b); got < 85 || got > 90 {
		t.Errorf("Identity with 1/8 mismatch = %v, want ~87.5", got)
	}
}

func TestIdentityEmptySequences(t *testing.T) {
	if got := Identity(nil, nil); got != 100 {
		t.Errorf("Identity(nil,nil) = %v, want 100", got)
	}
}

// chainFrontlineFixture builds a 4-unitig linear chain 0->1->2->3, k=4.
func chainFrontlineFixture() *unitigraph.Graph {
	units := []*bcalm.Unitig{
		{ID: 0, Seq: []byte("AAAA"), Abund: []uint16{4}},
		{ID: 1, Seq: []byte("TTTT"), Abund: []uint16{4}},
		{ID: 2, Seq: []byte("GGGG"), Abund: []uint16{4}},
		{ID: 3, Seq: []byte("CCCC"), Abund: []uint16{4}},
	}
	links := map[int][]bcalm.Link{
		0: {{From: 0, FromSide: bcalm.End, To: 1, ToSide: bcalm.Begin}},
		1: {
			{From: 1, FromSide: bcalm.Begin, To: 0, ToSide: bcalm.End},
			{From: 1, FromSide: bcalm.End, To: 2, ToSide: bcalm.Begin},
		},
		2: {
			{From: 2, FromSide: bcalm.Begin, To: 1, ToSide: bcalm.End},
			{From: 2, FromSide: bcalm.End, To: 3, ToSide: bcalm.Begin},
		},
		3: {{From: 3, FromSide: bcalm.Begin, To: 2, ToSide: bcalm.End}},
	}
	return unitigraph.Build(units, links, 4)
}

func TestFrontlineWalksChainToDeadEnd(t *testing.T) {
	g := chainFrontlineFixture()
	f := NewFrontline(g, 0, unitigraph.Outgoing)

	steps := 0
	for f.GoNextDepth() {
		steps++
		if steps > 10 {
			t.Fatal("frontline did not terminate")
		}
	}
	// 3 successful hops (0->1->2->3) plus the final call that discovers
	// unitig 3 has no further outgoing neighbor.
	if f.Depth() != 4 {
		t.Errorf("Depth() = %d, want 4", f.Depth())
	}
	if !f.IsEmpty() {
		t.Error("frontline should be empty after reaching the dead end")
	}
}

func TestBranchingFrontlineCollapsesOnBubble(t *testing.T) {
	// 0 branches into 1 and 2, both of which rejoin at 3.
	units := []*bcalm.Unitig{
		{ID: 0, Seq: []byte("AAAA")},
		{ID: 1, Seq: []byte("TTTT")},
		{ID: 2, Seq: []byte("GGGG")},
		{ID: 3, Seq: []byte("CCCC")},
	}
	links := map[int][]bcalm.Link{
		0: {
			{From: 0, FromSide: bcalm.End, To: 1, ToSide: bcalm.Begin},
			{From: 0, FromSide: bcalm.End, To: 2, ToSide: bcalm.Begin},
		},
		1: {
			{From: 1, FromSide: bcalm.Begin, To: 0, ToSide: bcalm.End},
			{From: 1, FromSide: bcalm.End, To: 3, ToSide: bcalm.Begin},
		},
		2: {
			{From: 2, FromSide: bcalm.Begin, To: 0, ToSide: bcalm.End},
			{From: 2, FromSide: bcalm.End, To: 3, ToSide: bcalm.Begin},
		},
		3: {
			{From: 3, FromSide: bcalm.Begin, To: 1, ToSide: bcalm.End},
			{From: 3, FromSide: bcalm.Begin, To: 2, ToSide: bcalm.End},
		},
	}
	g := unitigraph.Build(units, links, 4)

	bf := NewBranchingFrontline(g, 0, unitigraph.Outgoing, 4)
	bf.GoNextDepth() // layer = {1,2}
	if bf.Collapsed() {
		t.Fatal("layer {1,2} should not be collapsed yet")
	}
	bf.GoNextDepth() // layer = {3}
	if !bf.Collapsed() {
		t.Error("expected the frontline to collapse to unitig 3")
	}
	if bf.Nodes()[0] != 3 {
		t.Errorf("collapsed node = %d, want 3", bf.Nodes()[0])
	}
}

// bubbleGraph returns a two-branch bubble fixture: unitig 0 branches
// into two near-identical alternative unitigs (1 true-path, 2 low-coverage
// variant differing by one base) that rejoin at unitig 3.
func bubbleGraph() *unitigraph.Graph {
	units := []*bcalm.Unitig{
		{ID: 0, Seq: []byte("AAAAA"), Abund: []uint16{20}},
		{ID: 1, Seq: []byte("ACGTACGT"), Abund: []uint16{20}},
		{ID: 2, Seq: []byte("ACGTCCGT"), Abund: []uint16{3}},
		{ID: 3, Seq: []byte("TTTTT"), Abund: []uint16{20}},
	}
	links := map[int][]bcalm.Link{
		0: {
			{From: 0, FromSide: bcalm.End, To: 1, ToSide: bcalm.Begin},
			{From: 0, FromSide: bcalm.End, To: 2, ToSide: bcalm.Begin},
		},
		1: {
			{From: 1, FromSide: bcalm.Begin, To: 0, ToSide: bcalm.End},
			{From: 1, FromSide: bcalm.End, To: 3, ToSide: bcalm.Begin},
		},
		2: {
			{From: 2, FromSide: bcalm.Begin, To: 0, ToSide: bcalm.End},
			{From: 2, FromSide: bcalm.End, To: 3, ToSide: bcalm.Begin},
		},
		3: {
			{From: 3, FromSide: bcalm.Begin, To: 1, ToSide: bcalm.End},
			{From: 3, FromSide: bcalm.Begin, To: 2, ToSide: bcalm.End},
		},
	}
	return unitigraph.Build(units, links, 4)
}

func TestMonumentAcceptsSimilarBubbleAndPicksHigherAbundancePath(t *testing.T) {
	g := bubbleGraph()
	paths, consensus, accepted := Monument(g, 0, unitigraph.Outgoing, 4, 4, 10, 80)
	require.True(t, accepted, "expected the near-identical bubble to be accepted")
	require.Len(t, paths, 2)
	assert.Equal(t, 1, paths[consensus].Nodes[1], "consensus should follow the higher-abundance unitig 1")
}

func TestMonumentRejectsBubbleBelowIdentityThreshold(t *testing.T) {
	g := bubbleGraph()
	_, _, accepted := Monument(g, 0, unitigraph.Outgoing, 4, 4, 10, 99)
	assert.False(t, accepted, "a 1-base difference out of 8 should fail a 99% identity threshold")
}

func TestMonumentRejectsWhenCollapseExceedsMaxDepth(t *testing.T) {
	g := bubbleGraph()
	// maxDepth=1 lets the frontline expand to {1,2} but not far enough to
	// rejoin at unitig 3, so no collapse point is ever found.
	_, _, accepted := Monument(g, 0, unitigraph.Outgoing, 4, 1, 10, 80)
	assert.False(t, accepted, "a bubble that doesn't collapse within maxDepth should be rejected")
}
