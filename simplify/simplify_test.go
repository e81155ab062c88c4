package simplify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatb-go/gatb/bcalm"
	"github.com/gatb-go/gatb/unitigraph"
)

// tipFixture builds a main contig with a short tip
// branching off and a continuation rejoining downstream.
func tipFixture() *unitigraph.Graph {
	units := []*bcalm.Unitig{
		{ID: 0, Seq: []byte("AAAAAAAAAAAAAAAAAAAAA"), Abund: []uint16{30}}, // main contig, k=21 scale
		{ID: 1, Seq: []byte("TTTTTTTTTTTTTTTTTTTTTT"), Abund: []uint16{25}},
		{ID: 2, Seq: []byte("GGG"), Abund: []uint16{2}}, // short, low-coverage tip
	}
	links := map[int][]bcalm.Link{
		0: {
			{From: 0, FromSide: bcalm.End, To: 1, ToSide: bcalm.Begin},
			{From: 0, FromSide: bcalm.End, To: 2, ToSide: bcalm.Begin},
		},
		1: {{From: 1, FromSide: bcalm.Begin, To: 0, ToSide: bcalm.End}},
		2: {{From: 2, FromSide: bcalm.Begin, To: 0, ToSide: bcalm.End}},
	}
	return unitigraph.Build(units, links, 4)
}

func TestRemoveTipsDeletesShortDeadEnd(t *testing.T) {
	g := tipFixture()
	removed := RemoveTips(g, Options{})
	assert.Equal(t, 1, removed)
	assert.True(t, g.Deleted[2], "the short low-coverage branch should be removed")
	assert.False(t, g.Deleted[0])
	assert.False(t, g.Deleted[1])
}

func TestRemoveTipsLeavesLongUnitigsAlone(t *testing.T) {
	units := []*bcalm.Unitig{
		{ID: 0, Seq: []byte("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"), Abund: []uint16{10}},
	}
	g := unitigraph.Build(units, map[int][]bcalm.Link{}, 4)
	removed := RemoveTips(g, Options{})
	assert.Equal(t, 0, removed, "an isolated unitig with both ends dead is not a tip")
}

// ecFixture builds a short low-coverage EC bridging
// two otherwise-unconnected branching regions.
func ecFixture() *unitigraph.Graph {
	units := []*bcalm.Unitig{
		{ID: 0, Seq: []byte("AAAA"), Abund: []uint16{30}},
		{ID: 1, Seq: []byte("TTTT"), Abund: []uint16{30}},
		{ID: 2, Seq: []byte("GGGGG"), Abund: []uint16{3}}, // the EC itself
		{ID: 3, Seq: []byte("CCCC"), Abund: []uint16{30}},
		{ID: 4, Seq: []byte("ACAC"), Abund: []uint16{30}},
	}
	links := map[int][]bcalm.Link{
		0: {
			{From: 0, FromSide: bcalm.End, To: 1, ToSide: bcalm.Begin},
			{From: 0, FromSide: bcalm.End, To: 2, ToSide: bcalm.Begin},
		},
		1: {{From: 1, FromSide: bcalm.Begin, To: 0, ToSide: bcalm.End}},
		2: {
			{From: 2, FromSide: bcalm.Begin, To: 0, ToSide: bcalm.End},
			{From: 2, FromSide: bcalm.End, To: 3, ToSide: bcalm.Begin},
		},
		3: {
			{From: 3, FromSide: bcalm.Begin, To: 2, ToSide: bcalm.End},
			{From: 3, FromSide: bcalm.Begin, To: 4, ToSide: bcalm.End},
		},
		4: {{From: 4, FromSide: bcalm.End, To: 3, ToSide: bcalm.Begin}},
	}
	return unitigraph.Build(units, links, 4)
}

func TestRemoveECsDeletesShortLowCoverageBridge(t *testing.T) {
	g := ecFixture()
	// Unitig 0 has two outgoing edges (to 1 and 2), so it already
	// qualifies as branching; same for unitig 3 via its two begin-side
	// edges.
	require.Equal(t, 2, g.OutDegree(0))
	require.Equal(t, 2, g.InDegree(3))

	removed := RemoveECs(g, Options{})
	assert.Equal(t, 1, removed)
	assert.True(t, g.Deleted[2])
}

func TestRunCascadesUntilFixedPoint(t *testing.T) {
	g := tipFixture()
	res := Run(g, Options{}, 0)
	assert.GreaterOrEqual(t, res.Passes, 1)
	assert.Equal(t, 1, res.TipsRemoved)
	assert.True(t, g.Deleted[2])

	// A second Run call must find nothing left to do.
	res2 := Run(g, Options{}, 0)
	assert.Equal(t, 0, res2.TipsRemoved)
	assert.Equal(t, 0, res2.BubblesPopped)
	assert.Equal(t, 0, res2.ECsRemoved)
}
