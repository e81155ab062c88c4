package pipeline

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatb-go/gatb/bank"
	"github.com/gatb-go/gatb/dsk"
	"github.com/gatb-go/gatb/kmer"
	"github.com/gatb-go/gatb/unitigraph"
)

// linearOpener opens a fresh in-memory reader over a short, simply
// repeated sequence, simulating a single-path genome (no branching), k=4.
func linearOpener() (bank.Reader, error) {
	return bank.NewSliceReader([][]byte{
		[]byte("ACGTACGTACGTACGTACGT"),
		[]byte("ACGTACGTACGTACGTACGT"),
		[]byte("ACGTACGTACGTACGTACGT"),
	}), nil
}

func TestRunProducesAGraphFromSolidKmers(t *testing.T) {
	opts := Options{
		K:             4,
		MinimizerSize: 2,
		AbundanceMin:  2,
		NbCores:       1,
		WorkDir:       t.TempDir(),
		PartitionType: dsk.Hash,
	}

	g, err := Run(linearOpener, opts)
	require.NoError(t, err)
	require.NotNil(t, g)

	assert.True(t, g.State.IsSet(ConfigurationDone))
	assert.True(t, g.State.IsSet(SortingCountDone))
	assert.True(t, g.State.IsSet(MPHFDone))
	assert.True(t, g.State.IsSet(BCALM2Done))
	assert.Greater(t, g.NbUnitigs(), 0)
	assert.NotNil(t, g.Filter)
	assert.NotEmpty(t, g.DSK.Solid)
}

func TestRunRejectsInvalidKmerSize(t *testing.T) {
	_, err := Run(linearOpener, Options{K: 0, WorkDir: t.TempDir()})
	assert.Error(t, err)
}

func TestBuildStatePersistRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	state := ConfigurationDone.Set(SortingCountDone)
	require.NoError(t, state.Persist(&buf))

	loaded, err := LoadBuildState(&buf)
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
	assert.True(t, loaded.IsSet(ConfigurationDone))
	assert.True(t, loaded.IsSet(SortingCountDone))
	assert.False(t, loaded.IsSet(MPHFDone))
}

// canonicalKmers collects the distinct canonical k-mers of seqs.
func canonicalKmers(k int, seqs ...[]byte) map[kmer.Code]struct{} {
	set := make(map[kmer.Code]struct{})
	for _, s := range seqs {
		it := kmer.NewIterator(s, k)
		for {
			m, _, _, ok := it.Next()
			if !ok {
				break
			}
			set[m.Code] = struct{}{}
		}
	}
	return set
}

// survivingKmers collects the canonical k-mers held by the graph's
// non-deleted unitigs.
func survivingKmers(g *unitigraph.Graph) map[kmer.Code]struct{} {
	set := make(map[kmer.Code]struct{})
	for i, seq := range g.Seq {
		if g.Deleted[i] {
			continue
		}
		it := kmer.NewIterator(seq, g.K)
		for {
			m, _, _, ok := it.Next()
			if !ok {
				break
			}
			set[m.Code] = struct{}{}
		}
	}
	return set
}

func liveUnitigs(g *unitigraph.Graph) int {
	n := 0
	for i := range g.Seq {
		if !g.Deleted[i] {
			n++
		}
	}
	return n
}

// Tip cleanup, end to end (k=11): a 100 nt contig plus a short read that
// follows it for one (k-1)-overlap and then diverges, seeding a 7-k-mer
// dead end off the k-mer ending at position 45. Every boundary 10-mer in
// these reads is unique (and none is its own reverse complement), so
// compaction yields exactly three unitigs: the contig's two halves around
// the branch point, plus the tip.
var (
	tipScenarioMain = []byte("TTAGTTGTGCCGCAGCGAAGTAGTGCTTGAAATATGCGACCCCTAAGTAGGAGCGTATGCGCCCAGTAACCAATGCCTGTTGAGATGCCAGACGCGTAAC")
	tipScenarioTip  = []byte("GCGACCCCTACAAAACA")
)

func TestRunRemovesTipEndToEnd(t *testing.T) {
	opener := func() (bank.Reader, error) {
		return bank.NewSliceReader([][]byte{tipScenarioMain, tipScenarioTip}), nil
	}
	g, err := Run(opener, Options{
		K:             11,
		MinimizerSize: 5,
		AbundanceMin:  1,
		NbCores:       1,
		WorkDir:       t.TempDir(),
		PartitionType: dsk.Hash,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, g.SimplifyStats.TipsRemoved)
	assert.Equal(t, 0, g.SimplifyStats.BubblesPopped)
	assert.Equal(t, 0, g.SimplifyStats.ECsRemoved)

	// The cleaned graph holds exactly the main contig's k-mers, split in
	// two unitigs at the former branch point.
	assert.Equal(t, canonicalKmers(11, tipScenarioMain), survivingKmers(g.Graph))
	assert.Equal(t, 2, liveUnitigs(g.Graph))
}

// Bubble popping, end to end (k=11): two 91 nt variants of the same
// region differing in a single nucleotide at position 45, the higher
// coverage one read three times, the lower once. Compaction yields four
// unitigs: shared prefix, the two 11-k-mer variant arms, shared suffix.
var (
	bubbleScenarioHigh = []byte("TATGATCTCCCGTCGCTCATCTTCATCCAGCGAAGAGGACGTGCCCGTAGTTGTGTGAACTACGAGCCCGGGGTCTACCGGTGACATTTTT")
	bubbleScenarioLow  = []byte("TATGATCTCCCGTCGCTCATCTTCATCCAGCGAAGAGGACGTGCCTGTAGTTGTGTGAACTACGAGCCCGGGGTCTACCGGTGACATTTTT")
)

func TestRunPopsBubbleEndToEnd(t *testing.T) {
	opener := func() (bank.Reader, error) {
		return bank.NewSliceReader([][]byte{
			bubbleScenarioHigh, bubbleScenarioHigh, bubbleScenarioHigh,
			bubbleScenarioLow,
		}), nil
	}
	g, err := Run(opener, Options{
		K:             11,
		MinimizerSize: 5,
		AbundanceMin:  1,
		NbCores:       1,
		WorkDir:       t.TempDir(),
		PartitionType: dsk.Hash,
	})
	require.NoError(t, err)

	// The bubble is detected from its opening node (and symmetrically
	// from the closing one), never zero times.
	assert.GreaterOrEqual(t, g.SimplifyStats.BubblesPopped, 1)
	assert.Equal(t, 0, g.SimplifyStats.TipsRemoved)
	assert.Equal(t, 0, g.SimplifyStats.ECsRemoved)

	// Only the high-coverage variant survives: the cleaned graph holds
	// exactly that read's k-mers in three unitigs (prefix, chosen arm,
	// suffix).
	assert.Equal(t, canonicalKmers(11, bubbleScenarioHigh), survivingKmers(g.Graph))
	assert.Equal(t, 3, liveUnitigs(g.Graph))
}
