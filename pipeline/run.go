package pipeline

import (
	"sort"

	"github.com/gatb-go/gatb/bcalm"
	"github.com/gatb-go/gatb/bloom"
	"github.com/gatb-go/gatb/dsk"
	"github.com/gatb-go/gatb/internal/errs"
	"github.com/gatb-go/gatb/kmer"
	"github.com/gatb-go/gatb/repartitor"
	"github.com/gatb-go/gatb/simplify"
	"github.com/gatb-go/gatb/unitigraph"
)

// Graph is the final deliverable of a pipeline run: the simplified unitig
// graph, plus the intermediate artifacts callers may persist as external
// outputs (solid k-mer set, Bloom filter, cFP list, build state).
type Graph struct {
	*unitigraph.Graph

	DSK           *dsk.Result
	Filter        *bloom.Filter
	CFP           []kmer.Code
	SimplifyStats simplify.Result
	State         BuildState
}

const nbLinkTigsPasses = 4

// Run wires dsk -> bloom/debloom -> bcalm (bucketed by minimizer) ->
// link_tigs -> unitigraph -> simplify, in that order. opener must yield a
// fresh bank.Reader on each call (DSK makes multiple passes over the
// input).
func Run(opener Opener, opts Options) (*Graph, error) {
	opts = opts.withDefaults()
	if opts.K <= 0 || opts.K > 32 {
		return nil, errs.New("pipeline", errs.KindConfiguration, "kmer_size must be in [1,32], got %d", opts.K)
	}

	var state BuildState
	state = state.Set(ConfigurationDone)

	dskResult, err := dsk.Run(opener, opts.WorkDir, opts.K, opts.dskOptions())
	if err != nil {
		if rec, ok := err.(*errs.Record); ok {
			return nil, rec
		}
		return nil, errs.New("pipeline", errs.KindResource, "dsk stage: %v", err)
	}
	state = state.Set(SortingCountDone)

	solidCodes := make([]kmer.Code, len(dskResult.Solid))
	for i, sk := range dskResult.Solid {
		solidCodes[i] = sk.Kmer
	}

	var filter *bloom.Filter
	var cfp []kmer.Code
	if opts.DebloomPartitioned {
		table := buildMinimizerTable(solidCodes, opts.K, opts.MinimizerSize)
		budget := opts.DebloomBudget
		if budget <= 0 {
			budget = len(solidCodes) + 1
		}
		filter, cfp = bloom.DebloomPartitioned(solidCodes, opts.K, opts.MinimizerSize, table, budget)
	} else {
		filter, cfp = bloom.Debloom(solidCodes, opts.K)
	}
	state = state.Set(MPHFDone)

	units := compactByMinimizerBucket(dskResult.Solid, opts.K, opts.MinimizerSize)
	links := bcalm.LinkTigs(units, opts.K, nbLinkTigsPasses)
	state = state.Set(BCALM2Done)

	g := unitigraph.Build(units, links, opts.K)

	passes := opts.SimplifyPasses
	if passes <= 0 {
		passes = 0 // Run's own default: cascade until fixed point
	}
	stats := simplify.Run(g, opts.Simplify, passes)

	return &Graph{
		Graph:         g,
		DSK:           dskResult,
		Filter:        filter,
		CFP:           cfp,
		SimplifyStats: stats,
		State:         state,
	}, nil
}

// buildMinimizerTable samples each solid k-mer's minimizer and builds a
// load-balanced routing table over them.
func buildMinimizerTable(codes []kmer.Code, k, m int) repartitor.Table {
	order := kmer.LexicographicOrder{}
	freq := make([]uint64, 1<<uint(2*m))
	for _, c := range codes {
		minim, _ := kmer.Minimizer(c, k, m, order)
		freq[minim]++
	}
	return repartitor.NewBalancedHeap(freq, m, defaultNbBuckets(len(codes)))
}

func defaultNbBuckets(nbSolid int) int {
	n := nbSolid / 100000
	if n < 1 {
		n = 1
	}
	if n > 256 {
		n = 256
	}
	return n
}

// compactByMinimizerBucket groups solid k-mers by minimizer partition and
// runs bcalm.CompactBucket independently per bucket, renumbering each
// bucket's unitigs into a single dense, global id space.
func compactByMinimizerBucket(solid []dsk.SolidKmer, k, m int) []*bcalm.Unitig {
	order := kmer.LexicographicOrder{}
	table := buildMinimizerTable(extractCodes(solid), k, m)

	buckets := make(map[uint16][]bcalm.BucketKmer)
	for _, sk := range solid {
		minim, _ := kmer.Minimizer(sk.Kmer, k, m, order)
		part := table.Partition(minim)
		buckets[part] = append(buckets[part], bcalm.BucketKmer{Code: sk.Kmer, Count: sk.Count})
	}

	parts := make([]uint16, 0, len(buckets))
	for part := range buckets {
		parts = append(parts, part)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i] < parts[j] })

	var all []*bcalm.Unitig
	nextID := 0
	for _, part := range parts {
		bucketUnits := bcalm.CompactBucket(buckets[part], k)
		for _, u := range bucketUnits {
			u.ID = nextID
			nextID++
			all = append(all, u)
		}
	}
	return all
}

func extractCodes(solid []dsk.SolidKmer) []kmer.Code {
	codes := make([]kmer.Code, len(solid))
	for i, sk := range solid {
		codes[i] = sk.Kmer
	}
	return codes
}
