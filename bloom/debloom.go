package bloom

import (
	"sort"

	"github.com/gatb-go/gatb/kmer"
	"github.com/gatb-go/gatb/repartitor"
)

// solidSet answers "is this canonical code solid?" by binary search over a
// sorted slice, avoiding a second large hash table.
type solidSet []kmer.Code

func (s solidSet) has(c kmer.Code) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= c })
	return i < len(s) && s[i] == c
}

// candidates returns the (deduplicated) canonical neighbors of every solid
// k-mer: the 8 possible extensions (4 outgoing, 4 incoming) define the edge
// set the unitig graph needs to test against.
func candidates(solid []kmer.Code, k int) []kmer.Code {
	seen := make(map[kmer.Code]struct{}, len(solid)*2)
	var out []kmer.Code
	add := func(c kmer.Code) {
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	for _, code := range solid {
		m := kmer.KMer{Code: code, K: k}
		for _, n := range m.Neighbors(kmer.Outgoing) {
			add(n.Code)
		}
		for _, n := range m.Neighbors(kmer.Incoming) {
			add(n.Code)
		}
	}
	return out
}

// Debloom builds the Bloom filter over solid and returns the cFP
// (critical false positives) set: candidates that pass the Bloom filter's
// probabilistic test but are not actually solid. solid must be
// sorted ascending by Code, as produced by dsk.Run.
func Debloom(solid []kmer.Code, k int) (*Filter, []kmer.Code) {
	f := Build(solid, k)
	set := solidSet(solid)

	var cfp []kmer.Code
	for _, c := range candidates(solid, k) {
		if !f.Contains(c) {
			continue // exact negative, no entry needed
		}
		if set.has(c) {
			continue // actually solid, not a false positive
		}
		cfp = append(cfp, c)
	}
	sort.Slice(cfp, func(i, j int) bool { return cfp[i] < cfp[j] })
	return f, cfp
}

// DebloomPartitioned is the partitioned variant: candidates are routed to
// the partition of their minimizer using table, and the Bloom/solid
// difference is computed one partition at a time. Every partition's
// candidates (buckets and spilled overflow alike) are held in memory
// together until the drain; budget only decides when a bucket moves to
// the spill list.
func DebloomPartitioned(solid []kmer.Code, k, m int, table repartitor.Table, budget int) (*Filter, []kmer.Code) {
	f := Build(solid, k)
	set := solidSet(solid)

	buckets := make(map[int][]kmer.Code, table.NPart)
	spills := make(map[int][]kmer.Code) // overflowed buckets, merged back at drain time

	order := kmer.LexicographicOrder{}
	route := func(c kmer.Code) {
		minim, _ := kmer.Minimizer(c, k, m, order)
		part := int(table.Partition(minim))
		buckets[part] = append(buckets[part], c)
		if len(buckets[part]) > budget {
			spills[part] = append(spills[part], buckets[part]...)
			buckets[part] = nil
		}
	}
	for _, c := range candidates(solid, k) {
		if f.Contains(c) {
			route(c)
		}
	}

	var cfp []kmer.Code
	for part := 0; part < int(table.NPart); part++ {
		all := append(spills[part], buckets[part]...)
		sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
		for i, c := range all {
			if i > 0 && all[i-1] == c {
				continue
			}
			if !set.has(c) {
				cfp = append(cfp, c)
			}
		}
	}
	sort.Slice(cfp, func(i, j int) bool { return cfp[i] < cfp[j] })
	return f, cfp
}

// Contains is the exact membership test used downstream by BCALM and the
// unitig graph: a canonical code is "in the graph" if it is solid, or if
// the Bloom filter accepts it and it is not a recorded cFP.
func Contains(f *Filter, solid, cfp []kmer.Code, code kmer.Code) bool {
	if !f.Contains(code) {
		return false
	}
	if solidSet(solid).has(code) {
		return true
	}
	return !solidSet(cfp).has(code)
}
