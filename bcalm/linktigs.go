package bcalm

import (
	"sort"

	"github.com/gatb-go/gatb/kmer"
)

// Link is one validated (k-1)-overlap edge between two unitig extremities.
type Link struct {
	From     int
	FromSide Side
	To       int
	ToSide   Side
	RC       bool
}

type boundaryExt struct {
	id int
	s  Side
	rc bool // true if this extremity's as-written (k-1)-mer is the revcomp of the canonical key
}

// compatible implements the orientation-validation quartet:
// valid iff (sides differ) == (rc flags match). The four spelled-out rows
// (beginSame/¬beginSame × side × rc) reduce to this single
// symmetric test.
func compatible(a, b boundaryExt) bool {
	return (a.s != b.s) == (a.rc == b.rc)
}

func isPalindromic(code kmer.Code, k int) bool {
	return code == kmer.RevComp(code, k)
}

// LinkTigs computes unitig-to-unitig (k-1)-overlap edges across the whole
// unitig set, partitioning boundary k-mers into nbPasses hashed passes so
// that any one pass only holds extremities/nbPasses entries in memory
//. Both extremities of a real edge share
// the same canonical boundary key, so they always land in the same pass.
// BCALM's two-phase per-pass design (populate, then scan and emit to a
// per-pass file, finally n-way merged by unitig id) is realized here as: a
// per-pass in-memory boundary map, with results accumulated directly into
// a per-unitig map and sorted by target id at the end: equivalent output,
// without the file-per-pass plumbing.
func LinkTigs(unitigs []*Unitig, k, nbPasses int) map[int][]Link {
	if nbPasses < 1 {
		nbPasses = 1
	}
	km1 := k - 1
	links := make(map[int][]Link)

	for pass := 0; pass < nbPasses; pass++ {
		buckets := make(map[kmer.Code][]boundaryExt)
		for _, u := range unitigs {
			if u.Deleted || len(u.Seq) < km1 {
				continue
			}
			for _, s := range []Side{Begin, End} {
				var sub []byte
				if s == Begin {
					sub = u.Seq[:km1]
				} else {
					sub = u.Seq[len(u.Seq)-km1:]
				}
				code, err := kmer.Encode(sub, 0, km1)
				if err != nil {
					continue
				}
				canon := kmer.Canonical(code, km1)
				if int(kmer.Hash(canon)%uint64(nbPasses)) != pass {
					continue
				}
				buckets[canon] = append(buckets[canon], boundaryExt{u.ID, s, code != canon})
			}
		}

		for key, refs := range buckets {
			pal := isPalindromic(key, km1)
			for i := range refs {
				for j := range refs {
					if i == j || refs[i].id == refs[j].id {
						continue
					}
					if !pal && !compatible(refs[i], refs[j]) {
						continue
					}
					links[refs[i].id] = append(links[refs[i].id], Link{
						From:     refs[i].id,
						FromSide: refs[i].s,
						To:       refs[j].id,
						ToSide:   refs[j].s,
						RC:       refs[i].rc != refs[j].rc,
					})
				}
			}
		}
	}

	for id := range links {
		sort.Slice(links[id], func(a, b int) bool { return links[id][a].To < links[id][b].To })
	}
	return links
}
