package bcalm

import (
	"testing"

	"github.com/gatb-go/gatb/kmer"
)

// seedKmers slices every overlapping k-mer out of seq and encodes each as a
// canonical BucketKmer with abundance 1.
func seedKmers(seq string, k int) []BucketKmer {
	var out []BucketKmer
	for i := 0; i+k <= len(seq); i++ {
		code, err := kmer.Encode([]byte(seq), i, k)
		if err != nil {
			continue
		}
		out = append(out, BucketKmer{Code: kmer.Canonical(code, k), Count: 1})
	}
	return out
}

func totalKmers(units []*Unitig, k int) int {
	n := 0
	for _, u := range units {
		n += u.NbKmers(k)
	}
	return n
}

func TestCompactBucketPreservesKmerCount(t *testing.T) {
	k := 4
	seq := "ACGTACCTGA"
	kmers := seedKmers(seq, k)
	units := CompactBucket(kmers, k)

	if totalKmers(units, k) != len(kmers) {
		t.Fatalf("kmer count not preserved: got %d, want %d", totalKmers(units, k), len(kmers))
	}
	// A chain of distinct, non-repeating (k-1)-mer joints compacts down from
	// one unitig per seed k-mer; a repeated (k-1)-mer anywhere in the bucket
	// is a legitimate branch point and correctly blocks merging
	// at that joint, so we only assert that *some* compaction happened
	// rather than a specific final count.
	if len(units) >= len(kmers) {
		t.Errorf("expected compaction to reduce unitig count below %d seeds, got %d", len(kmers), len(units))
	}
}

// TestCompactBucketMergesTwoKmers hand-verifies the minimal non-branching
// case: two overlapping 4-mers with a single, unambiguous (k-1)-mer joint
// must compact to one unitig reconstructing the original sequence.
func TestCompactBucketMergesTwoKmers(t *testing.T) {
	k := 4
	seq := "ACGAA"
	kmers := seedKmers(seq, k)
	units := CompactBucket(kmers, k)

	if len(units) != 1 {
		t.Fatalf("expected the two overlapping k-mers to merge into 1 unitig, got %d", len(units))
	}
	got := string(units[0].Seq)
	gotRC := string(revcompBytes(units[0].Seq))
	if got != seq && gotRC != seq {
		t.Errorf("merged unitig = %q, want %q (or its reverse complement)", got, seq)
	}
}

func TestCompactBucketPreservesAbundanceSum(t *testing.T) {
	k := 5
	seq := "AAGACCCTTGAC"
	kmers := seedKmers(seq, k)
	units := CompactBucket(kmers, k)

	var gotSum, wantSum int
	for _, u := range units {
		for _, a := range u.Abund {
			gotSum += int(a)
		}
	}
	for range kmers {
		wantSum++
	}
	if gotSum != wantSum {
		t.Errorf("abundance sum = %d, want %d", gotSum, wantSum)
	}
}

// TestLinkTigsPalindromicRelaxation uses k=5 (k-1=4, even) so the shared
// boundary can be its own reverse complement: two unitigs sharing a
// self-revcomp boundary must link regardless of orientation flags.
func TestLinkTigsPalindromicRelaxation(t *testing.T) {
	k := 5
	u0 := &Unitig{ID: 0, Seq: []byte("TACGT"), Abund: []uint16{1}}
	u1 := &Unitig{ID: 1, Seq: []byte("GACGT"), Abund: []uint16{1}}

	links := LinkTigs([]*Unitig{u0, u1}, k, 1)
	if len(links[0]) == 0 || links[0][0].To != 1 {
		t.Fatalf("expected palindromic boundary to link unitig 0 to 1, got %v", links[0])
	}
	if len(links[1]) == 0 || links[1][0].To != 0 {
		t.Fatalf("expected palindromic boundary to link unitig 1 to 0, got %v", links[1])
	}
}

func TestLinkTigsRejectsIncompatibleOrientation(t *testing.T) {
	k := 4
	// u0's begin ("ACG") and u1's end ("CGT", canonical "ACG" via revcomp)
	// share a canonical boundary but land in a Begin/End, rc=false/rc=true
	// combination outside the accepted orientation quartet.
	u0 := &Unitig{ID: 0, Seq: []byte("ACGA"), Abund: []uint16{1}}
	u1 := &Unitig{ID: 1, Seq: []byte("TCGT"), Abund: []uint16{1}}

	links := LinkTigs([]*Unitig{u0, u1}, k, 1)
	if len(links[0]) != 0 || len(links[1]) != 0 {
		t.Errorf("expected no link for incompatible orientation, got %v / %v", links[0], links[1])
	}
}
