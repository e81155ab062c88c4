package dsk

import (
	"io"

	"github.com/will-rowe/nthash"

	"github.com/gatb-go/gatb/bank"
)

// volumeEstimate summarizes one sampling scan of the input bank: total
// k-mer occurrences (the disk volume DSK will stream) and a scaled
// estimate of distinct canonical k-mers (the resident volume a hash-mode
// drain keeps in memory).
type volumeEstimate struct {
	nbKmers    uint64
	nbDistinct uint64
}

// estimateScale keeps roughly 1 in estimateScale hashed k-mers for the
// distinct-cardinality estimate.
const estimateScale = 256

// estimateVolume rolls a canonical ntHash over every sequence, counting
// k-mer occurrences and collecting hashes below 2^64/estimateScale; the
// size of that set times the scale approximates the distinct canonical
// k-mer count without holding the full set.
func estimateVolume(r bank.Reader, k int) (volumeEstimate, error) {
	threshold := ^uint64(0) / estimateScale
	kept := make(map[uint64]struct{})
	var est volumeEstimate
	for {
		seq, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return volumeEstimate{}, err
		}
		if len(seq.Data) < k {
			continue
		}
		data := seq.Data
		hasher, err := nthash.NewHasher(&data, uint(k))
		if err != nil {
			continue
		}
		for {
			h, ok := hasher.Next(true)
			if !ok {
				break
			}
			est.nbKmers++
			if h <= threshold {
				kept[h] = struct{}{}
			}
		}
	}
	est.nbDistinct = uint64(len(kept)) * estimateScale
	if est.nbDistinct == 0 || est.nbDistinct > est.nbKmers {
		est.nbDistinct = est.nbKmers
	}
	return est, nil
}
