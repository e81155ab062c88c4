package dsk

import (
	"io"
	"math"
	"os"
	"sync"

	"github.com/gatb-go/gatb/internal/errs"
	"github.com/gatb-go/gatb/kmer"
	"github.com/gatb-go/gatb/storage"
	"github.com/twotwotwo/sorts"
	"github.com/twotwotwo/sorts/sortutil"
)

// SolidKmer is a (kmer, count) record surviving the abundance-min filter.
type SolidKmer struct {
	Kmer  kmer.Code
	Count uint16
}

// Result is DSK's output: the solid k-mer multiset plus its abundance
// histogram.
type Result struct {
	Solid        []SolidKmer
	Histogram    *Histogram
	PartiInfo    *PartiInfo
	NbPasses     int
	NbPartitions int
}

const batchSize = 4096

// byKmer sorts solid k-mers ascending by code, via twotwotwo/sorts'
// parallel Quicksort rather than stdlib sort.
type byKmer []SolidKmer

func (s byKmer) Len() int           { return len(s) }
func (s byKmer) Less(i, j int) bool { return s[i].Kmer < s[j].Kmer }
func (s byKmer) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// configure estimates k-mer volume from a sampling scan and derives
// (nb_passes, nb_partitions) from it. The disk constraint is
// driven by total k-mer occurrences (what the partition files stream);
// the memory constraint in hash mode by the distinct-k-mer estimate (what
// the resident counters hold), in vector mode by the full stream.
func configure(opener Opener, k int, opt Options) (nbPasses, nbPartitions int, err error) {
	r, err := opener()
	if err != nil {
		return 0, 0, err
	}
	est, err := estimateVolume(r, k)
	if err != nil {
		return 0, 0, err
	}

	const bytesPerKmer = 8 // sizeof(kmer.Code)
	volume := est.nbKmers * bytesPerKmer / (1024 * 1024)
	if volume == 0 {
		volume = 1
	}
	resident := volume
	if opt.PartitionType == Hash {
		resident = est.nbDistinct * bytesPerKmer / (1024 * 1024)
		if resident == 0 {
			resident = 1
		}
	}

	nbPasses = int(volume/opt.MaxDiskMiB) + 1
	maxOpenFiles := opt.MaxOpenFiles / 2
	if maxOpenFiles < 1 {
		maxOpenFiles = 1
	}

	const loadFactor = 0.7
	for {
		residentPerPass := resident / uint64(nbPasses)
		nbPartitions = int(residentPerPass/opt.MaxMemoryMiB) + 1
		if opt.PartitionType == Hash {
			nbPartitions = int(math.Ceil(float64(nbPartitions) / loadFactor))
		}
		if nbPartitions >= maxOpenFiles {
			nbPasses++
			continue
		}
		break
	}
	return nbPasses, nbPartitions, nil
}

// Run executes the full DSK algorithm: configure, then for
// each pass fill partitions and drain them into the solid k-mer output,
// accumulating a histogram. workDir holds the transient per-pass
// partition files, removed after each pass.
func Run(opener Opener, workDir string, k int, opt Options) (*Result, error) {
	opt = opt.withDefaults()
	if k <= 0 || k > 32 {
		return nil, errs.New("dsk", errs.KindConfiguration, "kmer_size must be in [1,32], got %d", k)
	}
	if opt.Nks == 0 {
		return nil, errs.New("dsk", errs.KindConfiguration, "abundance_min must be > 0")
	}
	sorts.MaxProcs = opt.NbCores

	nbPasses, nbParts, err := configure(opener, k, opt)
	if err != nil {
		return nil, errs.New("dsk", errs.KindInput, "configure: %v", err)
	}

	group, err := storage.NewGroup(workDir)
	if err != nil {
		return nil, errs.New("dsk", errs.KindResource, "create work dir: %v", err)
	}

	histogram := NewHistogram(opt.HistogramMaxBin)
	partiInfo := NewPartiInfo(nbPasses, nbParts)
	var solid []SolidKmer
	var solidMu sync.Mutex

	for pass := 0; pass < nbPasses; pass++ {
		ps := storage.NewPartitionSet(group, pass, nbParts)

		if err := fillPartitions(opener, ps, pass, nbPasses, nbParts, k, opt, partiInfo); err != nil {
			return nil, err
		}

		for part := 0; part < nbParts; part++ {
			counts, err := drainPartition(ps, part, opt)
			if err != nil {
				return nil, errs.New("dsk", errs.KindResource, "drain pass %d partition %d: %v", pass, part, err).WithPartition(part)
			}
			for code, count := range counts {
				if count < opt.Nks {
					continue
				}
				histogram.Add(count)
				if count > 0xFFFF {
					count = 0xFFFF
				}
				solidMu.Lock()
				solid = append(solid, SolidKmer{Kmer: kmer.Code(code), Count: uint16(count)})
				solidMu.Unlock()
			}
		}

		if err := ps.RemoveAll(); err != nil {
			return nil, errs.New("dsk", errs.KindResource, "cleanup pass %d: %v", pass, err)
		}
	}

	if len(solid) == 0 {
		return nil, errs.New("dsk", errs.KindInvariant, "no solid k-mers found")
	}

	sorts.Quicksort(byKmer(solid))

	return &Result{
		Solid:        solid,
		Histogram:    histogram,
		PartiInfo:    partiInfo,
		NbPasses:     nbPasses,
		NbPartitions: nbParts,
	}, nil
}

// fillPartitions iterates all sequences once, keeping k-mers whose
// hash(k) mod nbPasses == pass, routing them by hash(k) div nbPasses mod
// nbParts. Writes go through a per-partition batched cache guarded by a
// per-partition mutex.
func fillPartitions(opener Opener, ps *storage.PartitionSet, pass, nbPasses, nbParts, k int, opt Options, partiInfo *PartiInfo) error {
	writers := make([]*storage.CollectionWriter, nbParts)
	mus := make([]sync.Mutex, nbParts)
	for i := 0; i < nbParts; i++ {
		w, err := ps.Create(i)
		if err != nil {
			return errs.New("dsk", errs.KindResource, "create partition %d: %v", i, err).WithPartition(i)
		}
		writers[i] = w
	}
	defer func() {
		for _, w := range writers {
			w.Close()
		}
	}()

	r, err := opener()
	if err != nil {
		return errs.New("dsk", errs.KindInput, "open bank: %v", err)
	}

	seqCh := make(chan []byte, opt.NbCores*4)
	var readErr error
	go func() {
		defer close(seqCh)
		for {
			seq, rerr := r.Read()
			if rerr == io.EOF {
				return
			}
			if rerr != nil {
				readErr = rerr
				return
			}
			seqCh <- seq.Data
		}
	}()

	var wg sync.WaitGroup
	for worker := 0; worker < opt.NbCores; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batches := make([][]byte, nbParts)
			flush := func(part int) {
				if len(batches[part]) == 0 {
					return
				}
				mus[part].Lock()
				writers[part].WriteBlock(batches[part])
				mus[part].Unlock()
				batches[part] = nil
			}
			for data := range seqCh {
				if len(data) < k {
					continue
				}
				it := kmer.NewIterator(data, k)
				for {
					m, _, _, ok := it.Next()
					if !ok {
						break
					}
					h := kmer.Hash(m.Code)
					if int(h%uint64(nbPasses)) != pass {
						continue
					}
					reduced := h / uint64(nbPasses)
					part := int(reduced % uint64(nbParts))
					partiInfo.AddKmer(pass, part)

					var buf [8]byte
					putUint64(buf[:], uint64(m.Code))
					batches[part] = append(batches[part], buf[:]...)
					if len(batches[part]) >= batchSize*8 {
						flush(part)
					}
				}
			}
			for part := range batches {
				flush(part)
			}
		}()
	}
	wg.Wait()

	if readErr != nil {
		return errs.New("dsk", errs.KindInput, "read bank: %v", readErr)
	}
	return nil
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[7-i] = byte(v)
		v >>= 8
	}
}

func getUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = (v << 8) | uint64(b[i])
	}
	return v
}

// drainPartition loads one partition and returns counts per k-mer code;
// filtering at count >= nks is left to the caller. Vector mode: load,
// sort, run-length count. Hash mode: counting map, same result by a
// different route.
func drainPartition(ps *storage.PartitionSet, part int, opt Options) (map[uint64]int, error) {
	r, err := ps.Open(part)
	if err != nil {
		if os.IsNotExist(err) {
			return map[uint64]int{}, nil
		}
		return nil, err
	}
	defer r.Close()

	switch opt.PartitionType {
	case Vector:
		var codes []uint64
		for {
			block, berr := r.ReadBlock()
			if berr == io.EOF {
				break
			}
			if berr != nil {
				return nil, berr
			}
			for i := 0; i+8 <= len(block); i += 8 {
				codes = append(codes, getUint64(block[i:i+8]))
			}
		}
		sortutil.Uint64s(codes)
		counts := make(map[uint64]int, len(codes)/2+1)
		for i := 0; i < len(codes); {
			j := i + 1
			for j < len(codes) && codes[j] == codes[i] {
				j++
			}
			counts[codes[i]] = j - i
			i = j
		}
		return counts, nil
	default: // Hash
		counts := make(map[uint64]int, 1024)
		for {
			block, berr := r.ReadBlock()
			if berr == io.EOF {
				break
			}
			if berr != nil {
				return nil, berr
			}
			for i := 0; i+8 <= len(block); i += 8 {
				counts[getUint64(block[i:i+8])]++
			}
		}
		return counts, nil
	}
}
