package pipeline

import (
	"github.com/gatb-go/gatb/dsk"
	"github.com/gatb-go/gatb/simplify"
)

// Options bundles the run-level tunables, plus the
// per-stage sub-options each package already exposes.
type Options struct {
	K             int
	MinimizerSize int
	AbundanceMin  int
	MaxMemoryMiB  uint64
	MaxDiskMiB    uint64
	NbCores       int

	PartitionType dsk.PartitionType

	// DebloomPartitioned selects the partitioned (bounded-memory) debloom
	// routing instead of the in-memory path.
	DebloomPartitioned bool
	DebloomBudget      int

	SimplifyPasses int
	Simplify       simplify.Options

	WorkDir string
}

func (o Options) withDefaults() Options {
	if o.MinimizerSize <= 0 {
		o.MinimizerSize = 10
	}
	if o.AbundanceMin <= 0 {
		o.AbundanceMin = 1
	}
	if o.NbCores <= 0 {
		o.NbCores = 1
	}
	if o.WorkDir == "" {
		o.WorkDir = "."
	}
	return o
}

func (o Options) dskOptions() dsk.Options {
	return dsk.Options{
		K:             o.K,
		Nks:           o.AbundanceMin,
		MaxMemoryMiB:  o.MaxMemoryMiB,
		MaxDiskMiB:    o.MaxDiskMiB,
		NbCores:       o.NbCores,
		PartitionType: o.PartitionType,
	}
}

// Opener adapts a bank reader factory into the signature dsk.Run expects.
type Opener = dsk.Opener
