package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/gatb-go/gatb/dsk"
	"github.com/gatb-go/gatb/pipeline"
	"github.com/gatb-go/gatb/unitigraph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "build a simplified unitig graph from FASTA/Q reads",
	Long: `graph runs the full pipeline: k-mer counting, Bloom/debloom,
BCALM unitig compaction, unitig-graph assembly and cascaded
simplification (tip removal, bubble popping, EC removal), then writes
the surviving unitigs as FASTA.

`,
	Run: func(cmd *cobra.Command, args []string) {
		getThreads(cmd)
		files := getFileList(args)

		k := getFlagPositiveInt(cmd, "kmer-size")
		if k > 32 {
			checkError(fmt.Errorf("k > 32 not supported"))
		}
		minimizerSize := getFlagPositiveInt(cmd, "minimizer-size")
		abundanceMin := getFlagPositiveInt(cmd, "abundance-min")
		partitioned := getFlagBool(cmd, "debloom-partitioned")
		outFile := getFlagString(cmd, "out-file")
		workDir := getFlagString(cmd, "out-dir")

		opts := pipeline.Options{
			K:                  k,
			MinimizerSize:      minimizerSize,
			AbundanceMin:       abundanceMin,
			NbCores:            getFlagPositiveInt(cmd, "threads"),
			PartitionType:      dsk.Hash,
			DebloomPartitioned: partitioned,
			WorkDir:            workDir,
		}

		log.Infof("counting k-mers (k=%d) across %d file(s)", k, len(files))
		g, err := pipeline.Run(openerFor(files), opts)
		checkError(err)

		log.Infof("assembled %s unitig(s); simplification removed %d tip(s), popped %d bubble(s), removed %d EC(s) over %d pass(es)",
			humanize.Comma(int64(g.NbUnitigs())), g.SimplifyStats.TipsRemoved, g.SimplifyStats.BubblesPopped, g.SimplifyStats.ECsRemoved, g.SimplifyStats.Passes)

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer outfh.Close()

		var written int
		if getFlagBool(cmd, "gfa") {
			written = unitigraph.WriteGFA(outfh, g.Graph)
		} else {
			written = unitigraph.WriteFASTA(outfh, g.Graph)
		}
		log.Infof("wrote %d unitig(s) to %s", written, outFile)
	},
}

func init() {
	RootCmd.AddCommand(graphCmd)

	graphCmd.Flags().IntP("minimizer-size", "m", 10, "minimizer size used for bucketing and partitioned debloom")
	graphCmd.Flags().IntP("abundance-min", "a", 2, "minimum k-mer abundance to be called solid")
	graphCmd.Flags().BoolP("debloom-partitioned", "p", false, "use the partitioned (bounded-memory) debloom routing instead of in-memory")
	graphCmd.Flags().StringP("out-file", "O", "unitigs.fa", "output file for surviving unitigs")
	graphCmd.Flags().BoolP("gfa", "g", false, "write GFA (S/L lines) instead of FASTA")
}
