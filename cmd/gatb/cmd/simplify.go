package cmd

import (
	"fmt"

	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/gatb-go/gatb/bcalm"
	"github.com/gatb-go/gatb/dsk"
	"github.com/gatb-go/gatb/simplify"
	"github.com/gatb-go/gatb/unitigraph"
)

var simplifyCmd = &cobra.Command{
	Use:   "simplify",
	Short: "assemble a raw unitig graph and cascade tip/bubble/EC cleanup",
	Long: `simplify assembles the unitig graph from the input reads and
then runs the cascaded cleanup passes in isolation (no minimizer
bucketing), reporting how many unitigs each pass removed. Useful for
inspecting simplification behavior independently of the full "graph"
pipeline.

`,
	Run: func(cmd *cobra.Command, args []string) {
		getThreads(cmd)
		files := getFileList(args)

		k := getFlagPositiveInt(cmd, "kmer-size")
		nks := getFlagPositiveInt(cmd, "abundance-min")
		workDir := getFlagString(cmd, "out-dir")
		outFile := getFlagString(cmd, "out-file")
		maxPasses := getFlagNonNegativeInt(cmd, "max-passes")

		opt := dsk.Options{K: k, Nks: nks, NbCores: getFlagPositiveInt(cmd, "threads"), PartitionType: dsk.Hash}
		result, err := dsk.Run(openerFor(files), workDir, k, opt)
		checkError(err)

		kmers := make([]bcalm.BucketKmer, len(result.Solid))
		for i, sk := range result.Solid {
			kmers[i] = bcalm.BucketKmer{Code: sk.Kmer, Count: sk.Count}
		}
		units := bcalm.CompactBucket(kmers, k)
		links := bcalm.LinkTigs(units, k, 4)
		g := unitigraph.Build(units, links, k)

		simplifyOpts := simplify.Options{
			MaxDepth:          getFlagPositiveInt(cmd, "max-depth"),
			MaxBreadth:        getFlagPositiveInt(cmd, "max-breadth"),
			IdentityThreshold: getFlagFloat64(cmd, "identity-threshold"),
		}
		stats := simplify.Run(g, simplifyOpts, maxPasses)

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer outfh.Close()
		written := 0
		for i, seq := range g.Seq {
			if g.Deleted[i] {
				continue
			}
			fmt.Fprintf(outfh, ">unitig_%d length:%d abundance:%.2f\n%s\n", i, g.Len[i], g.Abund[i], seq)
			written++
		}

		log.Infof("%d pass(es): %d tip(s) removed, %d bubble(s) popped, %d EC(s) removed; %d unitig(s) survive",
			stats.Passes, stats.TipsRemoved, stats.BubblesPopped, stats.ECsRemoved, written)
	},
}

func init() {
	RootCmd.AddCommand(simplifyCmd)

	simplifyCmd.Flags().IntP("abundance-min", "a", 2, "minimum k-mer abundance to be called solid")
	simplifyCmd.Flags().StringP("out-file", "O", "unitigs.fa", "output FASTA file for surviving unitigs")
	simplifyCmd.Flags().Int("max-passes", 0, "maximum cascade passes (0 = run to fixed point)")
	simplifyCmd.Flags().Int("max-depth", 10, "monument traversal max depth (bubble popping)")
	simplifyCmd.Flags().Int("max-breadth", 10, "monument traversal max breadth (bubble popping)")
	simplifyCmd.Flags().Float64("identity-threshold", 80.0, "minimum pairwise path identity percentage to accept a bubble")
}
