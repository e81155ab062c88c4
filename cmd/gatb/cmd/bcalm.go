package cmd

import (
	"fmt"

	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/gatb-go/gatb/bcalm"
	"github.com/gatb-go/gatb/dsk"
)

var bcalmCmd = &cobra.Command{
	Use:   "bcalm",
	Short: "compact solid k-mers into maximal unitigs",
	Long: `bcalm counts solid k-mers and compacts them into maximal
simple-path unitigs, writing one FASTA record per unitig. Unlike the
full "graph" command this runs a single compaction bucket, without
minimizer-bucketed parallelism or cross-bucket linking.

`,
	Run: func(cmd *cobra.Command, args []string) {
		getThreads(cmd)
		files := getFileList(args)

		k := getFlagPositiveInt(cmd, "kmer-size")
		nks := getFlagPositiveInt(cmd, "abundance-min")
		workDir := getFlagString(cmd, "out-dir")
		outFile := getFlagString(cmd, "out-file")

		opt := dsk.Options{K: k, Nks: nks, NbCores: getFlagPositiveInt(cmd, "threads"), PartitionType: dsk.Hash}
		result, err := dsk.Run(openerFor(files), workDir, k, opt)
		checkError(err)

		kmers := make([]bcalm.BucketKmer, len(result.Solid))
		for i, sk := range result.Solid {
			kmers[i] = bcalm.BucketKmer{Code: sk.Kmer, Count: sk.Count}
		}
		units := bcalm.CompactBucket(kmers, k)

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer outfh.Close()
		for _, u := range units {
			fmt.Fprintf(outfh, ">unitig_%d abundance:%.2f\n%s\n", u.ID, u.MeanAbundance(), u.Seq)
		}
		log.Infof("compacted %d solid k-mer(s) into %d unitig(s)", len(result.Solid), len(units))
	},
}

func init() {
	RootCmd.AddCommand(bcalmCmd)

	bcalmCmd.Flags().IntP("abundance-min", "a", 2, "minimum k-mer abundance to be called solid")
	bcalmCmd.Flags().StringP("out-file", "O", "unitigs.fa", "output FASTA file for compacted unitigs")
}
