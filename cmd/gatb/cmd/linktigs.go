package cmd

import (
	"fmt"

	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/gatb-go/gatb/bcalm"
	"github.com/gatb-go/gatb/dsk"
)

var linktigsCmd = &cobra.Command{
	Use:   "linktigs",
	Short: "link compacted unitigs into a navigable graph's edge list",
	Long: `linktigs compacts solid k-mers into unitigs and then runs the
global link_tigs pass, writing each discovered adjacency as
"<from>\t<fromSide>\t<to>\t<toSide>\t<rc>".

`,
	Run: func(cmd *cobra.Command, args []string) {
		getThreads(cmd)
		files := getFileList(args)

		k := getFlagPositiveInt(cmd, "kmer-size")
		nks := getFlagPositiveInt(cmd, "abundance-min")
		passes := getFlagPositiveInt(cmd, "passes")
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
		links := bcalm.LinkTigs(units, k, passes)

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer outfh.Close()

		total := 0
		for from, edges := range links {
			for _, e := range edges {
				fmt.Fprintf(outfh, "%d\t%d\t%d\t%d\t%t\n", from, e.FromSide, e.To, e.ToSide, e.RC)
				total++
			}
		}
		log.Infof("%d unitig(s), %d link(s) over %d pass(es)", len(units), total, passes)
	},
}

func init() {
	RootCmd.AddCommand(linktigsCmd)

	linktigsCmd.Flags().IntP("abundance-min", "a", 2, "minimum k-mer abundance to be called solid")
	linktigsCmd.Flags().IntP("passes", "n", 4, "number of global link_tigs passes")
	linktigsCmd.Flags().StringP("out-file", "O", "links.tsv", "output file for the unitig adjacency list")
}
