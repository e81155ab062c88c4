package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/gatb-go/gatb/dsk"
	"github.com/gatb-go/gatb/kmer"
)

var dskCmd = &cobra.Command{
	Use:   "dsk",
	Short: "count solid k-mers from FASTA/Q files",
	Long: `dsk streams FASTA/Q input through the disk-streamed,
hash-partitioned k-mer counter and writes every k-mer surviving
the abundance-min filter as "<kmer>\t<count>".

`,
	Run: func(cmd *cobra.Command, args []string) {
		getThreads(cmd)
		files := getFileList(args)

		k := getFlagPositiveInt(cmd, "kmer-size")
		if k > 32 {
			checkError(fmt.Errorf("k > 32 not supported"))
		}
		nks := getFlagPositiveInt(cmd, "abundance-min")
		workDir := getFlagString(cmd, "out-dir")
		outFile := getFlagString(cmd, "out-file")

		opt := dsk.Options{
			K:             k,
			Nks:           nks,
			NbCores:       getFlagPositiveInt(cmd, "threads"),
			PartitionType: dsk.Hash,
		}

		result, err := dsk.Run(openerFor(files), workDir, k, opt)
		checkError(err)

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer outfh.Close()

		for _, sk := range result.Solid {
			fmt.Fprintf(outfh, "%s\t%d\n", kmer.Decode(sk.Kmer, k), sk.Count)
		}
		log.Infof("%s solid k-mer(s) over %d pass(es), %d partition(s)", humanize.Comma(int64(len(result.Solid))), result.NbPasses, result.NbPartitions)
	},
}

func init() {
	RootCmd.AddCommand(dskCmd)

	dskCmd.Flags().IntP("abundance-min", "a", 2, "minimum k-mer abundance to be called solid")
	dskCmd.Flags().StringP("out-file", "O", "solid-kmers.tsv", "output file for solid k-mers")
}
