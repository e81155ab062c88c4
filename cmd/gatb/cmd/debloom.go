package cmd

import (
	"fmt"

	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"

	"github.com/gatb-go/gatb/bloom"
	"github.com/gatb-go/gatb/dsk"
	"github.com/gatb-go/gatb/kmer"
)

var debloomCmd = &cobra.Command{
	Use:   "debloom",
	Short: "build a Bloom filter over solid k-mers and list critical false positives",
	Long: `debloom counts solid k-mers then builds the membership Bloom
filter GATB-Go uses in place of a perfect-hash index, writing the
critical false positive (cFP) set that restores exact membership.

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

		codes := make([]kmer.Code, len(result.Solid))
		for i, sk := range result.Solid {
			codes[i] = sk.Kmer
		}
		filter, cfp := bloom.Debloom(codes, k)

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		defer outfh.Close()
		for _, c := range cfp {
			fmt.Fprintf(outfh, "%s\n", kmer.Decode(c, k))
		}
		log.Infof("bloom filter: %d bits, %d hash function(s); %d critical false positive(s)", filter.NBits(), filter.NbHashes(), len(cfp))
	},
}

func init() {
	RootCmd.AddCommand(debloomCmd)

	debloomCmd.Flags().IntP("abundance-min", "a", 2, "minimum k-mer abundance to be called solid")
	debloomCmd.Flags().StringP("out-file", "O", "cfp.txt", "output file for the critical false positive set")
}
