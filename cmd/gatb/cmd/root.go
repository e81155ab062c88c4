package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "gatb",
	Short: "Genome assembly de Bruijn graph toolbox",
	Long: fmt.Sprintf(`gatb - genome assembly de Bruijn graph toolbox

A command-line toolkit providing the stages of a de Bruijn genome
assembler: k-mer counting (DSK), Bloom-filter debloom, BCALM-style
unitig compaction, unitig-graph simplification and bubble/tip/EC
cleanup.

Version: %s

`, VERSION),
}

// Execute adds all child commands to the root command and parses the
// command line flags. Called once by main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func init() {
	defaultThreads := runtime.NumCPU()
	if defaultThreads > 8 {
		defaultThreads = 8
	}

	RootCmd.PersistentFlags().IntP("threads", "j", defaultThreads, "number of CPUs to use")
	RootCmd.PersistentFlags().BoolP("verbose", "", false, "print verbose progress information")
	RootCmd.PersistentFlags().StringP("out-dir", "o", ".", "working/output directory")
	RootCmd.PersistentFlags().IntP("kmer-size", "k", 31, "k-mer size (<= 32)")
}

func getThreads(cmd *cobra.Command) int {
	n := getFlagPositiveInt(cmd, "threads")
	runtime.GOMAXPROCS(n)
	return n
}
