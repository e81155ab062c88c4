package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"

	"github.com/gatb-go/gatb/internal/errs"
)

// checkError prints err and exits with the status code its kind maps to:
// 1 for configuration/usage errors, 2 for I/O, 3 for pipeline failures.
func checkError(err error) {
	if err != nil {
		log.Errorf("%v", err)
		if rec, ok := err.(*errs.Record); ok {
			log.Errorf("%s", rec.JSON())
			os.Exit(errs.ExitCode(err))
		}
		os.Exit(1)
	}
}

func getFlagString(cmd *cobra.Command, flag string) string {
	v, err := cmd.Flags().GetString(flag)
	checkError(err)
	return v
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	v, err := cmd.Flags().GetInt(flag)
	checkError(err)
	return v
}

func getFlagPositiveInt(cmd *cobra.Command, flag string) int {
	v := getFlagInt(cmd, flag)
	if v <= 0 {
		checkError(fmt.Errorf("value of --%s should be positive", flag))
	}
	return v
}

func getFlagNonNegativeInt(cmd *cobra.Command, flag string) int {
	v := getFlagInt(cmd, flag)
	if v < 0 {
		checkError(fmt.Errorf("value of --%s should not be negative", flag))
	}
	return v
}

func getFlagFloat64(cmd *cobra.Command, flag string) float64 {
	v, err := cmd.Flags().GetFloat64(flag)
	checkError(err)
	return v
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	v, err := cmd.Flags().GetBool(flag)
	checkError(err)
	return v
}

func getFileList(args []string) []string {
	if len(args) == 0 {
		checkError(fmt.Errorf("at least one input file required"))
	}
	for _, file := range args {
		ok, err := pathutil.Exists(file)
		checkError(errors.Wrap(err, file))
		if !ok {
			checkError(fmt.Errorf("file not found: %s", file))
		}
	}
	return args
}
