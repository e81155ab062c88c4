package cmd

import "github.com/shenwei356/go-logging"

var log = logging.MustGetLogger("gatb")

const VERSION = "0.1.0"
