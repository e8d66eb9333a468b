// Command dga-report resamples transformer dissolved-gas readings, tests
// each unit and gas for a monotonic trend, flags readings above their
// thresholds and stores the results for review.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/dga.report/internal/version"
)

func main() {
	log.SetFlags(log.LstdFlags)
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches a subcommand and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	command, rest := args[0], args[1:]
	var err error
	switch command {
	case "resample":
		err = handleResample(rest, stdout)
	case "trends":
		err = handleTrends(rest, stdout)
	case "outliers":
		err = handleOutliers(rest, stdout)
	case "plot":
		err = handlePlot(rest, stdout)
	case "run":
		err = handleRun(rest, stdout)
	case "runs":
		err = handleRuns(rest, stdout)
	case "serve":
		err = handleServe(rest)
	case "migrate":
		err = handleMigrate(rest, stdout)
	case "version":
		fmt.Fprintln(stdout, version.String())
	case "help", "-h", "--help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		printUsage(stderr)
		return 2
	}

	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "dga-report %s: %v\n", command, err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `dga-report - dissolved gas trend and outlier analysis

Usage: dga-report <command> [options]

Commands:
  resample   Resample readings onto a period grid and write the table
  trends     Test each unit and gas for a monotonic trend
  outliers   List readings above their gas threshold
  plot       Write trend charts (PNG, optionally an HTML page)
  run        Resample, analyse, export and store a full run
  runs       List stored runs
  serve      Serve stored runs over HTTP
  migrate    Manage the results database schema (up, down, status, force)
  version    Show version information
  help       Show this help message

Common Flags:
  -config <file>      Analysis config (JSON); flags below override it
  -input <file>       Input CSV export
  -period <token>     Resampling period: D, W, M, 6M, Y, 1Y or ISO-8601 (P6M)
  -units <list>       "All" or comma-separated unit ids
  -gases <list>       "All" or comma-separated gas names
  -min-points <n>     Paired points a series must exceed to be tested
  -workers <n>        Unit/gas pairs evaluated concurrently
  -out <dir>          Output directory
  -db <file>          Results database

Run 'dga-report <command> -h' for command-specific flags.
`)
}
