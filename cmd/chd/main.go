// Command chd analyzes chat export files from the terminal.
//
// Usage:
//
//	chd                      Show help
//	chd analyze <path>       Analyze one export file or a directory of them
//	chd runs                 List recorded analysis runs
//	chd show <run-id>        Print a recorded run's report as JSON
package main

import (
	"fmt"
	"os"
)

const usage = `chd - chat conversation dashboard CLI

Usage:
  chd <command> [flags]

Commands:
  analyze     Analyze a chat export (.txt, .json, .pdf) or a directory of exports
  runs        List recorded analysis runs from the run database
  show        Print one recorded run's report as JSON

Environment:
  CHD_WORKSPACE   Workspace root (default: ~/ChatDashboard)
  CHD_PERSIST     Persist source and report into the workspace (1/true)
  CHD_DB          SQLite database for run history
  CHD_WORKERS     Parallel workers for directory analysis
  CHD_TRACE       Echo staged run logs to stdout (1)

Run 'chd <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "analyze":
		runAnalyze()
	case "runs":
		runRuns()
	case "show":
		runShow()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "chd: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
