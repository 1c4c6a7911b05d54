package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"chat_dashboard/internal/db"
)

func runRuns() {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite database to read (default: CHD_DB)")
	limit := fs.Int("limit", 20, "Maximum runs to list")
	fs.Parse(os.Args[1:])

	path := resolveDB(*dbPath)
	records, err := db.ListRuns(path, *limit)
	if err != nil {
		log.Fatalf("chd runs: %v", err)
	}
	if len(records) == 0 {
		fmt.Println("No runs recorded.")
		return
	}

	fmt.Printf("%-36s  %-20s  %-10s  %-25s  %s\n", "RUN", "STARTED", "PLATFORM", "TITLE", "MESSAGES")
	for _, rec := range records {
		fmt.Printf("%-36s  %-20s  %-10s  %-25s  %s\n",
			rec.RunID, rec.StartedAt, rec.Platform, truncate(rec.Title, 25), humanize.Comma(int64(rec.MessageCount)))
	}
}

func runShow() {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite database to read (default: CHD_DB)")
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "chd show: missing run id")
		fs.Usage()
		os.Exit(2)
	}
	runID := fs.Arg(0)

	path := resolveDB(*dbPath)
	rep, err := db.LoadReport(path, runID)
	if err != nil {
		log.Fatalf("chd show: %v", err)
	}
	printJSON(rep)
}

func resolveDB(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := strings.TrimSpace(os.Getenv("CHD_DB")); env != "" {
		return env
	}
	log.Fatalf("chd: no run database given (use -db or CHD_DB)")
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
