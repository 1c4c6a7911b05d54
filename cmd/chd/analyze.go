package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"chat_dashboard/internal/ingest"
	"chat_dashboard/internal/report"
)

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print the full report envelope as JSON")
	save := fs.Bool("save", false, "Persist the source and report into the workspace")
	workspaceRoot := fs.String("workspace", "", "Workspace root (default: ~/ChatDashboard)")
	dbPath := fs.String("db", "", "Record the run in this SQLite database")
	workers := fs.Int("workers", 0, "Parallel workers for directory mode (0 = one per CPU)")
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "chd analyze: missing export file or directory")
		fs.Usage()
		os.Exit(2)
	}
	target := fs.Arg(0)

	opts := report.DefaultOptions()
	if *save {
		opts.Persist = true
	}
	if *workspaceRoot != "" {
		opts.WorkspaceRoot = *workspaceRoot
	}
	if *dbPath != "" {
		opts.DBPath = *dbPath
	}
	if *workers > 0 {
		opts.Workers = *workers
	}

	info, err := os.Stat(target)
	if err != nil {
		log.Fatalf("chd analyze: %v", err)
	}

	if !info.IsDir() {
		env, err := report.Run(target, opts)
		if err != nil {
			log.Fatalf("chd analyze: %v", err)
		}
		if *asJSON {
			printJSON(env)
			return
		}
		printSummary(env)
		return
	}

	paths, err := ingest.CollectExports(target)
	if err != nil {
		log.Fatalf("chd analyze: %v", err)
	}
	if len(paths) == 0 {
		log.Fatalf("chd analyze: no supported exports under %s", target)
	}

	envs, errs := report.RunBatch(paths, opts)
	failed := 0
	var analyzedBytes uint64
	for i, env := range envs {
		if errs[i] != nil {
			failed++
			fmt.Fprintf(os.Stderr, "chd analyze: %s: %v\n", paths[i], errs[i])
			continue
		}
		if fi, err := os.Stat(paths[i]); err == nil {
			analyzedBytes += uint64(fi.Size())
		}
		if *asJSON {
			printJSON(env)
		} else {
			printSummary(env)
			fmt.Println()
		}
	}
	fmt.Printf("Analyzed %d of %d exports (%s)\n", len(paths)-failed, len(paths), humanize.Bytes(analyzedBytes))
	if failed > 0 {
		os.Exit(1)
	}
}

func printJSON(v any) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("chd: encode JSON: %v", err)
	}
	fmt.Println(string(raw))
}

func printSummary(env *report.Envelope) {
	rep := env.Analysis

	fmt.Printf("%s  [%s]\n", env.Title, env.Platform)
	fmt.Printf("Messages:        %s\n", humanize.Comma(int64(rep.MessageCount)))
	fmt.Printf("Participants:    %d  (%s)\n", len(rep.Participants), strings.Join(rep.Participants, ", "))
	fmt.Printf("Sessions:        %s\n", humanize.Comma(int64(rep.Engagement.TotalSessions)))
	fmt.Printf("Bursts:          %d\n", len(rep.Patterns.Bursts))
	if rep.Timing.LongestSilence.DurationMs > 0 {
		fmt.Printf("Longest silence: %s\n", formatDurationMs(rep.Timing.LongestSilence.DurationMs))
	}
	if env.Language != "" {
		fmt.Printf("Language:        %s\n", env.Language)
	}

	if rep.Network != nil {
		fmt.Printf("Network:         %d nodes, %d edges, density %.2f, hub %s\n",
			len(rep.Network.Nodes), len(rep.Network.Edges), rep.Network.Density, rep.Network.MostConnected)
	} else {
		fmt.Printf("Compatibility:   %.0f\n", rep.Scores.Compatibility)
		fmt.Printf("Reciprocity:     %.0f\n", rep.Reciprocity.Overall)
	}

	fmt.Println("Per person:")
	for _, name := range rep.Participants {
		interest := rep.Scores.Interest[name]
		var ghost float64
		if gr := rep.Scores.GhostRisk[name]; gr != nil {
			ghost = gr.Score
		}
		var sent int
		if ps := rep.PerPerson[name]; ps != nil {
			sent = ps.TotalMessages
		}
		fmt.Printf("  %-24s %8s msgs   interest %3.0f   ghost risk %3.0f\n",
			name, humanize.Comma(int64(sent)), interest, ghost)
	}
	if rep.Scores.Delusion.Holder != "" {
		fmt.Printf("Delusion:        %.0f (%s)\n", rep.Scores.Delusion.Score, rep.Scores.Delusion.Holder)
	}

	if env.ProjectLocation != "" {
		fmt.Printf("Project:         %s\n", env.ProjectLocation)
	}
	if env.SavedRunID != "" {
		fmt.Printf("Run saved:       %s\n", env.SavedRunID)
	}
	fmt.Printf("Elapsed:         %dms\n", env.Stats.ElapsedMs)
}

func formatDurationMs(ms int64) string {
	const (
		hour = int64(60 * 60 * 1000)
		day  = 24 * hour
	)
	switch {
	case ms >= day:
		return fmt.Sprintf("%.1f days", float64(ms)/float64(day))
	case ms >= hour:
		return fmt.Sprintf("%.1f hours", float64(ms)/float64(hour))
	case ms >= 60_000:
		return fmt.Sprintf("%.1f minutes", float64(ms)/60000.0)
	default:
		return fmt.Sprintf("%.1f seconds", float64(ms)/1000.0)
	}
}
