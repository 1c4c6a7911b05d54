package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"chat_dashboard/internal/db"
	"chat_dashboard/internal/ingest"
	"chat_dashboard/internal/pipeline"
	"chat_dashboard/internal/quant"
	"chat_dashboard/internal/workspace"
)

// dbMu serializes SQLite writes when batch workers share one database file.
var dbMu sync.Mutex

// Run analyzes a single export file. Parse and engine failures abort the
// run; persistence failures are recorded as RISK log lines and the envelope
// is still returned.
func Run(path string, opts Options) (*Envelope, error) {
	started := time.Now()
	stats := RunStats{
		RunID:      "run-" + started.Format("20060102-150405.000"),
		SourceName: filepath.Base(path),
		Status:     "RUNNING",
		StartedAt:  started.Format(time.RFC3339),
	}

	logs := []LogLine{}
	addLog := func(level, stage, message, detail string) {
		if os.Getenv("CHD_TRACE") == "1" {
			fmt.Printf("%s [ANALYSIS] [%s] [%s] %s | %s\n", time.Now().Format("15:04:05.000"), level, stage, message, detail)
		}
		logs = append(logs, LogLine{
			Time:    time.Now().Format("15:04:05.000"),
			Level:   level,
			Stage:   stage,
			Message: message,
			Detail:  detail,
		})
	}

	addLog("INFO", "BOOT", "Run started", fmt.Sprintf("id=%s source=%s", stats.RunID, stats.SourceName))

	conv, err := ingest.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	addLog("ANALYSIS", "INGEST", "Export parsed", fmt.Sprintf("platform=%s messages=%d participants=%d", conv.Platform, len(conv.Messages), len(conv.Participants)))

	rep, err := quant.Analyze(conv)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", path, err)
	}
	stats.MessageCount = rep.MessageCount
	stats.ParticipantCount = len(rep.Participants)
	stats.SessionCount = rep.Engagement.TotalSessions
	stats.BurstCount = len(rep.Patterns.Bursts)
	addLog("ANALYSIS", "ENGINE", "Quantitative pass completed", fmt.Sprintf("sessions=%d bursts=%d", stats.SessionCount, stats.BurstCount))

	env := &Envelope{
		Title:      conv.Title,
		Platform:   conv.Platform,
		IsGroup:    conv.IsGroup,
		Language:   conv.Language,
		SourcePath: path,
		Analysis:   rep,
	}

	if opts.Persist {
		persistWorkspace(env, conv.Title, stats.SourceName, path, rep, opts, addLog)
	}

	if opts.DBPath != "" {
		completed := time.Now().Format(time.RFC3339)
		dbMu.Lock()
		runID, saveErr := db.SaveRun(opts.DBPath, conv, rep, stats.StartedAt, completed)
		dbMu.Unlock()
		if saveErr != nil {
			addLog("RISK", "DB", "Run persistence failed", saveErr.Error())
		} else {
			env.SavedRunID = runID
			addLog("INFO", "DB", "Run recorded", runID)
		}
	}

	stats.CompletedAt = time.Now().Format(time.RFC3339)
	stats.Status = "DONE"
	stats.ElapsedMs = time.Since(started).Milliseconds()
	addLog("INFO", "BOOT", "Run completed", stats.RunID)

	env.Logs = logs
	env.Stats = stats
	return env, nil
}

func persistWorkspace(env *Envelope, title, sourceName, path string, rep *quant.Report, opts Options, addLog func(level, stage, message, detail string)) {
	root := opts.WorkspaceRoot
	var err error
	if root == "" {
		root, err = workspace.EnsureDefault()
	} else {
		root, err = workspace.EnsureAt(root)
	}
	if err != nil {
		addLog("RISK", "WORKSPACE", "Workspace initialization failed", err.Error())
		return
	}
	addLog("INFO", "WORKSPACE", "Workspace ready", root)

	source, readErr := os.ReadFile(path)
	if readErr != nil {
		addLog("RISK", "PROJECT", "Source copy failed", readErr.Error())
		source = nil
	}
	project, projectErr := workspace.CreateProjectWithSource(root, title, sourceName, source)
	if projectErr != nil {
		addLog("RISK", "PROJECT", "Project initialization failed", projectErr.Error())
		return
	}
	env.ProjectLocation = project.Root
	addLog("ANALYSIS", "PROJECT", "Project created", project.Root)

	saved := workspace.Report{
		Title:        title,
		Platform:     rep.Platform,
		MessageCount: rep.MessageCount,
		Participants: rep.Participants,
		Analysis:     rep,
	}
	if err := workspace.SaveReport(project.ReportPath, saved); err != nil {
		addLog("RISK", "REPORT", "Report persistence failed", err.Error())
	} else {
		addLog("INFO", "REPORT", "Report persisted", project.ReportPath)
	}
}

// RunBatch analyzes several exports in parallel. Results and errors are
// positional: out[i] and errs[i] correspond to paths[i].
func RunBatch(paths []string, opts Options) ([]*Envelope, []error) {
	out := make([]*Envelope, len(paths))
	errs := pipeline.AnalyzeFiles(paths, opts.Workers, func(job pipeline.Job) error {
		env, err := Run(job.Path, opts)
		if err != nil {
			return err
		}
		out[job.Index] = env
		return nil
	})
	if errs == nil {
		errs = make([]error, len(paths))
	}
	return out, errs
}
