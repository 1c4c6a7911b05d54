package report

import (
	"os"
	"strconv"
	"strings"
)

// Options controls persistence and batch parallelism for a run.
type Options struct {
	// WorkspaceRoot overrides the default per-user workspace location.
	WorkspaceRoot string
	// Persist copies the source export and report.json into the workspace.
	Persist bool
	// DBPath, when set, records the run in this SQLite database.
	DBPath string
	// Workers bounds batch parallelism; <=0 means one worker per CPU.
	Workers int
}

// DefaultOptions reads the CHD_* environment overrides.
func DefaultOptions() Options {
	return Options{
		WorkspaceRoot: strings.TrimSpace(os.Getenv("CHD_WORKSPACE")),
		Persist:       getenvBool("CHD_PERSIST", false),
		DBPath:        strings.TrimSpace(os.Getenv("CHD_DB")),
		Workers:       getenvInt("CHD_WORKERS", 0),
	}
}

func getenvInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getenvBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	return raw == "1" || raw == "true" || raw == "yes" || raw == "on"
}
