// Package report orchestrates a full analysis run: parse the export, run
// the quantitative engine, and optionally persist the result to the
// workspace and the run database. The envelope it returns is what the CLI
// prints and what the workspace report stores.
package report

import "chat_dashboard/internal/quant"

// LogLine is one staged log entry collected during a run.
type LogLine struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// RunStats summarizes one run for display and persistence.
type RunStats struct {
	RunID            string `json:"runId"`
	SourceName       string `json:"sourceName"`
	Status           string `json:"status"`
	StartedAt        string `json:"startedAt"`
	CompletedAt      string `json:"completedAt"`
	MessageCount     int    `json:"messageCount"`
	ParticipantCount int    `json:"participantCount"`
	SessionCount     int    `json:"sessionCount"`
	BurstCount       int    `json:"burstCount"`
	ElapsedMs        int64  `json:"elapsedMs"`
}

// Envelope bundles the analysis payload with run metadata and logs.
type Envelope struct {
	Title           string        `json:"title"`
	Platform        string        `json:"platform"`
	IsGroup         bool          `json:"isGroup"`
	Language        string        `json:"language,omitempty"`
	SourcePath      string        `json:"sourcePath"`
	ProjectLocation string        `json:"projectLocation,omitempty"`
	SavedRunID      string        `json:"savedRunId,omitempty"`
	Logs            []LogLine     `json:"logs"`
	Stats           RunStats      `json:"runStats"`
	Analysis        *quant.Report `json:"analysis"`
}
