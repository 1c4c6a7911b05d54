package db

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"chat_dashboard/internal/convo"
	"chat_dashboard/internal/quant"
)

// RunRecord is one row of the analysis history.
type RunRecord struct {
	RunID          string
	ConversationID string
	Title          string
	Platform       string
	StartedAt      string
	CompletedAt    string
	MessageCount   int
}

// SaveRun upserts the conversation row and records one analysis run with
// its full report JSON plus one summary row per participant. It returns
// the generated run id.
func SaveRun(dbPath string, conv *convo.Conversation, rep *quant.Report, startedAt, completedAt string) (string, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	tx, err := conn.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	convID := conversationKey(conv.Title, conv.Platform)
	participants, _ := json.Marshal(conv.ParticipantNames())
	var firstTs, lastTs int64
	if n := len(conv.Messages); n > 0 {
		firstTs = conv.Messages[0].Timestamp
		lastTs = conv.Messages[n-1].Timestamp
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO conversations(id, title, platform, is_group, language, participants, message_count, first_ts, last_ts)
		 VALUES(?,?,?,?,?,?,?,?,?)`,
		convID,
		conv.Title,
		conv.Platform,
		boolInt(conv.IsGroup),
		conv.Language,
		string(participants),
		len(conv.Messages),
		firstTs,
		lastTs,
	); err != nil {
		return "", fmt.Errorf("upsert conversation: %w", err)
	}

	reportJSON, err := json.Marshal(rep)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	runID := uuid.NewString()
	if _, err := tx.Exec(
		`INSERT INTO analysis_runs(id, conversation_id, started_at, completed_at, report) VALUES(?,?,?,?,?)`,
		runID,
		convID,
		startedAt,
		completedAt,
		string(reportJSON),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, name := range rep.Participants {
		person := rep.PerPerson[name]
		if person == nil {
			continue
		}
		var medianMs float64
		if rs := rep.Timing.PerPerson[name]; rs != nil {
			medianMs = rs.MedianMs
		}
		var ghost float64
		if gr := rep.Scores.GhostRisk[name]; gr != nil {
			ghost = gr.Score
		}
		if _, err := tx.Exec(
			`INSERT INTO person_summaries(run_id, name, messages, words, initiations, median_response_ms, interest, ghost_risk)
			 VALUES(?,?,?,?,?,?,?,?)`,
			runID,
			name,
			person.TotalMessages,
			person.TotalWords,
			rep.Timing.Initiations[name],
			medianMs,
			rep.Scores.Interest[name],
			ghost,
		); err != nil {
			return "", fmt.Errorf("insert person summary: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit tx: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent analysis runs, newest first.
func ListRuns(dbPath string, limit int) ([]RunRecord, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if limit <= 0 {
		limit = 20
	}
	rows, err := conn.Query(
		`SELECT r.id, r.conversation_id, c.title, c.platform, r.started_at, r.completed_at, c.message_count
		 FROM analysis_runs r JOIN conversations c ON c.id = r.conversation_id
		 ORDER BY r.started_at DESC, r.id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	out := make([]RunRecord, 0, limit)
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(&rec.RunID, &rec.ConversationID, &rec.Title, &rec.Platform, &rec.StartedAt, &rec.CompletedAt, &rec.MessageCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// LoadReport fetches the stored report JSON of one run.
func LoadReport(dbPath, runID string) (*quant.Report, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var raw string
	err = conn.QueryRow(`SELECT report FROM analysis_runs WHERE id = ?`, runID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	var rep quant.Report
	if err := json.Unmarshal([]byte(raw), &rep); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &rep, nil
}

func CountRows(dbPath, table string) (int, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	return countRowsConn(conn, table)
}

func countRowsConn(conn *sql.DB, table string) (int, error) {
	row := conn.QueryRow(`SELECT COUNT(*) FROM ` + table)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}

// conversationKey derives a stable short id so re-analyzing the same export
// updates one conversation row instead of growing the table.
func conversationKey(title, platform string) string {
	seed := strings.TrimSpace(strings.ToLower(title)) + "|" + strings.TrimSpace(strings.ToLower(platform))
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])[:12]
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
