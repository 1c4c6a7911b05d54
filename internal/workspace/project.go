package workspace

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Report is the persisted project report: the summary header plus the full
// analysis payload produced by the engine.
type Report struct {
	Title        string   `json:"title"`
	Platform     string   `json:"platform"`
	MessageCount int      `json:"message_count"`
	Participants []string `json:"participants"`
	Analysis     any      `json:"analysis,omitempty"`
}

type ProjectInfo struct {
	ID         string
	Root       string
	SourcePath string
	ReportPath string
}

// CreateProject sets up the per-conversation project directory, keeping a
// copy of the raw export next to the report.
func CreateProject(workspaceRoot, title string, source []byte) (*ProjectInfo, error) {
	return CreateProjectWithSource(workspaceRoot, title, "source.txt", source)
}

func CreateProjectWithSource(workspaceRoot, title, sourceFileName string, source []byte) (*ProjectInfo, error) {
	id := conversationHash(title)
	projectRoot := filepath.Join(workspaceRoot, "projects", id)
	if err := os.MkdirAll(projectRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create project dir: %w", err)
	}

	sourceFileName = sanitizeSourceName(sourceFileName)
	sourcePath := filepath.Join(projectRoot, sourceFileName)
	if len(source) > 0 {
		if err := os.WriteFile(sourcePath, source, 0o644); err != nil {
			return nil, fmt.Errorf("write source file: %w", err)
		}
	} else if _, err := os.Stat(sourcePath); os.IsNotExist(err) {
		if err := os.WriteFile(sourcePath, nil, 0o644); err != nil {
			return nil, fmt.Errorf("create empty source file: %w", err)
		}
	}

	reportPath := filepath.Join(projectRoot, "report.json")
	if _, err := os.Stat(reportPath); os.IsNotExist(err) {
		report := Report{
			Title:        strings.TrimSpace(title),
			Participants: []string{},
		}
		raw, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal report: %w", err)
		}
		if err := os.WriteFile(reportPath, raw, 0o644); err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
	}

	return &ProjectInfo{
		ID:         id,
		Root:       projectRoot,
		SourcePath: sourcePath,
		ReportPath: reportPath,
	}, nil
}

func SaveReport(path string, report Report) error {
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func conversationHash(title string) string {
	trimmed := strings.TrimSpace(strings.ToLower(title))
	sum := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(sum[:])[:12]
}

func sanitizeSourceName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "source.txt"
	}
	return strings.ReplaceAll(base, "..", "")
}
