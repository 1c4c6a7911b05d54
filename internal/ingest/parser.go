// Package ingest turns raw chat export files into the normalized
// conversation model. It owns normalization: messages leave here sorted by
// timestamp ascending with participants resolved, so the analytics engine
// never has to re-sort or second-guess the stream.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abadojack/whatlanggo"
	jsoniter "github.com/json-iterator/go"
	"github.com/ledongthuc/pdf"

	"chat_dashboard/internal/convo"
)

var jsonFast = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseFile reads one chat export and returns the normalized conversation.
// Supported formats: WhatsApp ".txt" exports, generic ".json" exports and
// ".pdf" transcripts printed in the WhatsApp line format.
func ParseFile(path string) (*convo.Conversation, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read export: %w", err)
		}
		msgs, err := parseChatText(string(raw))
		if err != nil {
			return nil, err
		}
		return finalize(&convo.Conversation{Platform: "whatsapp", Messages: msgs}, path, false), nil
	case ".json":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read export: %w", err)
		}
		return parseJSONExport(raw, path)
	case ".pdf":
		text, err := parsePDF(path)
		if err != nil {
			return nil, err
		}
		msgs, err := parseChatText(normalizeWhitespace(text))
		if err != nil {
			return nil, err
		}
		return finalize(&convo.Conversation{Platform: "whatsapp", Messages: msgs}, path, false), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

// SupportedExt reports whether a file extension (with leading dot) is a
// chat export format this package can parse.
func SupportedExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".txt", ".json", ".pdf":
		return true
	}
	return false
}

// CollectExports walks a directory and returns every supported export file
// in sorted order.
func CollectExports(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if SupportedExt(filepath.Ext(path)) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(out)
	return out, nil
}

// finalize fills the derivable conversation fields: title, sorted message
// order, participant list, group flag and detected language.
func finalize(c *convo.Conversation, path string, groupKnown bool) *convo.Conversation {
	if strings.TrimSpace(c.Title) == "" {
		c.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	sort.SliceStable(c.Messages, func(i, j int) bool {
		return c.Messages[i].Timestamp < c.Messages[j].Timestamp
	})
	if len(c.Participants) == 0 {
		seen := make(map[string]struct{})
		for _, m := range c.Messages {
			if _, ok := seen[m.Sender]; ok {
				continue
			}
			seen[m.Sender] = struct{}{}
			c.Participants = append(c.Participants, convo.Participant{Name: m.Sender})
		}
	}
	if !groupKnown {
		c.IsGroup = len(c.Participants) > 2
	}
	c.Language = detectLanguage(c.Messages)
	return c
}

// detectLanguage runs trigram language detection over a bounded sample of
// message text. The tag is conversation metadata only; the engine's own
// lexicon stays fixed.
func detectLanguage(msgs []convo.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		if m.Content == "" {
			continue
		}
		b.WriteString(m.Content)
		b.WriteString(" ")
		if b.Len() >= 4000 {
			break
		}
	}
	sample := strings.TrimSpace(b.String())
	if sample == "" {
		return ""
	}
	info := whatlanggo.Detect(sample)
	return whatlanggo.LangToString(info.Lang)
}

// parsePDF extracts the plain text of every page. Transcript PDFs keep the
// WhatsApp line format, so the text feeds the same parser as .txt exports.
func parsePDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		content, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no extractable text found in pdf")
	}
	return b.String(), nil
}

func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.Join(strings.Fields(line), " ")
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
